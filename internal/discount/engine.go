package discount

import (
	"time"
)

// Applied records the winning rule together with the amount it saved.
type Applied struct {
	Rule        Rule
	SavedAmount float64
}

// Result is the price breakdown produced by Evaluate. FinalPrice is always
// within [0, OriginalTotal] and Applied holds at most one entry.
type Result struct {
	OriginalTotal float64
	FinalPrice    float64
	SavedAmount   float64
	Applied       []Applied
}

// CartTotal sums price times quantity over the cart lines. Lines with a
// missing quantity or price are skipped rather than failing the sum.
func CartTotal(items []Item) float64 {
	var total float64
	for _, it := range items {
		if it.Quantity <= 0 || it.UnitPrice <= 0 {
			continue
		}
		total += it.UnitPrice * it.Quantity
	}
	return total
}

// IsApplicable reports whether the rule may be applied to the cart at the
// given instant. Checks run in order and short-circuit on the first failure:
// expiry, usage limit, threshold, then the variant-specific requirement.
func IsApplicable(r Rule, items []Item, now time.Time) bool {
	if Expired(r, now) {
		return false
	}
	limits := r.Limits()
	if limits.MaxUsages != nil && *limits.MaxUsages <= 0 {
		return false
	}
	if limits.Threshold != nil && CartTotal(items) < *limits.Threshold {
		return false
	}
	switch rule := r.(type) {
	case CartWise:
		return true
	case ProductWise:
		return hasTargetInCart(rule.Targets, items)
	case BXGY:
		return meetsBuyRequirement(rule.Buy, items)
	}
	return false
}

// hasTargetInCart reports whether any target product appears in the cart.
// Quantities are not checked; membership alone qualifies.
func hasTargetInCart(targets []Product, items []Item) bool {
	if len(targets) == 0 {
		return false
	}
	for _, target := range targets {
		if findItem(items, target.ProductID) != nil {
			return true
		}
	}
	return false
}

// meetsBuyRequirement reports whether the cart carries every buy product at
// the required quantity or more. A single missing or short line fails the
// whole rule.
func meetsBuyRequirement(buy []Product, items []Item) bool {
	if len(buy) == 0 {
		return false
	}
	for _, required := range buy {
		line := findItem(items, required.ProductID)
		if line == nil || line.Quantity < required.Quantity {
			return false
		}
	}
	return true
}

// Benefit computes the monetary amount the rule would save if applied. It
// assumes the rule already passed IsApplicable and never returns a negative
// value; malformed variants contribute zero rather than failing.
func Benefit(r Rule, items []Item, cartTotal float64) float64 {
	switch rule := r.(type) {
	case CartWise:
		return cartWideBenefit(rule, cartTotal)
	case ProductWise:
		return productWiseBenefit(rule, items)
	case BXGY:
		return bxgyBenefit(rule, items)
	}
	return 0
}

func cartWideBenefit(rule CartWise, cartTotal float64) float64 {
	if rule.Percent <= 0 {
		return 0
	}
	return cartTotal * (rule.Percent / 100)
}

func productWiseBenefit(rule ProductWise, items []Item) float64 {
	if rule.Percent <= 0 || len(rule.Targets) == 0 {
		return 0
	}
	var total float64
	for _, target := range rule.Targets {
		line := findItem(items, target.ProductID)
		if line == nil {
			continue
		}
		total += line.UnitPrice * line.Quantity * (rule.Percent / 100)
	}
	return total
}

func bxgyBenefit(rule BXGY, items []Item) float64 {
	if len(rule.Get) == 0 {
		return 0
	}
	var total float64
	for _, free := range rule.Get {
		line := findItem(items, free.ProductID)
		if line == nil {
			continue
		}
		freeQty := free.Quantity
		if line.Quantity < freeQty {
			freeQty = line.Quantity
		}
		total += line.UnitPrice * freeQty
	}
	return total
}

func findItem(items []Item, productID int64) *Item {
	for i := range items {
		if items[i].ProductID == productID {
			return &items[i]
		}
	}
	return nil
}

// ApplicableRules filters the catalog to rules eligible for the cart,
// preserving catalog order.
func ApplicableRules(items []Item, catalog []Rule, now time.Time) []Rule {
	out := make([]Rule, 0, len(catalog))
	for _, r := range catalog {
		if IsApplicable(r, items, now) {
			out = append(out, r)
		}
	}
	return out
}

// Evaluate prices the cart against the catalog and applies the single best
// rule. A rule wins only with a strictly greater benefit, so ties keep the
// earlier catalog entry and a catalog without a positive benefit leaves the
// cart unchanged. The function is pure: neither the cart nor the catalog is
// mutated, and identical inputs always produce identical results.
func Evaluate(items []Item, catalog []Rule, now time.Time) (Result, error) {
	if len(items) == 0 {
		return Result{}, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity <= 0 || it.UnitPrice <= 0 {
			return Result{}, ErrInvalidItem
		}
	}

	total := CartTotal(items)

	var best Rule
	var bestBenefit float64
	for _, r := range catalog {
		if !IsApplicable(r, items, now) {
			continue
		}
		if benefit := Benefit(r, items, total); benefit > bestBenefit {
			best = r
			bestBenefit = benefit
		}
	}

	result := Result{
		OriginalTotal: total,
		FinalPrice:    total,
		Applied:       []Applied{},
	}
	if best == nil {
		return result, nil
	}

	final := total - bestBenefit
	if final < 0 {
		final = 0
	}
	result.FinalPrice = final
	result.SavedAmount = total - final
	result.Applied = []Applied{{Rule: best, SavedAmount: result.SavedAmount}}
	return result, nil
}
