package discount

import "time"

// ProductView is the wire shape of a product/quantity pair.
type ProductView struct {
	ProductID int64   `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

// RuleView is the wire shape of a catalog rule. Variant-specific fields are
// omitted when they do not belong to the rule's kind.
type RuleView struct {
	ID                  int64         `json:"id"`
	DiscountType        Kind          `json:"discountType"`
	DiscountPercentage  *float64      `json:"discountPercentage,omitempty"`
	ProductWiseProducts []ProductView `json:"productWiseProducts,omitempty"`
	BuyProducts         []ProductView `json:"buyProducts,omitempty"`
	GetProducts         []ProductView `json:"getProducts,omitempty"`
	Threshold           *float64      `json:"threshold,omitempty"`
	MaximumUsages       *int32        `json:"maximumUsages,omitempty"`
	EndDate             *time.Time    `json:"endDate,omitempty"`
}

// ViewOf renders a rule into its wire shape.
func ViewOf(r Rule) RuleView {
	view := RuleView{ID: r.ID(), DiscountType: r.Kind()}
	limits := r.Limits()
	view.Threshold = limits.Threshold
	view.MaximumUsages = limits.MaxUsages
	view.EndDate = limits.EndDate
	switch rule := r.(type) {
	case CartWise:
		percent := rule.Percent
		view.DiscountPercentage = &percent
	case ProductWise:
		percent := rule.Percent
		view.DiscountPercentage = &percent
		view.ProductWiseProducts = viewProducts(rule.Targets)
	case BXGY:
		view.BuyProducts = viewProducts(rule.Buy)
		view.GetProducts = viewProducts(rule.Get)
	}
	return view
}

// ViewsOf renders a catalog slice, never returning nil so empty lists encode
// as [] rather than null.
func ViewsOf(rules []Rule) []RuleView {
	out := make([]RuleView, 0, len(rules))
	for _, r := range rules {
		out = append(out, ViewOf(r))
	}
	return out
}

func viewProducts(products []Product) []ProductView {
	out := make([]ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, ProductView{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return out
}
