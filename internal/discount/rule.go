package discount

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrEmptyCart is returned when an evaluation is requested for a cart with no items.
	ErrEmptyCart = errors.New("cart must contain at least one item")
	// ErrInvalidItem is returned when a cart line carries a non-positive quantity or price.
	ErrInvalidItem = errors.New("cart items must have a positive quantity and price")
	// ErrInvalidRule indicates a rule whose fields violate its variant's shape.
	ErrInvalidRule = errors.New("invalid discount rule")
	// ErrNotFound is returned when the catalog holds no rule with the requested id.
	ErrNotFound = errors.New("discount not found")
)

// Kind discriminates the promotion variants.
type Kind string

const (
	KindCartWise    Kind = "CART_WISE"
	KindProductWise Kind = "PRODUCT_WISE"
	KindBXGY        Kind = "BXGY"
)

// Item is one cart line supplied for an evaluation. It is a read-only
// snapshot; the engine never mutates it.
type Item struct {
	ProductID int64
	Quantity  float64
	UnitPrice float64
}

// Product pairs a product with a quantity inside a rule definition.
type Product struct {
	ProductID int64
	Quantity  float64
}

// Constraint carries the eligibility limits shared by every rule variant.
// All fields are optional; a nil field places no restriction.
type Constraint struct {
	Threshold *float64
	MaxUsages *int32
	EndDate   *time.Time
}

// Rule is the closed set of promotion variants. The unexported withID method
// seals the interface so type switches over CartWise, ProductWise and BXGY
// stay exhaustive.
type Rule interface {
	ID() int64
	Kind() Kind
	Limits() Constraint
	Validate() error
	withID(int64) Rule
}

// CartWise applies a percentage to the whole cart subtotal.
type CartWise struct {
	RuleID  int64
	Percent float64
	Constraint
}

func (r CartWise) ID() int64            { return r.RuleID }
func (r CartWise) Kind() Kind           { return KindCartWise }
func (r CartWise) Limits() Constraint   { return r.Constraint }
func (r CartWise) withID(id int64) Rule { r.RuleID = id; return r }

// Validate checks the variant's shape.
func (r CartWise) Validate() error {
	if r.Percent <= 0 || r.Percent > 100 {
		return fmt.Errorf("%w: discount percentage must be in (0, 100]", ErrInvalidRule)
	}
	return r.Constraint.validate()
}

// ProductWise applies a percentage to the cart lines matching its target products.
type ProductWise struct {
	RuleID  int64
	Percent float64
	Targets []Product
	Constraint
}

func (r ProductWise) ID() int64            { return r.RuleID }
func (r ProductWise) Kind() Kind           { return KindProductWise }
func (r ProductWise) Limits() Constraint   { return r.Constraint }
func (r ProductWise) withID(id int64) Rule { r.RuleID = id; return r }

// Validate checks the variant's shape.
func (r ProductWise) Validate() error {
	if r.Percent <= 0 || r.Percent > 100 {
		return fmt.Errorf("%w: discount percentage must be in (0, 100]", ErrInvalidRule)
	}
	if len(r.Targets) == 0 {
		return fmt.Errorf("%w: product-wise rules need at least one target product", ErrInvalidRule)
	}
	if err := validateProducts(r.Targets); err != nil {
		return err
	}
	return r.Constraint.validate()
}

// BXGY grants free units of the get products once every buy requirement is met.
type BXGY struct {
	RuleID int64
	Buy    []Product
	Get    []Product
	Constraint
}

func (r BXGY) ID() int64            { return r.RuleID }
func (r BXGY) Kind() Kind           { return KindBXGY }
func (r BXGY) Limits() Constraint   { return r.Constraint }
func (r BXGY) withID(id int64) Rule { r.RuleID = id; return r }

// Validate checks the variant's shape.
func (r BXGY) Validate() error {
	if len(r.Buy) == 0 {
		return fmt.Errorf("%w: bxgy rules need at least one buy product", ErrInvalidRule)
	}
	if len(r.Get) == 0 {
		return fmt.Errorf("%w: bxgy rules need at least one get product", ErrInvalidRule)
	}
	if err := validateProducts(r.Buy); err != nil {
		return err
	}
	if err := validateProducts(r.Get); err != nil {
		return err
	}
	return r.Constraint.validate()
}

func (c Constraint) validate() error {
	if c.Threshold != nil && *c.Threshold <= 0 {
		return fmt.Errorf("%w: threshold must be positive", ErrInvalidRule)
	}
	return nil
}

func validateProducts(products []Product) error {
	for _, p := range products {
		if p.ProductID <= 0 {
			return fmt.Errorf("%w: product id must be a positive integer", ErrInvalidRule)
		}
		if p.Quantity <= 0 {
			return fmt.Errorf("%w: product quantity must be positive", ErrInvalidRule)
		}
	}
	return nil
}

// Expired reports whether the rule's end date lies strictly before now.
// Rules without an end date never expire.
func Expired(r Rule, now time.Time) bool {
	end := r.Limits().EndDate
	return end != nil && now.After(*end)
}
