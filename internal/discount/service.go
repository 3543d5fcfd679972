package discount

import (
	"context"
	"errors"
	"time"

	"github.com/noah-isme/backend-promo/internal/obs"
)

// Catalog supplies the non-expired rule snapshot used for one evaluation.
// The snapshot must not be mutated while the evaluation runs; Store.Active
// satisfies this by returning a copy.
type Catalog interface {
	Active(now time.Time) []Rule
}

// Service evaluates promotions against cart snapshots. Now is overridable
// for tests and defaults to time.Now.
type Service struct {
	Rules Catalog
	Now   func() time.Time
}

// Apply prices the cart against the active catalog and applies the single
// best rule. A cart no rule applies to is a successful zero-saving result,
// not an error.
func (s *Service) Apply(ctx context.Context, items []Item) (Result, error) {
	if s == nil || s.Rules == nil {
		return Result{}, errors.New("discount service not configured")
	}
	now := s.now()
	start := time.Now()
	result, err := Evaluate(items, s.Rules.Active(now), now)
	s.observe(result, err, time.Since(start))
	return result, err
}

// Applicable lists the active rules whose constraints the cart satisfies, in
// catalog order.
func (s *Service) Applicable(ctx context.Context, items []Item) ([]Rule, error) {
	if s == nil || s.Rules == nil {
		return nil, errors.New("discount service not configured")
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	for _, it := range items {
		if it.Quantity <= 0 || it.UnitPrice <= 0 {
			return nil, ErrInvalidItem
		}
	}
	now := s.now()
	return ApplicableRules(items, s.Rules.Active(now), now), nil
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) observe(result Result, err error, elapsed time.Duration) {
	outcome := "applied"
	switch {
	case err != nil:
		outcome = "rejected"
	case len(result.Applied) == 0:
		outcome = "no_discount"
	}
	if obs.EvaluationsTotal != nil {
		obs.EvaluationsTotal.WithLabelValues(outcome).Inc()
	}
	if obs.EvaluationDuration != nil {
		obs.EvaluationDuration.Observe(obs.DurationMillis(elapsed))
	}
	if obs.AppliedRulesTotal != nil && len(result.Applied) > 0 {
		obs.AppliedRulesTotal.WithLabelValues(string(result.Applied[0].Rule.Kind())).Inc()
	}
}
