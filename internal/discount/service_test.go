package discount

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubCatalog struct {
	rules []Rule
}

func (s stubCatalog) Active(time.Time) []Rule { return s.rules }

func TestServiceApply(t *testing.T) {
	svc := &Service{
		Rules: stubCatalog{rules: []Rule{CartWise{RuleID: 1, Percent: 10}}},
		Now:   func() time.Time { return testNow },
	}

	result, err := svc.Apply(context.Background(), []Item{{ProductID: 1, Quantity: 1, UnitPrice: 100}})
	if err != nil {
		t.Fatalf("apply: %v", err)
	}
	if result.FinalPrice != 90 || result.SavedAmount != 10 {
		t.Fatalf("expected final 90 saved 10, got %+v", result)
	}
}

func TestServiceApplyPropagatesCartErrors(t *testing.T) {
	svc := &Service{Rules: stubCatalog{}, Now: func() time.Time { return testNow }}

	if _, err := svc.Apply(context.Background(), nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
}

func TestServiceApplicable(t *testing.T) {
	threshold := 500.0
	svc := &Service{
		Rules: stubCatalog{rules: []Rule{
			CartWise{RuleID: 1, Percent: 10},
			CartWise{RuleID: 2, Percent: 20, Constraint: Constraint{Threshold: &threshold}},
		}},
		Now: func() time.Time { return testNow },
	}

	rules, err := svc.Applicable(context.Background(), []Item{{ProductID: 1, Quantity: 1, UnitPrice: 100}})
	if err != nil {
		t.Fatalf("applicable: %v", err)
	}
	if len(rules) != 1 || rules[0].ID() != 1 {
		t.Fatalf("expected only rule 1, got %+v", rules)
	}
}

func TestServiceApplicableValidatesCart(t *testing.T) {
	svc := &Service{Rules: stubCatalog{}, Now: func() time.Time { return testNow }}

	if _, err := svc.Applicable(context.Background(), nil); !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got %v", err)
	}
	bad := []Item{{ProductID: 1, Quantity: -1, UnitPrice: 5}}
	if _, err := svc.Applicable(context.Background(), bad); !errors.Is(err, ErrInvalidItem) {
		t.Fatalf("expected ErrInvalidItem, got %v", err)
	}
}

func TestServiceNotConfigured(t *testing.T) {
	var svc *Service
	if _, err := svc.Apply(context.Background(), []Item{{ProductID: 1, Quantity: 1, UnitPrice: 1}}); err == nil {
		t.Fatal("expected error from nil service")
	}

	svc = &Service{}
	if _, err := svc.Applicable(context.Background(), []Item{{ProductID: 1, Quantity: 1, UnitPrice: 1}}); err == nil {
		t.Fatal("expected error without a catalog")
	}
}
