package discount

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-promo/internal/common"
	"github.com/noah-isme/backend-promo/internal/obs"
)

// Handler exposes catalog management endpoints over the in-memory store.
type Handler struct {
	Store           *Store
	Validate        *validator.Validate
	DefaultPageSize int
	Now             func() time.Time
}

type rulePayload struct {
	DiscountType        string           `json:"discountType" validate:"required,oneof=CART_WISE PRODUCT_WISE BXGY"`
	DiscountPercentage  *float64         `json:"discountPercentage" validate:"omitempty,gt=0,lte=100"`
	ProductWiseProducts []productPayload `json:"productWiseProducts" validate:"omitempty,min=1,dive"`
	BuyProducts         []productPayload `json:"buyProducts" validate:"omitempty,min=1,dive"`
	GetProducts         []productPayload `json:"getProducts" validate:"omitempty,min=1,dive"`
	Threshold           *float64         `json:"threshold" validate:"omitempty,gt=0"`
	MaximumUsages       *int32           `json:"maximumUsages"`
	EndDate             *time.Time       `json:"endDate"`
}

type productPayload struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
}

// List returns the active (non-expired) catalog page by page.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount store not configured", nil)
		return
	}
	active := h.Store.Active(h.now())
	page, perPage := common.ParsePagination(r, h.pageSize())
	total := len(active)
	start := (page - 1) * perPage
	if start > total {
		start = total
	}
	end := start + perPage
	if end > total {
		end = total
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data":       ViewsOf(active[start:end]),
		"pagination": common.Pagination{Page: page, PerPage: perPage, TotalItems: total},
	})
}

// Get returns a single rule by id, expired or not.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount store not configured", nil)
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rule, err := h.Store.Get(id)
	if err != nil {
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "discount not found", nil)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ViewOf(rule)})
}

// Create inserts a new rule. The store assigns the id; any client-supplied id
// is ignored.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount store not configured", nil)
		return
	}
	rule, ok := h.decodeRule(w, r)
	if !ok {
		return
	}
	created, err := h.Store.Create(rule)
	if err != nil {
		observeWrite("create", "rejected")
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	observeWrite("create", "ok")
	common.JSON(w, http.StatusCreated, map[string]any{"data": ViewOf(created)})
}

// Update replaces the rule with the given id.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount store not configured", nil)
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	rule, ok := h.decodeRule(w, r)
	if !ok {
		return
	}
	updated, err := h.Store.Update(id, rule)
	if err != nil {
		observeWrite("update", "rejected")
		if errors.Is(err, ErrNotFound) {
			common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "discount not found", nil)
			return
		}
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}
	observeWrite("update", "ok")
	common.JSON(w, http.StatusOK, map[string]any{"data": ViewOf(updated)})
}

// Delete removes the rule with the given id.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount store not configured", nil)
		return
	}
	id, ok := parseID(w, r)
	if !ok {
		return
	}
	if err := h.Store.Delete(id); err != nil {
		observeWrite("delete", "rejected")
		common.JSONError(w, http.StatusNotFound, "NOT_FOUND", "discount not found", nil)
		return
	}
	observeWrite("delete", "ok")
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodeRule(w http.ResponseWriter, r *http.Request) (Rule, bool) {
	var payload rulePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return nil, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(payload); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return nil, false
		}
	}
	rule, err := buildRule(payload)
	if err != nil {
		common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return nil, false
	}
	return rule, true
}

// buildRule assembles the tagged variant from the payload, rejecting fields
// that belong to a different variant.
func buildRule(payload rulePayload) (Rule, error) {
	limits := Constraint{
		Threshold: payload.Threshold,
		MaxUsages: payload.MaximumUsages,
		EndDate:   payload.EndDate,
	}
	switch Kind(strings.TrimSpace(payload.DiscountType)) {
	case KindCartWise:
		if payload.DiscountPercentage == nil {
			return nil, fmt.Errorf("%w: cart-wise rules require discountPercentage", ErrInvalidRule)
		}
		if len(payload.ProductWiseProducts) > 0 || len(payload.BuyProducts) > 0 || len(payload.GetProducts) > 0 {
			return nil, fmt.Errorf("%w: cart-wise rules must not carry product lists", ErrInvalidRule)
		}
		return CartWise{Percent: *payload.DiscountPercentage, Constraint: limits}, nil
	case KindProductWise:
		if payload.DiscountPercentage == nil {
			return nil, fmt.Errorf("%w: product-wise rules require discountPercentage", ErrInvalidRule)
		}
		if len(payload.ProductWiseProducts) == 0 {
			return nil, fmt.Errorf("%w: product-wise rules require productWiseProducts", ErrInvalidRule)
		}
		if len(payload.BuyProducts) > 0 || len(payload.GetProducts) > 0 {
			return nil, fmt.Errorf("%w: product-wise rules must not carry bxgy product lists", ErrInvalidRule)
		}
		return ProductWise{
			Percent:    *payload.DiscountPercentage,
			Targets:    toProducts(payload.ProductWiseProducts),
			Constraint: limits,
		}, nil
	case KindBXGY:
		if len(payload.BuyProducts) == 0 || len(payload.GetProducts) == 0 {
			return nil, fmt.Errorf("%w: bxgy rules require buyProducts and getProducts", ErrInvalidRule)
		}
		if payload.DiscountPercentage != nil || len(payload.ProductWiseProducts) > 0 {
			return nil, fmt.Errorf("%w: bxgy rules must not carry percentage fields", ErrInvalidRule)
		}
		return BXGY{
			Buy:        toProducts(payload.BuyProducts),
			Get:        toProducts(payload.GetProducts),
			Constraint: limits,
		}, nil
	}
	return nil, fmt.Errorf("%w: unknown discount type", ErrInvalidRule)
}

func toProducts(payloads []productPayload) []Product {
	out := make([]Product, 0, len(payloads))
	for _, p := range payloads {
		out = append(out, Product{ProductID: p.ProductID, Quantity: p.Quantity})
	}
	return out
}

func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := strings.TrimSpace(chi.URLParam(r, "id"))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid discount id", nil)
		return 0, false
	}
	return id, true
}

func (h *Handler) now() time.Time {
	if h != nil && h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func observeWrite(op, result string) {
	if obs.CatalogWritesTotal != nil {
		obs.CatalogWritesTotal.WithLabelValues(op, result).Inc()
	}
}

func (h *Handler) pageSize() int {
	if h != nil && h.DefaultPageSize > 0 {
		return h.DefaultPageSize
	}
	return 20
}
