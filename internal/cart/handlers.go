package cart

import (
	"encoding/json"
	"errors"
	"net/http"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-promo/internal/common"
	"github.com/noah-isme/backend-promo/internal/discount"
)

// Handler exposes the cart pricing endpoints.
type Handler struct {
	Svc      *discount.Service
	Validate *validator.Validate
}

type applyRequest struct {
	Items []itemPayload `json:"items" validate:"required,min=1,dive"`
}

type itemPayload struct {
	ProductID int64   `json:"productId" validate:"required,gt=0"`
	Quantity  float64 `json:"quantity" validate:"required,gt=0"`
	Price     float64 `json:"price" validate:"required,gt=0"`
}

type appliedView struct {
	Discount    discount.RuleView `json:"discount"`
	SavedAmount float64           `json:"savedAmount"`
}

type resultView struct {
	OriginalTotal    float64       `json:"originalTotal"`
	FinalPrice       float64       `json:"finalPrice"`
	SavedAmount      float64       `json:"savedAmount"`
	AppliedDiscounts []appliedView `json:"appliedDiscounts"`
}

// ApplyDiscounts prices the submitted cart and applies the single best rule.
func (h *Handler) ApplyDiscounts(w http.ResponseWriter, r *http.Request) {
	items, ok := h.decodeItems(w, r)
	if !ok {
		return
	}
	result, err := h.Svc.Apply(r.Context(), items)
	if err != nil {
		common.RenderError(w, asAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": viewResult(result)})
}

// ApplicableDiscounts lists the catalog rules the submitted cart qualifies
// for, without applying any of them.
func (h *Handler) ApplicableDiscounts(w http.ResponseWriter, r *http.Request) {
	items, ok := h.decodeItems(w, r)
	if !ok {
		return
	}
	rules, err := h.Svc.Applicable(r.Context(), items)
	if err != nil {
		common.RenderError(w, asAppError(err))
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": discount.ViewsOf(rules)})
}

func (h *Handler) decodeItems(w http.ResponseWriter, r *http.Request) ([]discount.Item, bool) {
	if h.Svc == nil {
		common.JSONError(w, http.StatusInternalServerError, "INTERNAL", "discount service not configured", nil)
		return nil, false
	}
	var req applyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.JSONError(w, http.StatusBadRequest, "BAD_REQUEST", "invalid payload", nil)
		return nil, false
	}
	if h.Validate != nil {
		if err := h.Validate.Struct(req); err != nil {
			common.JSONError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return nil, false
		}
	}
	items := make([]discount.Item, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, discount.Item{
			ProductID: it.ProductID,
			Quantity:  it.Quantity,
			UnitPrice: it.Price,
		})
	}
	return items, true
}

func viewResult(result discount.Result) resultView {
	applied := make([]appliedView, 0, len(result.Applied))
	for _, a := range result.Applied {
		applied = append(applied, appliedView{
			Discount:    discount.ViewOf(a.Rule),
			SavedAmount: a.SavedAmount,
		})
	}
	return resultView{
		OriginalTotal:    result.OriginalTotal,
		FinalPrice:       result.FinalPrice,
		SavedAmount:      result.SavedAmount,
		AppliedDiscounts: applied,
	}
}

// asAppError maps engine validation failures onto client errors; anything
// else passes through to be masked as a generic internal failure.
func asAppError(err error) error {
	switch {
	case errors.Is(err, discount.ErrEmptyCart),
		errors.Is(err, discount.ErrInvalidItem),
		errors.Is(err, discount.ErrInvalidRule):
		return common.NewAppError("VALIDATION", err.Error(), http.StatusBadRequest, err)
	}
	return err
}
