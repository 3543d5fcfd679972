package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRenderErrorUsesAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderError(rec, NewAppError("VALIDATION", "cart must contain at least one item", http.StatusBadRequest, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.JSONEq(t,
		`{"error":{"code":"VALIDATION","message":"cart must contain at least one item"}}`,
		rec.Body.String())
}

func TestRenderErrorUnwrapsNestedAppError(t *testing.T) {
	inner := NewAppError("NOT_FOUND", "discount not found", http.StatusNotFound, nil)
	wrapped := errors.Join(errors.New("context"), inner)

	rec := httptest.NewRecorder()
	RenderError(rec, wrapped)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestRenderErrorMasksUnknownErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RenderError(rec, errors.New("pipeline exploded at stage 3"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "stage 3")
	require.JSONEq(t,
		`{"error":{"code":"INTERNAL","message":"internal server error"}}`,
		rec.Body.String())
}

func TestParsePagination(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/discounts?page=3&limit=5", nil)
	page, perPage := ParsePagination(req, 20)
	require.Equal(t, 3, page)
	require.Equal(t, 5, perPage)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/discounts?page=-1&limit=abc", nil)
	page, perPage = ParsePagination(req, 20)
	require.Equal(t, 1, page)
	require.Equal(t, 20, perPage)
}
