package common

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newIdem(t *testing.T) (Idem, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return Idem{R: client, TTL: time.Minute}, mr
}

func idemHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.WriteHeader(http.StatusCreated)
	})
}

func TestIdempotencyFirstRequestPasses(t *testing.T) {
	idem, _ := newIdem(t)
	calls := 0
	h := idem.Middleware(idemHandler(&calls))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts", nil)
	req.Header.Set("Idempotency-Key", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.Equal(t, 1, calls)
}

func TestIdempotencyReplayConflicts(t *testing.T) {
	idem, _ := newIdem(t)
	calls := 0
	h := idem.Middleware(idemHandler(&calls))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts", nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if i == 0 {
			require.Equal(t, http.StatusCreated, rec.Code)
		} else {
			require.Equal(t, http.StatusConflict, rec.Code)
			require.Contains(t, rec.Body.String(), "IDEMPOTENT_REPLAY")
		}
	}
	require.Equal(t, 1, calls)
}

func TestIdempotencyScopedByPath(t *testing.T) {
	idem, _ := newIdem(t)
	calls := 0
	h := idem.Middleware(idemHandler(&calls))

	for _, path := range []string{"/api/v1/discounts", "/api/v1/discounts/1"} {
		req := httptest.NewRequest(http.MethodPost, path, nil)
		req.Header.Set("Idempotency-Key", "abc-123")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	require.Equal(t, 2, calls)
}

func TestIdempotencyWithoutKeyOrRedis(t *testing.T) {
	idem, _ := newIdem(t)
	calls := 0
	h := idem.Middleware(idemHandler(&calls))

	// no header
	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	// no redis client
	bare := Idem{TTL: time.Minute}.Middleware(idemHandler(&calls))
	req = httptest.NewRequest(http.MethodPost, "/api/v1/discounts", nil)
	req.Header.Set("Idempotency-Key", "abc-123")
	rec = httptest.NewRecorder()
	bare.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	require.Equal(t, 2, calls)
}
