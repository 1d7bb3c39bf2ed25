package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAPIKeyAuth(t *testing.T) {
	keys := map[string]string{"site-a": "secret-key-a"}

	var gotTenant string
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTenant = GetTenantFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	h := APIKeyAuth(keys)(next)

	do := func(path, auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	// tanpa header → 401
	require.Equal(t, http.StatusUnauthorized, do("/v1/site-a/summary", "").Code)

	// key salah → 401
	require.Equal(t, http.StatusUnauthorized, do("/v1/site-a/summary", "Bearer wrong").Code)

	// key benar → tenant masuk context
	require.Equal(t, http.StatusOK, do("/v1/site-a/summary", "Bearer secret-key-a").Code)
	require.Equal(t, "site-a", gotTenant)

	// format tanpa Bearer juga diterima
	require.Equal(t, http.StatusOK, do("/v1/site-a/summary", "secret-key-a").Code)

	// health skip auth
	require.Equal(t, http.StatusOK, do("/health", "").Code)
}

func TestRequireValidTenant(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := APIKeyAuth(map[string]string{"bad tenant!": "k1"})(RequireValidTenant(next))

	req := httptest.NewRequest(http.MethodGet, "/v1/x/summary", nil)
	req.Header.Set("Authorization", "Bearer k1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
