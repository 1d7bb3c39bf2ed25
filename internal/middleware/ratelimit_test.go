package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTokenBucketExhaustion(t *testing.T) {
	tb := NewTokenBucket(3, 1)

	require.True(t, tb.Allow())
	require.True(t, tb.Allow())
	require.True(t, tb.Allow())
	require.False(t, tb.Allow())
}

func TestRateLimiterSeparateKeys(t *testing.T) {
	rl := NewRateLimiter(1, 1)

	require.True(t, rl.Allow("site-a:1.2.3.4"))
	require.False(t, rl.Allow("site-a:1.2.3.4"))
	// key lain dapat bucket sendiri
	require.True(t, rl.Allow("site-b:1.2.3.4"))
}

func TestRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	h := RateLimitMiddleware(2, 1)(next)

	do := func(path string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, do("/v1/site-a/summary").Code)
	require.Equal(t, http.StatusOK, do("/v1/site-a/summary").Code)

	rec := do("/v1/site-a/summary")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.Equal(t, "60", rec.Header().Get("Retry-After"))

	// health dan metrics bebas rate limit
	require.Equal(t, http.StatusOK, do("/health").Code)
	require.Equal(t, http.StatusOK, do("/metrics").Code)
}
