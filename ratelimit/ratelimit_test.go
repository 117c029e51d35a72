package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowWithinBudget(t *testing.T) {
	l := New(time.Minute, 3)
	defer l.Stop()

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("1.2.3.4:/auth/login")
		assert.True(t, allowed, "request %d should be allowed", i+1)
	}

	allowed, retryAfter := l.Allow("1.2.3.4:/auth/login")
	assert.False(t, allowed)
	assert.GreaterOrEqual(t, retryAfter, 1)
	assert.LessOrEqual(t, retryAfter, 60)
}

func TestAllowKeysAreIndependent(t *testing.T) {
	l := New(time.Minute, 1)
	defer l.Stop()

	allowed, _ := l.Allow("1.2.3.4:/auth/login")
	assert.True(t, allowed)

	// A different path and a different address each get their own window.
	allowed, _ = l.Allow("1.2.3.4:/auth/signup")
	assert.True(t, allowed)
	allowed, _ = l.Allow("5.6.7.8:/auth/login")
	assert.True(t, allowed)

	allowed, _ = l.Allow("1.2.3.4:/auth/login")
	assert.False(t, allowed)
}

func TestWindowResets(t *testing.T) {
	l := New(30*time.Millisecond, 1)
	defer l.Stop()

	allowed, _ := l.Allow("k")
	assert.True(t, allowed)
	allowed, _ = l.Allow("k")
	assert.False(t, allowed)

	time.Sleep(40 * time.Millisecond)

	// The elapsed window starts over with count 1.
	allowed, _ = l.Allow("k")
	assert.True(t, allowed)
	allowed, _ = l.Allow("k")
	assert.False(t, allowed)
}

func TestReset(t *testing.T) {
	l := New(time.Minute, 1)
	defer l.Stop()

	l.Allow("k")
	allowed, _ := l.Allow("k")
	assert.False(t, allowed)

	l.Reset()
	allowed, _ = l.Allow("k")
	assert.True(t, allowed)
}

func TestMiddleware(t *testing.T) {
	l := New(time.Minute, 2)
	defer l.Stop()

	handler := l.Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "9.9.9.9:12345"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rec := do()
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "Too many requests")
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
