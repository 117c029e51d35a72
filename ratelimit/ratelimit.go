// Package ratelimit implements a fixed-window request limiter keyed by
// (client address, route path). Buckets live in process memory only; in a
// multi-instance deployment each instance enforces its own window, so the
// configured rate is a best-effort per-instance approximation, not a global
// guarantee.
package ratelimit

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/user/portfolio-api/apperror"
	"github.com/user/portfolio-api/respond"
)

type bucket struct {
	count   int
	resetAt time.Time
}

// Limiter counts requests in discrete, non-overlapping windows per key. A
// window that has elapsed resets unconditionally on the next hit; bursts
// straddling a window boundary can reach up to twice the nominal rate, which
// is accepted fixed-window behavior.
type Limiter struct {
	window time.Duration
	max    int

	mu      sync.Mutex
	buckets map[string]*bucket

	stopOnce sync.Once
	stopCh   chan struct{}
}

// New creates a Limiter allowing max requests per key per window and starts
// a background sweep of stale buckets.
func New(window time.Duration, max int) *Limiter {
	l := &Limiter{
		window:  window,
		max:     max,
		buckets: make(map[string]*bucket),
		stopCh:  make(chan struct{}),
	}
	go l.cleanupLoop()
	return l
}

// Allow records a hit for key and reports whether it is within the window's
// budget. The second return value is the seconds until the window resets,
// rounded up, for the Retry-After hint.
func (l *Limiter) Allow(key string) (bool, int) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	b, exists := l.buckets[key]
	if !exists || !b.resetAt.After(now) {
		l.buckets[key] = &bucket{count: 1, resetAt: now.Add(l.window)}
		return true, 0
	}

	if b.count >= l.max {
		retryAfter := int(math.Ceil(b.resetAt.Sub(now).Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	b.count++
	return true, 0
}

// Middleware gates requests through the limiter, rejecting over-budget hits
// with 429 and a Retry-After header.
func (l *Limiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, retryAfter := l.Allow(clientIP(r) + ":" + r.URL.Path)
			if !allowed {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				respond.Error(w, r, apperror.NewTooManyRequestsError("Too many requests. Please try again later."))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Reset drops all buckets. Tests use it to isolate windows.
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.buckets = make(map[string]*bucket)
}

// Stop terminates the background cleanup goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stopCh) })
}

func (l *Limiter) cleanupLoop() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.stopCh:
			return
		}
	}
}

func (l *Limiter) cleanup() {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	for key, b := range l.buckets {
		if !b.resetAt.After(now) {
			delete(l.buckets, key)
		}
	}
}

func clientIP(r *http.Request) string {
	// RealIP middleware rewrites RemoteAddr when forwarding headers are
	// trusted, so the port-stripped RemoteAddr is the client address.
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
