package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap/zaptest"
)

type fakeRateLimitStore struct {
	attempts map[string][]time.Time
	failure  error
}

func newFakeRateLimitStore() *fakeRateLimitStore {
	return &fakeRateLimitStore{attempts: make(map[string][]time.Time)}
}

func (f *fakeRateLimitStore) TrimWindow(_ context.Context, identifier string, window time.Duration, reference time.Time) error {
	if f.failure != nil {
		return f.failure
	}
	threshold := reference.Add(-window)
	kept := f.attempts[identifier][:0]
	for _, at := range f.attempts[identifier] {
		if at.After(threshold) {
			kept = append(kept, at)
		}
	}
	f.attempts[identifier] = kept
	return nil
}

func (f *fakeRateLimitStore) CountAttempts(_ context.Context, identifier string, window time.Duration, reference time.Time) (int, error) {
	if f.failure != nil {
		return 0, f.failure
	}
	count := 0
	for _, at := range f.attempts[identifier] {
		if at.After(reference.Add(-window)) && !at.After(reference) {
			count++
		}
	}
	return count, nil
}

func (f *fakeRateLimitStore) RecordAttempt(_ context.Context, identifier string, at time.Time) error {
	if f.failure != nil {
		return f.failure
	}
	f.attempts[identifier] = append(f.attempts[identifier], at)
	return nil
}

func (f *fakeRateLimitStore) OldestAttempt(_ context.Context, identifier string, window time.Duration, reference time.Time) (time.Time, bool, error) {
	if f.failure != nil {
		return time.Time{}, false, f.failure
	}
	var oldest time.Time
	found := false
	for _, at := range f.attempts[identifier] {
		if at.After(reference.Add(-window)) && (!found || at.Before(oldest)) {
			oldest = at
			found = true
		}
	}
	return oldest, found, nil
}

func newRateLimitRouter(t *testing.T, store RateLimitStore, clock func() time.Time, rule RateLimitRule) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(store, zaptest.NewLogger(t)).WithClock(clock)

	router := gin.New()
	router.POST("/login", limiter.RateLimit(rule), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func postLogin(router *gin.Engine) *httptest.ResponseRecorder {
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest(http.MethodPost, "/login", nil)
	request.RemoteAddr = "10.0.0.1:51234"
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestRateLimit_AllowsUnderLimit(t *testing.T) {
	store := newFakeRateLimitStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	router := newRateLimitRouter(t, store, func() time.Time { return now }, RateLimitRule{
		Name:   "login",
		Limit:  5,
		Window: 15 * time.Minute,
	})

	for i := 0; i < 5; i++ {
		recorder := postLogin(router)
		if recorder.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected 200, got %d", i+1, recorder.Code)
		}
	}

	recorder := postLogin(router)
	if recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 past the limit, got %d", recorder.Code)
	}
	if recorder.Header().Get("Retry-After") == "" {
		t.Fatalf("expected Retry-After header on throttled response")
	}
}

func TestRateLimit_WindowRecovers(t *testing.T) {
	store := newFakeRateLimitStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := now
	router := newRateLimitRouter(t, store, func() time.Time { return clock }, RateLimitRule{
		Name:   "login",
		Limit:  2,
		Window: 15 * time.Minute,
	})

	for i := 0; i < 2; i++ {
		if recorder := postLogin(router); recorder.Code != http.StatusOK {
			t.Fatalf("warmup attempt %d failed with %d", i+1, recorder.Code)
		}
	}
	if recorder := postLogin(router); recorder.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 at the limit, got %d", recorder.Code)
	}

	clock = now.Add(16 * time.Minute)
	if recorder := postLogin(router); recorder.Code != http.StatusOK {
		t.Fatalf("expected window to slide open, got %d", recorder.Code)
	}
}

func TestRateLimit_SetsRemainingHeaders(t *testing.T) {
	store := newFakeRateLimitStore()
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	router := newRateLimitRouter(t, store, func() time.Time { return now }, RateLimitRule{
		Name:   "login",
		Limit:  5,
		Window: 15 * time.Minute,
	})

	recorder := postLogin(router)
	if recorder.Header().Get("X-RateLimit-Limit") != "5" {
		t.Fatalf("expected limit header 5, got %q", recorder.Header().Get("X-RateLimit-Limit"))
	}
	if recorder.Header().Get("X-RateLimit-Remaining") != "4" {
		t.Fatalf("expected remaining header 4, got %q", recorder.Header().Get("X-RateLimit-Remaining"))
	}
}

func TestRateLimit_StoreFailureFailsOpen(t *testing.T) {
	store := newFakeRateLimitStore()
	store.failure = errors.New("connection refused")
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	router := newRateLimitRouter(t, store, func() time.Time { return now }, RateLimitRule{
		Name:   "login",
		Limit:  1,
		Window: 15 * time.Minute,
	})

	if recorder := postLogin(router); recorder.Code != http.StatusOK {
		t.Fatalf("expected store outage to fail open, got %d", recorder.Code)
	}
}

func TestRateLimit_DisabledRulePasses(t *testing.T) {
	store := newFakeRateLimitStore()
	router := newRateLimitRouter(t, store, time.Now, RateLimitRule{Name: "login"})

	for i := 0; i < 10; i++ {
		if recorder := postLogin(router); recorder.Code != http.StatusOK {
			t.Fatalf("expected zero-limit rule to pass through, got %d", recorder.Code)
		}
	}
}
