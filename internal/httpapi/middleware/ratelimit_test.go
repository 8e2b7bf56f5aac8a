package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimit_AllowsThenBlocks(t *testing.T) {
	h := RateLimit(60, 2)(okHandler())
	req := httptest.NewRequest(http.MethodPost, "/api/run", nil)
	req.RemoteAddr = "1.2.3.4:1234"

	for i := 0; i < 2; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("want 200 got %d", rr.Code)
		}
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("want 429 got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Fatalf("Retry-After missing")
	}

	other := httptest.NewRequest(http.MethodPost, "/api/run", nil)
	other.RemoteAddr = "5.6.7.8:1"
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("other client should have its own bucket, got %d", rr.Code)
	}
}

func TestLimiter_RefillAndSweep(t *testing.T) {
	now := time.Unix(0, 0)
	l := newLimiter(60, 1, time.Minute)
	l.now = func() time.Time { return now }

	if ok, _ := l.take("a"); !ok {
		t.Fatalf("first take should pass")
	}
	ok, wait := l.take("a")
	if ok || wait <= 0 || wait > time.Second {
		t.Fatalf("second take ok=%v wait=%v", ok, wait)
	}
	now = now.Add(time.Second)
	if ok, _ := l.take("a"); !ok {
		t.Fatalf("token should refill after a second")
	}

	now = now.Add(2 * time.Minute)
	l.take("b")
	if _, ok := l.buckets["a"]; ok {
		t.Fatalf("idle bucket should be swept")
	}
}

func TestRateLimit_Disabled(t *testing.T) {
	h := RateLimit(0, 0)(okHandler())
	for i := 0; i < 5; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("limiter should be disabled")
		}
	}
}
