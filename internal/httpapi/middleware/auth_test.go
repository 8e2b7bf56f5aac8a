package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestRequireKey(t *testing.T) {
	h := RequireKey(Keys{"k1", "k2"})(okHandler())

	cases := []struct {
		name   string
		header string
		value  string
		want   int
	}{
		{"no key", "", "", http.StatusUnauthorized},
		{"wrong key", "X-API-Key", "nope", http.StatusUnauthorized},
		{"x-api-key", "X-API-Key", "k2", http.StatusOK},
		{"bearer", "Authorization", "Bearer k1", http.StatusOK},
		{"bearer lower", "Authorization", "bearer k1", http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/api/run", nil)
		if c.header != "" {
			req.Header.Set(c.header, c.value)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != c.want {
			t.Fatalf("%s: want %d got %d", c.name, c.want, rr.Code)
		}
	}
}

func TestRequireKey_NoKeysAllowsAll(t *testing.T) {
	rr := httptest.NewRecorder()
	RequireKey(nil)(okHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("want 200 got %d", rr.Code)
	}
}
