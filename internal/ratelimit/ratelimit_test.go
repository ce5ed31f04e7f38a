package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter(t *testing.T) {
	// The limiter starts with 2 tokens in the bucket
	limiter := NewLimiter(10, 2) // 10 requests per second, burst of 2

	if !limiter.Allow("test-key") {
		t.Error("First request should be allowed")
	}
	if !limiter.Allow("test-key") {
		t.Error("Second request should be allowed")
	}
	if limiter.Allow("test-key") {
		t.Error("Third request should be rate limited")
	}

	// Other keys have their own bucket
	if !limiter.Allow("other-key") {
		t.Error("Request for another key should be allowed")
	}

	// Wait for token refill (10 req/s = 100ms per token)
	time.Sleep(150 * time.Millisecond)

	if !limiter.Allow("test-key") {
		t.Error("Request after waiting should be allowed")
	}
}

func TestMiddleware(t *testing.T) {
	limiter := NewLimiter(1, 1)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	wrappedHandler := limiter.Middleware(IPKeyFunc)(handler)

	req1 := httptest.NewRequest("POST", "/wrap", nil)
	rr1 := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(rr1, req1)
	if rr1.Code != http.StatusOK {
		t.Errorf("First request should succeed, got status %d", rr1.Code)
	}

	req2 := httptest.NewRequest("POST", "/wrap", nil)
	rr2 := httptest.NewRecorder()
	wrappedHandler.ServeHTTP(rr2, req2)
	if rr2.Code != http.StatusTooManyRequests {
		t.Errorf("Second request should be rate limited, got status %d", rr2.Code)
	}
	if got := rr2.Header().Get("Retry-After"); got != "1" {
		t.Errorf("Retry-After = %q, expected 1", got)
	}
}

func TestCleanupEvictsIdleClients(t *testing.T) {
	now := time.Unix(1700000000, 0)
	limiter := NewLimiter(10, 2)
	limiter.now = func() time.Time { return now }

	limiter.Allow("idle")
	now = now.Add(time.Minute)
	limiter.Allow("active")

	if removed := limiter.Cleanup(30 * time.Second); removed != 1 {
		t.Errorf("Cleanup removed %d clients, expected 1", removed)
	}
	if limiter.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", limiter.Len())
	}
}

func TestRunStopsWithContext(t *testing.T) {
	limiter := NewLimiter(10, 2)
	limiter.Allow("key")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		limiter.Run(ctx, time.Millisecond, 0)
		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	if limiter.Len() != 0 {
		t.Errorf("Len() = %d, expected idle client to be evicted", limiter.Len())
	}
}

func TestIPKeyFunc(t *testing.T) {
	tests := []struct {
		remoteAddr string
		xff        string
		expected   string
		desc       string
	}{
		{"192.0.2.1:1234", "", "192.0.2.1", "remote address"},
		{"192.0.2.1:1234", "203.0.113.5, 10.0.0.1", "192.0.2.1", "forwarded for ignored"},
		{"[::1]:8080", "", "::1", "IPv6"},
		{"garbage", "", "garbage", "unparseable"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := IPKeyFunc(req); got != tt.expected {
				t.Errorf("IPKeyFunc() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestParseTrustedProxies(t *testing.T) {
	prefixes, err := ParseTrustedProxies([]string{"10.0.0.0/8", " 192.0.2.7 ", "::1"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies() error = %v", err)
	}
	expected := []string{"10.0.0.0/8", "192.0.2.7/32", "::1/128"}
	for i, p := range prefixes {
		if p.String() != expected[i] {
			t.Errorf("prefix %d = %s, expected %s", i, p, expected[i])
		}
	}

	for _, bad := range []string{"proxy.local", "10.0.0.0/33", ""} {
		if _, err := ParseTrustedProxies([]string{bad}); err == nil {
			t.Errorf("ParseTrustedProxies(%q) expected error", bad)
		}
	}
}

func TestProxyKeyFunc(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8"})
	if err != nil {
		t.Fatalf("ParseTrustedProxies() error = %v", err)
	}
	keyFunc := ProxyKeyFunc(trusted)

	tests := []struct {
		remoteAddr string
		xff        []string
		expected   string
		desc       string
	}{
		{"192.0.2.1:1234", []string{"203.0.113.5"}, "192.0.2.1", "untrusted peer"},
		{"10.0.0.2:1234", []string{"203.0.113.5"}, "203.0.113.5", "trusted proxy"},
		{"10.0.0.2:1234", []string{"198.51.100.9, 203.0.113.5"}, "203.0.113.5", "spoofed leading hop"},
		{"10.0.0.2:1234", []string{"203.0.113.5, 10.0.0.3"}, "203.0.113.5", "proxy chain"},
		{"10.0.0.2:1234", []string{"198.51.100.9", "203.0.113.5"}, "203.0.113.5", "repeated header"},
		{"10.0.0.2:1234", nil, "10.0.0.2", "no header"},
		{"10.0.0.2:1234", []string{"10.0.0.3"}, "10.0.0.2", "only proxies"},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, h := range tt.xff {
				req.Header.Add("X-Forwarded-For", h)
			}
			if got := keyFunc(req); got != tt.expected {
				t.Errorf("keyFunc() = %q, expected %q", got, tt.expected)
			}
		})
	}
}

func TestMiddlewareIgnoresSpoofedForwardedFor(t *testing.T) {
	limiter := NewLimiter(1, 1)
	handler := limiter.Middleware(IPKeyFunc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	allowed := 0
	for i := 0; i < 100; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("198.51.100.%d", i))
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusOK {
			allowed++
		}
	}

	if allowed != 1 {
		t.Errorf("allowed %d requests, expected 1", allowed)
	}
	if limiter.Len() != 1 {
		t.Errorf("Len() = %d, expected 1 tracked client", limiter.Len())
	}
}
