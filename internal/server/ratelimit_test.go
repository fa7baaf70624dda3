package server

import (
	"net/http/httptest"
	"testing"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter(60, 3, nil)
	defer limiter.Close()

	// The burst capacity is consumed immediately
	for i := range 3 {
		if !limiter.Allow("ip:10.0.0.1") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if limiter.Allow("ip:10.0.0.1") {
		t.Error("request beyond burst capacity should be denied")
	}

	// A different key gets its own bucket
	if !limiter.Allow("ip:10.0.0.2") {
		t.Error("request for a fresh key should be allowed")
	}
}

func TestRateLimiterGetStats(t *testing.T) {
	limiter := NewRateLimiter(120, 5, nil)
	defer limiter.Close()

	limiter.Allow("ip:10.0.0.1")
	limiter.Allow("ip:10.0.0.2")

	stats := limiter.GetStats()
	if stats["active_limiters"] != 2 {
		t.Errorf("expected 2 active limiters, got %v", stats["active_limiters"])
	}
	if stats["rate_per_minute"] != 120.0 {
		t.Errorf("expected rate_per_minute 120, got %v", stats["rate_per_minute"])
	}
	if stats["burst_capacity"] != 5 {
		t.Errorf("expected burst_capacity 5, got %v", stats["burst_capacity"])
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	limiter := NewRateLimiter(60, 10, nil)
	defer limiter.Close()

	limiter.Allow("ip:10.0.0.1")
	limiter.Allow("ip:10.0.0.2")

	// An eviction age of zero removes every idle limiter
	limiter.cleanup(0)

	stats := limiter.GetStats()
	if stats["active_limiters"] != 0 {
		t.Errorf("expected all limiters evicted, got %v", stats["active_limiters"])
	}
}

func TestGetRateLimitKey(t *testing.T) {
	tests := []struct {
		name     string
		apiKey   string
		remote   string
		byAPIKey bool
		byIP     bool
		want     string
	}{
		{
			name:     "api key preferred",
			apiKey:   "test-key",
			remote:   "192.168.1.1:1234",
			byAPIKey: true,
			byIP:     true,
			want:     "api:test-key",
		},
		{
			name:   "falls back to ip",
			remote: "192.168.1.1:1234",
			byIP:   true,
			want:   "ip:192.168.1.1",
		},
		{
			name:     "api key disabled uses ip",
			apiKey:   "test-key",
			remote:   "192.168.1.1:1234",
			byAPIKey: false,
			byIP:     true,
			want:     "ip:192.168.1.1",
		},
		{
			name:   "nothing enabled yields empty key",
			remote: "192.168.1.1:1234",
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/upload", nil)
			req.RemoteAddr = tt.remote
			if tt.apiKey != "" {
				req.Header.Set("X-API-Key", tt.apiKey)
			}

			if got := getRateLimitKey(req, tt.byAPIKey, tt.byIP); got != tt.want {
				t.Errorf("getRateLimitKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		realIP     string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "192.168.1.1:5000",
			want:       "192.168.1.1",
		},
		{
			name:       "x-forwarded-for wins",
			remoteAddr: "10.0.0.1:5000",
			xff:        "203.0.113.7, 10.0.0.2",
			want:       "203.0.113.7",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:5000",
			realIP:     "203.0.113.9",
			want:       "203.0.113.9",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.168.1.1",
			want:       "192.168.1.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.realIP != "" {
				req.Header.Set("X-Real-IP", tt.realIP)
			}

			if got := getClientIP(req); got != tt.want {
				t.Errorf("getClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
