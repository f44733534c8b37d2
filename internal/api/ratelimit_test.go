package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, rps float64, burst int) *IPRateLimiter {
	t.Helper()
	rl := NewIPRateLimiter(RateLimitConfig{
		RequestsPerSecond: rps,
		Burst:             burst,
		CleanupInterval:   time.Minute,
	})
	t.Cleanup(rl.Stop)
	return rl
}

func TestIPRateLimiterBurst(t *testing.T) {
	rl := newTestLimiter(t, 0.001, 3)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"), "request past burst allowed")

	// Other IPs get their own bucket.
	assert.True(t, rl.Allow("10.0.0.2"))

	stats := rl.GetStats()
	assert.Equal(t, uint64(4), stats["allowed"])
	assert.Equal(t, uint64(1), stats["rejected"])
}

func TestRateLimitMiddleware(t *testing.T) {
	rl := newTestLimiter(t, 0.001, 1)

	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/maps", nil)
	req.RemoteAddr = "192.168.1.50:51234"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr only",
			remoteAddr: "203.0.113.7:44321",
			want:       "203.0.113.7",
		},
		{
			name:       "x-forwarded-for single",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4"},
			want:       "198.51.100.4",
		},
		{
			name:       "x-forwarded-for chain takes first",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.4, 10.0.0.2, 10.0.0.3"},
			want:       "198.51.100.4",
		},
		{
			name:       "x-real-ip fallback",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			want:       "198.51.100.9",
		},
		{
			name:       "forwarded-for beats real-ip",
			remoteAddr: "10.0.0.1:80",
			headers: map[string]string{
				"X-Forwarded-For": "198.51.100.4",
				"X-Real-IP":       "198.51.100.9",
			},
			want: "198.51.100.4",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.7",
			want:       "203.0.113.7",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, GetClientIP(req))
		})
	}
}

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		origin string
		want   bool
	}{
		{"", false},
		{"http://localhost", true},
		{"http://localhost:3000", true},
		{"http://localhost:9999", true},
		{"http://127.0.0.1:5173", true},
		{"https://example.com", false},
		{"http://evil.com", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsAllowedOrigin(tt.origin), "origin %q", tt.origin)
	}
}

func TestWebSocketRateLimiter(t *testing.T) {
	wrl := NewWebSocketRateLimiter(2)

	require.True(t, wrl.Allow("10.1.1.1"))
	require.True(t, wrl.Allow("10.1.1.1"))
	assert.False(t, wrl.Allow("10.1.1.1"), "third connection allowed")
	assert.Equal(t, 2, wrl.GetConnectionCount("10.1.1.1"))

	// Separate IPs do not share the budget.
	assert.True(t, wrl.Allow("10.1.1.2"))

	wrl.Release("10.1.1.1")
	assert.Equal(t, 1, wrl.GetConnectionCount("10.1.1.1"))
	assert.True(t, wrl.Allow("10.1.1.1"), "slot not reclaimed after release")

	assert.Equal(t, uint64(1), wrl.GetStats()["rejected"])
	assert.Equal(t, 0, wrl.GetConnectionCount("10.9.9.9"))
}
