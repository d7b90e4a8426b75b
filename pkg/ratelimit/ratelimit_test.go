package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllow_WithinLimit(t *testing.T) {
	rl := NewLoginRateLimiter(5, time.Minute)
	defer rl.Close()

	for i := 0; i < 5; i++ {
		assert.True(t, rl.Allow("1.2.3.4"), "attempt %d should be allowed", i+1)
	}
	assert.False(t, rl.Allow("1.2.3.4"), "6th attempt should be denied")

	// Farklı IP'ler birbirini etkilemez
	assert.True(t, rl.Allow("5.6.7.8"))
}

func TestReset_ClearsCounter(t *testing.T) {
	rl := NewLoginRateLimiter(2, time.Minute)
	defer rl.Close()

	rl.Allow("1.2.3.4")
	rl.Allow("1.2.3.4")
	assert.False(t, rl.Allow("1.2.3.4"))

	rl.Reset("1.2.3.4")
	assert.True(t, rl.Allow("1.2.3.4"))
}

func TestAllow_WindowExpiry(t *testing.T) {
	rl := NewLoginRateLimiter(1, 50*time.Millisecond)
	defer rl.Close()

	assert.True(t, rl.Allow("1.2.3.4"))
	assert.False(t, rl.Allow("1.2.3.4"))

	time.Sleep(60 * time.Millisecond)
	assert.True(t, rl.Allow("1.2.3.4"), "new window should reset the counter")
}

func TestRetryAfterSeconds(t *testing.T) {
	rl := NewLoginRateLimiter(1, time.Minute)
	defer rl.Close()

	assert.Equal(t, 0, rl.RetryAfterSeconds("unknown"))

	rl.Allow("1.2.3.4")
	got := rl.RetryAfterSeconds("1.2.3.4")
	assert.Greater(t, got, 0)
	assert.LessOrEqual(t, got, 61)
}

func TestExtractIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr only", "10.0.0.1:54321", nil, "10.0.0.1"},
		{"x-real-ip", "10.0.0.1:54321", map[string]string{"X-Real-IP": "2.2.2.2"}, "2.2.2.2"},
		{"xff single", "10.0.0.1:54321", map[string]string{"X-Forwarded-For": "3.3.3.3"}, "3.3.3.3"},
		{"xff chain takes first", "10.0.0.1:54321",
			map[string]string{"X-Forwarded-For": "4.4.4.4,10.0.0.2,10.0.0.3"}, "4.4.4.4"},
		{"xff wins over x-real-ip", "10.0.0.1:54321",
			map[string]string{"X-Forwarded-For": "5.5.5.5", "X-Real-IP": "6.6.6.6"}, "5.5.5.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ExtractIP(r))
		})
	}
}

func TestFormatRetryMessage(t *testing.T) {
	assert.Equal(t, "45 second(s)", FormatRetryMessage(45))
	assert.Equal(t, "1 minute(s)", FormatRetryMessage(60))
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(120))
	assert.Equal(t, "2 minute(s)", FormatRetryMessage(150))
}
