package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ginModeOnce sync.Once

func newTestContext(t *testing.T) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	ginModeOnce.Do(func() { gin.SetMode(gin.TestMode) })
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/tasks", nil)
	return c, w
}

func TestTooManyRequests(t *testing.T) {
	t.Parallel()
	c, w := newTestContext(t)

	tooManyRequests(c, 30)

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "30", w.Header().Get("Retry-After"))

	var body struct {
		Status  int    `json:"status"`
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusTooManyRequests, body.Status)
	assert.False(t, body.Success)
	assert.Equal(t, "rate limit exceeded", body.Message)
}

func TestTooManyRequestsWithoutReset(t *testing.T) {
	t.Parallel()
	c, w := newTestContext(t)

	tooManyRequests(c, 0)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Empty(t, w.Header().Get("Retry-After"))
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	t.Parallel()

	// nil client, zero max or missing key func all disable limiting
	for _, mw := range []gin.HandlerFunc{
		RateLimit(nil, 10, time.Minute, KeyByIP(), nil),
		RateLimit(nil, 0, time.Minute, KeyByIP(), nil),
	} {
		c, w := newTestContext(t)
		mw(c)
		assert.False(t, c.IsAborted())
		assert.NotEqual(t, http.StatusTooManyRequests, w.Code)
	}
}

func TestKeyFuncs(t *testing.T) {
	t.Parallel()

	t.Run("by user id", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set(CtxUserIDKey, "u-42")
		assert.Equal(t, "rl:user:u-42", KeyByUserID()(c))
	})

	t.Run("anonymous falls back to ip", func(t *testing.T) {
		c, _ := newTestContext(t)
		c.Set("real_ip", "203.0.113.7")
		assert.Equal(t, "rl:user:anon:ip:203.0.113.7", KeyByUserID()(c))
	})
}

func TestAllowPrivateIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.1.2.3", true},
		{"192.168.0.9", true},
		{"203.0.113.7", false},
		{"not-an-ip", false},
	}
	for _, tt := range tests {
		c, _ := newTestContext(t)
		c.Set("real_ip", tt.ip)
		assert.Equal(t, tt.want, AllowPrivateIP()(c), tt.ip)
	}
}
