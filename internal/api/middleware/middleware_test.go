package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw)
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	return r
}

func get(r *gin.Engine, remote string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remote
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitPerClient(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := newLimiterSet(RateLimitConfig{RequestsPerSecond: 1, Burst: 2}, func() time.Time { return now })
	r := newRouter(rateLimit(set))

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "10.0.0.1:1000"))

	// Separate bucket per IP
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.2:1000"))

	now = now.Add(time.Second)
	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1:1000"))
}

func TestRateLimitEvictsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := newLimiterSet(RateLimitConfig{RequestsPerSecond: 10, Burst: 10, IdleTimeout: time.Minute},
		func() time.Time { return now })

	set.allow("a")
	set.allow("b")
	assert.Equal(t, 2, set.size())

	now = now.Add(30 * time.Second)
	set.allow("b")

	now = now.Add(40 * time.Second)
	set.allow("c")
	assert.Equal(t, 2, set.size(), "a idle past timeout, b seen 40s ago")
}

func TestGlobalRateLimit(t *testing.T) {
	r := newRouter(GlobalRateLimit(RateLimitConfig{RequestsPerSecond: 1, Burst: 1}))

	assert.Equal(t, http.StatusOK, get(r, "10.0.0.1:1000"))
	assert.Equal(t, http.StatusTooManyRequests, get(r, "10.0.0.2:1000"))
}

func TestCORSPreflight(t *testing.T) {
	r := newRouter(CORS(DefaultCORSConfig()))
	r.OPTIONS("/ping", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodOptions, "/ping", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
