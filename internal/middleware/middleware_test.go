package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newLimitedEngine(t *testing.T, trusted []string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	require.NoError(t, engine.SetTrustedProxies(trusted))
	engine.POST("/boards", NewIPRateLimiter(1, 2).Middleware(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return engine
}

func sendFrom(engine *gin.Engine, remoteAddr, forwarded string) int {
	req := httptest.NewRequest(http.MethodPost, "/boards", nil)
	req.RemoteAddr = remoteAddr
	if forwarded != "" {
		req.Header.Set("X-Forwarded-For", forwarded)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterIsPerIP(t *testing.T) {
	engine := newLimitedEngine(t, nil)

	assert.Equal(t, http.StatusNoContent, sendFrom(engine, "203.0.113.5:1000", ""))
	assert.Equal(t, http.StatusNoContent, sendFrom(engine, "203.0.113.5:1001", ""))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(engine, "203.0.113.5:1002", ""))
	assert.Equal(t, http.StatusNoContent, sendFrom(engine, "203.0.113.9:1000", ""))
}

func TestRateLimiterIgnoresSpoofedForwardedFor(t *testing.T) {
	engine := newLimitedEngine(t, nil)

	allowed := 0
	for i := 0; i < 20; i++ {
		if sendFrom(engine, "203.0.113.5:1000", fmt.Sprintf("198.51.100.%d", i)) == http.StatusNoContent {
			allowed++
		}
	}
	assert.Equal(t, 2, allowed)
}

func TestRateLimiterHonoursTrustedProxy(t *testing.T) {
	engine := newLimitedEngine(t, []string{"10.0.0.1"})

	assert.Equal(t, http.StatusNoContent, sendFrom(engine, "10.0.0.1:80", "198.51.100.1"))
	assert.Equal(t, http.StatusNoContent, sendFrom(engine, "10.0.0.1:80", "198.51.100.1"))
	assert.Equal(t, http.StatusTooManyRequests, sendFrom(engine, "10.0.0.1:80", "198.51.100.1"))
	assert.Equal(t, http.StatusNoContent, sendFrom(engine, "10.0.0.1:80", "198.51.100.2"))
}

func TestCORSAllowsConfiguredOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware([]string{"https://board.example.com"}), LoggerMiddleware(zap.NewNop()))
	engine.GET("/api/boards", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Origin", "https://board.example.com")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "https://board.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
}
