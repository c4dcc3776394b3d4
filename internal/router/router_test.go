package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"frontend/internal/app/health"
	"frontend/internal/app/proxy"
	"frontend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T, backendURL string) *Router {
	t.Helper()
	gin.SetMode(gin.TestMode)

	r := NewRouter(zap.NewNop(), Options{
		AllowedOrigins: []string{"http://localhost:3020"},
		Session: func(c *gin.Context) {
			c.Header("X-Session", "attached")
			c.Next()
		},
	})
	r.RegisterHealthRoutes(health.NewHandler(health.NewService(&utils.HealthChecker{})))

	target, err := url.Parse(backendURL + "/api")
	require.NoError(t, err)
	r.RegisterProxyRoutes(proxy.NewHandler(target, zap.NewNop()))
	return r
}

func TestHealthSkipsSessionButIsCompressed(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-Session"))
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
}

func TestProxyGroupHasSessionAndCORSWithoutGzip(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/boards", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[],"totalPages":0}`))
	}))
	defer backend.Close()

	r := newTestRouter(t, backend.URL)

	req := httptest.NewRequest(http.MethodGet, "/api/boards", nil)
	req.Header.Set("Origin", "http://localhost:3020")
	req.Header.Set("Accept-Encoding", "gzip")
	w := newCloseNotifyRecorder()
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "attached", w.Header().Get("X-Session"))
	assert.Equal(t, "http://localhost:3020", w.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, "gzip", w.Header().Get("Content-Encoding"))
	assert.JSONEq(t, `{"content":[],"totalPages":0}`, w.Body.String())
}

func TestProxyRejectsUnknownOrigin(t *testing.T) {
	r := newTestRouter(t, "http://127.0.0.1:1")

	req := httptest.NewRequest(http.MethodOptions, "/api/boards", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	r.Engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterTrustsOnlyConfiguredProxies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	for _, tt := range []struct {
		name    string
		trusted []string
		want    string
	}{
		{"none", nil, "203.0.113.5"},
		{"configured", []string{"203.0.113.0/24"}, "198.51.100.7"},
	} {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRouter(zap.NewNop(), Options{TrustedProxies: tt.trusted})
			r.Engine.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })

			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = "203.0.113.5:4000"
			req.Header.Set("X-Forwarded-For", "198.51.100.7")
			w := httptest.NewRecorder()
			r.Engine.ServeHTTP(w, req)

			assert.Equal(t, tt.want, w.Body.String())
		})
	}
}

// closeNotifyRecorder adds http.CloseNotifier to httptest.ResponseRecorder,
// which httputil.ReverseProxy requires through gin's response writer.
type closeNotifyRecorder struct {
	*httptest.ResponseRecorder
}

func newCloseNotifyRecorder() *closeNotifyRecorder {
	return &closeNotifyRecorder{httptest.NewRecorder()}
}

func (r *closeNotifyRecorder) CloseNotify() <-chan bool {
	return make(chan bool)
}
