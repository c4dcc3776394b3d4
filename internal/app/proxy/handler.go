package proxy

import (
	"encoding/json"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"

	"frontend/internal/providers/api"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	Forward(c *gin.Context)
}

type handler struct {
	proxy *httputil.ReverseProxy
}

// NewHandler forwards /api/*path to the backend under target. The browser's
// session cookie is dropped and replaced by the session's bearer token.
func NewHandler(target *url.URL, logger *zap.Logger) Handler {
	log := logger.Sugar()
	basePath := strings.TrimRight(target.Path, "/")

	return &handler{proxy: &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetXForwarded()
			r.Out.URL.Scheme = target.Scheme
			r.Out.URL.Host = target.Host
			r.Out.URL.Path = basePath + "/" + strings.TrimLeft(r.In.URL.Path, "/")
			r.Out.URL.RawPath = ""
			r.Out.Host = target.Host

			r.Out.Header.Del("Cookie")
			if token := api.TokenFromContext(r.In.Context()); token != "" && r.Out.Header.Get("Authorization") == "" {
				r.Out.Header.Set("Authorization", "Bearer "+token)
			}
		},
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			log.Warnw("Backend proxy failed", "method", r.Method, "path", r.URL.Path, "error", err)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadGateway)
			_ = json.NewEncoder(w).Encode(gin.H{"error": "backend unavailable"})
		},
	}}
}

// Forward strips the route prefix so only the wildcard path reaches the
// rewrite.
func (h *handler) Forward(c *gin.Context) {
	req := c.Request.Clone(c.Request.Context())
	req.URL.Path = c.Param("path")
	req.URL.RawPath = ""
	h.proxy.ServeHTTP(c.Writer, req)
}
