package router

import (
	"html/template"

	"frontend/internal/app/board"
	"frontend/internal/app/comment"
	"frontend/internal/app/health"
	"frontend/internal/app/proxy"
	"frontend/internal/app/session"
	"frontend/internal/middleware"

	"github.com/gin-contrib/gzip"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

type Options struct {
	ServiceName    string
	AllowedOrigins []string
	// TrustedProxies may set X-Forwarded-For. Empty trusts none.
	TrustedProxies []string
	Sentry         bool
	Templates      *template.Template

	// Session runs on every page and on the /api group, never on /health.
	Session      gin.HandlerFunc
	RequireLogin gin.HandlerFunc
	RateLimit    gin.HandlerFunc
}

type Router struct {
	Engine *gin.Engine
	opts   Options
}

func NewRouter(logger *zap.Logger, opts Options) *Router {
	if opts.Session == nil {
		opts.Session = pass
	}
	if opts.RequireLogin == nil {
		opts.RequireLogin = pass
	}
	if opts.RateLimit == nil {
		opts.RateLimit = pass
	}

	engine := gin.New()
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		logger.Warn("Invalid trusted proxies, trusting none", zap.Strings("trusted_proxies", opts.TrustedProxies), zap.Error(err))
		_ = engine.SetTrustedProxies(nil)
	}
	engine.Use(middleware.LoggerMiddleware(logger, "/health"))
	engine.Use(gin.Recovery())
	if opts.Sentry {
		engine.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.ServiceName != "" {
		engine.Use(otelgin.Middleware(opts.ServiceName))
	}
	// Proxied responses arrive already encoded by the backend.
	engine.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/"})))

	if opts.Templates != nil {
		engine.SetHTMLTemplate(opts.Templates)
	}
	return &Router{Engine: engine, opts: opts}
}

func pass(c *gin.Context) { c.Next() }

func (r *Router) pages() *gin.RouterGroup {
	return r.Engine.Group("", r.opts.Session)
}

func (r *Router) RegisterHealthRoutes(handler health.Handler) {
	health.RegisterRoutes(r.Engine, handler)
}

func (r *Router) RegisterSessionRoutes(handler session.Handler) {
	session.RegisterRoutes(r.pages(), handler, r.opts.RateLimit)
}

func (r *Router) RegisterBoardRoutes(handler board.Handler) {
	board.RegisterRoutes(r.pages(), handler, r.opts.RequireLogin, r.opts.RateLimit)
}

func (r *Router) RegisterCommentRoutes(handler comment.Handler) {
	comment.RegisterRoutes(r.pages(), handler, r.opts.RequireLogin, r.opts.RateLimit)
}

func (r *Router) RegisterProxyRoutes(handler proxy.Handler) {
	api := r.Engine.Group("/api", middleware.CORSMiddleware(r.opts.AllowedOrigins), r.opts.Session)
	proxy.RegisterRoutes(api, handler)
}
