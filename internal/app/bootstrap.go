package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"frontend/internal/app/activity"
	"frontend/internal/app/board"
	"frontend/internal/app/comment"
	"frontend/internal/app/health"
	"frontend/internal/app/proxy"
	"frontend/internal/app/session"
	"frontend/internal/app/visit"
	"frontend/internal/config"
	"frontend/internal/middleware"
	"frontend/internal/providers/api"
	"frontend/internal/providers/redis"
	"frontend/internal/providers/telemetry"
	"frontend/internal/router"
	"frontend/internal/utils"
	"frontend/internal/web"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Application struct {
	Router *router.Router
	Redis  *redis.RedisProvider

	cancel    context.CancelFunc
	shutdowns []telemetry.ShutdownFunc
}

func Bootstrap(cfg *config.Config, logger *zap.Logger) (*Application, error) {
	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	application := &Application{cancel: cancel}

	traceShutdown, err := telemetry.SetupTracing(ctx, cfg.ServiceName, cfg.Env, cfg.OTLPEndpoint, logger)
	if err != nil {
		logger.Warn("Failed to initialize tracing", zap.Error(err))
	} else {
		application.shutdowns = append(application.shutdowns, traceShutdown)
	}

	sentryEnabled, sentryShutdown, err := telemetry.SetupSentry(cfg.SentryDSN, cfg.Env, cfg.ServiceName, logger)
	if err != nil {
		logger.Warn("Failed to initialize Sentry", zap.Error(err))
	} else {
		application.shutdowns = append(application.shutdowns, sentryShutdown)
	}

	apiClient, err := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	if err != nil {
		cancel()
		return nil, err
	}

	var (
		sessionRepo session.Repository
		visitStore  visit.Store
		checker     = &utils.HealthChecker{Backend: apiClient}
	)
	if cfg.RedisURL != "" {
		redisProvider := redis.NewRedisProvider(ctx, cfg.RedisURL, logger, cfg.RedisTTL)
		application.Redis = redisProvider
		sessionRepo = session.NewRepository(redisProvider, cfg.RedisTTL)
		visitStore = visit.NewRedisStore(redisProvider, cfg.RedisTTL)
		checker.Redis = redisProvider.Client
	} else {
		logger.Warn("REDIS_URL is empty, sessions and visits are kept in memory")
		sessionRepo = session.NewMemoryRepository(cfg.RedisTTL)
		visitStore = visit.NewMemoryStore(cfg.RedisTTL)
	}

	eventBus := utils.NewEventBus()
	activity.Subscribe(eventBus, logger)
	go eventBus.Run(ctx)

	limiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMinute, cfg.RateLimitBurst)
	go limiter.RunCleanup(ctx, 5*time.Minute)

	boardService := board.NewService(board.NewRepository(apiClient), eventBus)
	commentService := comment.NewService(comment.NewRepository(apiClient), eventBus)
	sessionService := session.NewService(sessionRepo, apiClient, eventBus, logger)

	tmpl, err := web.Load(time.Now)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("load templates: %w", err)
	}

	r := router.NewRouter(logger, router.Options{
		ServiceName:    cfg.ServiceName,
		AllowedOrigins: cfg.AllowedOrigins(),
		TrustedProxies: cfg.TrustedProxies,
		Sentry:         sentryEnabled,
		Templates:      tmpl,
		Session: session.Middleware(sessionService, session.CookieOptions{
			Name:   cfg.SessionCookie,
			MaxAge: cfg.RedisTTL,
			Secure: !cfg.IsDev(),
		}, logger),
		RequireLogin: session.RequireLogin(sessionService),
		RateLimit:    limiter.Middleware(),
	})

	r.RegisterHealthRoutes(health.NewHandler(health.NewService(checker)))
	r.RegisterSessionRoutes(session.NewHandler(sessionService, logger))
	r.RegisterBoardRoutes(board.NewHandler(boardService, commentService, visitStore, sessionService, cfg.PageSize, cfg.APITimeout, logger))
	r.RegisterCommentRoutes(comment.NewHandler(commentService, sessionService, logger))
	r.RegisterProxyRoutes(proxy.NewHandler(apiClient.BaseURL(), logger))

	application.Router = r
	return application, nil
}

// Shutdown stops background workers, flushes telemetry and closes Redis.
func (a *Application) Shutdown(ctx context.Context) error {
	a.cancel()

	var errs []error
	for _, shutdown := range a.shutdowns {
		if err := shutdown(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	return errors.Join(errs...)
}
