package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"frontend/internal/app"
	"frontend/internal/config"
	"frontend/internal/providers/api"
	"frontend/internal/providers/redis"
	"frontend/internal/utils"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

func main() {
	logger, err := utils.NewLogger()
	if err != nil {
		log.Fatalf("Failed to initialize zap logger: %v", err)
	}
	defer logger.Sync()

	utils.LoadEnv(logger)

	cliApp := &cli.App{
		Name:   "kanban-frontend",
		Usage:  "server-rendered front-end for the board API",
		Action: func(c *cli.Context) error { return serve(logger) },
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server",
				Action: func(c *cli.Context) error { return serve(logger) },
			},
			{
				Name:   "ping",
				Usage:  "check that the backend API and Redis are reachable",
				Action: func(c *cli.Context) error { return ping(c.Context, logger) },
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Fatal("Command failed", zap.Error(err))
	}
}

func loadConfig(logger *zap.Logger) (config.Config, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return cfg, err
	}
	logger.Info("Config loaded",
		zap.String("server_port", cfg.ServerPort),
		zap.String("api_base_url", cfg.APIBaseURL),
		zap.String("redis_url", cfg.RedisURL),
		zap.String("env", cfg.Env),
	)
	return cfg, nil
}

func serve(logger *zap.Logger) error {
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	application, err := app.Bootstrap(&cfg, logger)
	if err != nil {
		return fmt.Errorf("bootstrap application: %w", err)
	}

	addr := ":" + cfg.ServerPort
	srv := &http.Server{
		Addr:    addr,
		Handler: application.Router.Engine,
	}

	go func() {
		logger.Info("Server started", zap.String("addr", "localhost"+addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server stopped with error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	if err := application.Shutdown(ctx); err != nil {
		logger.Warn("Shutdown finished with errors", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
	return nil
}

func ping(ctx context.Context, logger *zap.Logger) error {
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, cfg.APITimeout)
	defer cancel()

	failed := false

	client, err := api.NewClient(cfg.APIBaseURL, cfg.APITimeout, logger)
	if err == nil {
		err = client.Ping(ctx)
	}
	if err != nil {
		logger.Error("Backend API unreachable", zap.String("url", cfg.APIBaseURL), zap.Error(err))
		failed = true
	} else {
		logger.Info("Backend API reachable", zap.String("url", cfg.APIBaseURL))
	}

	if cfg.RedisURL != "" {
		redisProvider := redis.NewRedisProvider(ctx, cfg.RedisURL, logger, cfg.RedisTTL)
		defer redisProvider.Close()
		if err := redisProvider.Ping(ctx); err != nil {
			logger.Error("Redis unreachable", zap.String("url", cfg.RedisURL), zap.Error(err))
			failed = true
		} else {
			logger.Info("Redis reachable", zap.String("url", cfg.RedisURL))
		}
	}

	if failed {
		return cli.Exit("ping failed", 1)
	}
	return nil
}
