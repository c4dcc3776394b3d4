package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// SetupSentry initialises error reporting. An empty DSN disables it and
// reports enabled=false, so no gin middleware gets installed.
func SetupSentry(dsn, env, release string, logger *zap.Logger) (enabled bool, shutdown ShutdownFunc, err error) {
	if dsn == "" {
		return false, noop, nil
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      env,
		Release:          release,
		AttachStacktrace: true,
	}); err != nil {
		return false, noop, fmt.Errorf("init sentry: %w", err)
	}

	logger.Info("Sentry enabled", zap.String("environment", env))
	return true, func(ctx context.Context) error {
		timeout := 2 * time.Second
		if deadline, ok := ctx.Deadline(); ok {
			timeout = time.Until(deadline)
		}
		sentry.Flush(timeout)
		return nil
	}, nil
}
