package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestDisabledProvidersAreNoops(t *testing.T) {
	ctx := context.Background()

	shutdown, err := SetupTracing(ctx, "svc", "test", "", zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, shutdown(ctx))

	enabled, flush, err := SetupSentry("", "test", "", zap.NewNop())
	require.NoError(t, err)
	assert.False(t, enabled)
	assert.NoError(t, flush(ctx))
}

func TestSentryRejectsMalformedDSN(t *testing.T) {
	enabled, _, err := SetupSentry("not a dsn", "test", "", zap.NewNop())
	assert.Error(t, err)
	assert.False(t, enabled)
}
