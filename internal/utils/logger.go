package utils

import (
	"os"

	"go.uber.org/zap"
)

// NewLogger builds a development logger unless ENV says otherwise. It runs
// before the config is loaded, so it reads ENV directly.
func NewLogger() (*zap.Logger, error) {
	switch os.Getenv("ENV") {
	case "", "dev", "development":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
