package health

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"frontend/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

type backend struct{ err error }

func (b backend) Ping(ctx context.Context) error { return b.err }

func TestHealthStatusCodes(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tt := range []struct {
		name string
		err  error
		code int
	}{
		{"healthy", nil, http.StatusOK},
		{"degraded", errors.New("down"), http.StatusServiceUnavailable},
	} {
		t.Run(tt.name, func(t *testing.T) {
			engine := gin.New()
			RegisterRoutes(engine, NewHandler(NewService(&utils.HealthChecker{Backend: backend{tt.err}})))

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.name)
		})
	}
}
