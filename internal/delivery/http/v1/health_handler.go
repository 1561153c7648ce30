package v1

import (
	"context"
	"net/http"

	"coachflow-backend/internal/delivery/http/response"

	"github.com/gin-gonic/gin"
)

// HealthChecker reports per-dependency status and whether all of them are up.
type HealthChecker interface {
	Check(ctx context.Context) (map[string]string, bool)
}

func NewHealthHandler(public *gin.RouterGroup, checker HealthChecker) {
	public.GET("/health", func(c *gin.Context) {
		status, ok := checker.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "Service degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "OK", status)
	})
}
