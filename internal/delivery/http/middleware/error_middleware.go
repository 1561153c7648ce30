package middleware

import (
	"errors"
	"net/http"

	"coachflow-backend/internal/delivery/http/response"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.ErrorContext(c.Request.Context(), "request failed",
					"request_id", requestID(c),
					"path", c.FullPath(),
					"error", err,
					"cause", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, nil)
			return
		}

		// SECURITY: never expose internal error details to clients
		logger.Log.ErrorContext(c.Request.Context(), "unhandled error",
			"request_id", requestID(c),
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
	}
}
