package v1

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

// bindJSON decodes the body into req and pushes a 400 on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var verrs validator.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			c.Error(apperror.BadRequest(strings.Join(validation.FormatValidationErrors(err), "; ")))
		case errors.Is(err, io.EOF):
			c.Error(apperror.BadRequest("Request body is required"))
		default:
			c.Error(apperror.BadRequest("Invalid request body"))
		}
		return false
	}
	return true
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.Error(apperror.BadRequest("Invalid ID format"))
		return 0, false
	}
	return id, true
}

func currentUserID(c *gin.Context) string {
	return c.GetString(string(domain.KeyUserID))
}
