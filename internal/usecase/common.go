package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
)

// validateStruct runs the struct tags and folds the messages into a single 400.
func validateStruct(v *validator.Validate, s any) error {
	if v == nil {
		return nil
	}
	if err := v.Struct(s); err != nil {
		return apperror.New(http.StatusBadRequest, strings.Join(validation.FormatValidationErrors(err), "; "), err)
	}
	return nil
}

// repoError maps repository sentinels to HTTP-facing errors.
func repoError(err error, notFoundMsg string) error {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return apperror.NotFound(notFoundMsg)
	case errors.Is(err, domain.ErrDuplicate):
		return apperror.Conflict("Resource already exists")
	default:
		return apperror.Internal(err)
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// sleepUntil blocks until deadline or ctx is done.
func sleepUntil(ctx context.Context, deadline time.Time) {
	d := time.Until(deadline)
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
