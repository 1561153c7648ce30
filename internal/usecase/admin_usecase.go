package usecase

import (
	"context"
	"slices"
	"strings"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/security"
)

type adminUsecase struct {
	accounts domain.AccountRepository
	events   domain.SecurityEventRepository
	audit    *security.SecurityLogger
}

func NewAdminUsecase(accounts domain.AccountRepository, events domain.SecurityEventRepository, audit *security.SecurityLogger) domain.AdminUsecase {
	return &adminUsecase{accounts: accounts, events: events, audit: audit}
}

func (uc *adminUsecase) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	if filter.Role != "" && !domain.IsKnownRole(filter.Role) {
		return nil, apperror.BadRequest("Unknown role filter")
	}
	accounts, err := uc.accounts.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return accounts, nil
}

func (uc *adminUsecase) AssignRoles(ctx context.Context, actorID, accountID string, roles []string) (*domain.Account, error) {
	if len(roles) == 0 {
		return nil, apperror.BadRequest("At least one role is required")
	}
	unique := make([]string, 0, len(roles))
	for _, r := range roles {
		if !domain.IsKnownRole(r) {
			return nil, apperror.BadRequest("Unknown role: " + r)
		}
		if !slices.Contains(unique, r) {
			unique = append(unique, r)
		}
	}
	if actorID == accountID && !slices.Contains(unique, domain.RoleAdmin) {
		return nil, apperror.BadRequest("You cannot remove your own admin role")
	}

	if err := uc.accounts.UpdateRoles(ctx, accountID, unique); err != nil {
		return nil, repoError(err, "Account not found")
	}
	account, err := uc.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, repoError(err, "Account not found")
	}
	uc.audit.LogRolesChanged(ctx, actorID, accountID, unique)
	return account, nil
}

// ListSecurityEvents pages through the persisted audit trail, newest first.
func (uc *adminUsecase) ListSecurityEvents(ctx context.Context, filter domain.SecurityEventFilter, page, pageSize int) (*domain.PaginatedResult[domain.SecurityEventView], error) {
	for i, s := range filter.Severities {
		s = strings.ToUpper(strings.TrimSpace(s))
		if !security.IsKnownSeverity(s) {
			return nil, apperror.BadRequest("Unknown severity: " + s)
		}
		filter.Severities[i] = s
	}
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 200 {
		pageSize = 50
	}
	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	events, total, err := uc.events.ListEvents(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if events == nil {
		events = []domain.SecurityEventView{}
	}

	return &domain.PaginatedResult[domain.SecurityEventView]{
		Data:       events,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: int((total + int64(pageSize) - 1) / int64(pageSize)),
	}, nil
}
