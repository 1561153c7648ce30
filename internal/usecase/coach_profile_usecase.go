package usecase

import (
	"context"
	"strings"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

type coachProfileUsecase struct {
	repo     domain.CoachProfileRepository
	validate *validator.Validate
}

func NewCoachProfileUsecase(repo domain.CoachProfileRepository, validate *validator.Validate) domain.CoachProfileUsecase {
	return &coachProfileUsecase{repo: repo, validate: validate}
}

func (uc *coachProfileUsecase) GetMyProfile(ctx context.Context, accountID string) (*domain.CoachProfile, error) {
	p, err := uc.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, repoError(err, "Coach profile not found")
	}
	return p, nil
}

func (uc *coachProfileUsecase) UpdateMyProfile(ctx context.Context, accountID string, input domain.UpdateCoachProfileInput) (*domain.CoachProfile, error) {
	input.Specialties = cleanList(input.Specialties)
	input.Certifications = cleanList(input.Certifications)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}

	// owner is always the caller; the body cannot redirect the write
	p, err := uc.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, repoError(err, "Coach profile not found")
	}

	p.Headline = strings.TrimSpace(input.Headline)
	p.Bio = strings.TrimSpace(input.Bio)
	p.Specialties = input.Specialties
	p.Certifications = input.Certifications
	p.ExperienceYears = input.ExperienceYears
	p.HourlyRate = input.HourlyRate
	if input.Currency != "" {
		p.Currency = input.Currency
	}
	p.AvatarURL = input.AvatarURL
	p.Phone = input.Phone

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, repoError(err, "Coach profile not found")
	}
	return p, nil
}

func (uc *coachProfileUsecase) GetPublicProfile(ctx context.Context, coachAccountID string) (*domain.CoachProfile, error) {
	p, err := uc.repo.GetByAccountID(ctx, coachAccountID)
	if err != nil {
		return nil, repoError(err, "Coach not found")
	}
	// contact details stay private
	p.Phone = nil
	return p, nil
}

func (uc *coachProfileUsecase) SearchCoaches(ctx context.Context, filter domain.CoachFilter) ([]domain.CoachProfile, error) {
	filter.Search = strings.TrimSpace(filter.Search)
	filter.Specialty = strings.TrimSpace(filter.Specialty)
	if len(filter.Search) > 100 {
		return nil, apperror.BadRequest("Search term is too long")
	}
	coaches, err := uc.repo.Search(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range coaches {
		coaches[i].Phone = nil
	}
	return coaches, nil
}

// cleanList trims entries and drops blanks and case-insensitive duplicates.
func cleanList(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]bool, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
