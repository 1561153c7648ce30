package usecase

import (
	"context"

	"coachflow-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

type clientProfileUsecase struct {
	repo     domain.ClientProfileRepository
	validate *validator.Validate
}

func NewClientProfileUsecase(repo domain.ClientProfileRepository, validate *validator.Validate) domain.ClientProfileUsecase {
	return &clientProfileUsecase{repo: repo, validate: validate}
}

func (uc *clientProfileUsecase) GetMyProfile(ctx context.Context, accountID string) (*domain.ClientProfile, error) {
	p, err := uc.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, repoError(err, "Client profile not found")
	}
	return p, nil
}

func (uc *clientProfileUsecase) UpdateMyProfile(ctx context.Context, accountID string, input domain.UpdateClientProfileInput) (*domain.ClientProfile, error) {
	input.Goals = cleanList(input.Goals)
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}

	p := &domain.ClientProfile{
		AccountID:   accountID,
		DateOfBirth: input.DateOfBirth,
		Gender:      input.Gender,
		Location:    input.Location,
		Occupation:  input.Occupation,
		Phone:       input.Phone,
		Goals:       input.Goals,
		Bio:         input.Bio,
	}
	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, repoError(err, "Client profile not found")
	}
	return p, nil
}
