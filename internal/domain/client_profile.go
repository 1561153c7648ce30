package domain

import (
	"context"
	"time"
)

type ClientProfile struct {
	ID          int64      `json:"id"`
	AccountID   string     `json:"account_id"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	Location    *string    `json:"location,omitempty"`
	Occupation  *string    `json:"occupation,omitempty"`
	Phone       *string    `json:"phone,omitempty"`
	Goals       []string   `json:"goals"`
	Bio         *string    `json:"bio,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type ClientProfileRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*ClientProfile, error)
	Update(ctx context.Context, profile *ClientProfile) error
}

type UpdateClientProfileInput struct {
	DateOfBirth *time.Time `json:"date_of_birth" validate:"omitempty,not_future"`
	Gender      *string    `json:"gender" validate:"omitempty,oneof=male female non_binary prefer_not_to_say"`
	Location    *string    `json:"location" validate:"omitempty,max=120,no_emoji"`
	Occupation  *string    `json:"occupation" validate:"omitempty,max=120,no_emoji"`
	Phone       *string    `json:"phone" validate:"omitempty,valid_phone"`
	Goals       []string   `json:"goals" validate:"max=10,dive,min=2,max=200"`
	Bio         *string    `json:"bio" validate:"omitempty,max=1000"`
}

type ClientProfileUsecase interface {
	GetMyProfile(ctx context.Context, accountID string) (*ClientProfile, error)
	UpdateMyProfile(ctx context.Context, accountID string, input UpdateClientProfileInput) (*ClientProfile, error)
}
