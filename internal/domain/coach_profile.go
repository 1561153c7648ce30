package domain

import (
	"context"
	"time"
)

type CoachProfile struct {
	ID              int64     `json:"id"`
	AccountID       string    `json:"account_id"`
	Headline        string    `json:"headline"`
	Bio             string    `json:"bio"`
	Specialties     []string  `json:"specialties"`
	Certifications  []string  `json:"certifications"`
	ExperienceYears int       `json:"experience_years"`
	HourlyRate      float64   `json:"hourly_rate"`
	Currency        string    `json:"currency"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	Phone           *string   `json:"phone,omitempty"`
	AverageRating   float64   `json:"average_rating"`
	ReviewCount     int       `json:"review_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	// Joined from accounts
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// CoachFilter drives the public coach search. Search matches first or last name, case-insensitive.
type CoachFilter struct {
	Search    string
	Specialty string
}

type CoachProfileRepository interface {
	GetByAccountID(ctx context.Context, accountID string) (*CoachProfile, error)
	Update(ctx context.Context, profile *CoachProfile) error
	Search(ctx context.Context, filter CoachFilter) ([]CoachProfile, error)
}

type UpdateCoachProfileInput struct {
	Headline        string   `json:"headline" validate:"max=120,no_emoji"`
	Bio             string   `json:"bio" validate:"max=2000"`
	Specialties     []string `json:"specialties" validate:"max=20,dive,min=2,max=60"`
	Certifications  []string `json:"certifications" validate:"max=20,dive,min=2,max=120"`
	ExperienceYears int      `json:"experience_years" validate:"min=0,max=80"`
	HourlyRate      float64  `json:"hourly_rate" validate:"min=0"`
	Currency        string   `json:"currency" validate:"omitempty,currency_code"`
	AvatarURL       *string  `json:"avatar_url" validate:"omitempty,url"`
	Phone           *string  `json:"phone" validate:"omitempty,valid_phone"`
}

type CoachProfileUsecase interface {
	GetMyProfile(ctx context.Context, accountID string) (*CoachProfile, error)
	UpdateMyProfile(ctx context.Context, accountID string, input UpdateCoachProfileInput) (*CoachProfile, error)
	GetPublicProfile(ctx context.Context, coachAccountID string) (*CoachProfile, error)
	SearchCoaches(ctx context.Context, filter CoachFilter) ([]CoachProfile, error)
}
