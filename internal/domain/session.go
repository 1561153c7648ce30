package domain

import (
	"context"
	"time"
)

const (
	SessionKindSession = "session" // open/recurring availability
	SessionKindEvent   = "event"   // fixed date/time workshop
)

// AvailabilityWindow is one recurring weekly slot. Weekday 0 is Sunday.
type AvailabilityWindow struct {
	Weekday   int    `json:"weekday" validate:"min=0,max=6"`
	StartTime string `json:"start_time" validate:"required,hhmm"`
	EndTime   string `json:"end_time" validate:"required,hhmm"`
}

type Session struct {
	ID              int64                `json:"id"`
	CoachProfileID  int64                `json:"coach_profile_id"`
	Kind            string               `json:"kind"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	SessionType     string               `json:"session_type"`
	Audience        string               `json:"audience"`
	DurationMinutes int                  `json:"duration_minutes"`
	Price           float64              `json:"price"`
	Currency        string               `json:"currency"`
	StartsAt        *time.Time           `json:"starts_at,omitempty"`
	Availability    []AvailabilityWindow `json:"availability"`
	Capacity        *int                 `json:"capacity,omitempty"`
	IsActive        bool                 `json:"is_active"`
	CreatedAt       time.Time            `json:"created_at"`
	UpdatedAt       time.Time            `json:"updated_at"`

	// Joined
	CoachAccountID string `json:"coach_id"`
	CoachFirstName string `json:"coach_first_name,omitempty"`
	CoachLastName  string `json:"coach_last_name,omitempty"`
	BookedCount    int    `json:"booked_count"`
}

func (s *Session) IsFree() bool {
	return s.Price <= 0
}

type SessionFilter struct {
	CoachAccountID string
	CoachProfileID int64
	Kind           string
	SessionType    string
	Audience       string
	Search         string // title/description substring
	ActiveOnly     bool
	FollowerID     string // only coaches this account follows
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id int64) (*Session, error)
	Update(ctx context.Context, session *Session) error
	Delete(ctx context.Context, id int64) error
	SetActive(ctx context.Context, id int64, active bool) error
	List(ctx context.Context, filter SessionFilter) ([]Session, error)
	HasBookings(ctx context.Context, id int64) (bool, error)
}

type SessionInput struct {
	Title           string               `json:"title" validate:"required,min=3,max=120,no_emoji"`
	Description     string               `json:"description" validate:"max=4000"`
	SessionType     string               `json:"session_type" validate:"required,oneof=one_on_one group workshop webinar"`
	Audience        string               `json:"audience" validate:"omitempty,oneof=individuals couples teams organizations everyone"`
	DurationMinutes int                  `json:"duration_minutes" validate:"min=15,max=480"`
	Price           float64              `json:"price" validate:"min=0"`
	Currency        string               `json:"currency" validate:"omitempty,currency_code"`
	StartsAt        *time.Time           `json:"starts_at"`
	Availability    []AvailabilityWindow `json:"availability" validate:"max=50,dive"`
	Capacity        *int                 `json:"capacity" validate:"omitempty,min=1,max=10000"`
	IsActive        *bool                `json:"is_active"`
}

// DeleteResult tells the caller whether the session was removed or only deactivated.
type DeleteResult struct {
	Deleted     bool `json:"deleted"`
	Deactivated bool `json:"deactivated"`
}

type SessionUsecase interface {
	CreateForCoach(ctx context.Context, coachAccountID, kind string, input SessionInput) (*Session, error)
	UpdateForCoach(ctx context.Context, coachAccountID, kind string, id int64, input SessionInput) (*Session, error)
	DeleteForCoach(ctx context.Context, coachAccountID, kind string, id int64) (*DeleteResult, error)
	ListForCoach(ctx context.Context, coachAccountID, kind string) ([]Session, error)
	ListPublic(ctx context.Context, filter SessionFilter) ([]Session, error)
	GetPublic(ctx context.Context, id int64) (*Session, error)
	Feed(ctx context.Context, followerID string) ([]Session, error)
}
