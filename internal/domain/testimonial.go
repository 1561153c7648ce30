package domain

import (
	"context"
	"time"
)

type Testimonial struct {
	ID             int64     `json:"id"`
	BookingID      int64     `json:"booking_id"`
	CoachProfileID int64     `json:"coach_profile_id"`
	ClientID       string    `json:"client_id"`
	Rating         int       `json:"rating"`
	Title          *string   `json:"title,omitempty"`
	Content        string    `json:"content"`
	SessionType    string    `json:"session_type"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`

	// Joined from accounts
	ClientFirstName string `json:"client_first_name,omitempty"`
	ClientLastName  string `json:"client_last_name,omitempty"`
}

type TestimonialRepository interface {
	// CreateForBooking locks the booking, re-checks eligibility, inserts the testimonial,
	// marks the booking reviewed and refreshes the coach rating in one transaction.
	// Returns ErrBookingNotEligible when the booking no longer qualifies.
	CreateForBooking(ctx context.Context, t *Testimonial) error
	GetByID(ctx context.Context, id int64) (*Testimonial, error)
	GetByBookingID(ctx context.Context, bookingID int64) (*Testimonial, error)
	ListByCoachProfile(ctx context.Context, coachProfileID int64) ([]Testimonial, error)
	Update(ctx context.Context, t *Testimonial) error
	Delete(ctx context.Context, id int64) error
}

type CreateTestimonialInput struct {
	BookingID int64   `json:"booking_id" binding:"required,min=1"`
	Rating    int     `json:"rating" validate:"min=1,max=5"`
	Title     *string `json:"title" validate:"omitempty,max=120,no_emoji"`
	Content   string  `json:"content" validate:"required,min=10,max=2000"`
}

type UpdateTestimonialInput struct {
	Rating  int     `json:"rating" validate:"min=1,max=5"`
	Title   *string `json:"title" validate:"omitempty,max=120,no_emoji"`
	Content string  `json:"content" validate:"required,min=10,max=2000"`
}

// EligibleBooking is one entry in the review-eligibility answer.
type EligibleBooking struct {
	BookingID int64  `json:"booking_id"`
	Label     string `json:"label"`
}

// BookingReviewStatus answers "can this booking be reviewed".
type BookingReviewStatus struct {
	BookingID   int64        `json:"booking_id"`
	Status      string       `json:"status"`
	IsReviewed  bool         `json:"is_reviewed"`
	CanReview   bool         `json:"can_review"`
	CoachID     string       `json:"coach_id"`
	Testimonial *Testimonial `json:"testimonial,omitempty"`
}

type TestimonialUsecase interface {
	ListForCoach(ctx context.Context, coachAccountID string) ([]Testimonial, error)
	Eligibility(ctx context.Context, clientID, coachAccountID string) ([]EligibleBooking, error)
	CheckBooking(ctx context.Context, clientID string, bookingID int64) (*BookingReviewStatus, error)
	Create(ctx context.Context, clientID, coachAccountID string, input CreateTestimonialInput) (*Testimonial, error)
	Update(ctx context.Context, clientID string, id int64, input UpdateTestimonialInput) (*Testimonial, error)
	Delete(ctx context.Context, clientID string, id int64) error
}
