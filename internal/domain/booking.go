package domain

import (
	"context"
	"time"
)

const (
	BookingStatusPending        = "pending"
	BookingStatusPaymentPending = "payment_pending"
	BookingStatusConfirmed      = "confirmed"
	BookingStatusCompleted      = "completed"
	BookingStatusCancelled      = "cancelled"
	BookingStatusPaymentFailed  = "payment_failed"
)

// Booking is a client's reservation against a session.
// IsReviewed moves false -> true once, when a testimonial is written for it.
type Booking struct {
	ID             int64      `json:"id"`
	ClientID       string     `json:"client_id"`
	SessionID      int64      `json:"session_id"`
	Status         string     `json:"status"`
	IsReviewed     bool       `json:"is_reviewed"`
	ScheduledAt    *time.Time `json:"scheduled_at,omitempty"`
	Amount         float64    `json:"amount"`
	Currency       string     `json:"currency"`
	PaymentOrderID *string    `json:"payment_order_id,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// PersonSummary is the public slice of an account embedded in booking views.
type PersonSummary struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// BookingView is a booking with its session, coach and client.
type BookingView struct {
	Booking
	Session Session       `json:"session"`
	Coach   PersonSummary `json:"coach"`
	Client  PersonSummary `json:"user"`
}

// ReviewableBooking is a completed, unreviewed booking of one client with one coach.
type ReviewableBooking struct {
	BookingID    int64
	SessionTitle string
	SessionType  string
	ScheduledAt  *time.Time
	CreatedAt    time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetByID(ctx context.Context, id int64) (*Booking, error)
	GetView(ctx context.Context, id int64) (*BookingView, error)
	GetByPaymentOrderID(ctx context.Context, orderID string) (*Booking, error)
	SetPaymentOrder(ctx context.Context, id int64, orderID string) error
	UpdateStatus(ctx context.Context, id int64, status string) error
	ListForClient(ctx context.Context, clientID string) ([]BookingView, error)
	ListForCoach(ctx context.Context, coachProfileID int64) ([]BookingView, error)
	// CreateWithinCapacity inserts the booking only while fewer than capacity
	// bookings hold a seat on the session, otherwise it returns ErrSessionFull.
	CreateWithinCapacity(ctx context.Context, booking *Booking, capacity int) error
	ListReviewable(ctx context.Context, clientID string, coachProfileID int64) ([]ReviewableBooking, error)
}

type CreateBookingInput struct {
	SessionID   int64      `json:"session_id" binding:"required,min=1"`
	ScheduledAt *time.Time `json:"scheduled_at"`
	Notes       *string    `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateBookingStatusInput struct {
	Status string `json:"status" binding:"required,oneof=confirmed completed cancelled"`
}

// BookingCheckout is returned on booking creation. PaymentSessionID is set for paid sessions.
type BookingCheckout struct {
	Booking          *Booking `json:"booking"`
	PaymentRequired  bool     `json:"payment_required"`
	PaymentOrderID   string   `json:"payment_order_id,omitempty"`
	PaymentSessionID string   `json:"payment_session_id,omitempty"`
}

type BookingUsecase interface {
	Create(ctx context.Context, clientID string, input CreateBookingInput) (*BookingCheckout, error)
	ListForClient(ctx context.Context, clientID string) ([]BookingView, error)
	ListForCoach(ctx context.Context, coachAccountID string) ([]BookingView, error)
	UpdateStatus(ctx context.Context, actor Identity, bookingID int64, status string) (*Booking, error)
}
