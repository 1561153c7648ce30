package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/logger"
	"coachflow-backend/pkg/payment"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// PaymentGateway is the subset of the gateway client the usecases need.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (*payment.Order, error)
	GetOrder(ctx context.Context, orderID string) (*payment.Order, error)
}

type bookingUsecase struct {
	bookings  domain.BookingRepository
	sessions  domain.SessionRepository
	coaches   domain.CoachProfileRepository
	accounts  domain.AccountRepository
	gateway   PaymentGateway
	returnURL string
	validate  *validator.Validate
	now       func() time.Time
}

func NewBookingUsecase(
	bookings domain.BookingRepository,
	sessions domain.SessionRepository,
	coaches domain.CoachProfileRepository,
	accounts domain.AccountRepository,
	gateway PaymentGateway,
	returnURL string,
	validate *validator.Validate,
) domain.BookingUsecase {
	return &bookingUsecase{
		bookings:  bookings,
		sessions:  sessions,
		coaches:   coaches,
		accounts:  accounts,
		gateway:   gateway,
		returnURL: returnURL,
		validate:  validate,
		now:       time.Now,
	}
}

func (uc *bookingUsecase) Create(ctx context.Context, clientID string, input domain.CreateBookingInput) (*domain.BookingCheckout, error) {
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}

	// 1. Session must exist, be active and belong to someone else
	session, err := uc.sessions.GetByID(ctx, input.SessionID)
	if err != nil {
		return nil, repoError(err, "Session not found")
	}
	if !session.IsActive {
		return nil, apperror.BadRequest("Session is not available for booking")
	}
	if session.CoachAccountID == clientID {
		return nil, apperror.BadRequest("You cannot book your own session")
	}

	// 2. Timing; event capacity is enforced at insert
	scheduledAt := input.ScheduledAt
	if session.Kind == domain.SessionKindEvent {
		if session.StartsAt == nil || !session.StartsAt.After(uc.now()) {
			return nil, apperror.BadRequest("This event has already started")
		}
		scheduledAt = session.StartsAt
	} else if scheduledAt != nil && !scheduledAt.After(uc.now()) {
		return nil, apperror.BadRequest("Scheduled time must be in the future")
	}

	// 3. Free sessions confirm immediately, paid ones wait for the gateway
	booking := &domain.Booking{
		ClientID:    clientID,
		SessionID:   session.ID,
		Status:      domain.BookingStatusConfirmed,
		ScheduledAt: scheduledAt,
		Amount:      session.Price,
		Currency:    session.Currency,
		Notes:       input.Notes,
	}
	if !session.IsFree() {
		booking.Status = domain.BookingStatusPaymentPending
	}
	if err := uc.insert(ctx, booking, session); err != nil {
		if errors.Is(err, domain.ErrSessionFull) {
			return nil, apperror.Conflict("This event is fully booked")
		}
		return nil, repoError(err, "Session not found")
	}

	checkout := &domain.BookingCheckout{Booking: booking}
	if session.IsFree() {
		return checkout, nil
	}

	// 4. Open a gateway order for the paid booking
	order, err := uc.openOrder(ctx, clientID, booking, session)
	if err != nil {
		if uerr := uc.bookings.UpdateStatus(ctx, booking.ID, domain.BookingStatusPaymentFailed); uerr != nil {
			logger.Log.ErrorContext(ctx, "failed to mark booking payment_failed", "booking_id", booking.ID, "error", uerr)
		}
		return nil, apperror.Upstream(err.Error(), err)
	}
	if err := uc.bookings.SetPaymentOrder(ctx, booking.ID, order.OrderID); err != nil {
		return nil, apperror.Internal(err)
	}
	booking.PaymentOrderID = &order.OrderID

	checkout.PaymentRequired = true
	checkout.PaymentOrderID = order.OrderID
	checkout.PaymentSessionID = order.PaymentSessionID
	return checkout, nil
}

// insert enforces event capacity inside the repository transaction.
func (uc *bookingUsecase) insert(ctx context.Context, booking *domain.Booking, session *domain.Session) error {
	if session.Kind == domain.SessionKindEvent && session.Capacity != nil {
		return uc.bookings.CreateWithinCapacity(ctx, booking, *session.Capacity)
	}
	return uc.bookings.Create(ctx, booking)
}

func (uc *bookingUsecase) openOrder(ctx context.Context, clientID string, booking *domain.Booking, session *domain.Session) (*payment.Order, error) {
	client, err := uc.accounts.GetByID(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("load client: %w", err)
	}
	orderID := fmt.Sprintf("booking_%d_%s", booking.ID, strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
	order, err := uc.gateway.CreateOrder(ctx, payment.CreateOrderRequest{
		OrderID:  orderID,
		Amount:   booking.Amount,
		Currency: booking.Currency,
		Customer: payment.Customer{
			ID:    client.ID,
			Email: client.Email,
			Name:  client.FullName(),
		},
		ReturnURL: uc.returnURL,
		Note:      session.Title,
	})
	if err != nil {
		return nil, err
	}
	if order.OrderID == "" {
		order.OrderID = orderID
	}
	return order, nil
}

func (uc *bookingUsecase) ListForClient(ctx context.Context, clientID string) ([]domain.BookingView, error) {
	list, err := uc.bookings.ListForClient(ctx, clientID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (uc *bookingUsecase) ListForCoach(ctx context.Context, coachAccountID string) ([]domain.BookingView, error) {
	coach, err := uc.coaches.GetByAccountID(ctx, coachAccountID)
	if err != nil {
		return nil, repoError(err, "Coach profile not found")
	}
	list, err := uc.bookings.ListForCoach(ctx, coach.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// UpdateStatus applies a coach or client transition. Completed bookings are final.
func (uc *bookingUsecase) UpdateStatus(ctx context.Context, actor domain.Identity, bookingID int64, status string) (*domain.Booking, error) {
	view, err := uc.bookings.GetView(ctx, bookingID)
	if err != nil {
		return nil, repoError(err, "Booking not found")
	}

	isCoach := view.Session.CoachAccountID == actor.AccountID
	isClient := view.ClientID == actor.AccountID
	if !isCoach && !isClient {
		return nil, apperror.Forbidden("You cannot modify this booking")
	}

	current := view.Status
	switch current {
	case domain.BookingStatusCompleted:
		return nil, apperror.BadRequest("Completed bookings cannot be changed")
	case domain.BookingStatusCancelled:
		return nil, apperror.BadRequest("Booking is already cancelled")
	}

	switch status {
	case domain.BookingStatusCancelled:
		// either party may cancel
	case domain.BookingStatusConfirmed:
		if !isCoach {
			return nil, apperror.Forbidden("Only the coach can confirm a booking")
		}
		if current != domain.BookingStatusPending && current != domain.BookingStatusPaymentFailed {
			return nil, apperror.BadRequest(fmt.Sprintf("Cannot confirm a booking in status %s", current))
		}
	case domain.BookingStatusCompleted:
		if !isCoach {
			return nil, apperror.Forbidden("Only the coach can complete a booking")
		}
		if current != domain.BookingStatusConfirmed {
			return nil, apperror.BadRequest("Only confirmed bookings can be completed")
		}
	default:
		return nil, apperror.New(http.StatusBadRequest, "Unsupported status", nil)
	}

	if err := uc.bookings.UpdateStatus(ctx, bookingID, status); err != nil {
		return nil, repoError(err, "Booking not found")
	}
	booking := view.Booking
	booking.Status = status
	return &booking, nil
}
