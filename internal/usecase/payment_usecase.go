package usecase

import (
	"context"
	"errors"
	"strings"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/payment"
)

type paymentUsecase struct {
	bookings domain.BookingRepository
	gateway  PaymentGateway
}

func NewPaymentUsecase(bookings domain.BookingRepository, gateway PaymentGateway) domain.PaymentUsecase {
	return &paymentUsecase{bookings: bookings, gateway: gateway}
}

// VerifyOrder reconciles a gateway order with its booking: PAID confirms, anything else fails it.
// A completed booking keeps its status.
func (uc *paymentUsecase) VerifyOrder(ctx context.Context, orderID string) (*domain.PaymentVerification, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, apperror.BadRequest("Order id is required")
	}

	booking, err := uc.bookings.GetByPaymentOrderID(ctx, orderID)
	if err != nil {
		return nil, repoError(err, "Booking not found for this order")
	}

	order, err := uc.gateway.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, payment.ErrOrderNotFound) {
			return nil, apperror.Upstream("Payment order not found at gateway", err)
		}
		return nil, apperror.Upstream(err.Error(), err)
	}

	next := domain.BookingStatusPaymentFailed
	if order.IsPaid() {
		next = domain.BookingStatusConfirmed
	}
	// completed and cancelled bookings are final
	switch booking.Status {
	case domain.BookingStatusCompleted, domain.BookingStatusCancelled:
		next = booking.Status
	}
	if next != booking.Status {
		if err := uc.bookings.UpdateStatus(ctx, booking.ID, next); err != nil {
			return nil, repoError(err, "Booking not found for this order")
		}
	}

	return &domain.PaymentVerification{
		OrderID:       orderID,
		OrderStatus:   order.OrderStatus,
		Paid:          order.IsPaid(),
		BookingID:     booking.ID,
		BookingStatus: next,
	}, nil
}
