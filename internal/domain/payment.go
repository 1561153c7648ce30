package domain

import "context"

// PaymentVerification is the outcome of reconciling a gateway order with its booking.
type PaymentVerification struct {
	OrderID       string `json:"order_id"`
	OrderStatus   string `json:"order_status"`
	Paid          bool   `json:"paid"`
	BookingID     int64  `json:"booking_id"`
	BookingStatus string `json:"booking_status"`
}

type PaymentUsecase interface {
	VerifyOrder(ctx context.Context, orderID string) (*PaymentVerification, error)
}
