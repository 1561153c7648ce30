package domain

import "errors"

// Repository sentinel errors. Usecases map them to apperror values.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrDuplicate          = errors.New("resource already exists")
	ErrBookingNotEligible = errors.New("booking is not eligible for a testimonial")
	ErrSessionFull        = errors.New("session is fully booked")
)
