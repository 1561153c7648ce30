package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const notEligibleMsg = "This booking is not eligible for a testimonial"

type testimonialUsecase struct {
	testimonials domain.TestimonialRepository
	bookings     domain.BookingRepository
	coaches      domain.CoachProfileRepository
	validate     *validator.Validate
}

func NewTestimonialUsecase(
	testimonials domain.TestimonialRepository,
	bookings domain.BookingRepository,
	coaches domain.CoachProfileRepository,
	validate *validator.Validate,
) domain.TestimonialUsecase {
	return &testimonialUsecase{
		testimonials: testimonials,
		bookings:     bookings,
		coaches:      coaches,
		validate:     validate,
	}
}

func (uc *testimonialUsecase) coach(ctx context.Context, coachAccountID string) (*domain.CoachProfile, error) {
	coach, err := uc.coaches.GetByAccountID(ctx, coachAccountID)
	if err != nil {
		return nil, repoError(err, "Coach not found")
	}
	return coach, nil
}

func (uc *testimonialUsecase) ListForCoach(ctx context.Context, coachAccountID string) ([]domain.Testimonial, error) {
	coach, err := uc.coach(ctx, coachAccountID)
	if err != nil {
		return nil, err
	}
	list, err := uc.testimonials.ListByCoachProfile(ctx, coach.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

// Eligibility lists the caller's completed, unreviewed bookings with this coach.
func (uc *testimonialUsecase) Eligibility(ctx context.Context, clientID, coachAccountID string) ([]domain.EligibleBooking, error) {
	coach, err := uc.coach(ctx, coachAccountID)
	if err != nil {
		return nil, err
	}
	rows, err := uc.bookings.ListReviewable(ctx, clientID, coach.ID)
	if err != nil {
		return nil, apperror.Internal(err)
	}

	out := make([]domain.EligibleBooking, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.EligibleBooking{BookingID: r.BookingID, Label: bookingLabel(r)})
	}
	return out, nil
}

func bookingLabel(r domain.ReviewableBooking) string {
	when := r.CreatedAt
	if r.ScheduledAt != nil {
		when = *r.ScheduledAt
	}
	return fmt.Sprintf("%s (%s)", r.SessionTitle, when.Format("02 Jan 2006"))
}

func (uc *testimonialUsecase) CheckBooking(ctx context.Context, clientID string, bookingID int64) (*domain.BookingReviewStatus, error) {
	view, err := uc.bookings.GetView(ctx, bookingID)
	if err != nil {
		return nil, repoError(err, "Booking not found")
	}
	if view.ClientID != clientID {
		return nil, apperror.Forbidden("You can only check your own bookings")
	}

	status := &domain.BookingReviewStatus{
		BookingID:  view.ID,
		Status:     view.Status,
		IsReviewed: view.IsReviewed,
		CanReview:  view.Status == domain.BookingStatusCompleted && !view.IsReviewed,
		CoachID:    view.Session.CoachAccountID,
	}
	if view.IsReviewed {
		t, err := uc.testimonials.GetByBookingID(ctx, bookingID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		status.Testimonial = t
	}
	return status, nil
}

// Create writes a testimonial for a completed, unreviewed booking owned by the caller.
// Anything else, including an unknown booking, is a 403.
func (uc *testimonialUsecase) Create(ctx context.Context, clientID, coachAccountID string, input domain.CreateTestimonialInput) (*domain.Testimonial, error) {
	input.Content = strings.TrimSpace(input.Content)
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}

	coach, err := uc.coach(ctx, coachAccountID)
	if err != nil {
		return nil, err
	}

	view, err := uc.bookings.GetView(ctx, input.BookingID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Forbidden(notEligibleMsg)
	}
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if view.ClientID != clientID ||
		view.Session.CoachProfileID != coach.ID ||
		view.Status != domain.BookingStatusCompleted ||
		view.IsReviewed {
		return nil, apperror.Forbidden(notEligibleMsg)
	}

	t := &domain.Testimonial{
		BookingID:      view.ID,
		CoachProfileID: coach.ID,
		ClientID:       clientID,
		Rating:         input.Rating,
		Title:          input.Title,
		Content:        input.Content,
		SessionType:    view.Session.SessionType,
	}
	// the repository re-checks under a row lock; a concurrent submission loses here
	if err := uc.testimonials.CreateForBooking(ctx, t); err != nil {
		if errors.Is(err, domain.ErrBookingNotEligible) || errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Forbidden(notEligibleMsg)
		}
		return nil, apperror.Internal(err)
	}
	return t, nil
}

func (uc *testimonialUsecase) owned(ctx context.Context, clientID string, id int64) (*domain.Testimonial, error) {
	t, err := uc.testimonials.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Testimonial not found")
	}
	if t.ClientID != clientID {
		return nil, apperror.Forbidden("You can only modify your own testimonials")
	}
	return t, nil
}

func (uc *testimonialUsecase) Update(ctx context.Context, clientID string, id int64, input domain.UpdateTestimonialInput) (*domain.Testimonial, error) {
	input.Content = strings.TrimSpace(input.Content)
	if err := validateStruct(uc.validate, input); err != nil {
		return nil, err
	}
	t, err := uc.owned(ctx, clientID, id)
	if err != nil {
		return nil, err
	}

	t.Rating = input.Rating
	t.Title = input.Title
	t.Content = input.Content
	if err := uc.testimonials.Update(ctx, t); err != nil {
		return nil, repoError(err, "Testimonial not found")
	}
	return t, nil
}

func (uc *testimonialUsecase) Delete(ctx context.Context, clientID string, id int64) error {
	if _, err := uc.owned(ctx, clientID, id); err != nil {
		return err
	}
	if err := uc.testimonials.Delete(ctx, id); err != nil {
		return repoError(err, "Testimonial not found")
	}
	return nil
}
