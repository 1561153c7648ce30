package postgres

import (
	"context"
	"fmt"

	"coachflow-backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const testimonialColumns = `t.id, t.booking_id, t.coach_profile_id, t.client_id, t.rating, t.title, t.content,
	t.session_type, t.created_at, t.updated_at, a.first_name, a.last_name`

const testimonialSelect = `SELECT ` + testimonialColumns + `
	FROM testimonials t
	JOIN accounts a ON a.id = t.client_id`

type testimonialRepo struct {
	db *pgxpool.Pool
}

func NewTestimonialRepository(db *pgxpool.Pool) domain.TestimonialRepository {
	return &testimonialRepo{db: db}
}

func scanTestimonial(row pgx.Row) (*domain.Testimonial, error) {
	var t domain.Testimonial
	err := row.Scan(
		&t.ID, &t.BookingID, &t.CoachProfileID, &t.ClientID, &t.Rating, &t.Title, &t.Content,
		&t.SessionType, &t.CreatedAt, &t.UpdatedAt, &t.ClientFirstName, &t.ClientLastName,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &t, nil
}

func (r *testimonialRepo) CreateForBooking(ctx context.Context, t *domain.Testimonial) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Lock the booking so a concurrent submission waits and then sees is_reviewed = TRUE.
	var (
		clientID, status, sessionType string
		reviewed                      bool
		coachProfileID                int64
	)
	err = tx.QueryRow(ctx, `SELECT b.client_id, b.status, b.is_reviewed, s.coach_profile_id, s.session_type
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		WHERE b.id = $1
		FOR UPDATE OF b`, t.BookingID,
	).Scan(&clientID, &status, &reviewed, &coachProfileID, &sessionType)
	if err != nil {
		return notFound(err)
	}

	if clientID != t.ClientID || coachProfileID != t.CoachProfileID ||
		status != domain.BookingStatusCompleted || reviewed {
		return domain.ErrBookingNotEligible
	}

	t.SessionType = sessionType
	err = tx.QueryRow(ctx, `INSERT INTO testimonials (booking_id, coach_profile_id, client_id, rating, title, content, session_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		t.BookingID, t.CoachProfileID, t.ClientID, t.Rating, t.Title, t.Content, t.SessionType,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrBookingNotEligible
		}
		return fmt.Errorf("failed to insert testimonial: %w", err)
	}

	if _, err := tx.Exec(ctx, `UPDATE bookings SET is_reviewed = TRUE, updated_at = NOW() WHERE id = $1`, t.BookingID); err != nil {
		return fmt.Errorf("failed to mark booking reviewed: %w", err)
	}
	if err := refreshCoachRating(ctx, tx, t.CoachProfileID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// refreshCoachRating recomputes average_rating and review_count from the testimonials table.
func refreshCoachRating(ctx context.Context, q querier, coachProfileID int64) error {
	_, err := q.Exec(ctx, `UPDATE coach_profiles cp SET
		average_rating = COALESCE(agg.avg_rating, 0),
		review_count = agg.cnt,
		updated_at = NOW()
		FROM (
			SELECT ROUND(AVG(rating)::numeric, 2)::float8 AS avg_rating, COUNT(*) AS cnt
			FROM testimonials WHERE coach_profile_id = $1
		) agg
		WHERE cp.id = $1`, coachProfileID)
	if err != nil {
		return fmt.Errorf("failed to refresh coach rating: %w", err)
	}
	return nil
}

func (r *testimonialRepo) GetByID(ctx context.Context, id int64) (*domain.Testimonial, error) {
	return scanTestimonial(r.db.QueryRow(ctx, testimonialSelect+` WHERE t.id = $1`, id))
}

func (r *testimonialRepo) GetByBookingID(ctx context.Context, bookingID int64) (*domain.Testimonial, error) {
	return scanTestimonial(r.db.QueryRow(ctx, testimonialSelect+` WHERE t.booking_id = $1`, bookingID))
}

func (r *testimonialRepo) ListByCoachProfile(ctx context.Context, coachProfileID int64) ([]domain.Testimonial, error) {
	rows, err := r.db.Query(ctx, testimonialSelect+` WHERE t.coach_profile_id = $1 ORDER BY t.created_at DESC`, coachProfileID)
	if err != nil {
		return nil, fmt.Errorf("failed to list testimonials: %w", err)
	}
	defer rows.Close()

	list := []domain.Testimonial{}
	for rows.Next() {
		t, err := scanTestimonial(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *t)
	}
	return list, rows.Err()
}

func (r *testimonialRepo) Update(ctx context.Context, t *domain.Testimonial) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	err = tx.QueryRow(ctx, `UPDATE testimonials SET rating = $2, title = $3, content = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`, t.ID, t.Rating, t.Title, t.Content,
	).Scan(&t.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	if err := refreshCoachRating(ctx, tx, t.CoachProfileID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Delete removes the testimonial. The booking stays reviewed.
func (r *testimonialRepo) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var coachProfileID int64
	err = tx.QueryRow(ctx, `DELETE FROM testimonials WHERE id = $1 RETURNING coach_profile_id`, id).Scan(&coachProfileID)
	if err != nil {
		return notFound(err)
	}
	if err := refreshCoachRating(ctx, tx, coachProfileID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
