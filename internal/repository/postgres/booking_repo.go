package postgres

import (
	"context"
	"fmt"

	"coachflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const bookingColumns = `b.id, b.client_id, b.session_id, b.status, b.is_reviewed, b.scheduled_at,
	b.amount, b.currency, b.payment_order_id, b.notes, b.created_at, b.updated_at`

const bookingViewQuery = `SELECT ` + bookingColumns + `, ` + sessionColumns + `,
	a.email, cp.avatar_url, cl.id, cl.first_name, cl.last_name, cl.email
	FROM bookings b
	JOIN sessions s ON s.id = b.session_id
	JOIN coach_profiles cp ON cp.id = s.coach_profile_id
	JOIN accounts a ON a.id = cp.account_id
	JOIN accounts cl ON cl.id = b.client_id`

type bookingRepo struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) domain.BookingRepository {
	return &bookingRepo{db: db}
}

func bookingFields(b *domain.Booking) []any {
	return []any{
		&b.ID, &b.ClientID, &b.SessionID, &b.Status, &b.IsReviewed, &b.ScheduledAt,
		&b.Amount, &b.Currency, &b.PaymentOrderID, &b.Notes, &b.CreatedAt, &b.UpdatedAt,
	}
}

func scanBookingView(row pgx.Row) (*domain.BookingView, error) {
	var v domain.BookingView
	var availability []byte
	s := &v.Session

	dest := bookingFields(&v.Booking)
	dest = append(dest,
		&s.ID, &s.CoachProfileID, &s.Kind, &s.Title, &s.Description, &s.SessionType, &s.Audience,
		&s.DurationMinutes, &s.Price, &s.Currency, &s.StartsAt, &availability, &s.Capacity, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt, &s.CoachAccountID, &s.CoachFirstName, &s.CoachLastName, &s.BookedCount,
		&v.Coach.Email, &v.Coach.AvatarURL,
		&v.Client.ID, &v.Client.FirstName, &v.Client.LastName, &v.Client.Email,
	)
	if err := row.Scan(dest...); err != nil {
		return nil, notFound(err)
	}

	var err error
	if s.Availability, err = decodeAvailability(availability); err != nil {
		return nil, err
	}
	v.Coach.ID = s.CoachAccountID
	v.Coach.FirstName = s.CoachFirstName
	v.Coach.LastName = s.CoachLastName
	return &v, nil
}

func (r *bookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	return insertBooking(ctx, r.db, b)
}

// lockSessionSeats serialises bookings of one session until the transaction ends.
const lockSessionSeats = `SELECT id FROM sessions WHERE id = $1 FOR UPDATE`

const countSessionSeats = `SELECT COUNT(*) FROM bookings WHERE session_id = $1 AND status = ANY($2)`

func (r *bookingRepo) CreateWithinCapacity(ctx context.Context, b *domain.Booking, capacity int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var sessionID int64
	if err := tx.QueryRow(ctx, lockSessionSeats, b.SessionID).Scan(&sessionID); err != nil {
		return notFound(err)
	}

	var taken int
	if err := tx.QueryRow(ctx, countSessionSeats, sessionID, pq.Array(activeBookingStatuses)).Scan(&taken); err != nil {
		return fmt.Errorf("failed to count bookings: %w", err)
	}
	if taken >= capacity {
		return domain.ErrSessionFull
	}

	if err := insertBooking(ctx, tx, b); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func insertBooking(ctx context.Context, q querier, b *domain.Booking) error {
	query := `INSERT INTO bookings (client_id, session_id, status, scheduled_at, amount, currency, payment_order_id, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, is_reviewed, created_at, updated_at`
	err := q.QueryRow(ctx, query,
		b.ClientID, b.SessionID, b.Status, b.ScheduledAt, b.Amount, b.Currency, b.PaymentOrderID, b.Notes,
	).Scan(&b.ID, &b.IsReviewed, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *bookingRepo) getBy(ctx context.Context, column string, value any) (*domain.Booking, error) {
	var b domain.Booking
	query := `SELECT ` + bookingColumns + ` FROM bookings b WHERE b.` + column + ` = $1`
	if err := r.db.QueryRow(ctx, query, value).Scan(bookingFields(&b)...); err != nil {
		return nil, notFound(err)
	}
	return &b, nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.getBy(ctx, "id", id)
}

func (r *bookingRepo) GetByPaymentOrderID(ctx context.Context, orderID string) (*domain.Booking, error) {
	return r.getBy(ctx, "payment_order_id", orderID)
}

func (r *bookingRepo) GetView(ctx context.Context, id int64) (*domain.BookingView, error) {
	return scanBookingView(r.db.QueryRow(ctx, bookingViewQuery+` WHERE b.id = $1`, id))
}

func (r *bookingRepo) SetPaymentOrder(ctx context.Context, id int64, orderID string) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET payment_order_id = $2, updated_at = NOW() WHERE id = $1`, id, orderID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to set payment order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, id int64, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *bookingRepo) listViews(ctx context.Context, where string, arg any) ([]domain.BookingView, error) {
	rows, err := r.db.Query(ctx, bookingViewQuery+` WHERE `+where+` ORDER BY b.created_at DESC`, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	defer rows.Close()

	views := []domain.BookingView{}
	for rows.Next() {
		v, err := scanBookingView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, *v)
	}
	return views, rows.Err()
}

func (r *bookingRepo) ListForClient(ctx context.Context, clientID string) ([]domain.BookingView, error) {
	if _, err := uuid.Parse(clientID); err != nil {
		return []domain.BookingView{}, nil
	}
	return r.listViews(ctx, "b.client_id = $1", clientID)
}

func (r *bookingRepo) ListForCoach(ctx context.Context, coachProfileID int64) ([]domain.BookingView, error) {
	return r.listViews(ctx, "s.coach_profile_id = $1", coachProfileID)
}

func (r *bookingRepo) ListReviewable(ctx context.Context, clientID string, coachProfileID int64) ([]domain.ReviewableBooking, error) {
	query := `SELECT b.id, s.title, s.session_type, b.scheduled_at, b.created_at
		FROM bookings b
		JOIN sessions s ON s.id = b.session_id
		WHERE b.client_id = $1 AND s.coach_profile_id = $2
			AND b.status = $3 AND b.is_reviewed = FALSE
		ORDER BY b.created_at DESC`
	rows, err := r.db.Query(ctx, query, clientID, coachProfileID, domain.BookingStatusCompleted)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviewable bookings: %w", err)
	}
	defer rows.Close()

	list := []domain.ReviewableBooking{}
	for rows.Next() {
		var rb domain.ReviewableBooking
		if err := rows.Scan(&rb.BookingID, &rb.SessionTitle, &rb.SessionType, &rb.ScheduledAt, &rb.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, rb)
	}
	return list, rows.Err()
}
