package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"coachflow-backend/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// activeBookingStatuses hold a seat on a session.
var activeBookingStatuses = []string{
	domain.BookingStatusPending,
	domain.BookingStatusPaymentPending,
	domain.BookingStatusConfirmed,
	domain.BookingStatusCompleted,
}

const sessionColumns = `s.id, s.coach_profile_id, s.kind, s.title, s.description, s.session_type, s.audience,
	s.duration_minutes, s.price, s.currency, s.starts_at, s.availability, s.capacity, s.is_active,
	s.created_at, s.updated_at, cp.account_id, a.first_name, a.last_name,
	(SELECT COUNT(*) FROM bookings b WHERE b.session_id = s.id
		AND b.status IN ('pending', 'payment_pending', 'confirmed', 'completed')) AS booked_count`

type sessionRepo struct {
	db *pgxpool.Pool
}

func NewSessionRepository(db *pgxpool.Pool) domain.SessionRepository {
	return &sessionRepo{db: db}
}

func scanSession(row pgx.Row) (*domain.Session, error) {
	var s domain.Session
	var availability []byte
	err := row.Scan(
		&s.ID, &s.CoachProfileID, &s.Kind, &s.Title, &s.Description, &s.SessionType, &s.Audience,
		&s.DurationMinutes, &s.Price, &s.Currency, &s.StartsAt, &availability, &s.Capacity, &s.IsActive,
		&s.CreatedAt, &s.UpdatedAt, &s.CoachAccountID, &s.CoachFirstName, &s.CoachLastName, &s.BookedCount,
	)
	if err != nil {
		return nil, notFound(err)
	}
	if s.Availability, err = decodeAvailability(availability); err != nil {
		return nil, err
	}
	return &s, nil
}

func decodeAvailability(raw []byte) ([]domain.AvailabilityWindow, error) {
	windows := []domain.AvailabilityWindow{}
	if len(raw) == 0 {
		return windows, nil
	}
	if err := json.Unmarshal(raw, &windows); err != nil {
		return nil, fmt.Errorf("invalid availability column: %w", err)
	}
	return windows, nil
}

func encodeAvailability(windows []domain.AvailabilityWindow) (string, error) {
	if windows == nil {
		windows = []domain.AvailabilityWindow{}
	}
	b, err := json.Marshal(windows)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func sessions() *goqu.SelectDataset {
	return dialect.From(goqu.T("sessions").As("s")).
		Join(goqu.T("coach_profiles").As("cp"), goqu.On(goqu.I("cp.id").Eq(goqu.I("s.coach_profile_id")))).
		Join(goqu.T("accounts").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("cp.account_id")))).
		Select(goqu.L(sessionColumns))
}

func (r *sessionRepo) Create(ctx context.Context, s *domain.Session) error {
	availability, err := encodeAvailability(s.Availability)
	if err != nil {
		return err
	}
	query := `INSERT INTO sessions (coach_profile_id, kind, title, description, session_type, audience,
		duration_minutes, price, currency, starts_at, availability, capacity, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11::jsonb, $12, $13)
		RETURNING id, created_at, updated_at`
	err = r.db.QueryRow(ctx, query,
		s.CoachProfileID, s.Kind, s.Title, s.Description, s.SessionType, s.Audience,
		s.DurationMinutes, s.Price, s.Currency, s.StartsAt, availability, s.Capacity, s.IsActive,
	).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	query, args, err := sessions().Where(goqu.I("s.id").Eq(id)).Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build session query: %w", err)
	}
	return scanSession(r.db.QueryRow(ctx, query, args...))
}

func (r *sessionRepo) Update(ctx context.Context, s *domain.Session) error {
	availability, err := encodeAvailability(s.Availability)
	if err != nil {
		return err
	}
	query := `UPDATE sessions SET
		title = $2, description = $3, session_type = $4, audience = $5, duration_minutes = $6,
		price = $7, currency = $8, starts_at = $9, availability = $10::jsonb, capacity = $11, is_active = $12,
		updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`
	err = r.db.QueryRow(ctx, query,
		s.ID, s.Title, s.Description, s.SessionType, s.Audience, s.DurationMinutes,
		s.Price, s.Currency, s.StartsAt, availability, s.Capacity, s.IsActive,
	).Scan(&s.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

func (r *sessionRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.db.Exec(ctx, `UPDATE sessions SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return fmt.Errorf("failed to update session: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sessionRepo) HasBookings(ctx context.Context, id int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE session_id = $1)`, id).Scan(&exists)
	return exists, err
}

func (r *sessionRepo) List(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error) {
	ds := sessions().Order(goqu.I("s.created_at").Desc())

	if f.CoachAccountID != "" {
		ds = ds.Where(goqu.I("cp.account_id").Eq(f.CoachAccountID))
	}
	if f.CoachProfileID != 0 {
		ds = ds.Where(goqu.I("s.coach_profile_id").Eq(f.CoachProfileID))
	}
	if f.Kind != "" {
		ds = ds.Where(goqu.I("s.kind").Eq(f.Kind))
	}
	if f.SessionType != "" {
		ds = ds.Where(goqu.I("s.session_type").Eq(f.SessionType))
	}
	if f.Audience != "" {
		ds = ds.Where(goqu.I("s.audience").Eq(f.Audience))
	}
	if f.Search != "" {
		p := containsPattern(f.Search)
		ds = ds.Where(goqu.Or(
			goqu.I("s.title").ILike(p),
			goqu.I("s.description").ILike(p),
		))
	}
	if f.ActiveOnly {
		ds = ds.Where(goqu.I("s.is_active").IsTrue())
	}
	if f.FollowerID != "" {
		ds = ds.Where(goqu.L("cp.account_id IN (SELECT coach_id FROM follows WHERE follower_id = ?)", f.FollowerID))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build session list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	list := []domain.Session{}
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, *s)
	}
	return list, rows.Err()
}
