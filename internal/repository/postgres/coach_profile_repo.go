package postgres

import (
	"context"
	"fmt"

	"coachflow-backend/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const coachProfileColumns = `cp.id, cp.account_id, cp.headline, cp.bio, cp.specialties, cp.certifications,
	cp.experience_years, cp.hourly_rate, cp.currency, cp.avatar_url, cp.phone,
	cp.average_rating, cp.review_count, cp.created_at, cp.updated_at,
	a.first_name, a.last_name`

type coachProfileRepo struct {
	db *pgxpool.Pool
}

func NewCoachProfileRepository(db *pgxpool.Pool) domain.CoachProfileRepository {
	return &coachProfileRepo{db: db}
}

func scanCoachProfile(row pgx.Row) (*domain.CoachProfile, error) {
	var p domain.CoachProfile
	err := row.Scan(
		&p.ID, &p.AccountID, &p.Headline, &p.Bio, pq.Array(&p.Specialties), pq.Array(&p.Certifications),
		&p.ExperienceYears, &p.HourlyRate, &p.Currency, &p.AvatarURL, &p.Phone,
		&p.AverageRating, &p.ReviewCount, &p.CreatedAt, &p.UpdatedAt,
		&p.FirstName, &p.LastName,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

// coachProfiles selects profiles of accounts currently holding the coach role.
func coachProfiles() *goqu.SelectDataset {
	return dialect.From(goqu.T("coach_profiles").As("cp")).
		Join(goqu.T("accounts").As("a"), goqu.On(goqu.I("a.id").Eq(goqu.I("cp.account_id")))).
		Select(goqu.L(coachProfileColumns)).
		Where(goqu.L("? = ANY(a.roles)", domain.RoleCoach))
}

func (r *coachProfileRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.CoachProfile, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, domain.ErrNotFound
	}
	query, args, err := coachProfiles().
		Where(goqu.I("cp.account_id").Eq(accountID)).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build coach profile query: %w", err)
	}
	return scanCoachProfile(r.db.QueryRow(ctx, query, args...))
}

func (r *coachProfileRepo) Update(ctx context.Context, p *domain.CoachProfile) error {
	query := `UPDATE coach_profiles SET
		headline = $2, bio = $3, specialties = $4, certifications = $5, experience_years = $6,
		hourly_rate = $7, currency = $8, avatar_url = $9, phone = $10, updated_at = NOW()
		WHERE account_id = $1
		RETURNING updated_at`
	err := r.db.QueryRow(ctx, query,
		p.AccountID, p.Headline, p.Bio, pq.Array(p.Specialties), pq.Array(p.Certifications), p.ExperienceYears,
		p.HourlyRate, p.Currency, p.AvatarURL, p.Phone,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}

func (r *coachProfileRepo) Search(ctx context.Context, filter domain.CoachFilter) ([]domain.CoachProfile, error) {
	query, args, err := coachSearchQuery(filter)
	if err != nil {
		return nil, fmt.Errorf("failed to build coach search query: %w", err)
	}
	return queryCoachProfiles(ctx, r.db, query, args...)
}

// coachSearchQuery matches the search term against first or last name, case-insensitive.
func coachSearchQuery(filter domain.CoachFilter) (string, []any, error) {
	ds := coachProfiles().Order(goqu.I("cp.average_rating").Desc(), goqu.I("a.first_name").Asc())

	if filter.Search != "" {
		p := containsPattern(filter.Search)
		ds = ds.Where(goqu.Or(
			goqu.I("a.first_name").ILike(p),
			goqu.I("a.last_name").ILike(p),
		))
	}
	if filter.Specialty != "" {
		ds = ds.Where(goqu.L("? ILIKE ANY(cp.specialties)", filter.Specialty))
	}
	return ds.Prepared(true).ToSQL()
}

func queryCoachProfiles(ctx context.Context, q querier, query string, args ...any) ([]domain.CoachProfile, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query coach profiles: %w", err)
	}
	defer rows.Close()

	profiles := []domain.CoachProfile{}
	for rows.Next() {
		p, err := scanCoachProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
