package postgres

import (
	"context"

	"coachflow-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

type clientProfileRepo struct {
	db *pgxpool.Pool
}

func NewClientProfileRepository(db *pgxpool.Pool) domain.ClientProfileRepository {
	return &clientProfileRepo{db: db}
}

func (r *clientProfileRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.ClientProfile, error) {
	if _, err := uuid.Parse(accountID); err != nil {
		return nil, domain.ErrNotFound
	}
	query := `SELECT id, account_id, date_of_birth, gender, location, occupation, phone, goals, bio, created_at, updated_at
		FROM client_profiles WHERE account_id = $1`

	var p domain.ClientProfile
	err := r.db.QueryRow(ctx, query, accountID).Scan(
		&p.ID, &p.AccountID, &p.DateOfBirth, &p.Gender, &p.Location, &p.Occupation, &p.Phone,
		pq.Array(&p.Goals), &p.Bio, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *clientProfileRepo) Update(ctx context.Context, p *domain.ClientProfile) error {
	query := `UPDATE client_profiles SET
		date_of_birth = $2, gender = $3, location = $4, occupation = $5, phone = $6, goals = $7, bio = $8,
		updated_at = NOW()
		WHERE account_id = $1
		RETURNING id, created_at, updated_at`
	err := r.db.QueryRow(ctx, query,
		p.AccountID, p.DateOfBirth, p.Gender, p.Location, p.Occupation, p.Phone, pq.Array(p.Goals), p.Bio,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return notFound(err)
	}
	return nil
}
