package postgres

import (
	"context"
	"fmt"

	"coachflow-backend/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/jackc/pgx/v5/pgxpool"
)

type followRepo struct {
	db *pgxpool.Pool
}

func NewFollowRepository(db *pgxpool.Pool) domain.FollowRepository {
	return &followRepo{db: db}
}

func (r *followRepo) Create(ctx context.Context, f *domain.Follow) error {
	err := r.db.QueryRow(ctx, `INSERT INTO follows (follower_id, coach_id) VALUES ($1, $2) RETURNING created_at`,
		f.FollowerID, f.CoachID,
	).Scan(&f.CreatedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return domain.ErrDuplicate
		case isForeignKeyViolation(err):
			return domain.ErrNotFound
		}
		return fmt.Errorf("failed to create follow: %w", err)
	}
	return nil
}

func (r *followRepo) Delete(ctx context.Context, followerID, coachID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM follows WHERE follower_id = $1 AND coach_id = $2`, followerID, coachID)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *followRepo) ListFollowedCoaches(ctx context.Context, followerID string) ([]domain.CoachProfile, error) {
	query, args, err := coachProfiles().
		Join(goqu.T("follows").As("f"), goqu.On(goqu.I("f.coach_id").Eq(goqu.I("cp.account_id")))).
		Where(goqu.I("f.follower_id").Eq(followerID)).
		Order(goqu.I("f.created_at").Desc()).
		Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build follow list query: %w", err)
	}
	return queryCoachProfiles(ctx, r.db, query, args...)
}

func (r *followRepo) CountFollowers(ctx context.Context, coachID string) (int, error) {
	var n int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE coach_id = $1`, coachID).Scan(&n)
	return n, err
}
