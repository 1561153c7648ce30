package postgres

import (
	"context"
	"fmt"
	"time"

	"coachflow-backend/internal/domain"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"
)

const accountColumns = `id, email, password_hash, auth_provider, provider_uid, first_name, last_name,
	roles, email_verified, verification_token_hash, reset_token_hash, reset_token_expires_at,
	created_at, updated_at`

type accountRepo struct {
	db *pgxpool.Pool
}

func NewAccountRepository(db *pgxpool.Pool) domain.AccountRepository {
	return &accountRepo{db: db}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &a.AuthProvider, &a.ProviderUID, &a.FirstName, &a.LastName,
		pq.Array(&a.Roles), &a.EmailVerified, &a.VerificationTokenHash, &a.ResetTokenHash, &a.ResetTokenExpiresAt,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, notFound(err)
	}
	return &a, nil
}

func (r *accountRepo) Create(ctx context.Context, a *domain.Account) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `INSERT INTO accounts (id, email, password_hash, auth_provider, provider_uid, first_name, last_name,
		roles, email_verified, verification_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err = tx.Exec(ctx, query,
		a.ID, a.Email, a.PasswordHash, a.AuthProvider, a.ProviderUID, a.FirstName, a.LastName,
		pq.Array(a.Roles), a.EmailVerified, a.VerificationTokenHash, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("failed to insert account: %w", err)
	}

	if err := ensureProfiles(ctx, tx, a.ID, a.Roles); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// ensureProfiles creates the 1:1 profile row for each profile-bearing role.
func ensureProfiles(ctx context.Context, q querier, accountID string, roles []string) error {
	for _, role := range roles {
		var query string
		switch role {
		case domain.RoleCoach:
			query = `INSERT INTO coach_profiles (account_id) VALUES ($1) ON CONFLICT (account_id) DO NOTHING`
		case domain.RoleClient:
			query = `INSERT INTO client_profiles (account_id) VALUES ($1) ON CONFLICT (account_id) DO NOTHING`
		default:
			continue
		}
		if _, err := q.Exec(ctx, query, accountID); err != nil {
			return fmt.Errorf("failed to create %s profile: %w", role, err)
		}
	}
	return nil
}

func (r *accountRepo) getBy(ctx context.Context, column string, value any) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE ` + column + ` = $1`
	return scanAccount(r.db.QueryRow(ctx, query, value))
}

func (r *accountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	return r.getBy(ctx, "id", id)
}

func (r *accountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.getBy(ctx, "email", email)
}

func (r *accountRepo) GetByProviderUID(ctx context.Context, uid string) (*domain.Account, error) {
	return r.getBy(ctx, "provider_uid", uid)
}

func (r *accountRepo) GetByVerificationTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	return r.getBy(ctx, "verification_token_hash", hash)
}

func (r *accountRepo) GetByResetTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	return r.getBy(ctx, "reset_token_hash", hash)
}

func (r *accountRepo) exec(ctx context.Context, query string, args ...any) error {
	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *accountRepo) LinkProvider(ctx context.Context, id, uid string, emailVerified bool) error {
	return r.exec(ctx, `UPDATE accounts
		SET provider_uid = $2, email_verified = email_verified OR $3, updated_at = NOW()
		WHERE id = $1`, id, uid, emailVerified)
}

func (r *accountRepo) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return r.exec(ctx, `UPDATE accounts
		SET reset_token_hash = $2, reset_token_expires_at = $3, updated_at = NOW()
		WHERE id = $1`, id, hash, expiresAt)
}

func (r *accountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return r.exec(ctx, `UPDATE accounts
		SET password_hash = $2, reset_token_hash = NULL, reset_token_expires_at = NULL, updated_at = NOW()
		WHERE id = $1`, id, passwordHash)
}

func (r *accountRepo) MarkEmailVerified(ctx context.Context, id string) error {
	return r.exec(ctx, `UPDATE accounts
		SET email_verified = TRUE, verification_token_hash = NULL, updated_at = NOW()
		WHERE id = $1`, id)
}

func (r *accountRepo) UpdateRoles(ctx context.Context, id string, roles []string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE accounts SET roles = $2, updated_at = NOW() WHERE id = $1`, id, pq.Array(roles))
	if err != nil {
		return fmt.Errorf("failed to update roles: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	if err := ensureProfiles(ctx, tx, id, roles); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *accountRepo) List(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	ds := dialect.From("accounts").
		Select(goqu.L(accountColumns)).
		Order(goqu.I("created_at").Desc())

	if filter.Search != "" {
		p := containsPattern(filter.Search)
		ds = ds.Where(goqu.Or(
			goqu.I("first_name").ILike(p),
			goqu.I("last_name").ILike(p),
			goqu.I("email").ILike(p),
		))
	}
	if filter.Role != "" {
		ds = ds.Where(goqu.L("? = ANY(roles)", filter.Role))
	}

	query, args, err := ds.Prepared(true).ToSQL()
	if err != nil {
		return nil, fmt.Errorf("failed to build account list query: %w", err)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *a)
	}
	return accounts, rows.Err()
}
