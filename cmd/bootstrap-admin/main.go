// Command bootstrap-admin grants the admin role to an account, creating the
// account first when it does not exist. Role changes after that go through
// PUT /api/admin/accounts/:id/roles.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"slices"
	"strings"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/internal/repository/postgres"
	"coachflow-backend/pkg/auth"
	"coachflow-backend/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	email := flag.String("email", "", "account email (required)")
	firstName := flag.String("first-name", "Admin", "first name when creating the account")
	flag.Parse()

	if *email == "" {
		log.Fatal("-email is required")
	}
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := database.NewPostgresConnection(ctx, dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	// password only matters for a new account; read from env so it stays out of shell history
	password := os.Getenv("BOOTSTRAP_ADMIN_PASSWORD")

	account, created, err := grantAdmin(ctx, postgres.NewAccountRepository(pool), *email, *firstName, password)
	if err != nil {
		log.Fatal(err)
	}
	if created {
		fmt.Printf("Created admin account %s (%s)\n", account.Email, account.ID)
		return
	}
	fmt.Printf("Granted admin to %s (%s), roles now %v\n", account.Email, account.ID, account.Roles)
}

// grantAdmin adds the admin role to the account with this email, keeping its other roles.
func grantAdmin(ctx context.Context, accounts domain.AccountRepository, email, firstName, password string) (*domain.Account, bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	account, err := accounts.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		if len(password) < 8 {
			return nil, false, errors.New("BOOTSTRAP_ADMIN_PASSWORD (min 8 chars) is required to create a new account")
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			return nil, false, err
		}
		account = &domain.Account{
			Email:         email,
			PasswordHash:  &hash,
			AuthProvider:  domain.AuthProviderPassword,
			FirstName:     firstName,
			Roles:         []string{domain.RoleAdmin},
			EmailVerified: true,
		}
		if err := accounts.Create(ctx, account); err != nil {
			return nil, false, fmt.Errorf("failed to create account: %w", err)
		}
		return account, true, nil
	case err != nil:
		return nil, false, fmt.Errorf("failed to look up account: %w", err)
	}

	if slices.Contains(account.Roles, domain.RoleAdmin) {
		return account, false, nil
	}
	roles := append(slices.Clone(account.Roles), domain.RoleAdmin)
	if err := accounts.UpdateRoles(ctx, account.ID, roles); err != nil {
		return nil, false, fmt.Errorf("failed to update roles: %w", err)
	}
	account.Roles = roles
	return account, false, nil
}
