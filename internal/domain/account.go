package domain

import (
	"context"
	"slices"
	"strings"
	"time"
)

const (
	AuthProviderPassword  = "password"
	AuthProviderFederated = "federated"
)

type Account struct {
	ID                    string     `json:"id"`
	Email                 string     `json:"email"`
	PasswordHash          *string    `json:"-"`
	AuthProvider          string     `json:"auth_provider"`
	ProviderUID           *string    `json:"-"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	Roles                 []string   `json:"roles"`
	EmailVerified         bool       `json:"email_verified"`
	VerificationTokenHash *string    `json:"-"`
	ResetTokenHash        *string    `json:"-"`
	ResetTokenExpiresAt   *time.Time `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (a *Account) HasRole(role string) bool {
	return a != nil && slices.Contains(a.Roles, role)
}

func (a *Account) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Identity is what the auth middleware puts on the request.
type Identity struct {
	AccountID string
	Email     string
	Roles     []string
}

type AccountFilter struct {
	Search string
	Role   string
}

type AccountRepository interface {
	// Create inserts the account plus an empty profile for each coach/client role. ErrDuplicate on email or provider uid.
	Create(ctx context.Context, account *Account) error
	GetByID(ctx context.Context, id string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	GetByProviderUID(ctx context.Context, uid string) (*Account, error)
	GetByVerificationTokenHash(ctx context.Context, hash string) (*Account, error)
	GetByResetTokenHash(ctx context.Context, hash string) (*Account, error)
	LinkProvider(ctx context.Context, id, uid string, emailVerified bool) error
	SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error
	// UpdatePassword sets the hash and clears any reset token.
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	MarkEmailVerified(ctx context.Context, id string) error
	// UpdateRoles replaces the role set and creates missing profiles in the same transaction.
	UpdateRoles(ctx context.Context, id string, roles []string) error
	List(ctx context.Context, filter AccountFilter) ([]Account, error)
}

type RegisterInput struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Password  string `json:"password" binding:"required,min=8,max=72"`
	FirstName string `json:"first_name" binding:"required,max=50" validate:"valid_name"`
	LastName  string `json:"last_name" binding:"max=50" validate:"valid_name"`
	Role      string `json:"role" binding:"required,oneof=client coach"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`

	IP        string `json:"-"`
	UserAgent string `json:"-"`
	RequestID string `json:"-"`
}

type SocialLoginInput struct {
	IDToken string `json:"id_token" binding:"required"`
	Role    string `json:"role" binding:"omitempty,oneof=client coach"`
}

type ForgotPasswordInput struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordInput struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8,max=72"`
}

type VerifyEmailInput struct {
	Token string `json:"token" binding:"required"`
}

type ActivateRoleInput struct {
	Role string `json:"role" binding:"required,oneof=client coach"`
}

type AssignRolesInput struct {
	Roles []string `json:"roles" binding:"required,min=1,dive,oneof=client coach admin"`
}

type AuthResult struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Account   *Account  `json:"account"`
}

// Me is the current account with whichever profiles it has.
type Me struct {
	Account       *Account       `json:"account"`
	CoachProfile  *CoachProfile  `json:"coach_profile,omitempty"`
	ClientProfile *ClientProfile `json:"client_profile,omitempty"`
}

type AuthUsecase interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, input LoginInput) (*AuthResult, error)
	SocialLogin(ctx context.Context, input SocialLoginInput) (*AuthResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, input ResetPasswordInput) error
	VerifyEmail(ctx context.Context, token string) error
	Me(ctx context.Context, accountID string) (*Me, error)
	ActivateRole(ctx context.Context, accountID, role string) (*AuthResult, error)
	// Authenticate resolves a bearer token (local or federated) to an identity.
	Authenticate(ctx context.Context, rawToken string) (*Identity, error)
}

type AdminUsecase interface {
	ListAccounts(ctx context.Context, filter AccountFilter) ([]Account, error)
	AssignRoles(ctx context.Context, actorID, accountID string, roles []string) (*Account, error)
	ListSecurityEvents(ctx context.Context, filter SecurityEventFilter, page, pageSize int) (*PaginatedResult[SecurityEventView], error)
}

// Mailer sends account emails.
type Mailer interface {
	SendVerificationEmail(ctx context.Context, to, name, token string) error
	SendPasswordResetEmail(ctx context.Context, to, name, token string) error
}
