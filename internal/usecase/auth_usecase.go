package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
	"coachflow-backend/pkg/auth"
	"coachflow-backend/pkg/logger"
	"coachflow-backend/pkg/security"

	"github.com/go-playground/validator/v10"
)

const resetTokenTTL = time.Hour

// TokenService issues and parses locally signed access tokens.
type TokenService interface {
	Issue(accountID, email string, roles []string) (string, time.Time, error)
	Parse(raw string) (*auth.Claims, error)
}

// FederatedVerifier validates third-party identity tokens.
type FederatedVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.FederatedClaims, error)
}

// LoginGuard tracks failed logins.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email, ip string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email, ip, userAgent, requestID string) (bool, int, error)
	ClearAttempts(ctx context.Context, email, ip string) error
}

type AuthUsecaseConfig struct {
	Accounts       domain.AccountRepository
	CoachProfiles  domain.CoachProfileRepository
	ClientProfiles domain.ClientProfileRepository
	Tokens         TokenService
	Federated      FederatedVerifier // nil disables social login
	Mailer         domain.Mailer
	LoginGuard     LoginGuard
	Audit          *security.SecurityLogger
	Validate       *validator.Validate
	// ForgotPasswordFloor pads forgot-password so timing does not reveal whether the email exists.
	ForgotPasswordFloor time.Duration
}

type authUsecase struct {
	cfg AuthUsecaseConfig
	now func() time.Time
}

func NewAuthUsecase(cfg AuthUsecaseConfig) domain.AuthUsecase {
	return &authUsecase{cfg: cfg, now: time.Now}
}

func (uc *authUsecase) issue(account *domain.Account) (*domain.AuthResult, error) {
	token, expiresAt, err := uc.cfg.Tokens.Issue(account.ID, account.Email, account.Roles)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthResult{Token: token, ExpiresAt: expiresAt, Account: account}, nil
}

func (uc *authUsecase) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	input.Email = normalizeEmail(input.Email)
	input.FirstName = strings.TrimSpace(input.FirstName)
	input.LastName = strings.TrimSpace(input.LastName)
	if err := validateStruct(uc.cfg.Validate, input); err != nil {
		return nil, err
	}
	if !domain.IsSelfServiceRole(input.Role) {
		return nil, apperror.BadRequest("Role must be client or coach")
	}

	if _, err := uc.cfg.Accounts.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("An account with this email already exists")
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	rawToken, tokenHash, err := auth.NewOneTimeToken()
	if err != nil {
		return nil, apperror.Internal(err)
	}

	account := &domain.Account{
		Email:                 input.Email,
		PasswordHash:          &hash,
		AuthProvider:          domain.AuthProviderPassword,
		FirstName:             input.FirstName,
		LastName:              input.LastName,
		Roles:                 []string{input.Role},
		VerificationTokenHash: &tokenHash,
	}
	if err := uc.cfg.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("An account with this email already exists")
		}
		return nil, apperror.Internal(err)
	}

	if err := uc.cfg.Mailer.SendVerificationEmail(ctx, account.Email, account.FirstName, rawToken); err != nil {
		logger.Log.WarnContext(ctx, "verification email failed", "account_id", account.ID, "error", err)
	}

	return uc.issue(account)
}

func (uc *authUsecase) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	email := normalizeEmail(input.Email)

	blocked, err := uc.cfg.LoginGuard.IsBlocked(ctx, email, input.IP)
	if err != nil {
		logger.Log.WarnContext(ctx, "login block check failed", "error", err)
	}
	if blocked {
		uc.cfg.Audit.LogLoginBlocked(ctx, email, input.IP, input.UserAgent, input.RequestID)
		return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
	}

	account, err := uc.cfg.Accounts.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}
	if account == nil || account.PasswordHash == nil || !auth.CheckPassword(*account.PasswordHash, input.Password) {
		nowBlocked, _, err := uc.cfg.LoginGuard.RecordFailedAttempt(ctx, email, input.IP, input.UserAgent, input.RequestID)
		if err != nil {
			logger.Log.WarnContext(ctx, "failed to record login attempt", "error", err)
		}
		if nowBlocked {
			return nil, apperror.TooManyRequests("Too many failed login attempts. Please try again later.")
		}
		return nil, apperror.Unauthorized("Invalid email or password")
	}

	if err := uc.cfg.LoginGuard.ClearAttempts(ctx, email, input.IP); err != nil {
		logger.Log.WarnContext(ctx, "failed to clear login attempts", "error", err)
	}
	uc.cfg.Audit.Log(ctx, security.SecurityEvent{
		Event:        security.EventLoginSuccess,
		SubjectType:  "account_id",
		SubjectValue: account.ID,
		IP:           input.IP,
		RequestID:    input.RequestID,
	})
	return uc.issue(account)
}

func (uc *authUsecase) SocialLogin(ctx context.Context, input domain.SocialLoginInput) (*domain.AuthResult, error) {
	if uc.cfg.Federated == nil {
		return nil, apperror.BadRequest("Social login is not enabled")
	}
	claims, err := uc.cfg.Federated.Verify(ctx, input.IDToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid identity token")
	}
	email := normalizeEmail(claims.Email)
	if email == "" {
		return nil, apperror.BadRequest("Identity token has no email")
	}

	account, err := uc.cfg.Accounts.GetByProviderUID(ctx, claims.Subject)
	if err == nil {
		return uc.issue(account)
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, apperror.Internal(err)
	}

	account, err = uc.cfg.Accounts.GetByEmail(ctx, email)
	switch {
	case err == nil:
		// only a verified address may be linked to an existing account
		if !claims.EmailVerified {
			return nil, apperror.Conflict("An account with this email already exists; sign in with your password")
		}
		if err := uc.cfg.Accounts.LinkProvider(ctx, account.ID, claims.Subject, claims.EmailVerified); err != nil {
			return nil, repoError(err, "Account not found")
		}
		account.ProviderUID = &claims.Subject
		account.EmailVerified = account.EmailVerified || claims.EmailVerified
		return uc.issue(account)
	case !errors.Is(err, domain.ErrNotFound):
		return nil, apperror.Internal(err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleClient
	}
	if !domain.IsSelfServiceRole(role) {
		return nil, apperror.BadRequest("Role must be client or coach")
	}
	first, last := splitName(claims.Name)
	account = &domain.Account{
		Email:         email,
		AuthProvider:  domain.AuthProviderFederated,
		ProviderUID:   &claims.Subject,
		FirstName:     first,
		LastName:      last,
		Roles:         []string{role},
		EmailVerified: claims.EmailVerified,
	}
	if err := uc.cfg.Accounts.Create(ctx, account); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, apperror.Conflict("An account with this email already exists")
		}
		return nil, apperror.Internal(err)
	}
	return uc.issue(account)
}

func splitName(name string) (string, string) {
	name = strings.TrimSpace(name)
	first, last, _ := strings.Cut(name, " ")
	return first, strings.TrimSpace(last)
}

func (uc *authUsecase) ForgotPassword(ctx context.Context, email string) error {
	defer sleepUntil(ctx, uc.now().Add(uc.cfg.ForgotPasswordFloor))

	account, err := uc.cfg.Accounts.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperror.Internal(err)
	}

	rawToken, tokenHash, err := auth.NewOneTimeToken()
	if err != nil {
		return apperror.Internal(err)
	}
	if err := uc.cfg.Accounts.SetResetToken(ctx, account.ID, tokenHash, uc.now().Add(resetTokenTTL)); err != nil {
		return apperror.Internal(err)
	}
	if err := uc.cfg.Mailer.SendPasswordResetEmail(ctx, account.Email, account.FirstName, rawToken); err != nil {
		logger.Log.ErrorContext(ctx, "password reset email failed", "account_id", account.ID, "error", err)
	}
	return nil
}

func (uc *authUsecase) ResetPassword(ctx context.Context, input domain.ResetPasswordInput) error {
	if err := validateStruct(uc.cfg.Validate, input); err != nil {
		return err
	}

	account, err := uc.cfg.Accounts.GetByResetTokenHash(ctx, auth.HashOneTimeToken(input.Token))
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.BadRequest("Invalid or expired reset token")
	}
	if err != nil {
		return apperror.Internal(err)
	}
	if account.ResetTokenExpiresAt == nil || uc.now().After(*account.ResetTokenExpiresAt) {
		return apperror.BadRequest("Invalid or expired reset token")
	}

	hash, err := auth.HashPassword(input.NewPassword)
	if err != nil {
		return apperror.Internal(err)
	}
	if err := uc.cfg.Accounts.UpdatePassword(ctx, account.ID, hash); err != nil {
		return repoError(err, "Account not found")
	}
	uc.cfg.Audit.LogPasswordReset(ctx, account.ID)
	return nil
}

func (uc *authUsecase) VerifyEmail(ctx context.Context, token string) error {
	if strings.TrimSpace(token) == "" {
		return apperror.BadRequest("Verification token is required")
	}
	account, err := uc.cfg.Accounts.GetByVerificationTokenHash(ctx, auth.HashOneTimeToken(token))
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.BadRequest("Invalid or expired verification token")
	}
	if err != nil {
		return apperror.Internal(err)
	}
	if err := uc.cfg.Accounts.MarkEmailVerified(ctx, account.ID); err != nil {
		return repoError(err, "Account not found")
	}
	return nil
}

func (uc *authUsecase) Me(ctx context.Context, accountID string) (*domain.Me, error) {
	account, err := uc.cfg.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, repoError(err, "Account not found")
	}
	me := &domain.Me{Account: account}

	if account.HasRole(domain.RoleCoach) {
		p, err := uc.cfg.CoachProfiles.GetByAccountID(ctx, accountID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		me.CoachProfile = p
	}
	if account.HasRole(domain.RoleClient) {
		p, err := uc.cfg.ClientProfiles.GetByAccountID(ctx, accountID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.Internal(err)
		}
		me.ClientProfile = p
	}
	return me, nil
}

func (uc *authUsecase) ActivateRole(ctx context.Context, accountID, role string) (*domain.AuthResult, error) {
	if !domain.IsSelfServiceRole(role) {
		return nil, apperror.BadRequest("Role must be client or coach")
	}
	account, err := uc.cfg.Accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, repoError(err, "Account not found")
	}
	if !account.HasRole(role) {
		roles := append(slices.Clone(account.Roles), role)
		if err := uc.cfg.Accounts.UpdateRoles(ctx, accountID, roles); err != nil {
			return nil, repoError(err, "Account not found")
		}
		account.Roles = roles
	}
	return uc.issue(account)
}

func (uc *authUsecase) Authenticate(ctx context.Context, rawToken string) (*domain.Identity, error) {
	alg, err := auth.SigningAlgorithm(rawToken)
	if err != nil {
		return nil, apperror.Unauthorized("Invalid token")
	}

	var account *domain.Account
	switch {
	case strings.HasPrefix(alg, "HS"):
		claims, err := uc.cfg.Tokens.Parse(rawToken)
		if err != nil {
			return nil, apperror.Unauthorized("Invalid token")
		}
		account, err = uc.cfg.Accounts.GetByID(ctx, claims.Subject)
		if err != nil {
			return nil, accountLookupError(err)
		}
	case strings.HasPrefix(alg, "RS") && uc.cfg.Federated != nil:
		claims, err := uc.cfg.Federated.Verify(ctx, rawToken)
		if err != nil {
			return nil, apperror.Unauthorized("Invalid token")
		}
		account, err = uc.cfg.Accounts.GetByProviderUID(ctx, claims.Subject)
		if err != nil {
			return nil, accountLookupError(err)
		}
	default:
		return nil, apperror.Unauthorized("Invalid token")
	}

	// roles come from the database, not the token, so role changes apply immediately
	return &domain.Identity{AccountID: account.ID, Email: account.Email, Roles: account.Roles}, nil
}

func accountLookupError(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return apperror.Unauthorized("Account not found")
	}
	return apperror.Internal(err)
}
