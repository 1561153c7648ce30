package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/internal/usecase"
	"coachflow-backend/pkg/auth"
	"coachflow-backend/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	accounts  *MockAccountRepo
	coaches   *MockCoachProfileRepo
	clients   *MockClientProfileRepo
	mailer    *MockMailer
	guard     *MockLoginGuard
	federated *MockFederatedVerifier
	tokens    *auth.TokenIssuer
	uc        domain.AuthUsecase
}

func newAuthFixture() *authFixture {
	f := &authFixture{
		accounts:  new(MockAccountRepo),
		coaches:   new(MockCoachProfileRepo),
		clients:   new(MockClientProfileRepo),
		mailer:    new(MockMailer),
		guard:     new(MockLoginGuard),
		federated: new(MockFederatedVerifier),
		tokens:    auth.NewTokenIssuer("test-secret-that-is-long-enough", time.Hour),
	}
	f.uc = usecase.NewAuthUsecase(usecase.AuthUsecaseConfig{
		Accounts:       f.accounts,
		CoachProfiles:  f.coaches,
		ClientProfiles: f.clients,
		Tokens:         f.tokens,
		Federated:      f.federated,
		Mailer:         f.mailer,
		LoginGuard:     f.guard,
		Validate:       validation.New(),
	})
	return f
}

func passwordAccount(t *testing.T, password string, roles ...string) *domain.Account {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	return &domain.Account{
		ID:           clientAccount,
		Email:        "asha@example.com",
		PasswordHash: &hash,
		AuthProvider: domain.AuthProviderPassword,
		FirstName:    "Asha",
		Roles:        roles,
	}
}

func TestRegister(t *testing.T) {
	f := newAuthFixture()
	f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(nil, domain.ErrNotFound)
	f.accounts.On("Create", mock.Anything, mock.AnythingOfType("*domain.Account")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Account).ID = clientAccount
		}).Return(nil)
	f.mailer.On("SendVerificationEmail", mock.Anything, "asha@example.com", "Asha", mock.AnythingOfType("string")).Return(nil)

	res, err := f.uc.Register(context.Background(), domain.RegisterInput{
		Email:     "  Asha@Example.com ",
		Password:  "correct-horse",
		FirstName: "Asha",
		LastName:  "Rao",
		Role:      domain.RoleClient,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleClient}, res.Account.Roles)
	require.NotNil(t, res.Account.PasswordHash)
	assert.True(t, auth.CheckPassword(*res.Account.PasswordHash, "correct-horse"))
	assert.NotNil(t, res.Account.VerificationTokenHash)

	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, clientAccount, claims.Subject)
	f.mailer.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	f := newAuthFixture()
	f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(&domain.Account{ID: clientAccount}, nil)

	_, err := f.uc.Register(context.Background(), domain.RegisterInput{
		Email: "asha@example.com", Password: "correct-horse", FirstName: "Asha", Role: domain.RoleCoach,
	})
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestRegister_AdminRoleRejected(t *testing.T) {
	f := newAuthFixture()

	_, err := f.uc.Register(context.Background(), domain.RegisterInput{
		Email: "asha@example.com", Password: "correct-horse", FirstName: "Asha", Role: domain.RoleAdmin,
	})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestLogin(t *testing.T) {
	input := domain.LoginInput{Email: "asha@example.com", Password: "correct-horse", IP: "10.0.0.1"}

	t.Run("success clears attempts", func(t *testing.T) {
		f := newAuthFixture()
		f.guard.On("IsBlocked", mock.Anything, "asha@example.com", "10.0.0.1").Return(false, nil)
		f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(passwordAccount(t, "correct-horse", domain.RoleClient), nil)
		f.guard.On("ClearAttempts", mock.Anything, "asha@example.com", "10.0.0.1").Return(nil)

		res, err := f.uc.Login(context.Background(), input)
		require.NoError(t, err)
		assert.NotEmpty(t, res.Token)
		f.guard.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		f := newAuthFixture()
		f.guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(passwordAccount(t, "another-pass", domain.RoleClient), nil)
		f.guard.On("RecordFailedAttempt", mock.Anything, "asha@example.com", "10.0.0.1", "", "").Return(false, 1, nil)

		_, err := f.uc.Login(context.Background(), input)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		f.guard.AssertNotCalled(t, "ClearAttempts", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown email", func(t *testing.T) {
		f := newAuthFixture()
		f.guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(nil, domain.ErrNotFound)
		f.guard.On("RecordFailedAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, 1, nil)

		_, err := f.uc.Login(context.Background(), input)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("social-only account has no password", func(t *testing.T) {
		f := newAuthFixture()
		f.guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").
			Return(&domain.Account{ID: clientAccount, AuthProvider: domain.AuthProviderFederated}, nil)
		f.guard.On("RecordFailedAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(false, 1, nil)

		_, err := f.uc.Login(context.Background(), input)
		assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
	})

	t.Run("failure that trips the block", func(t *testing.T) {
		f := newAuthFixture()
		f.guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(false, nil)
		f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(passwordAccount(t, "another-pass"), nil)
		f.guard.On("RecordFailedAttempt", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, 5, nil)

		_, err := f.uc.Login(context.Background(), input)
		assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))
	})

	t.Run("already blocked", func(t *testing.T) {
		f := newAuthFixture()
		f.guard.On("IsBlocked", mock.Anything, mock.Anything, mock.Anything).Return(true, nil)

		_, err := f.uc.Login(context.Background(), input)
		assert.Equal(t, http.StatusTooManyRequests, statusOf(t, err))
		f.accounts.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})
}

func TestAuthenticate_RolesComeFromDatabase(t *testing.T) {
	f := newAuthFixture()
	token, _, err := f.tokens.Issue(clientAccount, "asha@example.com", []string{domain.RoleClient})
	require.NoError(t, err)
	f.accounts.On("GetByID", mock.Anything, clientAccount).
		Return(&domain.Account{ID: clientAccount, Email: "asha@example.com", Roles: []string{domain.RoleClient, domain.RoleCoach}}, nil)

	id, err := f.uc.Authenticate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, clientAccount, id.AccountID)
	assert.ElementsMatch(t, []string{domain.RoleClient, domain.RoleCoach}, id.Roles)
}

func TestAuthenticate_Rejections(t *testing.T) {
	f := newAuthFixture()
	foreign, _, err := auth.NewTokenIssuer("some-other-secret-entirely", time.Hour).Issue(clientAccount, "a@b.c", nil)
	require.NoError(t, err)
	deleted, _, err := f.tokens.Issue(otherClient, "gone@example.com", nil)
	require.NoError(t, err)
	f.accounts.On("GetByID", mock.Anything, otherClient).Return(nil, domain.ErrNotFound)

	for name, token := range map[string]string{
		"garbage":         "not-a-token",
		"wrong secret":    foreign,
		"deleted account": deleted,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := f.uc.Authenticate(context.Background(), token)
			assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
		})
	}
}

func TestForgotPassword(t *testing.T) {
	t.Run("unknown email is silent", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

		require.NoError(t, f.uc.ForgotPassword(context.Background(), "Ghost@Example.com"))
		f.accounts.AssertNotCalled(t, "SetResetToken", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		f.mailer.AssertNotCalled(t, "SendPasswordResetEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("known email gets a one hour token", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(passwordAccount(t, "correct-horse"), nil)
		f.accounts.On("SetResetToken", mock.Anything, clientAccount, mock.AnythingOfType("string"),
			mock.MatchedBy(func(exp time.Time) bool {
				d := time.Until(exp)
				return d > 59*time.Minute && d <= time.Hour
			})).Return(nil)
		f.mailer.On("SendPasswordResetEmail", mock.Anything, "asha@example.com", "Asha", mock.AnythingOfType("string")).Return(nil)

		require.NoError(t, f.uc.ForgotPassword(context.Background(), "asha@example.com"))
		f.accounts.AssertExpectations(t)
		f.mailer.AssertExpectations(t)
	})
}

func TestResetPassword(t *testing.T) {
	raw, hash, err := auth.NewOneTimeToken()
	require.NoError(t, err)

	t.Run("expired token", func(t *testing.T) {
		f := newAuthFixture()
		past := time.Now().Add(-time.Minute)
		f.accounts.On("GetByResetTokenHash", mock.Anything, hash).
			Return(&domain.Account{ID: clientAccount, ResetTokenExpiresAt: &past}, nil)

		err := f.uc.ResetPassword(context.Background(), domain.ResetPasswordInput{Token: raw, NewPassword: "brand-new-pass"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
		f.accounts.AssertNotCalled(t, "UpdatePassword", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown token", func(t *testing.T) {
		f := newAuthFixture()
		f.accounts.On("GetByResetTokenHash", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)

		err := f.uc.ResetPassword(context.Background(), domain.ResetPasswordInput{Token: "nope", NewPassword: "brand-new-pass"})
		assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	})

	t.Run("valid token", func(t *testing.T) {
		f := newAuthFixture()
		future := time.Now().Add(30 * time.Minute)
		f.accounts.On("GetByResetTokenHash", mock.Anything, hash).
			Return(&domain.Account{ID: clientAccount, ResetTokenExpiresAt: &future}, nil)
		f.accounts.On("UpdatePassword", mock.Anything, clientAccount, mock.MatchedBy(func(h string) bool {
			return auth.CheckPassword(h, "brand-new-pass")
		})).Return(nil)

		require.NoError(t, f.uc.ResetPassword(context.Background(), domain.ResetPasswordInput{Token: raw, NewPassword: "brand-new-pass"}))
		f.accounts.AssertExpectations(t)
	})
}

func TestVerifyEmail(t *testing.T) {
	f := newAuthFixture()
	raw, hash, err := auth.NewOneTimeToken()
	require.NoError(t, err)
	f.accounts.On("GetByVerificationTokenHash", mock.Anything, hash).Return(&domain.Account{ID: clientAccount}, nil)
	f.accounts.On("GetByVerificationTokenHash", mock.Anything, mock.Anything).Return(nil, domain.ErrNotFound)
	f.accounts.On("MarkEmailVerified", mock.Anything, clientAccount).Return(nil)

	require.NoError(t, f.uc.VerifyEmail(context.Background(), raw))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, f.uc.VerifyEmail(context.Background(), "stale")))
	assert.Equal(t, http.StatusBadRequest, statusOf(t, f.uc.VerifyEmail(context.Background(), "")))
}

func TestActivateRole(t *testing.T) {
	f := newAuthFixture()
	f.accounts.On("GetByID", mock.Anything, clientAccount).
		Return(&domain.Account{ID: clientAccount, Roles: []string{domain.RoleClient}}, nil)
	f.accounts.On("UpdateRoles", mock.Anything, clientAccount, []string{domain.RoleClient, domain.RoleCoach}).Return(nil)

	res, err := f.uc.ActivateRole(context.Background(), clientAccount, domain.RoleCoach)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleClient, domain.RoleCoach}, res.Account.Roles)

	claims, err := f.tokens.Parse(res.Token)
	require.NoError(t, err)
	assert.Equal(t, []string{domain.RoleClient, domain.RoleCoach}, claims.Roles)

	_, err = f.uc.ActivateRole(context.Background(), clientAccount, domain.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestMe(t *testing.T) {
	f := newAuthFixture()
	f.accounts.On("GetByID", mock.Anything, coachAccount).
		Return(&domain.Account{ID: coachAccount, Roles: []string{domain.RoleCoach}}, nil)
	f.coaches.On("GetByAccountID", mock.Anything, coachAccount).Return(&domain.CoachProfile{ID: 7}, nil)

	me, err := f.uc.Me(context.Background(), coachAccount)
	require.NoError(t, err)
	require.NotNil(t, me.CoachProfile)
	assert.Nil(t, me.ClientProfile)
	f.clients.AssertNotCalled(t, "GetByAccountID", mock.Anything, mock.Anything)
}

func federatedClaims(uid, email, name string) *auth.FederatedClaims {
	return &auth.FederatedClaims{
		Email:            email,
		EmailVerified:    true,
		Name:             name,
		RegisteredClaims: jwt.RegisteredClaims{Subject: uid},
	}
}

func TestSocialLogin_LinksExistingEmail(t *testing.T) {
	f := newAuthFixture()
	f.federated.On("Verify", mock.Anything, "id-token").Return(federatedClaims("fed-uid", "Asha@Example.com", "Asha Rao"), nil)
	f.accounts.On("GetByProviderUID", mock.Anything, "fed-uid").Return(nil, domain.ErrNotFound)
	f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(passwordAccount(t, "correct-horse", domain.RoleClient), nil)
	f.accounts.On("LinkProvider", mock.Anything, clientAccount, "fed-uid", true).Return(nil)

	res, err := f.uc.SocialLogin(context.Background(), domain.SocialLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.True(t, res.Account.EmailVerified)
	f.accounts.AssertExpectations(t)
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSocialLogin_UnverifiedEmailDoesNotLink(t *testing.T) {
	f := newAuthFixture()
	claims := federatedClaims("other-uid", "asha@example.com", "Asha Rao")
	claims.EmailVerified = false
	f.federated.On("Verify", mock.Anything, "id-token").Return(claims, nil)
	f.accounts.On("GetByProviderUID", mock.Anything, "other-uid").Return(nil, domain.ErrNotFound)
	f.accounts.On("GetByEmail", mock.Anything, "asha@example.com").Return(passwordAccount(t, "correct-horse", domain.RoleClient), nil)

	res, err := f.uc.SocialLogin(context.Background(), domain.SocialLoginInput{IDToken: "id-token"})
	assert.Nil(t, res)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
	f.accounts.AssertNotCalled(t, "LinkProvider", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.accounts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSocialLogin_CreatesClientByDefault(t *testing.T) {
	f := newAuthFixture()
	f.federated.On("Verify", mock.Anything, "id-token").Return(federatedClaims("fed-uid", "new@example.com", "Meera K Iyer"), nil)
	f.accounts.On("GetByProviderUID", mock.Anything, "fed-uid").Return(nil, domain.ErrNotFound)
	f.accounts.On("GetByEmail", mock.Anything, "new@example.com").Return(nil, domain.ErrNotFound)
	f.accounts.On("Create", mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
		return a.FirstName == "Meera" && a.LastName == "K Iyer" &&
			a.PasswordHash == nil && a.AuthProvider == domain.AuthProviderFederated &&
			len(a.Roles) == 1 && a.Roles[0] == domain.RoleClient
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*domain.Account).ID = otherClient
	}).Return(nil)

	res, err := f.uc.SocialLogin(context.Background(), domain.SocialLoginInput{IDToken: "id-token"})
	require.NoError(t, err)
	assert.Equal(t, otherClient, res.Account.ID)
}

func TestSocialLogin_InvalidToken(t *testing.T) {
	f := newAuthFixture()
	f.federated.On("Verify", mock.Anything, "forged").Return(nil, auth.ErrInvalidToken)

	_, err := f.uc.SocialLogin(context.Background(), domain.SocialLoginInput{IDToken: "forged"})
	assert.Equal(t, http.StatusUnauthorized, statusOf(t, err))
}
