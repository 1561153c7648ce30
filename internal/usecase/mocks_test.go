package usecase_test

import (
	"context"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/auth"
	"coachflow-backend/pkg/payment"

	"github.com/stretchr/testify/mock"
)

type MockAccountRepo struct {
	mock.Mock
}

func (m *MockAccountRepo) account(args mock.Arguments) (*domain.Account, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepo) Create(ctx context.Context, a *domain.Account) error {
	return m.Called(ctx, a).Error(0)
}
func (m *MockAccountRepo) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	return m.account(m.Called(ctx, id))
}
func (m *MockAccountRepo) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return m.account(m.Called(ctx, email))
}
func (m *MockAccountRepo) GetByProviderUID(ctx context.Context, uid string) (*domain.Account, error) {
	return m.account(m.Called(ctx, uid))
}
func (m *MockAccountRepo) GetByVerificationTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	return m.account(m.Called(ctx, hash))
}
func (m *MockAccountRepo) GetByResetTokenHash(ctx context.Context, hash string) (*domain.Account, error) {
	return m.account(m.Called(ctx, hash))
}
func (m *MockAccountRepo) LinkProvider(ctx context.Context, id, uid string, verified bool) error {
	return m.Called(ctx, id, uid, verified).Error(0)
}
func (m *MockAccountRepo) SetResetToken(ctx context.Context, id, hash string, expiresAt time.Time) error {
	return m.Called(ctx, id, hash, expiresAt).Error(0)
}
func (m *MockAccountRepo) UpdatePassword(ctx context.Context, id, hash string) error {
	return m.Called(ctx, id, hash).Error(0)
}
func (m *MockAccountRepo) MarkEmailVerified(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockAccountRepo) UpdateRoles(ctx context.Context, id string, roles []string) error {
	return m.Called(ctx, id, roles).Error(0)
}
func (m *MockAccountRepo) List(ctx context.Context, f domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

type MockCoachProfileRepo struct {
	mock.Mock
}

func (m *MockCoachProfileRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.CoachProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CoachProfile), args.Error(1)
}
func (m *MockCoachProfileRepo) Update(ctx context.Context, p *domain.CoachProfile) error {
	return m.Called(ctx, p).Error(0)
}
func (m *MockCoachProfileRepo) Search(ctx context.Context, f domain.CoachFilter) ([]domain.CoachProfile, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoachProfile), args.Error(1)
}

type MockClientProfileRepo struct {
	mock.Mock
}

func (m *MockClientProfileRepo) GetByAccountID(ctx context.Context, accountID string) (*domain.ClientProfile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ClientProfile), args.Error(1)
}
func (m *MockClientProfileRepo) Update(ctx context.Context, p *domain.ClientProfile) error {
	return m.Called(ctx, p).Error(0)
}

type MockSessionRepo struct {
	mock.Mock
}

func (m *MockSessionRepo) Create(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockSessionRepo) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}
func (m *MockSessionRepo) Update(ctx context.Context, s *domain.Session) error {
	return m.Called(ctx, s).Error(0)
}
func (m *MockSessionRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockSessionRepo) SetActive(ctx context.Context, id int64, active bool) error {
	return m.Called(ctx, id, active).Error(0)
}
func (m *MockSessionRepo) List(ctx context.Context, f domain.SessionFilter) ([]domain.Session, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Session), args.Error(1)
}
func (m *MockSessionRepo) HasBookings(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

type MockFollowRepo struct {
	mock.Mock
}

func (m *MockFollowRepo) Create(ctx context.Context, f *domain.Follow) error {
	return m.Called(ctx, f).Error(0)
}
func (m *MockFollowRepo) Delete(ctx context.Context, followerID, coachID string) error {
	return m.Called(ctx, followerID, coachID).Error(0)
}
func (m *MockFollowRepo) ListFollowedCoaches(ctx context.Context, followerID string) ([]domain.CoachProfile, error) {
	args := m.Called(ctx, followerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CoachProfile), args.Error(1)
}
func (m *MockFollowRepo) CountFollowers(ctx context.Context, coachID string) (int, error) {
	args := m.Called(ctx, coachID)
	return args.Int(0), args.Error(1)
}

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) SendVerificationEmail(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}
func (m *MockMailer) SendPasswordResetEmail(ctx context.Context, to, name, token string) error {
	return m.Called(ctx, to, name, token).Error(0)
}

type MockLoginGuard struct {
	mock.Mock
}

func (m *MockLoginGuard) IsBlocked(ctx context.Context, email, ip string) (bool, error) {
	args := m.Called(ctx, email, ip)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) RecordFailedAttempt(ctx context.Context, email, ip, ua, reqID string) (bool, int, error) {
	args := m.Called(ctx, email, ip, ua, reqID)
	return args.Bool(0), args.Int(1), args.Error(2)
}
func (m *MockLoginGuard) ClearAttempts(ctx context.Context, email, ip string) error {
	return m.Called(ctx, email, ip).Error(0)
}

type MockFederatedVerifier struct {
	mock.Mock
}

func (m *MockFederatedVerifier) Verify(ctx context.Context, raw string) (*auth.FederatedClaims, error) {
	args := m.Called(ctx, raw)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.FederatedClaims), args.Error(1)
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) CreateOrder(ctx context.Context, req payment.CreateOrderRequest) (*payment.Order, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

func (m *MockGateway) GetOrder(ctx context.Context, orderID string) (*payment.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Order), args.Error(1)
}

type MockSecurityEventRepo struct {
	mock.Mock
}

func (m *MockSecurityEventRepo) ListEvents(ctx context.Context, filter domain.SecurityEventFilter) ([]domain.SecurityEventView, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.SecurityEventView), args.Get(1).(int64), args.Error(2)
}
