package v1

import (
	"context"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"

	"github.com/stretchr/testify/mock"
)

var identities = map[string]domain.Identity{
	"client-token": {AccountID: "client-1", Email: "client@example.com", Roles: []string{domain.RoleClient}},
	"coach-token":  {AccountID: "coach-1", Email: "coach@example.com", Roles: []string{domain.RoleCoach}},
	"admin-token":  {AccountID: "admin-1", Email: "admin@example.com", Roles: []string{domain.RoleAdmin}},
}

type MockAuthUC struct {
	mock.Mock
}

func (m *MockAuthUC) Register(ctx context.Context, input domain.RegisterInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUC) Login(ctx context.Context, input domain.LoginInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUC) SocialLogin(ctx context.Context, input domain.SocialLoginInput) (*domain.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

func (m *MockAuthUC) ForgotPassword(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func (m *MockAuthUC) ResetPassword(ctx context.Context, input domain.ResetPasswordInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *MockAuthUC) VerifyEmail(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockAuthUC) Me(ctx context.Context, accountID string) (*domain.Me, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Me), args.Error(1)
}

func (m *MockAuthUC) ActivateRole(ctx context.Context, accountID, role string) (*domain.AuthResult, error) {
	args := m.Called(ctx, accountID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AuthResult), args.Error(1)
}

// Authenticate resolves the fixed test tokens without touching the mock.
func (m *MockAuthUC) Authenticate(_ context.Context, raw string) (*domain.Identity, error) {
	id, ok := identities[raw]
	if !ok {
		return nil, apperror.Unauthorized("Invalid or expired token")
	}
	return &id, nil
}

type MockTestimonialUC struct {
	mock.Mock
}

func (m *MockTestimonialUC) ListForCoach(ctx context.Context, coachAccountID string) ([]domain.Testimonial, error) {
	args := m.Called(ctx, coachAccountID)
	return args.Get(0).([]domain.Testimonial), args.Error(1)
}

func (m *MockTestimonialUC) Eligibility(ctx context.Context, clientID, coachAccountID string) ([]domain.EligibleBooking, error) {
	args := m.Called(ctx, clientID, coachAccountID)
	return args.Get(0).([]domain.EligibleBooking), args.Error(1)
}

func (m *MockTestimonialUC) CheckBooking(ctx context.Context, clientID string, bookingID int64) (*domain.BookingReviewStatus, error) {
	args := m.Called(ctx, clientID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingReviewStatus), args.Error(1)
}

func (m *MockTestimonialUC) Create(ctx context.Context, clientID, coachAccountID string, input domain.CreateTestimonialInput) (*domain.Testimonial, error) {
	args := m.Called(ctx, clientID, coachAccountID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Testimonial), args.Error(1)
}

func (m *MockTestimonialUC) Update(ctx context.Context, clientID string, id int64, input domain.UpdateTestimonialInput) (*domain.Testimonial, error) {
	args := m.Called(ctx, clientID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Testimonial), args.Error(1)
}

func (m *MockTestimonialUC) Delete(ctx context.Context, clientID string, id int64) error {
	return m.Called(ctx, clientID, id).Error(0)
}

type MockFollowUC struct {
	mock.Mock
}

func (m *MockFollowUC) Follow(ctx context.Context, followerID, coachID string) (*domain.Follow, error) {
	args := m.Called(ctx, followerID, coachID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Follow), args.Error(1)
}

func (m *MockFollowUC) Unfollow(ctx context.Context, followerID, coachID string) error {
	return m.Called(ctx, followerID, coachID).Error(0)
}

func (m *MockFollowUC) ListFollowing(ctx context.Context, followerID string) ([]domain.CoachProfile, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]domain.CoachProfile), args.Error(1)
}

func (m *MockFollowUC) FollowerCount(ctx context.Context, coachID string) (int, error) {
	args := m.Called(ctx, coachID)
	return args.Int(0), args.Error(1)
}

type MockBookingUC struct {
	mock.Mock
}

func (m *MockBookingUC) Create(ctx context.Context, clientID string, input domain.CreateBookingInput) (*domain.BookingCheckout, error) {
	args := m.Called(ctx, clientID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingCheckout), args.Error(1)
}

func (m *MockBookingUC) ListForClient(ctx context.Context, clientID string) ([]domain.BookingView, error) {
	args := m.Called(ctx, clientID)
	return args.Get(0).([]domain.BookingView), args.Error(1)
}

func (m *MockBookingUC) ListForCoach(ctx context.Context, coachAccountID string) ([]domain.BookingView, error) {
	args := m.Called(ctx, coachAccountID)
	return args.Get(0).([]domain.BookingView), args.Error(1)
}

func (m *MockBookingUC) UpdateStatus(ctx context.Context, actor domain.Identity, bookingID int64, status string) (*domain.Booking, error) {
	args := m.Called(ctx, actor, bookingID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

type MockSessionUC struct {
	mock.Mock
}

func (m *MockSessionUC) CreateForCoach(ctx context.Context, coachAccountID, kind string, input domain.SessionInput) (*domain.Session, error) {
	args := m.Called(ctx, coachAccountID, kind, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionUC) UpdateForCoach(ctx context.Context, coachAccountID, kind string, id int64, input domain.SessionInput) (*domain.Session, error) {
	args := m.Called(ctx, coachAccountID, kind, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionUC) DeleteForCoach(ctx context.Context, coachAccountID, kind string, id int64) (*domain.DeleteResult, error) {
	args := m.Called(ctx, coachAccountID, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DeleteResult), args.Error(1)
}

func (m *MockSessionUC) ListForCoach(ctx context.Context, coachAccountID, kind string) ([]domain.Session, error) {
	args := m.Called(ctx, coachAccountID, kind)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionUC) ListPublic(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Session), args.Error(1)
}

func (m *MockSessionUC) GetPublic(ctx context.Context, id int64) (*domain.Session, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockSessionUC) Feed(ctx context.Context, followerID string) ([]domain.Session, error) {
	args := m.Called(ctx, followerID)
	return args.Get(0).([]domain.Session), args.Error(1)
}

type MockPaymentUC struct {
	mock.Mock
}

func (m *MockPaymentUC) VerifyOrder(ctx context.Context, orderID string) (*domain.PaymentVerification, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentVerification), args.Error(1)
}

type MockAdminUC struct {
	mock.Mock
}

func (m *MockAdminUC) ListAccounts(ctx context.Context, filter domain.AccountFilter) ([]domain.Account, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAdminUC) AssignRoles(ctx context.Context, actorID, accountID string, roles []string) (*domain.Account, error) {
	args := m.Called(ctx, actorID, accountID, roles)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAdminUC) ListSecurityEvents(ctx context.Context, filter domain.SecurityEventFilter, page, pageSize int) (*domain.PaginatedResult[domain.SecurityEventView], error) {
	args := m.Called(ctx, filter, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaginatedResult[domain.SecurityEventView]), args.Error(1)
}

type stubHealth struct {
	status map[string]string
	ok     bool
}

func (s stubHealth) Check(context.Context) (map[string]string, bool) {
	return s.status, s.ok
}
