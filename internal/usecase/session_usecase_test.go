package usecase_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/internal/usecase"
	"coachflow-backend/pkg/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSessionFixture() (*MockSessionRepo, *MockCoachProfileRepo, domain.SessionUsecase) {
	sessions := new(MockSessionRepo)
	coaches := new(MockCoachProfileRepo)
	coaches.On("GetByAccountID", mock.Anything, coachAccount).
		Return(&domain.CoachProfile{ID: 7, AccountID: coachAccount, FirstName: "Priya"}, nil)
	return sessions, coaches, usecase.NewSessionUsecase(sessions, coaches, validation.New())
}

func sessionInput() domain.SessionInput {
	return domain.SessionInput{
		Title:           "Career Clarity",
		SessionType:     "one_on_one",
		DurationMinutes: 60,
		Availability: []domain.AvailabilityWindow{
			{Weekday: 1, StartTime: "09:00", EndTime: "12:00"},
		},
	}
}

func TestCreateSession(t *testing.T) {
	sessions, _, uc := newSessionFixture()
	sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)

	s, err := uc.CreateForCoach(context.Background(), coachAccount, domain.SessionKindSession, sessionInput())
	require.NoError(t, err)
	assert.Equal(t, int64(7), s.CoachProfileID)
	assert.Equal(t, "INR", s.Currency)
	assert.Equal(t, "everyone", s.Audience)
	assert.True(t, s.IsActive)
	assert.Len(t, s.Availability, 1)
}

func TestCreateSession_InvalidInput(t *testing.T) {
	future := time.Now().Add(24 * time.Hour)
	past := time.Now().Add(-time.Hour)
	capacity := 10

	tests := []struct {
		name   string
		kind   string
		mutate func(in *domain.SessionInput)
	}{
		{"unknown kind", "retreat", func(in *domain.SessionInput) {}},
		{"missing title", domain.SessionKindSession, func(in *domain.SessionInput) { in.Title = "  " }},
		{"bad session type", domain.SessionKindSession, func(in *domain.SessionInput) { in.SessionType = "therapy" }},
		{"window ends before it starts", domain.SessionKindSession, func(in *domain.SessionInput) {
			in.Availability[0].EndTime = "08:30"
		}},
		{"malformed window", domain.SessionKindSession, func(in *domain.SessionInput) {
			in.Availability[0].StartTime = "9am"
		}},
		{"capacity on a session", domain.SessionKindSession, func(in *domain.SessionInput) { in.Capacity = &capacity }},
		{"event without start", domain.SessionKindEvent, func(in *domain.SessionInput) { in.Availability = nil }},
		{"event in the past", domain.SessionKindEvent, func(in *domain.SessionInput) {
			in.Availability = nil
			in.StartsAt = &past
		}},
		{"event with availability", domain.SessionKindEvent, func(in *domain.SessionInput) { in.StartsAt = &future }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessions, _, uc := newSessionFixture()
			in := sessionInput()
			tt.mutate(&in)

			_, err := uc.CreateForCoach(context.Background(), coachAccount, tt.kind, in)
			require.Error(t, err)
			assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
			sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateEvent(t *testing.T) {
	sessions, _, uc := newSessionFixture()
	sessions.On("Create", mock.Anything, mock.AnythingOfType("*domain.Session")).Return(nil)
	future := time.Now().Add(24 * time.Hour)
	capacity := 20

	in := sessionInput()
	in.Availability = nil
	in.StartsAt = &future
	in.Capacity = &capacity
	in.SessionType = "workshop"

	s, err := uc.CreateForCoach(context.Background(), coachAccount, domain.SessionKindEvent, in)
	require.NoError(t, err)
	assert.Equal(t, domain.SessionKindEvent, s.Kind)
	assert.Equal(t, 20, *s.Capacity)
	assert.Empty(t, s.Availability)
}

func TestUpdateSession_Ownership(t *testing.T) {
	sessions, _, uc := newSessionFixture()
	sessions.On("GetByID", mock.Anything, int64(1)).
		Return(&domain.Session{ID: 1, Kind: domain.SessionKindSession, CoachAccountID: otherClient}, nil)
	sessions.On("GetByID", mock.Anything, int64(2)).
		Return(&domain.Session{ID: 2, Kind: domain.SessionKindEvent, CoachAccountID: coachAccount}, nil)

	_, err := uc.UpdateForCoach(context.Background(), coachAccount, domain.SessionKindSession, 1, sessionInput())
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	// an event is not reachable through the sessions routes
	_, err = uc.UpdateForCoach(context.Background(), coachAccount, domain.SessionKindSession, 2, sessionInput())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))

	sessions.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteSession(t *testing.T) {
	t.Run("with bookings deactivates", func(t *testing.T) {
		sessions, _, uc := newSessionFixture()
		sessions.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Session{ID: 1, Kind: domain.SessionKindSession, CoachAccountID: coachAccount, IsActive: true}, nil)
		sessions.On("HasBookings", mock.Anything, int64(1)).Return(true, nil)
		sessions.On("SetActive", mock.Anything, int64(1), false).Return(nil)

		res, err := uc.DeleteForCoach(context.Background(), coachAccount, domain.SessionKindSession, 1)
		require.NoError(t, err)
		assert.True(t, res.Deactivated)
		assert.False(t, res.Deleted)
		sessions.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("without bookings deletes", func(t *testing.T) {
		sessions, _, uc := newSessionFixture()
		sessions.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Session{ID: 1, Kind: domain.SessionKindSession, CoachAccountID: coachAccount}, nil)
		sessions.On("HasBookings", mock.Anything, int64(1)).Return(false, nil)
		sessions.On("Delete", mock.Anything, int64(1)).Return(nil)

		res, err := uc.DeleteForCoach(context.Background(), coachAccount, domain.SessionKindSession, 1)
		require.NoError(t, err)
		assert.True(t, res.Deleted)
	})
}

func TestListPublicSessions_ForcesActiveOnly(t *testing.T) {
	sessions, _, uc := newSessionFixture()
	sessions.On("List", mock.Anything, domain.SessionFilter{
		CoachAccountID: coachAccount,
		Search:         "career",
		ActiveOnly:     true,
	}).Return([]domain.Session{{ID: 1}}, nil)

	list, err := uc.ListPublic(context.Background(), domain.SessionFilter{
		CoachAccountID: coachAccount,
		Search:         "  career ",
		FollowerID:     "ignored",
	})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = uc.ListPublic(context.Background(), domain.SessionFilter{Kind: "retreat"})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestGetPublicSession_HidesInactive(t *testing.T) {
	sessions, _, uc := newSessionFixture()
	sessions.On("GetByID", mock.Anything, int64(1)).Return(&domain.Session{ID: 1, IsActive: false}, nil)

	_, err := uc.GetPublic(context.Background(), 1)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestFeed(t *testing.T) {
	sessions, _, uc := newSessionFixture()
	sessions.On("List", mock.Anything, domain.SessionFilter{FollowerID: clientAccount, ActiveOnly: true}).
		Return([]domain.Session{{ID: 1}, {ID: 2}}, nil)

	list, err := uc.Feed(context.Background(), clientAccount)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
