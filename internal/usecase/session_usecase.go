package usecase

import (
	"context"
	"strings"
	"time"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const defaultCurrency = "INR"

type sessionUsecase struct {
	sessions domain.SessionRepository
	coaches  domain.CoachProfileRepository
	validate *validator.Validate
	now      func() time.Time
}

func NewSessionUsecase(sessions domain.SessionRepository, coaches domain.CoachProfileRepository, validate *validator.Validate) domain.SessionUsecase {
	return &sessionUsecase{sessions: sessions, coaches: coaches, validate: validate, now: time.Now}
}

func validKind(kind string) bool {
	return kind == domain.SessionKindSession || kind == domain.SessionKindEvent
}

func (uc *sessionUsecase) checkInput(kind string, input *domain.SessionInput) error {
	input.Title = strings.TrimSpace(input.Title)
	input.Currency = strings.ToUpper(strings.TrimSpace(input.Currency))
	if err := validateStruct(uc.validate, *input); err != nil {
		return err
	}

	for _, w := range input.Availability {
		if w.EndTime <= w.StartTime {
			return apperror.BadRequest("Availability: end time must be after start time")
		}
	}

	switch kind {
	case domain.SessionKindEvent:
		if input.StartsAt == nil {
			return apperror.BadRequest("Start time: is required for events")
		}
		if !input.StartsAt.After(uc.now()) {
			return apperror.BadRequest("Start time: must be in the future")
		}
		if len(input.Availability) > 0 {
			return apperror.BadRequest("Availability: events use a fixed start time")
		}
	case domain.SessionKindSession:
		if input.Capacity != nil {
			return apperror.BadRequest("Capacity: only applies to events")
		}
	}
	return nil
}

func applyInput(s *domain.Session, input domain.SessionInput) {
	s.Title = input.Title
	s.Description = strings.TrimSpace(input.Description)
	s.SessionType = input.SessionType
	s.Audience = input.Audience
	if s.Audience == "" {
		s.Audience = "everyone"
	}
	s.DurationMinutes = input.DurationMinutes
	s.Price = input.Price
	if input.Currency != "" {
		s.Currency = input.Currency
	}
	s.StartsAt = input.StartsAt
	s.Availability = input.Availability
	if s.Availability == nil {
		s.Availability = []domain.AvailabilityWindow{}
	}
	s.Capacity = input.Capacity
	if input.IsActive != nil {
		s.IsActive = *input.IsActive
	}
}

// ownedSession loads a session of the given kind and checks it belongs to the coach.
func (uc *sessionUsecase) ownedSession(ctx context.Context, coachAccountID, kind string, id int64) (*domain.Session, error) {
	s, err := uc.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Session not found")
	}
	if s.Kind != kind {
		return nil, apperror.NotFound("Session not found")
	}
	if s.CoachAccountID != coachAccountID {
		return nil, apperror.Forbidden("You can only manage your own sessions")
	}
	return s, nil
}

func (uc *sessionUsecase) CreateForCoach(ctx context.Context, coachAccountID, kind string, input domain.SessionInput) (*domain.Session, error) {
	if !validKind(kind) {
		return nil, apperror.BadRequest("Unknown session kind")
	}
	if err := uc.checkInput(kind, &input); err != nil {
		return nil, err
	}
	coach, err := uc.coaches.GetByAccountID(ctx, coachAccountID)
	if err != nil {
		return nil, repoError(err, "Coach profile not found")
	}

	s := &domain.Session{
		CoachProfileID: coach.ID,
		Kind:           kind,
		Currency:       coach.Currency,
		IsActive:       true,
		CoachAccountID: coach.AccountID,
		CoachFirstName: coach.FirstName,
		CoachLastName:  coach.LastName,
	}
	if s.Currency == "" {
		s.Currency = defaultCurrency
	}
	applyInput(s, input)

	if err := uc.sessions.Create(ctx, s); err != nil {
		return nil, apperror.Internal(err)
	}
	return s, nil
}

func (uc *sessionUsecase) UpdateForCoach(ctx context.Context, coachAccountID, kind string, id int64, input domain.SessionInput) (*domain.Session, error) {
	if err := uc.checkInput(kind, &input); err != nil {
		return nil, err
	}
	s, err := uc.ownedSession(ctx, coachAccountID, kind, id)
	if err != nil {
		return nil, err
	}
	applyInput(s, input)
	if err := uc.sessions.Update(ctx, s); err != nil {
		return nil, repoError(err, "Session not found")
	}
	return s, nil
}

// DeleteForCoach removes a session, or only deactivates it when bookings reference it.
func (uc *sessionUsecase) DeleteForCoach(ctx context.Context, coachAccountID, kind string, id int64) (*domain.DeleteResult, error) {
	if _, err := uc.ownedSession(ctx, coachAccountID, kind, id); err != nil {
		return nil, err
	}

	booked, err := uc.sessions.HasBookings(ctx, id)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if booked {
		if err := uc.sessions.SetActive(ctx, id, false); err != nil {
			return nil, repoError(err, "Session not found")
		}
		return &domain.DeleteResult{Deactivated: true}, nil
	}

	if err := uc.sessions.Delete(ctx, id); err != nil {
		return nil, repoError(err, "Session not found")
	}
	return &domain.DeleteResult{Deleted: true}, nil
}

func (uc *sessionUsecase) ListForCoach(ctx context.Context, coachAccountID, kind string) ([]domain.Session, error) {
	list, err := uc.sessions.List(ctx, domain.SessionFilter{CoachAccountID: coachAccountID, Kind: kind})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (uc *sessionUsecase) ListPublic(ctx context.Context, filter domain.SessionFilter) ([]domain.Session, error) {
	if filter.Kind != "" && !validKind(filter.Kind) {
		return nil, apperror.BadRequest("kind must be session or event")
	}
	filter.Search = strings.TrimSpace(filter.Search)
	filter.ActiveOnly = true
	filter.FollowerID = ""
	list, err := uc.sessions.List(ctx, filter)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}

func (uc *sessionUsecase) GetPublic(ctx context.Context, id int64) (*domain.Session, error) {
	s, err := uc.sessions.GetByID(ctx, id)
	if err != nil {
		return nil, repoError(err, "Session not found")
	}
	if !s.IsActive {
		return nil, apperror.NotFound("Session not found")
	}
	return s, nil
}

func (uc *sessionUsecase) Feed(ctx context.Context, followerID string) ([]domain.Session, error) {
	list, err := uc.sessions.List(ctx, domain.SessionFilter{FollowerID: followerID, ActiveOnly: true})
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return list, nil
}
