package usecase

import (
	"context"
	"errors"

	"coachflow-backend/internal/domain"
	"coachflow-backend/pkg/apperror"
)

type followUsecase struct {
	follows  domain.FollowRepository
	accounts domain.AccountRepository
}

func NewFollowUsecase(follows domain.FollowRepository, accounts domain.AccountRepository) domain.FollowUsecase {
	return &followUsecase{follows: follows, accounts: accounts}
}

func (uc *followUsecase) requireCoach(ctx context.Context, coachID string) error {
	coach, err := uc.accounts.GetByID(ctx, coachID)
	if err != nil {
		return repoError(err, "Coach not found")
	}
	if !coach.HasRole(domain.RoleCoach) {
		return apperror.NotFound("Coach not found")
	}
	return nil
}

func (uc *followUsecase) Follow(ctx context.Context, followerID, coachID string) (*domain.Follow, error) {
	if followerID == coachID {
		return nil, apperror.BadRequest("You cannot follow yourself")
	}
	if err := uc.requireCoach(ctx, coachID); err != nil {
		return nil, err
	}

	f := &domain.Follow{FollowerID: followerID, CoachID: coachID}
	if err := uc.follows.Create(ctx, f); err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicate):
			return nil, apperror.Conflict("You already follow this coach")
		case errors.Is(err, domain.ErrNotFound):
			return nil, apperror.NotFound("Coach not found")
		}
		return nil, apperror.Internal(err)
	}
	return f, nil
}

func (uc *followUsecase) Unfollow(ctx context.Context, followerID, coachID string) error {
	if err := uc.follows.Delete(ctx, followerID, coachID); err != nil {
		return repoError(err, "You do not follow this coach")
	}
	return nil
}

func (uc *followUsecase) ListFollowing(ctx context.Context, followerID string) ([]domain.CoachProfile, error) {
	list, err := uc.follows.ListFollowedCoaches(ctx, followerID)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	for i := range list {
		list[i].Phone = nil
	}
	return list, nil
}

func (uc *followUsecase) FollowerCount(ctx context.Context, coachID string) (int, error) {
	if err := uc.requireCoach(ctx, coachID); err != nil {
		return 0, err
	}
	n, err := uc.follows.CountFollowers(ctx, coachID)
	if err != nil {
		return 0, apperror.Internal(err)
	}
	return n, nil
}
