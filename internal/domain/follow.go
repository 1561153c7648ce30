package domain

import (
	"context"
	"time"
)

type Follow struct {
	FollowerID string    `json:"follower_id"`
	CoachID    string    `json:"coach_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type FollowRepository interface {
	// Create returns ErrDuplicate if the pair exists.
	Create(ctx context.Context, follow *Follow) error
	Delete(ctx context.Context, followerID, coachID string) error
	ListFollowedCoaches(ctx context.Context, followerID string) ([]CoachProfile, error)
	CountFollowers(ctx context.Context, coachID string) (int, error)
}

type FollowUsecase interface {
	Follow(ctx context.Context, followerID, coachID string) (*Follow, error)
	Unfollow(ctx context.Context, followerID, coachID string) error
	ListFollowing(ctx context.Context, followerID string) ([]CoachProfile, error)
	FollowerCount(ctx context.Context, coachID string) (int, error)
}
