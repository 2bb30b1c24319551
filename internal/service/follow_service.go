package service

import (
	"context"

	"quill/internal/models"
	"quill/internal/repository"
)

// FollowService manages subscription edges between users.
type FollowService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewFollowService creates a new FollowService.
func NewFollowService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *FollowService {
	return &FollowService{followRepo: followRepo, userRepo: userRepo}
}

// Follow subscribes the viewer to the author's posts. Following is
// idempotent; following yourself is rejected.
func (s *FollowService) Follow(ctx context.Context, viewerID uint, authorUsername string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}
	if author.ID == viewerID {
		return nil, models.NewValidationError("You cannot follow yourself")
	}
	if err := s.followRepo.Follow(ctx, viewerID, author.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return author, nil
}

// Unfollow removes the subscription. Unfollowing an author you do not
// follow is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, viewerID uint, authorUsername string) (*models.User, error) {
	author, err := s.userRepo.GetByUsername(ctx, authorUsername)
	if err != nil {
		return nil, err
	}
	if err := s.followRepo.Unfollow(ctx, viewerID, author.ID); err != nil {
		return nil, models.NewInternalError(err)
	}
	return author, nil
}

// IsFollowing reports whether the viewer follows the author. An
// anonymous viewer (ID zero) never follows anyone.
func (s *FollowService) IsFollowing(ctx context.Context, viewerID, authorID uint) (bool, error) {
	if viewerID == 0 {
		return false, nil
	}
	following, err := s.followRepo.IsFollowing(ctx, viewerID, authorID)
	if err != nil {
		return false, models.NewInternalError(err)
	}
	return following, nil
}
