package server

import (
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetProfile handles GET /api/users/:username. The following flag is
// false for anonymous viewers.
func (s *Server) GetProfile(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return s.respondError(c, err)
	}

	postsCount, err := s.postRepo.CountByUserID(ctx, user.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	followersCount, err := s.followRepo.CountFollowers(ctx, user.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	viewerID, _ := s.optionalUserID(c)
	following, err := s.followSvc.IsFollowing(ctx, viewerID, user.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"user":            user,
		"posts_count":     postsCount,
		"followers_count": followersCount,
		"following":       following,
	})
}

// GetProfilePosts handles GET /api/users/:username/posts
func (s *Server) GetProfilePosts(c *fiber.Ctx) error {
	ctx := c.Context()
	username := c.Params("username")

	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return s.respondError(c, err)
	}

	resp, err := s.feedPage(c,
		func() (int64, error) { return s.postRepo.CountByUserID(ctx, user.ID) },
		func(limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByUserID(ctx, user.ID, limit, offset)
		},
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(resp)
}

// FollowUser handles POST /api/users/:username/follow. Following twice
// is a no-op, following yourself is rejected.
func (s *Server) FollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.followSvc.Follow(c.Context(), userID, username)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":    author.Username,
		"following": true,
	})
}

// UnfollowUser handles DELETE /api/users/:username/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	username := c.Params("username")

	author, err := s.followSvc.Unfollow(c.Context(), userID, username)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"author":    author.Username,
		"following": false,
	})
}
