package server

import (
	"errors"
	"strings"

	"quill/internal/models"
	"quill/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GetGroups handles GET /api/groups
func (s *Server) GetGroups(c *fiber.Ctx) error {
	groups, err := s.groupRepo.List(c.Context())
	if err != nil {
		return s.respondError(c, err)
	}
	if groups == nil {
		groups = []models.Group{}
	}
	return c.JSON(groups)
}

// GetGroup handles GET /api/groups/:slug
func (s *Server) GetGroup(c *fiber.Ctx) error {
	ctx := c.Context()
	slug := c.Params("slug")

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return s.respondError(c, err)
	}

	count, err := s.postRepo.CountByGroupID(ctx, group.ID)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(fiber.Map{
		"group":       group,
		"posts_count": count,
	})
}

// GetGroupPosts handles GET /api/groups/:slug/posts. Ungrouped posts
// never appear here.
func (s *Server) GetGroupPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	slug := c.Params("slug")

	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return s.respondError(c, err)
	}

	resp, err := s.feedPage(c,
		func() (int64, error) { return s.postRepo.CountByGroupID(ctx, group.ID) },
		func(limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListByGroupID(ctx, group.ID, limit, offset)
		},
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(resp)
}

// CreateGroup handles POST /api/groups. Admin only; groups are curated,
// not user-generated.
func (s *Server) CreateGroup(c *fiber.Ctx) error {
	ctx := c.Context()

	var req struct {
		Title       string `json:"title"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateGroupTitle(req.Title); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}
	if err := validation.ValidateSlug(req.Slug); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(err.Error()))
	}

	if _, err := s.groupRepo.GetBySlug(ctx, req.Slug); err == nil {
		return models.RespondWithError(c, fiber.StatusConflict,
			models.NewValidationError("A group with this slug already exists"))
	} else {
		var appErr *models.AppError
		if !errors.As(err, &appErr) || appErr.Code != "NOT_FOUND" {
			return s.respondError(c, err)
		}
	}

	group := &models.Group{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
	}
	if err := s.groupRepo.Create(ctx, group); err != nil {
		return s.respondError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(group)
}
