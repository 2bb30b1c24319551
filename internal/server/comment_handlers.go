package server

import (
	"errors"

	"quill/internal/middleware"
	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetComments handles GET /api/posts/:id/comments. Comments are
// returned oldest first and are not paginated.
func (s *Server) GetComments(c *fiber.Ctx) error {
	ctx := c.Context()
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	if _, err := s.postRepo.GetByID(ctx, uint(postID)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", postID))
		}
		return s.respondError(c, err)
	}

	comments, err := s.commentRepo.ListByPost(ctx, uint(postID))
	if err != nil {
		return s.respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	return c.JSON(comments)
}

// CreateComment handles POST /api/posts/:id/comments. Blank comments
// are rejected with a field error rather than silently discarded.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentSvc.Create(c.Context(), uint(postID), userID, req.Text)
	if err != nil {
		return s.respondError(c, err)
	}

	middleware.CommentsCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(comment)
}
