package server

import (
	"errors"

	"quill/internal/models"
	"quill/internal/pagination"

	"github.com/gofiber/fiber/v2"
)

// feedResponse is the envelope returned by all paginated post listings.
type feedResponse struct {
	Items      []*models.Post `json:"items"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	Count      int64          `json:"count"`
}

// window resolves the requested ?page= against the total count. Pages out
// of range clamp to the nearest valid page instead of erroring.
func (s *Server) window(c *fiber.Ctx, count int64) pagination.Window {
	return pagination.Resolve(count, c.QueryInt("page", 1), s.config.PageSize)
}

// feedPage runs the count/list pair for one feed variant and wraps the
// result in the shared envelope.
func (s *Server) feedPage(c *fiber.Ctx,
	count func() (int64, error),
	list func(limit, offset int) ([]*models.Post, error),
) (*feedResponse, error) {
	total, err := count()
	if err != nil {
		return nil, err
	}

	win := s.window(c, total)
	posts, err := list(win.Limit, win.Offset)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &feedResponse{
		Items:      posts,
		Page:       win.Page,
		TotalPages: win.TotalPages,
		Count:      win.Count,
	}, nil
}

// respondError maps application errors onto HTTP statuses.
func (s *Server) respondError(c *fiber.Ctx, err error) error {
	var appErr *models.AppError
	if errors.As(err, &appErr) {
		switch appErr.Code {
		case "NOT_FOUND":
			return models.RespondWithError(c, fiber.StatusNotFound, appErr)
		case "VALIDATION_ERROR":
			return models.RespondWithError(c, fiber.StatusBadRequest, appErr)
		case "UNAUTHORIZED":
			return models.RespondWithError(c, fiber.StatusForbidden, appErr)
		}
	}
	return models.RespondWithError(c, fiber.StatusInternalServerError, err)
}
