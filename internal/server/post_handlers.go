package server

import (
	"errors"
	"time"

	"quill/internal/cache"
	"quill/internal/middleware"
	"quill/internal/models"
	"quill/internal/service"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// GetPosts handles GET /api/posts, the site-wide feed of all posts.
// Pages are cached briefly; writes invalidate the whole feed.
func (s *Server) GetPosts(c *fiber.Ctx) error {
	ctx := c.Context()
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	key := cache.GlobalFeedKey(page)
	ttl := time.Duration(s.config.FeedCacheTTLSeconds) * time.Second

	var cached feedResponse
	if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
		middleware.FeedCacheHits.WithLabelValues("hit").Inc()
		return c.JSON(cached)
	}
	middleware.FeedCacheHits.WithLabelValues("miss").Inc()

	resp, err := s.feedPage(c,
		func() (int64, error) { return s.postRepo.Count(ctx) },
		func(limit, offset int) ([]*models.Post, error) { return s.postRepo.List(ctx, limit, offset) },
	)
	if err != nil {
		return s.respondError(c, err)
	}

	if err := cache.SetJSON(ctx, key, resp, ttl); err != nil {
		middleware.Logger.WarnContext(c.UserContext(), "failed to cache feed page", "error", err)
	}

	return c.JSON(resp)
}

// postDetailResponse is the GET /api/posts/:id payload. It has no
// viewer-specific fields, which is what makes it cacheable.
type postDetailResponse struct {
	Post             *models.Post      `json:"post"`
	Comments         []*models.Comment `json:"comments"`
	AuthorPostsCount int64             `json:"author_posts_count"`
}

// GetPost handles GET /api/posts/:id. The detail view bundles the post
// with its comments and the author's total post count. Anonymous
// requests are served from the post cache; comment and edit writes
// invalidate it.
func (s *Server) GetPost(c *fiber.Ctx) error {
	ctx := c.Context()
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	_, authed := s.optionalUserID(c)
	key := cache.PostKey(uint(id))

	if !authed {
		var cached postDetailResponse
		if hit, err := cache.GetJSON(ctx, key, &cached); err == nil && hit {
			return c.JSON(cached)
		}
	}

	post, err := s.postRepo.GetByID(ctx, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.RespondWithError(c, fiber.StatusNotFound,
				models.NewNotFoundError("Post", id))
		}
		return s.respondError(c, err)
	}

	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return s.respondError(c, err)
	}
	if comments == nil {
		comments = []*models.Comment{}
	}

	authorPosts, err := s.postRepo.CountByUserID(ctx, post.UserID)
	if err != nil {
		return s.respondError(c, err)
	}

	resp := postDetailResponse{
		Post:             post,
		Comments:         comments,
		AuthorPostsCount: authorPosts,
	}

	if !authed {
		if err := cache.SetJSON(ctx, key, resp, cache.PostTTL); err != nil {
			middleware.Logger.WarnContext(c.UserContext(), "failed to cache post detail", "error", err)
		}
	}

	return c.JSON(resp)
}

// CreatePost handles POST /api/posts
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Text     string `json:"text"`
		GroupID  *uint  `json:"group_id"`
		ImageURL string `json:"image_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc.Create(c.Context(), service.CreatePostInput{
		UserID:   userID,
		Text:     req.Text,
		GroupID:  req.GroupID,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	middleware.PostsCreated.Inc()
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/posts/:id. Only the author may edit;
// everyone else gets a 403 and the post stays untouched.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := c.ParamsInt("id")
	if err != nil || postID < 1 {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid post ID"))
	}

	var req struct {
		Text     string `json:"text"`
		GroupID  *uint  `json:"group_id"`
		ImageURL string `json:"image_url,omitempty"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postSvc.Update(c.Context(), service.UpdatePostInput{
		UserID:   userID,
		PostID:   uint(postID),
		Text:     req.Text,
		GroupID:  req.GroupID,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(post)
}

// GetFeed handles GET /api/feed, the posts of authors the caller follows.
func (s *Server) GetFeed(c *fiber.Ctx) error {
	ctx := c.Context()
	userID := c.Locals("userID").(uint)

	resp, err := s.feedPage(c,
		func() (int64, error) { return s.postRepo.CountFollowed(ctx, userID) },
		func(limit, offset int) ([]*models.Post, error) {
			return s.postRepo.ListFollowed(ctx, userID, limit, offset)
		},
	)
	if err != nil {
		return s.respondError(c, err)
	}

	return c.JSON(resp)
}
