package server

import (
	"testing"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetGroups(t *testing.T) {
	app, _, db := newTestServer(t)
	createTestGroup(t, db, "poetry")
	createTestGroup(t, db, "essays")

	resp := doJSON(t, app, "GET", "/api/groups", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var groups []models.Group
	decodeBody(t, resp, &groups)
	assert.Len(t, groups, 2)
}

func TestGetGroup(t *testing.T) {
	app, _, db := newTestServer(t)
	createTestGroup(t, db, "poetry")

	t.Run("existing slug", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/groups/poetry", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body struct {
			Group      models.Group `json:"group"`
			PostsCount int64        `json:"posts_count"`
		}
		decodeBody(t, resp, &body)
		assert.Equal(t, "poetry", body.Group.Slug)
		assert.Equal(t, int64(0), body.PostsCount)
	})

	t.Run("unknown slug is a 404", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/groups/nope", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetGroupPosts(t *testing.T) {
	app, _, db := newTestServer(t)
	auth := signup(t, app, "grouper")
	group := createTestGroup(t, db, "poetry")

	resp := doJSON(t, app, "POST", "/api/posts", auth.Token, map[string]any{
		"text":     "in the group",
		"group_id": group.ID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "POST", "/api/posts", auth.Token, map[string]any{
		"text": "not in any group",
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	t.Run("only grouped posts appear", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/groups/poetry/posts", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var feed feedResponse
		decodeBody(t, resp, &feed)
		require.Len(t, feed.Items, 1)
		assert.Equal(t, "in the group", feed.Items[0].Text)
	})

	t.Run("unknown slug is a 404", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/groups/nope/posts", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestCreateGroup(t *testing.T) {
	app, _, db := newTestServer(t)
	admin := signup(t, app, "admin")
	promoteToAdmin(t, db, admin.User.ID)
	regular := signup(t, app, "regular")

	body := map[string]string{
		"title":       "Short Stories",
		"slug":        "short-stories",
		"description": "Fiction under 5000 words",
	}

	t.Run("anonymous is rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/groups", "", body)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("non-admin is rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/groups", regular.Token, body)
		assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)
	})

	t.Run("admin can create", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/groups", admin.Token, body)
		require.Equal(t, fiber.StatusCreated, resp.StatusCode)

		var group models.Group
		decodeBody(t, resp, &group)
		assert.Equal(t, "short-stories", group.Slug)
	})

	t.Run("duplicate slug conflicts", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/groups", admin.Token, body)
		assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	})

	t.Run("invalid slug is rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/groups", admin.Token, map[string]string{
			"title": "Bad Slug",
			"slug":  "Not A Slug!",
		})
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})
}
