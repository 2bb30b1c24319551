package server

import (
	"testing"

	"quill/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProfile(t *testing.T) {
	app, _, _ := newTestServer(t)
	author := signup(t, app, "profiled")
	viewer := signup(t, app, "viewer")

	resp := doJSON(t, app, "POST", "/api/posts", author.Token, map[string]any{"text": "my work"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	type profileBody struct {
		User           models.User `json:"user"`
		PostsCount     int64       `json:"posts_count"`
		FollowersCount int64       `json:"followers_count"`
		Following      bool        `json:"following"`
	}

	t.Run("anonymous viewer", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/users/profiled", "", nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body profileBody
		decodeBody(t, resp, &body)
		assert.Equal(t, "profiled", body.User.Username)
		assert.Equal(t, int64(1), body.PostsCount)
		assert.False(t, body.Following)
	})

	t.Run("following viewer", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/users/profiled/follow", viewer.Token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp = doJSON(t, app, "GET", "/api/users/profiled", viewer.Token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body profileBody
		decodeBody(t, resp, &body)
		assert.True(t, body.Following)
		assert.Equal(t, int64(1), body.FollowersCount)
	})

	t.Run("unknown username is a 404", func(t *testing.T) {
		resp := doJSON(t, app, "GET", "/api/users/ghost", "", nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})
}

func TestGetProfilePosts(t *testing.T) {
	app, _, _ := newTestServer(t)
	author := signup(t, app, "prolific")
	other := signup(t, app, "someone")

	resp := doJSON(t, app, "POST", "/api/posts", author.Token, map[string]any{"text": "mine"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()
	resp = doJSON(t, app, "POST", "/api/posts", other.Token, map[string]any{"text": "theirs"})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = doJSON(t, app, "GET", "/api/users/prolific/posts", "", nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var feed feedResponse
	decodeBody(t, resp, &feed)
	require.Len(t, feed.Items, 1)
	assert.Equal(t, "mine", feed.Items[0].Text)
}

func TestFollowUser(t *testing.T) {
	app, _, db := newTestServer(t)
	follower := signup(t, app, "fan")
	signup(t, app, "idol")

	t.Run("anonymous is rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/users/idol/follow", "", nil)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("self-follow is rejected", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/users/fan/follow", follower.Token, nil)
		assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown author is a 404", func(t *testing.T) {
		resp := doJSON(t, app, "POST", "/api/users/ghost/follow", follower.Token, nil)
		assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	})

	t.Run("following twice leaves one edge", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			resp := doJSON(t, app, "POST", "/api/users/idol/follow", follower.Token, nil)
			require.Equal(t, fiber.StatusOK, resp.StatusCode)
			resp.Body.Close()
		}

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
		assert.Equal(t, int64(1), count)
	})

	t.Run("unfollow removes the edge", func(t *testing.T) {
		resp := doJSON(t, app, "DELETE", "/api/users/idol/follow", follower.Token, nil)
		require.Equal(t, fiber.StatusOK, resp.StatusCode)

		var body map[string]any
		decodeBody(t, resp, &body)
		assert.Equal(t, false, body["following"])

		var count int64
		require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
		assert.Equal(t, int64(0), count)
	})
}
