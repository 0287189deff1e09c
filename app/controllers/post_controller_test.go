package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"testing"

	"quill/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostController(t *testing.T) {
	tc := setupTestControllers(t, false)
	ctx := context.Background()

	t.Run("create post", func(t *testing.T) {
		w := serve(tc.posts.Create, newRequest(http.MethodPost, "/new-post", postValues("First"), tc.admin, nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		posts, err := tc.store.Posts().List(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "First", posts[0].Title)
		assert.Equal(t, tc.admin.ID, posts[0].AuthorID)
	})

	t.Run("create post as non-admin", func(t *testing.T) {
		w := serve(tc.posts.Create, newRequest(http.MethodPost, "/new-post", postValues("Sneaky"), tc.reader, nil))

		assert.Equal(t, http.StatusForbidden, w.Code)
		posts, err := tc.store.Posts().List(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 1)
	})

	t.Run("create post with missing fields", func(t *testing.T) {
		form := postValues("")
		form.Del("body")
		w := serve(tc.posts.Create, newRequest(http.MethodPost, "/new-post", form, tc.admin, nil))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "This field is required.")
	})

	t.Run("index lists posts", func(t *testing.T) {
		w := serve(tc.posts.Index, newRequest(http.MethodGet, "/", nil, nil, nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "First")
		assert.Contains(t, w.Body.String(), "Admin")
	})

	t.Run("show post", func(t *testing.T) {
		w := serve(tc.posts.Show, newRequest(http.MethodGet, "/post/1", nil, nil, map[string]string{"post_id": "1"}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "<p>Body</p>")
		assert.NotContains(t, w.Body.String(), "/edit-post/1")
	})

	t.Run("show post as admin offers editing", func(t *testing.T) {
		w := serve(tc.posts.Show, newRequest(http.MethodGet, "/post/1", nil, tc.admin, map[string]string{"post_id": "1"}))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "/edit-post/1")
	})

	t.Run("show missing post", func(t *testing.T) {
		w := serve(tc.posts.Show, newRequest(http.MethodGet, "/post/9", nil, nil, map[string]string{"post_id": "9"}))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("update post", func(t *testing.T) {
		vars := map[string]string{"post_id": "1"}
		w := serve(tc.posts.Update, newRequest(http.MethodPost, "/edit-post/1", postValues("Renamed"), tc.admin, vars))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/post/1", w.Header().Get("Location"))

		post, err := tc.store.Posts().GetByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, "Renamed", post.Title)
	})

	t.Run("update to a taken title", func(t *testing.T) {
		other := tc.createPost(t, "Taken")
		vars := map[string]string{"post_id": strconv.FormatUint(uint64(other.ID), 10)}
		w := serve(tc.posts.Update, newRequest(http.MethodPost, "/edit-post", postValues("Renamed"), tc.admin, vars))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "A post with this title already exists.")
	})

	t.Run("update missing post with an invalid form", func(t *testing.T) {
		vars := map[string]string{"post_id": "99"}
		form := postValues("")
		w := serve(tc.posts.Update, newRequest(http.MethodPost, "/edit-post/99", form, tc.admin, vars))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("delete post", func(t *testing.T) {
		w := serve(tc.posts.Delete, newRequest(http.MethodGet, "/delete/1", nil, tc.admin, map[string]string{"post_id": "1"}))

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))

		_, err := tc.store.Posts().GetByID(ctx, 1)
		assert.True(t, errors.Is(err, repositories.ErrNotFound))
	})
}

func TestPageController(t *testing.T) {
	tc := setupTestControllers(t, false)

	t.Run("about", func(t *testing.T) {
		w := serve(tc.pages.About, newRequest(http.MethodGet, "/about", nil, nil, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "About Me")
	})

	t.Run("health", func(t *testing.T) {
		w := serve(tc.pages.Health, newRequest(http.MethodGet, "/healthz", nil, nil, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ok\n", w.Body.String())
	})

	t.Run("health with a broken database", func(t *testing.T) {
		pc := NewPageController(tc.pages.Base, pinger{err: errors.New("disk gone")})
		w := serve(pc.Health, newRequest(http.MethodGet, "/healthz", nil, nil, nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("forbidden", func(t *testing.T) {
		w := serve(tc.pages.Forbidden, newRequest(http.MethodGet, "/new-post", nil, nil, nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "Forbidden")
	})
}
