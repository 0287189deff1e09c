package services

import (
	"context"
	"testing"

	"quill/app/models"
	"quill/app/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentServiceCreate(t *testing.T) {
	f := setupServices(t, false)
	ctx := context.Background()

	post, err := f.posts.CreatePost(ctx, f.admin, samplePost("Post"))
	require.NoError(t, err)

	t.Run("authenticated user comments", func(t *testing.T) {
		comment, err := f.comments.CreateComment(ctx, f.reader, post.ID, "<p>Nice</p>")
		require.NoError(t, err)
		assert.Equal(t, f.reader.ID, comment.AuthorID)
		assert.Equal(t, post.ID, comment.PostID)

		comments, err := f.comments.ListPostComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("anonymous is rejected", func(t *testing.T) {
		_, err := f.comments.CreateComment(ctx, nil, post.ID, "hi")
		assert.ErrorIs(t, err, ErrUnauthenticated)

		comments, err := f.comments.ListPostComments(ctx, post.ID)
		require.NoError(t, err)
		assert.Len(t, comments, 1)
	})

	t.Run("unknown post", func(t *testing.T) {
		_, err := f.comments.CreateComment(ctx, f.reader, 999, "hi")
		assert.ErrorIs(t, err, repositories.ErrNotFound)

		_, err = f.comments.ListPostComments(ctx, 999)
		assert.ErrorIs(t, err, repositories.ErrNotFound)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := f.comments.CreateComment(ctx, f.reader, post.ID, "")
		assert.ErrorIs(t, err, ErrInvalid)
	})
}

func TestCommentServiceDelete(t *testing.T) {
	tests := []struct {
		name         string
		openDeletion bool
		actor        string
		wantErr      error
	}{
		{name: "admin deletes", actor: "admin"},
		{name: "reader forbidden", actor: "reader", wantErr: ErrForbidden},
		{name: "anonymous forbidden", actor: "", wantErr: ErrForbidden},
		{name: "open deletion lets anyone delete", openDeletion: true, actor: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupServices(t, tt.openDeletion)
			ctx := context.Background()

			post, err := f.posts.CreatePost(ctx, f.admin, samplePost("Post"))
			require.NoError(t, err)
			comment, err := f.comments.CreateComment(ctx, f.reader, post.ID, "bye")
			require.NoError(t, err)

			actor := map[string]*models.User{"admin": f.admin, "reader": f.reader}[tt.actor]
			deleted, err := f.comments.DeleteComment(ctx, actor, comment.ID)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				_, err = f.comments.GetComment(ctx, comment.ID)
				assert.NoError(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, post.ID, deleted.PostID)

			_, err = f.comments.GetComment(ctx, comment.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestCommentServiceDeleteMissing(t *testing.T) {
	f := setupServices(t, false)
	_, err := f.comments.DeleteComment(context.Background(), f.admin, 42)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}
