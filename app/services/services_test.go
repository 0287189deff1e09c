package services

import (
	"context"
	"testing"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories/mock"

	"github.com/stretchr/testify/require"
)

var testHasher = auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

type fixture struct {
	store    *mock.Store
	users    *UserService
	posts    *PostService
	comments *CommentService
	admin    *models.User
	reader   *models.User
}

func setupServices(t *testing.T, openDeletion bool) *fixture {
	t.Helper()
	store := mock.NewStore()
	f := &fixture{
		store: store,
		users: NewUserService(store, testHasher),
	}

	var err error
	f.admin, err = f.users.Register(context.Background(), "admin@example.com", "adminpass", "Admin")
	require.NoError(t, err)
	f.reader, err = f.users.Register(context.Background(), "reader@example.com", "readerpass", "Reader")
	require.NoError(t, err)

	f.posts = NewPostService(store, f.admin.ID)
	f.comments = NewCommentService(store, f.admin.ID, openDeletion)
	return f
}

func samplePost(title string) PostInput {
	return PostInput{
		Title:    title,
		Subtitle: "A subtitle",
		ImgURL:   "https://images.example.com/a.jpg",
		Body:     "<p>Body</p>",
	}
}
