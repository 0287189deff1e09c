package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/logging"
	"quill/app/models"
	"quill/app/render"
	"quill/app/repositories/mock"
	"quill/app/services"
	"quill/app/views"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var testHasher = auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

type testControllers struct {
	store    *mock.Store
	posts    *PostController
	comments *CommentController
	auth     *AuthController
	pages    *PageController
	admin    *models.User
	reader   *models.User
}

func setupTestControllers(t *testing.T, openDeletion bool) *testControllers {
	t.Helper()

	templates, err := views.Parse(render.Funcs())
	require.NoError(t, err)

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	sessions := auth.NewSessionStore(db, time.Hour)
	t.Cleanup(func() { sessions.Close() })

	store := mock.NewStore()
	log := logging.Discard()
	users := services.NewUserService(store, testHasher)

	tc := &testControllers{store: store}
	tc.admin, err = users.Register(context.Background(), "admin@example.com", "adminpass", "Admin")
	require.NoError(t, err)
	tc.reader, err = users.Register(context.Background(), "reader@example.com", "readerpass", "Reader")
	require.NoError(t, err)

	base := NewBase(templates, auth.NewManager(sessions, store.Users(), "test-secret", false, log), tc.admin.ID, log)
	tc.posts = NewPostController(base,
		services.NewPostService(store, tc.admin.ID),
		services.NewCommentService(store, tc.admin.ID, openDeletion))
	tc.comments = NewCommentController(tc.posts)
	tc.auth = NewAuthController(base, users)
	tc.pages = NewPageController(base, pinger{})
	return tc
}

type pinger struct{ err error }

func (p pinger) Ping(context.Context) error { return p.err }

// newRequest builds a request as user (nil for anonymous) with the given
// route variables.
func newRequest(method, target string, form url.Values, user *models.User, vars map[string]string) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != nil {
		req = req.WithContext(auth.WithPrincipal(req.Context(), &auth.Principal{User: user}))
	}
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func postValues(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://images.example.com/a.jpg"},
		"body":     {"<p>Body</p>"},
	}
}

// createPost stores a post written by the administrator.
func (tc *testControllers) createPost(t *testing.T, title string) *models.Post {
	t.Helper()
	post, err := tc.posts.posts.CreatePost(context.Background(), tc.admin, services.PostInput{
		Title:    title,
		Subtitle: "A subtitle",
		ImgURL:   "https://images.example.com/a.jpg",
		Body:     "<p>Body</p>",
	})
	require.NoError(t, err)
	return post
}
