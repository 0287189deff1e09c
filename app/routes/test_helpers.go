package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"quill/app/auth"
	"quill/app/config"
	"quill/app/logging"
	"quill/app/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"
)

var testHasher = auth.NewHasher(auth.Params{Memory: 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})

type testApp struct {
	router   *mux.Router
	repo     *repositories.Repository
	sessions *auth.SessionStore
}

func setupTestApp(t *testing.T, mutate func(cfg *config.Config)) *testApp {
	t.Helper()
	return setupTestAppWithDB(t, mutate, nil)
}

// setupTestAppWithDB is setupTestApp with the router's database replaced by
// wrap(repo) when wrap is set.
func setupTestAppWithDB(t *testing.T, mutate func(cfg *config.Config), wrap func(*repositories.Repository) Database) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	if mutate != nil {
		mutate(cfg)
	}

	log := logging.Discard()
	repo, err := repositories.NewRepository(context.Background(), filepath.Join(t.TempDir(), "posts.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	require.NoError(t, err)
	store := auth.NewSessionStore(db, time.Hour)
	t.Cleanup(func() { store.Close() })

	var database Database = repo
	if wrap != nil {
		database = wrap(repo)
	}

	router, err := SetupRoutes(Dependencies{
		Config:   cfg,
		DB:       database,
		Sessions: auth.NewManager(store, repo.Users(), cfg.SecretKey, false, log),
		Hasher:   testHasher,
		Log:      log,
	})
	require.NoError(t, err)

	return &testApp{router: router, repo: repo, sessions: store}
}

// browser replays cookies between requests like a real client would.
type browser struct {
	t       *testing.T
	app     *testApp
	cookies map[string]*http.Cookie
}

func (a *testApp) browser(t *testing.T) *browser {
	return &browser{t: t, app: a, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(method, path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()

	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for _, c := range b.cookies {
		req.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}

	w := httptest.NewRecorder()
	b.app.router.ServeHTTP(w, req)

	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 || c.Value == "" {
			delete(b.cookies, c.Name)
			continue
		}
		b.cookies[c.Name] = c
	}
	return w
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(http.MethodGet, path, nil)
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	return b.do(http.MethodPost, path, form)
}

// loggedIn reports whether the navigation offers a logout link. It loads
// the home page, so pending flashes are consumed.
func (b *browser) loggedIn() bool {
	return strings.Contains(b.get("/").Body.String(), `href="/logout"`)
}

func (b *browser) register(email, password, name string) *httptest.ResponseRecorder {
	return b.post("/register", url.Values{"email": {email}, "password": {password}, "name": {name}})
}

func (b *browser) login(email, password string) *httptest.ResponseRecorder {
	return b.post("/login", url.Values{"email": {email}, "password": {password}})
}

func postForm(title string) url.Values {
	return url.Values{
		"title":    {title},
		"subtitle": {"A subtitle"},
		"img_url":  {"https://images.example.com/header.jpg"},
		"body":     {"<p>Post body</p>"},
	}
}

// setupAdminAndReader registers the administrator (first account, id 1)
// and a regular reader, each in their own browser.
func setupAdminAndReader(t *testing.T, app *testApp) (admin, reader *browser) {
	t.Helper()
	admin = app.browser(t)
	require.Equal(t, http.StatusSeeOther, admin.register("admin@example.com", "adminpass", "Admin").Code)
	reader = app.browser(t)
	require.Equal(t, http.StatusSeeOther, reader.register("reader@example.com", "readerpass", "Reader").Code)
	return admin, reader
}

func location(w *httptest.ResponseRecorder) string {
	return w.Header().Get("Location")
}
