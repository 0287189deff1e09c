// Package auth tracks who is making a request. Sessions live server-side in
// badger; the browser only holds a signed token naming its session.
package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"quill/app/models"
)

const CookieName = "quill_session"

// Principal is the identity behind a request.
type Principal struct {
	*models.User
}

// Anonymous is the principal of requests without a logged-in user.
var Anonymous = &Principal{}

func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.User != nil
}

// Is reports whether the principal is the user with the given id.
func (p *Principal) Is(userID uint) bool {
	return p.IsAuthenticated() && p.User.ID == userID
}

type principalKey struct{}
type sessionKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, or Anonymous.
func PrincipalFrom(ctx context.Context) *Principal {
	if p, ok := ctx.Value(principalKey{}).(*Principal); ok && p != nil {
		return p
	}
	return Anonymous
}

func withSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

func sessionFrom(ctx context.Context) *Session {
	s, _ := ctx.Value(sessionKey{}).(*Session)
	return s
}

// UserLookup loads users by id; repositories.UserRepository satisfies it.
type UserLookup interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// Manager binds principals to requests through a session cookie.
type Manager struct {
	store     *SessionStore
	users     UserLookup
	secretKey []byte
	secure    bool
	log       *slog.Logger
}

func NewManager(store *SessionStore, users UserLookup, secretKey string, secure bool, log *slog.Logger) *Manager {
	return &Manager{
		store:     store,
		users:     users,
		secretKey: []byte(secretKey),
		secure:    secure,
		log:       log,
	}
}

// Load resolves the request's session and principal and returns r with both
// attached to its context. Missing, forged or expired cookies and sessions of
// deleted users all resolve to Anonymous.
func (m *Manager) Load(r *http.Request) *http.Request {
	ctx := r.Context()
	sess := m.sessionFromCookie(r)
	principal := Anonymous

	if sess != nil && sess.UserID != 0 {
		user, err := m.users.GetByID(ctx, sess.UserID)
		if err != nil {
			m.log.DebugContext(ctx, "session user not loaded",
				slog.Uint64("user_id", uint64(sess.UserID)), slog.String("error", err.Error()))
		} else {
			principal = &Principal{User: user}
		}
	}

	ctx = withSession(ctx, sess)
	ctx = WithPrincipal(ctx, principal)
	return r.WithContext(ctx)
}

func (m *Manager) sessionFromCookie(r *http.Request) *Session {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}
	id, err := parseToken(cookie.Value, m.secretKey)
	if err != nil {
		return nil
	}
	sess, err := m.store.Get(id)
	if err != nil {
		if !errors.Is(err, ErrSessionNotFound) {
			m.log.ErrorContext(r.Context(), "failed to read session", slog.String("error", err.Error()))
		}
		return nil
	}
	return sess
}

// Login binds user to a brand-new session and drops the old one, keeping
// any pending flashes. The returned request carries the new principal.
func (m *Manager) Login(w http.ResponseWriter, r *http.Request, user *models.User) (*http.Request, error) {
	sess, err := m.store.New()
	if err != nil {
		return r, err
	}
	sess.UserID = user.ID

	if old := sessionFrom(r.Context()); old != nil {
		sess.Flashes = old.Flashes
		if err := m.store.Delete(old.ID); err != nil {
			return r, err
		}
	}
	if err := m.store.Save(sess); err != nil {
		return r, err
	}
	if err := m.setCookie(w, sess); err != nil {
		return r, err
	}

	ctx := withSession(r.Context(), sess)
	ctx = WithPrincipal(ctx, &Principal{User: user})
	return r.WithContext(ctx), nil
}

// Logout destroys the session and expires the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) (*http.Request, error) {
	if sess := sessionFrom(r.Context()); sess != nil {
		if err := m.store.Delete(sess.ID); err != nil {
			return r, err
		}
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})

	ctx := withSession(r.Context(), nil)
	ctx = WithPrincipal(ctx, Anonymous)
	return r.WithContext(ctx), nil
}

// AddFlash queues a message for the next rendered page, starting an
// anonymous session if the request has none.
func (m *Manager) AddFlash(w http.ResponseWriter, r *http.Request, message string) (*http.Request, error) {
	sess := sessionFrom(r.Context())
	if sess == nil {
		var err error
		if sess, err = m.store.New(); err != nil {
			return r, err
		}
		if err := m.setCookie(w, sess); err != nil {
			return r, err
		}
		r = r.WithContext(withSession(r.Context(), sess))
	}

	sess.Flashes = append(sess.Flashes, message)
	return r, m.store.Save(sess)
}

// PopFlashes returns and clears the pending flashes.
func (m *Manager) PopFlashes(r *http.Request) []string {
	sess := sessionFrom(r.Context())
	if sess == nil || len(sess.Flashes) == 0 {
		return nil
	}

	flashes := sess.Flashes
	sess.Flashes = nil
	if err := m.store.Save(sess); err != nil {
		m.log.ErrorContext(r.Context(), "failed to clear flashes", slog.String("error", err.Error()))
	}
	return flashes
}

func (m *Manager) setCookie(w http.ResponseWriter, sess *Session) error {
	token, err := signToken(sess.ID, m.secretKey, sess.ExpiresAt)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
