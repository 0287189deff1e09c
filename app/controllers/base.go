package controllers

import (
	"bytes"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strconv"

	"quill/app/auth"
	"quill/app/forms"
	"quill/app/models"
	"quill/app/repositories"
	"quill/app/services"

	"github.com/gorilla/mux"
)

// ViewData is what every page template receives.
type ViewData struct {
	Title             string
	Principal         *auth.Principal
	IsAdmin           bool
	CanDeleteComments bool
	Flashes           []string
	Values            map[string]string
	Errors            forms.Errors
	Posts             []*models.Post
	Post              *models.Post
	Comments          []*models.Comment
	IsEdit            bool
	Action            string
	Status            int
	Message           string
}

// Base carries what all controllers share: templates, sessions and the
// administrator's id.
type Base struct {
	templates map[string]*template.Template
	sessions  *auth.Manager
	adminID   uint
	log       *slog.Logger
}

// NewBase creates the shared controller state
func NewBase(templates map[string]*template.Template, sessions *auth.Manager, adminID uint, log *slog.Logger) *Base {
	return &Base{
		templates: templates,
		sessions:  sessions,
		adminID:   adminID,
		log:       log,
	}
}

// view starts the data of a page for r, consuming pending flashes.
func (b *Base) view(r *http.Request, title string) *ViewData {
	principal := auth.PrincipalFrom(r.Context())
	return &ViewData{
		Title:     title,
		Principal: principal,
		IsAdmin:   principal.Is(b.adminID),
		Flashes:   b.sessions.PopFlashes(r),
	}
}

// render executes the named page into a buffer first so a template error
// never leaves a half-written page behind.
func (b *Base) render(w http.ResponseWriter, r *http.Request, name string, status int, data *ViewData) {
	tmpl, ok := b.templates[name]
	if !ok {
		b.log.ErrorContext(r.Context(), "template not found", slog.String("template", name))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		b.log.ErrorContext(r.Context(), "template error", slog.String("template", name), slog.String("error", err.Error()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// sendError renders the error page with status.
func (b *Base) sendError(w http.ResponseWriter, r *http.Request, status int) {
	data := b.view(r, http.StatusText(status))
	data.Status = status
	data.Message = http.StatusText(status)
	b.render(w, r, "error", status, data)
}

// handleError maps service and repository errors onto error pages.
func (b *Base) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		b.sendError(w, r, http.StatusNotFound)
	case errors.Is(err, services.ErrForbidden):
		b.sendError(w, r, http.StatusForbidden)
	default:
		b.log.ErrorContext(r.Context(), "request failed", slog.String("path", r.URL.Path), slog.String("error", err.Error()))
		b.sendError(w, r, http.StatusInternalServerError)
	}
}

// flash queues message for the next rendered page.
func (b *Base) flash(w http.ResponseWriter, r *http.Request, message string) {
	if _, err := b.sessions.AddFlash(w, r, message); err != nil {
		b.log.ErrorContext(r.Context(), "failed to store flash", slog.String("error", err.Error()))
	}
}

// actor is the current user, or nil for anonymous requests.
func actor(r *http.Request) *models.User {
	return auth.PrincipalFrom(r.Context()).User
}

func pathID(r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)[name], 10, 0)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func postURL(id uint) string {
	return "/post/" + strconv.FormatUint(uint64(id), 10)
}
