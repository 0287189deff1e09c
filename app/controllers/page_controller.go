package controllers

import (
	"context"
	"log/slog"
	"net/http"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PageController serves static pages and the error pages used by the router
type PageController struct {
	*Base
	db Pinger
}

// NewPageController creates a new PageController
func NewPageController(base *Base, db Pinger) *PageController {
	return &PageController{Base: base, db: db}
}

func (pc *PageController) About(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, "about", http.StatusOK, pc.view(r, "About"))
}

func (pc *PageController) Contact(w http.ResponseWriter, r *http.Request) {
	pc.render(w, r, "contact", http.StatusOK, pc.view(r, "Contact"))
}

// Health answers "ok" while the database responds.
func (pc *PageController) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := pc.db.Ping(r.Context()); err != nil {
		pc.log.ErrorContext(r.Context(), "health check failed", slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable\n"))
		return
	}
	w.Write([]byte("ok\n"))
}

func (pc *PageController) NotFound(w http.ResponseWriter, r *http.Request) {
	pc.sendError(w, r, http.StatusNotFound)
}

func (pc *PageController) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	pc.sendError(w, r, http.StatusMethodNotAllowed)
}

func (pc *PageController) Forbidden(w http.ResponseWriter, r *http.Request) {
	pc.sendError(w, r, http.StatusForbidden)
}

func (pc *PageController) InternalError(w http.ResponseWriter, r *http.Request) {
	pc.sendError(w, r, http.StatusInternalServerError)
}
