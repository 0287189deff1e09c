package routes

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"quill/app/auth"
	"quill/app/config"
	"quill/app/controllers"
	"quill/app/middleware"
	"quill/app/render"
	"quill/app/repositories"
	"quill/app/services"
	"quill/app/views"

	"github.com/gorilla/mux"
)

// Database is the store the routes run against.
type Database interface {
	repositories.Store
	Ping(ctx context.Context) error
}

// Dependencies are the long-lived objects the handlers need.
type Dependencies struct {
	Config   *config.Config
	DB       Database
	Sessions *auth.Manager
	Hasher   *auth.Hasher
	Log      *slog.Logger
}

// SetupRoutes defines the application's routes and returns a router.
func SetupRoutes(deps Dependencies) (*mux.Router, error) {
	templates, err := views.Parse(render.Funcs())
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	cfg := deps.Config
	userService := services.NewUserService(deps.DB, deps.Hasher)
	postService := services.NewPostService(deps.DB, cfg.AdminID)
	commentService := services.NewCommentService(deps.DB, cfg.AdminID, cfg.OpenCommentDeletion)

	base := controllers.NewBase(templates, deps.Sessions, cfg.AdminID, deps.Log)
	pageController := controllers.NewPageController(base, deps.DB)
	authController := controllers.NewAuthController(base, userService)
	postController := controllers.NewPostController(base, postService, commentService)
	commentController := controllers.NewCommentController(postController)

	router := mux.NewRouter()

	// Apply global middleware
	global := []mux.MiddlewareFunc{
		middleware.RequestID,
		middleware.Logger(deps.Log),
		middleware.Recoverer(deps.Log, pageController.InternalError),
		middleware.LoadPrincipal(deps.Sessions),
	}
	router.Use(global...)

	// mux skips middleware for unmatched requests, so wrap those handlers directly
	router.NotFoundHandler = chain(http.HandlerFunc(pageController.NotFound), global)
	router.MethodNotAllowedHandler = chain(http.HandlerFunc(pageController.MethodNotAllowed), global)

	router.HandleFunc("/healthz", pageController.Health).Methods("GET")

	// Public pages
	router.HandleFunc("/", postController.Index).Methods("GET")
	router.HandleFunc("/about", pageController.About).Methods("GET")
	router.HandleFunc("/contact", pageController.Contact).Methods("GET")
	router.HandleFunc("/post/{post_id:[0-9]+}", postController.Show).Methods("GET")
	router.HandleFunc("/post/{post_id:[0-9]+}", commentController.Create).Methods("POST")

	// Accounts
	router.HandleFunc("/register", authController.RegisterForm).Methods("GET")
	router.HandleFunc("/register", authController.Register).Methods("POST")
	router.HandleFunc("/login", authController.LoginForm).Methods("GET")
	router.HandleFunc("/login", authController.Login).Methods("POST")
	router.HandleFunc("/logout", authController.Logout).Methods("GET")

	// Administrator only
	admin := router.NewRoute().Subrouter()
	admin.Use(middleware.RequireAdmin(cfg.AdminID, pageController.Forbidden))
	admin.HandleFunc("/new-post", postController.New).Methods("GET")
	admin.HandleFunc("/new-post", postController.Create).Methods("POST")
	admin.HandleFunc("/edit-post/{post_id:[0-9]+}", postController.Edit).Methods("GET")
	admin.HandleFunc("/edit-post/{post_id:[0-9]+}", postController.Update).Methods("POST")
	admin.HandleFunc("/delete/{post_id:[0-9]+}", postController.Delete).Methods("GET")

	moderation := admin
	if cfg.OpenCommentDeletion {
		moderation = router
	}
	moderation.HandleFunc("/delete-comment/{comment_id:[0-9]+}", commentController.Delete).Methods("GET")

	return router, nil
}

func chain(h http.Handler, mws []mux.MiddlewareFunc) http.Handler {
	for i := len(mws) - 1; i >= 0; i-- {
		h = mws[i](h)
	}
	return h
}
