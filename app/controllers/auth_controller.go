package controllers

import (
	"errors"
	"net/http"

	"quill/app/forms"
	"quill/app/services"
)

const (
	flashAlreadyRegistered = "You have already signed up with that email. Login instead!"
	flashUnknownEmail      = "The email does not exist. Please try again."
	flashWrongPassword     = "Password incorrect. Please try again."
)

// AuthController handles registration, login and logout
type AuthController struct {
	*Base
	users *services.UserService
}

// NewAuthController creates a new AuthController
func NewAuthController(base *Base, users *services.UserService) *AuthController {
	return &AuthController{Base: base, users: users}
}

func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, "register", http.StatusOK, ac.view(r, "Register"))
}

// Register creates the account and logs the new user in.
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, http.StatusBadRequest)
		return
	}

	form := forms.NewRegisterForm(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		data := ac.view(r, "Register")
		data.Values = map[string]string{"email": form.Email, "name": form.Name}
		data.Errors = errs
		ac.render(w, r, "register", http.StatusUnprocessableEntity, data)
		return
	}

	user, err := ac.users.Register(r.Context(), form.Email, form.Password, form.Name)
	if errors.Is(err, services.ErrEmailTaken) {
		ac.flash(w, r, flashAlreadyRegistered)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}
	if err != nil {
		ac.handleError(w, r, err)
		return
	}

	if _, err := ac.sessions.Login(w, r, user); err != nil {
		ac.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	ac.render(w, r, "login", http.StatusOK, ac.view(r, "Log In"))
}

// Login binds the session on valid credentials. Failures re-render the form
// with a message and leave the visitor anonymous.
func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ac.sendError(w, r, http.StatusBadRequest)
		return
	}

	form := forms.NewLoginForm(r.PostForm)
	data := ac.view(r, "Log In")
	data.Values = map[string]string{"email": form.Email}

	if errs := form.Validate(); errs.Any() {
		data.Errors = errs
		ac.render(w, r, "login", http.StatusUnprocessableEntity, data)
		return
	}

	user, err := ac.users.Authenticate(r.Context(), form.Email, form.Password)
	switch {
	case errors.Is(err, services.ErrUnknownEmail):
		data.Flashes = append(data.Flashes, flashUnknownEmail)
		ac.render(w, r, "login", http.StatusOK, data)
		return
	case errors.Is(err, services.ErrWrongPassword):
		data.Flashes = append(data.Flashes, flashWrongPassword)
		ac.render(w, r, "login", http.StatusOK, data)
		return
	case err != nil:
		ac.handleError(w, r, err)
		return
	}

	if _, err := ac.sessions.Login(w, r, user); err != nil {
		ac.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if _, err := ac.sessions.Logout(w, r); err != nil {
		ac.handleError(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusFound)
}
