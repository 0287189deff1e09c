// Package forms declares the submitted forms as validated structs. Each form
// is filled from url.Values and reports failures per input name.
package forms

import (
	"net/url"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("form"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		panic(err)
	}
	return v
}

// Errors maps an input name to its validation messages.
type Errors map[string][]string

func (e Errors) Add(field, message string) {
	e[field] = append(e[field], message)
}

// Get returns the first message for field, or "".
func (e Errors) Get(field string) string {
	if msgs := e[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

func (e Errors) Any() bool {
	return len(e) > 0
}

// check runs the struct validator on form and converts failures to Errors.
func check(form any) Errors {
	errs := Errors{}

	err := validate.Struct(form)
	if err == nil {
		return errs
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs.Add("form", err.Error())
		return errs
	}
	for _, fe := range verrs {
		errs.Add(fe.Field(), message(fe))
	}
	return errs
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "notblank":
		return "This field is required."
	case "email":
		return "Invalid Email"
	case "url":
		return "Invalid URL."
	case "min":
		if fe.Field() == "password" {
			return "Password must be at least " + fe.Param() + " characters"
		}
		return "Field must be at least " + fe.Param() + " characters long."
	case "max":
		return "Field cannot be longer than " + fe.Param() + " characters."
	default:
		return "Invalid value."
	}
}

func field(values url.Values, name string) string {
	return strings.TrimSpace(values.Get(name))
}

// PostForm creates or edits a blog post.
type PostForm struct {
	Title    string `form:"title" validate:"required,max=250"`
	Subtitle string `form:"subtitle" validate:"required,max=250"`
	ImgURL   string `form:"img_url" validate:"required,url,max=250"`
	Body     string `form:"body" validate:"notblank"`
}

func NewPostForm(values url.Values) *PostForm {
	return &PostForm{
		Title:    field(values, "title"),
		Subtitle: field(values, "subtitle"),
		ImgURL:   field(values, "img_url"),
		Body:     values.Get("body"),
	}
}

func (f *PostForm) Validate() Errors { return check(f) }

// RegisterForm creates an account.
type RegisterForm struct {
	Email    string `form:"email" validate:"required,email,max=100"`
	Password string `form:"password" validate:"required,min=8"`
	Name     string `form:"name" validate:"required,max=100"`
}

func NewRegisterForm(values url.Values) *RegisterForm {
	return &RegisterForm{
		Email:    field(values, "email"),
		Password: values.Get("password"),
		Name:     field(values, "name"),
	}
}

func (f *RegisterForm) Validate() Errors { return check(f) }

// LoginForm authenticates an existing account.
type LoginForm struct {
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required"`
}

func NewLoginForm(values url.Values) *LoginForm {
	return &LoginForm{
		Email:    field(values, "email"),
		Password: values.Get("password"),
	}
}

func (f *LoginForm) Validate() Errors { return check(f) }

// CommentForm posts a comment under a blog post.
type CommentForm struct {
	Text string `form:"comment_text" validate:"notblank"`
}

func NewCommentForm(values url.Values) *CommentForm {
	return &CommentForm{Text: values.Get("comment_text")}
}

func (f *CommentForm) Validate() Errors { return check(f) }
