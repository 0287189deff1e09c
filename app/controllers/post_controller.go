package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"quill/app/forms"
	"quill/app/services"
)

// PostController handles HTTP requests for blog posts
type PostController struct {
	*Base
	posts    *services.PostService
	comments *services.CommentService
}

// NewPostController creates a new PostController
func NewPostController(base *Base, posts *services.PostService, comments *services.CommentService) *PostController {
	return &PostController{Base: base, posts: posts, comments: comments}
}

// Index lists every post
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := pc.posts.ListPosts(r.Context())
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	data := pc.view(r, "")
	data.Posts = posts
	pc.render(w, r, "index", http.StatusOK, data)
}

// Show displays a single post with its comments and the comment form
func (pc *PostController) Show(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		pc.sendError(w, r, http.StatusNotFound)
		return
	}
	pc.showPost(w, r, id, http.StatusOK, nil)
}

func (pc *PostController) showPost(w http.ResponseWriter, r *http.Request, id uint, status int, form *forms.CommentForm) {
	post, err := pc.posts.GetPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	data := pc.view(r, post.Title)
	data.Post = post
	data.Comments = post.Comments
	data.CanDeleteComments = pc.comments.CanDelete(actor(r))
	if form != nil {
		data.Values = map[string]string{"comment_text": form.Text}
		data.Errors = form.Validate()
	}
	pc.render(w, r, "post", status, data)
}

// New displays the form for creating a new post
func (pc *PostController) New(w http.ResponseWriter, r *http.Request) {
	data := pc.view(r, "New Post")
	data.Action = "/new-post"
	pc.render(w, r, "make-post", http.StatusOK, data)
}

// Create handles creating a new post
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, http.StatusBadRequest)
		return
	}

	form := forms.NewPostForm(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		pc.renderPostForm(w, r, form, errs, "/new-post", false)
		return
	}

	_, err := pc.posts.CreatePost(r.Context(), actor(r), postInput(form))
	if errors.Is(err, services.ErrTitleTaken) {
		pc.renderPostForm(w, r, form, titleTaken(), "/new-post", false)
		return
	}
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Edit displays the post form pre-filled from the stored post
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		pc.sendError(w, r, http.StatusNotFound)
		return
	}

	post, err := pc.posts.GetPost(r.Context(), id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	data := pc.view(r, "Edit Post")
	data.IsEdit = true
	data.Action = editURL(id)
	data.Values = map[string]string{
		"title":    post.Title,
		"subtitle": post.Subtitle,
		"img_url":  post.ImgURL,
		"body":     post.Body,
	}
	pc.render(w, r, "make-post", http.StatusOK, data)
}

// Update handles editing an existing post
func (pc *PostController) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		pc.sendError(w, r, http.StatusNotFound)
		return
	}
	if _, err := pc.posts.GetPost(r.Context(), id); err != nil {
		pc.handleError(w, r, err)
		return
	}
	if err := r.ParseForm(); err != nil {
		pc.sendError(w, r, http.StatusBadRequest)
		return
	}

	form := forms.NewPostForm(r.PostForm)
	if errs := form.Validate(); errs.Any() {
		pc.renderPostForm(w, r, form, errs, editURL(id), true)
		return
	}

	_, err := pc.posts.UpdatePost(r.Context(), actor(r), id, postInput(form))
	if errors.Is(err, services.ErrTitleTaken) {
		pc.renderPostForm(w, r, form, titleTaken(), editURL(id), true)
		return
	}
	if err != nil {
		pc.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusSeeOther)
}

// Delete handles deleting a post with its comments
func (pc *PostController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		pc.sendError(w, r, http.StatusNotFound)
		return
	}

	if err := pc.posts.DeletePost(r.Context(), actor(r), id); err != nil {
		pc.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (pc *PostController) renderPostForm(w http.ResponseWriter, r *http.Request, form *forms.PostForm, errs forms.Errors, action string, isEdit bool) {
	title := "New Post"
	if isEdit {
		title = "Edit Post"
	}
	data := pc.view(r, title)
	data.IsEdit = isEdit
	data.Action = action
	data.Errors = errs
	data.Values = map[string]string{
		"title":    form.Title,
		"subtitle": form.Subtitle,
		"img_url":  form.ImgURL,
		"body":     form.Body,
	}
	pc.render(w, r, "make-post", http.StatusUnprocessableEntity, data)
}

func postInput(form *forms.PostForm) services.PostInput {
	return services.PostInput{
		Title:    form.Title,
		Subtitle: form.Subtitle,
		ImgURL:   form.ImgURL,
		Body:     form.Body,
	}
}

func titleTaken() forms.Errors {
	errs := forms.Errors{}
	errs.Add("title", "A post with this title already exists.")
	return errs
}

func editURL(id uint) string {
	return "/edit-post/" + strconv.FormatUint(uint64(id), 10)
}
