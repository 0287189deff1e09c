package controllers

import (
	"net/http"
	"strconv"

	"quill/app/auth"
	"quill/app/forms"
)

const flashLoginToComment = "You need to log in or register to comment."

// CommentController handles HTTP requests for comments
type CommentController struct {
	*PostController
}

// NewCommentController creates a new CommentController. It shares the post
// controller so a rejected comment can re-render its post.
func NewCommentController(posts *PostController) *CommentController {
	return &CommentController{PostController: posts}
}

// Create adds a comment from the logged-in user to the post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "post_id")
	if !ok {
		cc.sendError(w, r, http.StatusNotFound)
		return
	}
	if _, err := cc.posts.GetPost(r.Context(), id); err != nil {
		cc.handleError(w, r, err)
		return
	}

	if !auth.PrincipalFrom(r.Context()).IsAuthenticated() {
		cc.flash(w, r, flashLoginToComment)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if err := r.ParseForm(); err != nil {
		cc.sendError(w, r, http.StatusBadRequest)
		return
	}

	form := forms.NewCommentForm(r.PostForm)
	if form.Validate().Any() {
		cc.showPost(w, r, id, http.StatusUnprocessableEntity, form)
		return
	}

	if _, err := cc.comments.CreateComment(r.Context(), actor(r), id, form.Text); err != nil {
		cc.handleError(w, r, err)
		return
	}

	http.Redirect(w, r, postURL(id), http.StatusSeeOther)
}

// Delete removes a comment and returns to its post: the post_id query
// parameter when given, else the post the comment belonged to.
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "comment_id")
	if !ok {
		cc.sendError(w, r, http.StatusNotFound)
		return
	}

	comment, err := cc.comments.DeleteComment(r.Context(), actor(r), id)
	if err != nil {
		cc.handleError(w, r, err)
		return
	}

	target := comment.PostID
	if v, err := strconv.ParseUint(r.URL.Query().Get("post_id"), 10, 0); err == nil && v > 0 {
		target = uint(v)
	}
	http.Redirect(w, r, postURL(target), http.StatusFound)
}
