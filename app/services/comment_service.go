package services

import (
	"context"
	"fmt"

	"quill/app/models"
	"quill/app/repositories"
)

// CommentService handles business logic for comments
type CommentService struct {
	store        repositories.Store
	adminID      uint
	openDeletion bool
}

// NewCommentService creates a new CommentService. With openDeletion any
// visitor may delete comments; otherwise only the administrator can.
func NewCommentService(store repositories.Store, adminID uint, openDeletion bool) *CommentService {
	return &CommentService{
		store:        store,
		adminID:      adminID,
		openDeletion: openDeletion,
	}
}

// CreateComment adds a comment by actor under the post with postID
func (s *CommentService) CreateComment(ctx context.Context, actor *models.User, postID uint, text string) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	comment := &models.Comment{Text: text}
	if err := comment.SetAuthor(actor); err != nil {
		return nil, err
	}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		post, err := tx.Posts().GetByID(ctx, postID)
		if err != nil {
			return err
		}
		if err := comment.SetPost(post); err != nil {
			return err
		}
		if err := comment.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}
		return tx.Comments().Create(ctx, comment)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}

// GetComment retrieves a comment by ID
func (s *CommentService) GetComment(ctx context.Context, id uint) (*models.Comment, error) {
	return s.store.Comments().GetByID(ctx, id)
}

// ListPostComments retrieves all comments for a post
func (s *CommentService) ListPostComments(ctx context.Context, postID uint) ([]*models.Comment, error) {
	if _, err := s.store.Posts().GetByID(ctx, postID); err != nil {
		return nil, err
	}
	return s.store.Comments().ListByPost(ctx, postID)
}

// CanDelete reports whether actor (nil when anonymous) may delete comments.
func (s *CommentService) CanDelete(actor *models.User) bool {
	return s.openDeletion || (actor != nil && actor.ID == s.adminID)
}

// DeleteComment deletes a comment and returns it, so callers can still see its post.
func (s *CommentService) DeleteComment(ctx context.Context, actor *models.User, id uint) (*models.Comment, error) {
	if !s.CanDelete(actor) {
		return nil, ErrForbidden
	}

	var comment *models.Comment
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		var err error
		if comment, err = tx.Comments().GetByID(ctx, id); err != nil {
			return err
		}
		return tx.Comments().Delete(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return comment, nil
}
