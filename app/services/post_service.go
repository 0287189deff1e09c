package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"quill/app/models"
	"quill/app/repositories"
)

// PostService handles business logic for blog posts. Only the administrator
// may create, edit or delete posts.
type PostService struct {
	store   repositories.Store
	adminID uint
}

// NewPostService creates a new PostService
func NewPostService(store repositories.Store, adminID uint) *PostService {
	return &PostService{
		store:   store,
		adminID: adminID,
	}
}

// PostInput carries the editable fields of a post.
type PostInput struct {
	Title    string
	Subtitle string
	ImgURL   string
	Body     string
}

func (s *PostService) isAdmin(actor *models.User) bool {
	return actor != nil && actor.ID == s.adminID
}

// ListPosts retrieves every post with its author
func (s *PostService) ListPosts(ctx context.Context) ([]*models.Post, error) {
	return s.store.Posts().List(ctx)
}

// GetPost retrieves a post by ID with its author and comments
func (s *PostService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	post, err := s.store.Posts().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.Comments().ListByPost(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get comments: %w", err)
	}
	post.Comments = comments

	return post, nil
}

// CreatePost publishes a post dated today, authored by actor.
func (s *PostService) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.Post, error) {
	if !s.isAdmin(actor) {
		return nil, ErrForbidden
	}

	post := &models.Post{
		Title:    in.Title,
		Subtitle: in.Subtitle,
		ImgURL:   in.ImgURL,
		Body:     in.Body,
		Date:     models.FormatDate(time.Now()),
	}
	if err := post.SetAuthor(actor); err != nil {
		return nil, err
	}
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		return tx.Posts().Create(ctx, post)
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrTitleTaken
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// UpdatePost rewrites the editable fields of a post and makes actor its
// author. The publish date is kept.
func (s *PostService) UpdatePost(ctx context.Context, actor *models.User, id uint, in PostInput) (*models.Post, error) {
	if !s.isAdmin(actor) {
		return nil, ErrForbidden
	}

	var post *models.Post
	err := s.store.WithTx(ctx, func(tx repositories.Store) error {
		existing, err := tx.Posts().GetByID(ctx, id)
		if err != nil {
			return err
		}

		existing.Title = in.Title
		existing.Subtitle = in.Subtitle
		existing.ImgURL = in.ImgURL
		existing.Body = in.Body
		if err := existing.SetAuthor(actor); err != nil {
			return err
		}
		if err := existing.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalid, err)
		}

		post = existing
		return tx.Posts().Update(ctx, existing)
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrTitleTaken
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// DeletePost deletes a post and all its comments in one transaction
func (s *PostService) DeletePost(ctx context.Context, actor *models.User, id uint) error {
	if !s.isAdmin(actor) {
		return ErrForbidden
	}

	return s.store.WithTx(ctx, func(tx repositories.Store) error {
		if _, err := tx.Posts().GetByID(ctx, id); err != nil {
			return err
		}
		if _, err := tx.Comments().DeleteByPost(ctx, id); err != nil {
			return fmt.Errorf("failed to delete comments: %w", err)
		}
		return tx.Posts().Delete(ctx, id)
	})
}
