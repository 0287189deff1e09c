package repositories

import (
	"context"

	"quill/app/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// PostRepository defines the interface for post data access.
// Posts are returned with their Author loaded.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// CommentRepository defines the interface for comment data access.
// Comments are returned with their Author loaded.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id uint) (*models.Comment, error)
	ListByPost(ctx context.Context, postID uint) ([]*models.Comment, error)
	Delete(ctx context.Context, id uint) error
	DeleteByPost(ctx context.Context, postID uint) (int64, error)
}

// Store groups the repositories and runs units of work against them.
// Inside WithTx every repository obtained from the passed Store shares the
// transaction; returning an error from fn rolls all of it back.
type Store interface {
	Users() UserRepository
	Posts() PostRepository
	Comments() CommentRepository
	WithTx(ctx context.Context, fn func(tx Store) error) error
}
