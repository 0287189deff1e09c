package services

import (
	"context"
	"errors"
	"fmt"

	"quill/app/auth"
	"quill/app/models"
	"quill/app/repositories"
)

// UserService handles registration and credential checks
type UserService struct {
	store  repositories.Store
	hasher *auth.Hasher
}

// NewUserService creates a new UserService
func NewUserService(store repositories.Store, hasher *auth.Hasher) *UserService {
	return &UserService{
		store:  store,
		hasher: hasher,
	}
}

// Register creates an account with a hashed password. A taken email yields
// ErrEmailTaken whether it is caught by the lookup or by the UNIQUE constraint
// when two registrations race.
func (s *UserService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	_, err := s.store.Users().GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{Email: email, Password: digest, Name: name}
	if err := user.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	err = s.store.WithTx(ctx, func(tx repositories.Store) error {
		return tx.Users().Create(ctx, user)
	})
	if errors.Is(err, repositories.ErrDuplicate) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user owning email if password matches.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.store.Users().GetByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		s.hasher.VerifyDummy(password)
		return nil, ErrUnknownEmail
	}
	if err != nil {
		return nil, err
	}

	if !s.hasher.Verify(password, user.Password) {
		return nil, ErrWrongPassword
	}
	return user, nil
}

// GetUser retrieves a user by ID
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.store.Users().GetByID(ctx, id)
}
