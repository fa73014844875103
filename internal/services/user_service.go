// Package services – UserService
//
// This file implements the UserService, which manages the user lifecycle.
// Its one piece of nontrivial business logic is CreateOrUpdate: an upsert
// keyed by two natural identifiers with explicit precedence. The email lookup
// runs first; only when it misses does the sms lookup run. When both keys
// would match different rows, the email match wins and that row's sms is
// overwritten in place; the sms-matched row is left untouched.
//
// Service-level errors (e.g., ErrUserNotFound) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/repo"
)

// UserService provides user-level operations: listing, fetching, upserting,
// and deleting users.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the user repository used by this service.
	Repo repo.UserRepo
}

// NewUserService constructs a UserService bound to the given database handle.
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{DB: db}
}

// List returns users in database-default order. A limit <= 0 returns all.
func (s *UserService) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.Repo.List(ctx, s.DB, limit, offset)
}

// Get fetches one user by id, or ErrUserNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.Repo.GetByID(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// CreateOrUpdate upserts a user by natural key. The row matched by email
// (first) or sms (fallback) has both keys overwritten in place; when neither
// lookup hits, a new row is inserted. The write commits before returning.
func (s *UserService) CreateOrUpdate(ctx context.Context, email, sms *string) (*domain.User, error) {
	if email == nil && sms == nil {
		return nil, ErrNoMatchKey
	}

	u, err := s.Repo.FindByEmail(ctx, s.DB, email)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		u, err = s.Repo.FindBySMS(ctx, s.DB, sms)
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if u == nil {
		u = repo.NewUser(email, sms)
		if err := s.Repo.Create(ctx, s.DB, u); err != nil {
			return nil, err
		}
		return u, nil
	}

	u.Email = email
	u.SMS = sms
	if err := s.Repo.Save(ctx, s.DB, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete hard-deletes a user by id, or returns ErrUserNotFound.
// Association rows in users_and_posts are removed; posts are kept.
func (s *UserService) Delete(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u, err := s.Repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := tx.Model(u).Association("Posts").Clear(); err != nil {
			return err
		}
		return s.Repo.Delete(ctx, tx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}
