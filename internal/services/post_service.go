// Package services – PostService
//
// This file implements the PostService, which coordinates post persistence
// with author-association bookkeeping. Every mutation validates the
// referenced user before any row is written, and runs validation + write +
// association inside one transaction so a failure partway leaves no partial
// row behind.
package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/tbourn/go-users-api/internal/domain"
	"github.com/tbourn/go-users-api/internal/repo"
)

// CreatePostInput carries the validated fields for post creation.
type CreatePostInput struct {
	Title       *string
	Description *string
	Content     *string
	UserID      string
}

// UpdatePostInput carries the validated fields for a partial post update.
// Nil pointers mean "leave unchanged"; UserID is always required and
// re-validated.
type UpdatePostInput struct {
	Title   *string
	Content *string
	UserID  string
}

// PostService provides post-level operations. Reads that feed responses
// embedding the author always eager-load the user association.
type PostService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the post repository used by this service.
	Repo repo.PostRepo
	// Users resolves referenced user ids during FK validation.
	Users repo.UserRepo
}

// NewPostService constructs a PostService bound to the given database handle.
func NewPostService(db *gorm.DB) *PostService {
	return &PostService{DB: db}
}

// List returns posts with authors eager-loaded, database-default order.
// A limit <= 0 returns all.
func (s *PostService) List(ctx context.Context, limit, offset int) ([]domain.Post, error) {
	return s.Repo.ListWithUsers(ctx, s.DB, limit, offset)
}

// Get fetches one post by id with its author eager-loaded, or ErrPostNotFound.
func (s *PostService) Get(ctx context.Context, id string) (*domain.Post, error) {
	p, err := s.Repo.GetWithUsers(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// Create validates the referenced user, inserts the post, and writes the
// association row, all in one transaction. It returns ErrInvalidUserID when
// the user does not exist.
func (s *PostService) Create(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	var created *domain.Post
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		user, err := s.Users.GetByID(ctx, tx, in.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidUserID
		}
		if err != nil {
			return err
		}

		p := repo.NewPost(in.Title, in.Description, in.Content)
		if err := s.Repo.Create(ctx, tx, p); err != nil {
			return err
		}
		if err := s.Repo.AppendUser(ctx, tx, p, user); err != nil {
			return err
		}
		created = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	// Reload with the association populated for the response.
	return s.Repo.GetWithUsers(ctx, s.DB, created.ID)
}

// Update applies a partial update and re-points the author association to the
// (re-validated) user. It returns ErrPostNotFound for an unknown post and
// ErrInvalidUserID for an unknown user.
func (s *PostService) Update(ctx context.Context, id string, in UpdatePostInput) (*domain.Post, error) {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.Repo.GetWithUsers(ctx, tx, id)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}

		user, err := s.Users.GetByID(ctx, tx, in.UserID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidUserID
		}
		if err != nil {
			return err
		}

		fields := map[string]any{}
		if in.Title != nil {
			fields["title"] = *in.Title
		}
		if in.Content != nil {
			fields["content"] = *in.Content
		}
		if len(fields) > 0 {
			if err := s.Repo.Updates(ctx, tx, id, fields); err != nil {
				return err
			}
		}
		return s.Repo.ReplaceUsers(ctx, tx, p, []domain.User{*user})
	})
	if err != nil {
		return nil, err
	}
	return s.Repo.GetWithUsers(ctx, s.DB, id)
}

// Delete removes a post and its association rows, or returns ErrPostNotFound.
// Users referenced by the post are never cascaded.
func (s *PostService) Delete(ctx context.Context, id string) error {
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.Repo.GetByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := s.Repo.ClearUsers(ctx, tx, p); err != nil {
			return err
		}
		return s.Repo.Delete(ctx, tx, id)
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	return err
}
