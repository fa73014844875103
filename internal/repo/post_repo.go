// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the post repository.
//
// PostRepo refines Base[domain.Post] with eager-loading variants: every read
// that feeds a response embedding the post's author preloads the Users
// association in the same round-trip (the join-table equivalent of a
// joinedload, avoiding an N+1 per related row).
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-users-api/internal/domain"
)

// PostRepo persists posts and their user associations.
// The zero value is ready to use.
type PostRepo struct {
	Base[domain.Post]
}

// NewPost returns a Post with a fresh UUID primary key and UTC creation time.
func NewPost(title, description, content *string) *domain.Post {
	return &domain.Post{
		ID:          uuid.NewString(),
		Title:       title,
		Description: description,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
}

// ListWithUsers returns all posts with their authors eager-loaded, in
// database-default order. A limit <= 0 disables the bound.
func (PostRepo) ListWithUsers(ctx context.Context, db *gorm.DB, limit, offset int) ([]domain.Post, error) {
	var out []domain.Post
	tx := db.WithContext(ctx).Preload("Users")
	if limit > 0 {
		tx = tx.Limit(limit).Offset(offset)
	}
	err := tx.Find(&out).Error
	return out, err
}

// GetWithUsers fetches one post by id with its authors eager-loaded.
// It returns ErrNotFound when the id is unknown.
func (PostRepo) GetWithUsers(ctx context.Context, db *gorm.DB, id string) (*domain.Post, error) {
	var p domain.Post
	err := db.WithContext(ctx).Preload("Users").Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ReplaceUsers rewrites the post's author association to exactly the given
// users. Used on update when user_id changes.
func (PostRepo) ReplaceUsers(ctx context.Context, db *gorm.DB, post *domain.Post, users []domain.User) error {
	return db.WithContext(ctx).Model(post).Association("Users").Replace(users)
}

// AppendUser links a user to the post through the users_and_posts join table.
func (PostRepo) AppendUser(ctx context.Context, db *gorm.DB, post *domain.Post, user *domain.User) error {
	return db.WithContext(ctx).Model(post).Association("Users").Append(user)
}

// ClearUsers removes all of the post's association rows. Called before a hard
// delete so only the join table cascades, never the users.
func (PostRepo) ClearUsers(ctx context.Context, db *gorm.DB, post *domain.Post) error {
	return db.WithContext(ctx).Model(post).Association("Users").Clear()
}
