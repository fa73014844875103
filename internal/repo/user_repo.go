// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the user repository.
//
// UserRepo refines Base[domain.User] with natural-key lookups used by the
// upsert flow: FindByEmail first, FindBySMS as the fallback match.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-users-api/internal/domain"
)

// UserRepo persists users. The zero value is ready to use.
type UserRepo struct {
	Base[domain.User]
}

// NewUser returns a User with a fresh UUID primary key and UTC creation time.
// Natural keys may be nil; the upsert flow treats nil as "no match key".
func NewUser(email, sms *string) *domain.User {
	return &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		SMS:       sms,
		CreatedAt: time.Now().UTC(),
	}
}

// FindByEmail returns the user whose email matches, or ErrNotFound.
// A nil email never matches any row.
func (r UserRepo) FindByEmail(ctx context.Context, db *gorm.DB, email *string) (*domain.User, error) {
	if email == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, db, "email = ?", *email)
}

// FindBySMS returns the user whose sms matches, or ErrNotFound.
// A nil sms never matches any row.
func (r UserRepo) FindBySMS(ctx context.Context, db *gorm.DB, sms *string) (*domain.User, error) {
	if sms == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return r.Get(ctx, db, "sms = ?", *sms)
}
