// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the generic repository base shared by
// all concrete repositories.
//
// Base[T] offers entity-agnostic CRUD primitives parameterized by one
// persisted entity type. Concrete repositories (UserRepo, PostRepo, CarRepo)
// embed Base[T] by composition and add entity-specific query refinements;
// there is no inheritance hierarchy beyond that single level.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations. They
// follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a record is not found, functions return gorm.ErrRecordNotFound
//     (also exported here as ErrNotFound for convenience).
//   - On DB errors (constraint violations, connectivity issues, etc.),
//     the raw gorm error is propagated.
package repo

import (
	"context"

	"gorm.io/gorm"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// Base is the generic repository over one persisted entity type T.
// The zero value is ready to use.
type Base[T any] struct{}

// Get fetches a single entity matching the given query and arguments
// (typically "id = ?"). It returns ErrNotFound when no row matches.
func (Base[T]) Get(ctx context.Context, db *gorm.DB, query any, args ...any) (*T, error) {
	var m T
	if err := db.WithContext(ctx).Where(query, args...).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByID fetches a single entity by primary key.
// It returns ErrNotFound when the id is unknown.
func (b Base[T]) GetByID(ctx context.Context, db *gorm.DB, id string) (*T, error) {
	return b.Get(ctx, db, "id = ?", id)
}

// List returns entities in database-default order. A limit <= 0 disables the
// bound; offset applies only when a limit is set.
func (Base[T]) List(ctx context.Context, db *gorm.DB, limit, offset int) ([]T, error) {
	var out []T
	tx := db.WithContext(ctx)
	if limit > 0 {
		tx = tx.Limit(limit).Offset(offset)
	}
	err := tx.Find(&out).Error
	return out, err
}

// Create inserts the given entity. The caller is responsible for populating
// the primary key and any foreign keys beforehand.
func (Base[T]) Create(ctx context.Context, db *gorm.DB, m *T) error {
	return db.WithContext(ctx).Create(m).Error
}

// Updates applies a partial update of the given columns to the row matching
// id. It returns ErrNotFound when no row was affected.
func (Base[T]) Updates(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	res := db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Save persists all fields of an already-loaded entity.
func (Base[T]) Save(ctx context.Context, db *gorm.DB, m *T) error {
	return db.WithContext(ctx).Save(m).Error
}

// Delete hard-deletes the row matching id.
// It returns ErrNotFound when no row was affected.
func (Base[T]) Delete(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
