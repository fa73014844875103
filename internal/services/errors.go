// Package services defines the business logic for users, posts, and the demo
// car resource. This file centralizes common service-level error values so
// that they can be consistently returned by service methods and checked by
// callers.
//
// These errors are intended for internal use by the service layer; translation
// into user-facing messages or HTTP status codes is performed at the
// handler layer.
package services

import "errors"

var (
	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")

	// ErrPostNotFound indicates that the requested post does not exist.
	ErrPostNotFound = errors.New("post not found")

	// ErrInvalidUserID is returned when a post references a user_id that does
	// not exist. The referenced user must exist before any row is written.
	ErrInvalidUserID = errors.New("invalid user_id")

	// ErrNoMatchKey is returned when an upsert request carries neither an
	// email nor an sms, leaving nothing to match or store.
	ErrNoMatchKey = errors.New("at least one of email or sms is required")
)
