package store

import "errors"

// Error Handling Guidelines:
// - Stores: use fmt.Errorf("context: %w", err) for wrapping errors
// - Handlers: use apperrors.* functions for HTTP-appropriate errors

var (
	// ErrNotFound indicates that a requested resource was not found.
	ErrNotFound = errors.New("resource not found")

	// ErrCacheMiss indicates that a cached value is absent or expired.
	ErrCacheMiss = errors.New("cache miss")
)
