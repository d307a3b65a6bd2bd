package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
	// ErrIncompleteRecord marks a raw match that was skipped without any write.
	ErrIncompleteRecord = errors.New("incomplete record")
)
