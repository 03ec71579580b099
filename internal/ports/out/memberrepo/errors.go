package memberrepo

import "errors"

var (
	// ErrNotFound indicates the requested member does not exist.
	ErrNotFound = errors.New("member not found")

	// ErrAlreadyExists indicates a member already exists with the provided ID.
	ErrAlreadyExists = errors.New("member already exists")

	// ErrEmailAlreadyInUse indicates another member already uses the email address (case-insensitive).
	ErrEmailAlreadyInUse = errors.New("member email already in use")

	// ErrInsufficientPoints indicates a balance adjustment would leave the balance negative.
	ErrInsufficientPoints = errors.New("member points balance too low")
)
