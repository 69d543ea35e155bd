package runstore

import "errors"

var (
	// ErrNotFound is returned by Get, Update, and RequestCancel for an
	// unknown run id.
	ErrNotFound = errors.New("run not found")

	// ErrAlreadyExists is returned by Create when a run id collides with
	// an existing record.
	ErrAlreadyExists = errors.New("run already exists")
)
