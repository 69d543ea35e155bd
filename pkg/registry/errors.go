package registry

import "errors"

var (
	// ErrAlreadyRegistered is returned by Register when the name is taken.
	ErrAlreadyRegistered = errors.New("tool already registered")

	// ErrNotRegistered is returned by Get for an unknown name.
	ErrNotRegistered = errors.New("tool not registered")
)
