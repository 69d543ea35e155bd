package graphstore

import "errors"

var (
	// ErrAlreadyExists is returned by Create when a graph document's id
	// collides with one already stored.
	ErrAlreadyExists = errors.New("graph already exists")

	// ErrNotFound is returned by Get for an unknown graph id.
	ErrNotFound = errors.New("graph not found")
)
