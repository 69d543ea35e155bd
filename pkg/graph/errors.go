package graph

import "errors"

// ErrValidationFailed is the umbrella error for any problem found while
// building a Graph from a document: failing structural schema, an
// undefined start_node, a dangling edge endpoint, or an unregistered
// node callable. Every case is wrapped with %w so callers can match on
// it regardless of which validation step produced it.
var ErrValidationFailed = errors.New("graph validation failed")
