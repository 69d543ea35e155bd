package expression

import "errors"

var (
	// ErrNotAllowed is returned for any construct outside the grammar:
	// an unknown identifier, an attribute access other than
	// context.get, an unsupported call, or a syntax error. This is the
	// *expression-not-allowed* condition.
	ErrNotAllowed = errors.New("expression not allowed")

	// ErrEvalError is returned for a runtime problem evaluating an
	// otherwise well-formed expression: division by zero, a
	// non-subscriptable value, a type mismatch in a comparison or
	// arithmetic operator. This is the *expression-eval-error*
	// condition.
	ErrEvalError = errors.New("expression evaluation error")
)
