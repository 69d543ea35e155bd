// Package expression implements the restricted expression grammar used to
// evaluate branch conditions and loop until-expressions against a run's
// WorkflowState.
//
// # Grammar
//
// Expressions are parsed as a single expression, never a statement.
// Exactly two identifiers are exposed: state (the WorkflowState) and
// context (an alias for state's context mapping). The grammar permits:
//
//   - literals: null, true/false, numbers, strings
//   - subscript: x[k]
//   - the one call form: context.get(key) and context.get(key, default)
//   - arithmetic: + - * / % **
//   - comparisons, including chained comparisons: == != < <= > >=
//   - boolean: and, or, not
//
// Every other construct — any other attribute access, any other function
// call, any import, name or identifier beyond the two above, any
// statement form — fails to parse with ErrNotAllowed. This is
// deliberately not a general-purpose interpreter: the grammar is small
// enough to enumerate completely, so there is no eval() escape hatch to
// sandbox around.
//
// Truthiness used by branch and loop selection is the usual three-valued
// collapse: null, false, 0, "", and empty containers are false; anything
// else is true.
package expression
