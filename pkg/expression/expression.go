package expression

import (
	"fmt"
	"math"

	"github.com/PrisDen/Trednece-engine/pkg/state"
)

// Env is the evaluation environment: the two identifiers the grammar
// exposes. state is the full WorkflowState; context is an alias for
// state's context mapping, surfaced separately so expressions can use it
// without an attribute lookup.
type Env struct {
	State *state.WorkflowState
}

// ============================================================================
// AST
// ============================================================================

type node interface {
	eval(env *Env) (interface{}, error)
}

type literalNode struct{ value interface{} }

func (n *literalNode) eval(*Env) (interface{}, error) { return n.value, nil }

// identNode resolves to either the WorkflowState itself ("state") or its
// context mapping ("context"); the parser rejects every other identifier.
type identNode struct{ name string }

func (n *identNode) eval(env *Env) (interface{}, error) {
	switch n.name {
	case "state":
		return env.State, nil
	case "context":
		return env.State.Context(), nil
	default:
		return nil, fmt.Errorf("%w: identifier %q", ErrNotAllowed, n.name)
	}
}

type subscriptNode struct {
	base node
	key  node
}

func (n *subscriptNode) eval(env *Env) (interface{}, error) {
	baseVal, err := n.base.eval(env)
	if err != nil {
		return nil, err
	}
	keyVal, err := n.key.eval(env)
	if err != nil {
		return nil, err
	}
	return subscript(baseVal, keyVal)
}

func subscript(base, key interface{}) (interface{}, error) {
	switch b := base.(type) {
	case map[string]interface{}:
		k, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: map key must be a string", ErrEvalError)
		}
		return b[k], nil
	case []interface{}:
		idx, ok := toInt(key)
		if !ok {
			return nil, fmt.Errorf("%w: array index must be a number", ErrEvalError)
		}
		if idx < 0 || idx >= len(b) {
			return nil, fmt.Errorf("%w: array index %d out of range", ErrEvalError, idx)
		}
		return b[idx], nil
	case *state.WorkflowState:
		k, ok := key.(string)
		if !ok {
			return nil, fmt.Errorf("%w: state key must be a string", ErrEvalError)
		}
		v, _ := b.Get(k)
		return v, nil
	default:
		return nil, fmt.Errorf("%w: value is not subscriptable", ErrEvalError)
	}
}

// contextGetNode implements the one permitted call form: context.get(key)
// and context.get(key, default).
type contextGetNode struct {
	key node
	def node // nil if not supplied
}

func (n *contextGetNode) eval(env *Env) (interface{}, error) {
	keyVal, err := n.key.eval(env)
	if err != nil {
		return nil, err
	}
	key, ok := keyVal.(string)
	if !ok {
		return nil, fmt.Errorf("%w: context.get key must be a string", ErrEvalError)
	}
	if n.def == nil {
		v, _ := env.State.Get(key)
		return v, nil
	}
	defVal, err := n.def.eval(env)
	if err != nil {
		return nil, err
	}
	return env.State.GetOr(key, defVal), nil
}

type unaryNode struct {
	op      TokenType
	operand node
}

func (n *unaryNode) eval(env *Env) (interface{}, error) {
	v, err := n.operand.eval(env)
	if err != nil {
		return nil, err
	}
	switch n.op {
	case TokenNot:
		return !truthy(v), nil
	case TokenMinus:
		f, ok := toFloat(v)
		if !ok {
			return nil, fmt.Errorf("%w: unary - requires a number", ErrEvalError)
		}
		return -f, nil
	default:
		return nil, fmt.Errorf("%w: unsupported unary operator", ErrNotAllowed)
	}
}

type binaryNode struct {
	op          TokenType
	left, right node
}

func (n *binaryNode) eval(env *Env) (interface{}, error) {
	lv, err := n.left.eval(env)
	if err != nil {
		return nil, err
	}

	// Short-circuit boolean operators never evaluate the right side
	// unless necessary.
	switch n.op {
	case TokenAnd:
		if !truthy(lv) {
			return false, nil
		}
		rv, err := n.right.eval(env)
		if err != nil {
			return nil, err
		}
		return truthy(rv), nil
	case TokenOr:
		if truthy(lv) {
			return true, nil
		}
		rv, err := n.right.eval(env)
		if err != nil {
			return nil, err
		}
		return truthy(rv), nil
	}

	rv, err := n.right.eval(env)
	if err != nil {
		return nil, err
	}

	switch n.op {
	case TokenEq:
		return equal(lv, rv), nil
	case TokenNeq:
		return !equal(lv, rv), nil
	case TokenLt, TokenLte, TokenGt, TokenGte:
		return compare(n.op, lv, rv)
	case TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenPow:
		return arithmetic(n.op, lv, rv)
	default:
		return nil, fmt.Errorf("%w: unsupported binary operator", ErrNotAllowed)
	}
}

// chainNode evaluates a chained comparison a < b < c as (a<b) and (b<c),
// short-circuiting on the first falsy link, per the grammar's explicit
// support for chained comparisons.
type chainNode struct {
	operands []node
	ops      []TokenType
}

func (n *chainNode) eval(env *Env) (interface{}, error) {
	prev, err := n.operands[0].eval(env)
	if err != nil {
		return nil, err
	}
	for i, op := range n.ops {
		cur, err := n.operands[i+1].eval(env)
		if err != nil {
			return nil, err
		}
		var ok bool
		var result interface{}
		switch op {
		case TokenEq:
			result = equal(prev, cur)
		case TokenNeq:
			result = !equal(prev, cur)
		default:
			result, err = compare(op, prev, cur)
			if err != nil {
				return nil, err
			}
		}
		ok = result.(bool)
		if !ok {
			return false, nil
		}
		prev = cur
	}
	return true, nil
}

// ============================================================================
// Value helpers
// ============================================================================

func truthy(v interface{}) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case []interface{}:
		return len(x) > 0
	case map[string]interface{}:
		return len(x) > 0
	default:
		if f, ok := toFloat(v); ok {
			return f != 0
		}
		return true
	}
}

func equal(a, b interface{}) bool {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		return af == bf
	}
	return a == b
}

func compare(op TokenType, a, b interface{}) (interface{}, error) {
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if aok && bok {
		switch op {
		case TokenLt:
			return af < bf, nil
		case TokenLte:
			return af <= bf, nil
		case TokenGt:
			return af > bf, nil
		case TokenGte:
			return af >= bf, nil
		}
	}
	as, aIsStr := a.(string)
	bs, bIsStr := b.(string)
	if aIsStr && bIsStr {
		switch op {
		case TokenLt:
			return as < bs, nil
		case TokenLte:
			return as <= bs, nil
		case TokenGt:
			return as > bs, nil
		case TokenGte:
			return as >= bs, nil
		}
	}
	return nil, fmt.Errorf("%w: cannot compare %T and %T", ErrEvalError, a, b)
}

func arithmetic(op TokenType, a, b interface{}) (interface{}, error) {
	if op == TokenPlus {
		as, aIsStr := a.(string)
		bs, bIsStr := b.(string)
		if aIsStr && bIsStr {
			return as + bs, nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return nil, fmt.Errorf("%w: arithmetic requires numbers", ErrEvalError)
	}
	switch op {
	case TokenPlus:
		return af + bf, nil
	case TokenMinus:
		return af - bf, nil
	case TokenStar:
		return af * bf, nil
	case TokenSlash:
		if bf == 0 {
			return nil, fmt.Errorf("%w: division by zero", ErrEvalError)
		}
		return af / bf, nil
	case TokenPercent:
		if bf == 0 {
			return nil, fmt.Errorf("%w: modulo by zero", ErrEvalError)
		}
		return math.Mod(af, bf), nil
	case TokenPow:
		return math.Pow(af, bf), nil
	default:
		return nil, fmt.Errorf("%w: unsupported arithmetic operator", ErrNotAllowed)
	}
}

func toFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	default:
		return 0, false
	}
}

func toInt(v interface{}) (int, bool) {
	f, ok := toFloat(v)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// ============================================================================
// Public API
// ============================================================================

// Evaluate parses expr as a single expression and evaluates it against s,
// returning the raw result value. Any construct outside the permitted
// grammar fails with ErrNotAllowed; any runtime evaluation problem (division
// by zero, non-subscriptable value, type mismatch) fails with
// ErrEvalError.
func Evaluate(expr string, s *state.WorkflowState) (interface{}, error) {
	p := newParser(expr)
	ast, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if !p.atEOF() {
		return nil, fmt.Errorf("%w: unexpected trailing input", ErrNotAllowed)
	}
	return ast.eval(&Env{State: s})
}

// EvaluateBool parses and evaluates expr, then collapses the result to a
// bool using the three-valued truthiness rule: null / false / 0 /
// empty-string / empty-container collapse to false, everything else is
// true.
func EvaluateBool(expr string, s *state.WorkflowState) (bool, error) {
	v, err := Evaluate(expr, s)
	if err != nil {
		return false, err
	}
	return truthy(v), nil
}
