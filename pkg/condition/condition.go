// Package condition defines the contract used to evaluate conditional
// expressions against a bound object, such as the activation predicates of
// validation rules.
package condition

// Evaluator determines whether an expression holds for the supplied context.
type Evaluator interface {
	Eval(expression string, ctx Context) (bool, error)
}

// Context provides the inputs an expression can reference. Lookup resolves
// attribute paths on the bound object and is consulted before Values, which
// callers use to inject extra facts (current user roles, feature flags).
type Context struct {
	Lookup func(path string) (any, bool)
	Values map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(expression string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(expression string, ctx Context) (bool, error) {
	return fn(expression, ctx)
}
