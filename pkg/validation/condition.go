package validation

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/internal/reflectx"
	"github.com/goliatone/go-formbuilder/pkg/condition"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

type conditionKind uint8

const (
	conditionUnset conditionKind = iota
	conditionAlways
	conditionNever
	conditionPredicate
	conditionExpr
)

// Condition activates or deactivates a rule for the current object. The zero
// value is "unset": an unset If holds and an unset Unless does not.
type Condition struct {
	kind       conditionKind
	predicate  func(object any) bool
	expression string
}

// Always returns a condition that always holds.
func Always() Condition { return Condition{kind: conditionAlways} }

// Never returns a condition that never holds.
func Never() Condition { return Condition{kind: conditionNever} }

// Predicate wraps a function invoked with the bound object. A nil function
// never holds.
func Predicate(fn func(object any) bool) Condition {
	return Condition{kind: conditionPredicate, predicate: fn}
}

// Expr returns a condition evaluated against the bound object's attributes,
// e.g. `published` or `status == "draft" && word_count > 100`.
func Expr(expression string) Condition {
	return Condition{kind: conditionExpr, expression: strings.TrimSpace(expression)}
}

// IsSet reports whether the condition was declared.
func (c Condition) IsSet() bool { return c.kind != conditionUnset }

// Expression returns the source of an Expr condition.
func (c Condition) Expression() string { return c.expression }

func (c Condition) String() string {
	switch c.kind {
	case conditionAlways:
		return "always"
	case conditionNever:
		return "never"
	case conditionPredicate:
		return "predicate"
	case conditionExpr:
		return "expr(" + c.expression + ")"
	default:
		return "unset"
	}
}

// holds evaluates the condition. unset is the value reported for an
// undeclared condition.
func (c Condition) holds(object any, evaluator condition.Evaluator, unset bool) (bool, error) {
	switch c.kind {
	case conditionUnset:
		return unset, nil
	case conditionAlways:
		return true, nil
	case conditionNever:
		return false, nil
	case conditionPredicate:
		if c.predicate == nil {
			return false, nil
		}
		return c.predicate(object), nil
	case conditionExpr:
		if evaluator == nil {
			return false, fmt.Errorf("validation: no evaluator for condition %q", c.expression)
		}
		ok, err := evaluator.Eval(c.expression, ObjectContext(object))
		if err != nil {
			return false, fmt.Errorf("validation: condition %q: %w", c.expression, err)
		}
		return ok, nil
	default:
		return false, fmt.Errorf("validation: unknown condition kind %d", c.kind)
	}
}

// ObjectContext builds a condition context whose lookups read attributes from
// object. Dotted paths walk nested values. model.Reader is preferred over
// reflection when the object implements it.
func ObjectContext(object any) condition.Context {
	return condition.Context{
		Lookup: func(path string) (any, bool) {
			var current any = object
			for _, segment := range strings.Split(path, ".") {
				if current == nil {
					return nil, false
				}
				next, err := readAttribute(current, segment)
				if err != nil {
					return nil, false
				}
				current = next
			}
			return current, true
		},
	}
}

func readAttribute(object any, name string) (any, error) {
	if reader, ok := object.(model.Reader); ok {
		return reader.Attribute(name)
	}
	return reflectx.Member(object, name)
}
