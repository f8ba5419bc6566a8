// Package validation reflects on declared validation rules to answer the
// questions a form needs: is the attribute required, how long may it be and
// which numeric range does it accept. Rules are read-only metadata; nothing in
// this package validates values.
package validation

// Kind identifies the family of a validation rule.
type Kind string

const (
	Presence     Kind = "presence"
	Inclusion    Kind = "inclusion"
	Length       Kind = "length"
	Numericality Kind = "numericality"
)

// Scope restricts a rule to record creation or update.
type Scope string

const (
	OnSave   Scope = ""
	OnCreate Scope = "create"
	OnUpdate Scope = "update"
)

// Bounds is an inclusive integer interval used by length rules.
type Bounds struct {
	Min int
	Max int
}

// Rule is a single declared validation. Options that do not apply to the
// rule's Kind are ignored.
type Rule struct {
	Kind      Kind
	Attribute string

	// Inclusion.
	In         []string
	AllowBlank bool
	AllowNil   bool

	// Length.
	Minimum *int
	Maximum *int
	Within  *Bounds

	// Numericality.
	GreaterThan          *float64
	GreaterThanOrEqualTo *float64
	LessThan             *float64
	LessThanOrEqualTo    *float64
	OnlyInteger          bool
	Step                 string

	On     Scope
	If     Condition
	Unless Condition
}

// Provider exposes the rules declared for an attribute. Objects that do not
// implement it are treated as having no validation metadata.
type Provider interface {
	ValidationRulesFor(attribute string) []Rule
}

// ProviderFunc adapts a function into a Provider.
type ProviderFunc func(attribute string) []Rule

// ValidationRulesFor calls the underlying function.
func (fn ProviderFunc) ValidationRulesFor(attribute string) []Rule {
	return fn(attribute)
}

// Int returns a pointer to v; handy for building rules inline.
func Int(v int) *int { return &v }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
