package validation

import (
	"strings"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/pkg/condition"
	"github.com/goliatone/go-formbuilder/pkg/condition/expr"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Range is the numeric window accepted by an attribute. Nil bounds are open.
type Range struct {
	Min  *float64
	Max  *float64
	Step string
}

// Reflector answers rule questions for a bound object. It is stateless and
// safe for concurrent use.
type Reflector struct {
	evaluator condition.Evaluator
}

// Option configures a Reflector.
type Option func(*Reflector)

// WithEvaluator replaces the evaluator used for Expr conditions.
func WithEvaluator(evaluator condition.Evaluator) Option {
	return func(r *Reflector) {
		if evaluator != nil {
			r.evaluator = evaluator
		}
	}
}

// NewReflector returns a Reflector using the built-in expression evaluator.
func NewReflector(opts ...Option) *Reflector {
	r := &Reflector{evaluator: expr.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Reflects reports whether object exposes validation metadata at all.
func (r *Reflector) Reflects(object any) bool {
	_, ok := object.(Provider)
	return ok
}

// RulesFor returns the rules declared for attribute. A trailing foreign key
// suffix is stripped so rules declared on `author` apply to `author_id`.
func (r *Reflector) RulesFor(object any, attribute string) []Rule {
	provider, ok := object.(Provider)
	if !ok {
		return nil
	}
	attribute = strings.TrimSpace(attribute)
	if attribute == "" {
		return nil
	}

	names := []string{attribute}
	if stripped := stripForeignKey(attribute); stripped != attribute {
		names = append(names, stripped)
	}

	var out []Rule
	for _, name := range names {
		for _, rule := range provider.ValidationRulesFor(name) {
			if rule.Attribute != "" && rule.Attribute != name {
				continue
			}
			if rule.Attribute == "" {
				rule.Attribute = name
			}
			out = append(out, rule)
		}
	}
	return out
}

// ActiveRules filters RulesFor down to the rules whose scope and conditions
// hold for object. If must hold and Unless must not; when both are declared
// both are applied.
func (r *Reflector) ActiveRules(object any, attribute string) ([]Rule, error) {
	rules := r.RulesFor(object, attribute)
	if len(rules) == 0 {
		return nil, nil
	}

	active := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		ok, err := r.active(object, rule)
		if err != nil {
			return nil, err
		}
		if ok {
			active = append(active, rule)
		}
	}
	return active, nil
}

func (r *Reflector) active(object any, rule Rule) (bool, error) {
	if !inScope(object, rule.On) {
		return false, nil
	}
	ok, err := rule.If.holds(object, r.evaluator, true)
	if err != nil || !ok {
		return false, err
	}
	negated, err := rule.Unless.holds(object, r.evaluator, false)
	if err != nil {
		return false, err
	}
	return !negated, nil
}

// Required reports whether an active presence rule, or an inclusion rule that
// does not allow blanks, exists for attribute. known is false when the object
// exposes no validation metadata at all, letting callers fall back to their
// own default. Attributes without rules on a validated object are optional.
func (r *Reflector) Required(object any, attribute string) (required bool, known bool, err error) {
	if !r.Reflects(object) {
		return false, false, nil
	}

	rules, err := r.ActiveRules(object, attribute)
	if err != nil {
		return false, true, err
	}
	for _, rule := range rules {
		switch rule.Kind {
		case Presence:
			return true, true, nil
		case Inclusion:
			if !rule.AllowBlank {
				return true, true, nil
			}
		}
	}
	return false, true, nil
}

// MaxLength returns the maximum of the first active length rule declaring
// one, or its within upper bound. fallback is returned otherwise.
func (r *Reflector) MaxLength(object any, attribute string, fallback int) (int, error) {
	rules, err := r.ActiveRules(object, attribute)
	if err != nil {
		return 0, err
	}
	for _, rule := range rules {
		if rule.Kind != Length {
			continue
		}
		if rule.Maximum != nil {
			return *rule.Maximum, nil
		}
		if rule.Within != nil {
			return rule.Within.Max, nil
		}
	}
	return fallback, nil
}

// MinLength mirrors MaxLength for the lower bound. Zero means no bound.
func (r *Reflector) MinLength(object any, attribute string) (int, error) {
	rules, err := r.ActiveRules(object, attribute)
	if err != nil {
		return 0, err
	}
	for _, rule := range rules {
		if rule.Kind != Length {
			continue
		}
		if rule.Minimum != nil {
			return *rule.Minimum, nil
		}
		if rule.Within != nil {
			return rule.Within.Min, nil
		}
	}
	return 0, nil
}

// NumericRange derives min/max/step from the first active numericality rule.
// Exclusive bounds move by one when the attribute is integer valued; other
// exclusive bounds are reported as-is. Without a rule the range is open with
// step "1" for integers and "any" otherwise.
func (r *Reflector) NumericRange(object any, attribute string, integer bool) (Range, error) {
	out := Range{Step: defaultStep(integer)}

	rules, err := r.ActiveRules(object, attribute)
	if err != nil {
		return Range{}, err
	}
	for _, rule := range rules {
		if rule.Kind != Numericality {
			continue
		}
		whole := integer || rule.OnlyInteger
		if whole {
			out.Step = "1"
		}

		switch {
		case rule.GreaterThanOrEqualTo != nil:
			out.Min = copyFloat(*rule.GreaterThanOrEqualTo)
		case rule.GreaterThan != nil:
			out.Min = copyFloat(adjust(*rule.GreaterThan, whole, 1))
		}
		switch {
		case rule.LessThanOrEqualTo != nil:
			out.Max = copyFloat(*rule.LessThanOrEqualTo)
		case rule.LessThan != nil:
			out.Max = copyFloat(adjust(*rule.LessThan, whole, -1))
		}
		if step := strings.TrimSpace(rule.Step); step != "" {
			out.Step = step
		}
		break
	}
	return out, nil
}

func adjust(bound float64, whole bool, delta float64) float64 {
	if !whole {
		return bound
	}
	return bound + delta
}

func copyFloat(v float64) *float64 { return &v }

func defaultStep(integer bool) string {
	if integer {
		return "1"
	}
	return "any"
}

func inScope(object any, scope Scope) bool {
	if scope == OnSave {
		return true
	}
	isNew := true
	if persisted, ok := object.(model.Persistence); ok {
		isNew = persisted.NewRecord()
	}
	switch scope {
	case OnCreate:
		return isNew
	case OnUpdate:
		return !isNew
	default:
		return true
	}
}

func stripForeignKey(attribute string) string {
	name, _ := naming.AssociationForKey(attribute)
	return name
}
