package openapi

import (
	"math"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/inference"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Unmapped column types pass through inference as the input tag, so string
// formats with a dedicated input are declared under that tag.
const (
	columnEmail    = model.ColumnType(inference.TagEmail)
	columnURL      = model.ColumnType(inference.TagURL)
	columnPassword = model.ColumnType(inference.TagPassword)
	columnFile     = model.ColumnType(inference.TagFile)
)

// Longer strings become text columns.
const textThreshold = 255

// Model is the form-facing view of one component schema.
type Model struct {
	catalog      *Catalog
	component    string
	name         string
	columns      []model.Column
	associations []model.Association
	rules        []validation.Rule
	human        map[string]string
	defaults     map[string]any
	nested       map[string]string
}

// Name returns the param key, the underscored component name.
func (m *Model) Name() string { return m.name }

// Component returns the component schema name.
func (m *Model) Component() string { return m.component }

// Columns returns the column metadata in property order.
func (m *Model) Columns() []model.Column {
	return append([]model.Column(nil), m.columns...)
}

// Associations returns the declared associations in property order.
func (m *Model) Associations() []model.Association {
	return append([]model.Association(nil), m.associations...)
}

// Rules returns every rule derived from the schema.
func (m *Model) Rules() []validation.Rule {
	return append([]validation.Rule(nil), m.rules...)
}

func convertModel(catalog *Catalog, component string, schema *openapi3.Schema, records map[string]model.CollectionSource) *Model {
	m := &Model{
		catalog:   catalog,
		component: component,
		name:      naming.Underscore(component),
		human:     make(map[string]string),
		defaults:  make(map[string]any),
		nested:    make(map[string]string),
	}

	properties, required := flatten(schema)
	names := make([]string, 0, len(properties))
	for name := range properties {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		ref := properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		if prop.ReadOnly && name != "id" {
			continue
		}
		if title := strings.TrimSpace(prop.Title); title != "" {
			m.human[name] = title
		}
		if prop.Default != nil {
			m.defaults[name] = prop.Default
		}

		if rel, ok := relationshipFromExtensions(prop.Extensions); ok {
			assocName, foreignKey := associationName(name, rel)
			m.associations = append(m.associations, model.Association{
				Name:       assocName,
				Kind:       rel.kind,
				Target:     rel.target,
				ForeignKey: foreignKey,
				Records:    labelled(records[rel.target], rel.labelField),
			})
			if assocName != name {
				m.columns = append(m.columns, columnFor(name, prop))
			}
			m.rules = append(m.rules, rulesFor(name, prop, required[name])...)
			continue
		}

		switch {
		case ref.Ref != "" && isObject(prop):
			target := refName(ref.Ref)
			m.nested[name] = target
			m.associations = append(m.associations, model.Association{
				Name: name, Kind: model.HasOne, Target: target, Records: records[target],
			})
			continue
		case isArray(prop) && prop.Items != nil && prop.Items.Ref != "" && isObject(prop.Items.Value):
			target := refName(prop.Items.Ref)
			m.nested[name] = target
			m.associations = append(m.associations, model.Association{
				Name: name, Kind: model.HasMany, Target: target, Records: records[target],
			})
			continue
		case len(prop.Enum) > 0 && isString(prop):
			m.associations = append(m.associations, model.Association{
				Name: name, Kind: model.Enum, Values: enumValues(prop.Enum),
			})
		}

		m.columns = append(m.columns, columnFor(name, prop))
		m.rules = append(m.rules, rulesFor(name, prop, required[name])...)
	}
	return m
}

// flatten merges allOf members into one property set.
func flatten(schema *openapi3.Schema) (openapi3.Schemas, map[string]bool) {
	properties := make(openapi3.Schemas)
	required := make(map[string]bool)
	var walk func(*openapi3.Schema)
	walk = func(s *openapi3.Schema) {
		if s == nil {
			return
		}
		for _, member := range s.AllOf {
			if member != nil {
				walk(member.Value)
			}
		}
		for name, prop := range s.Properties {
			properties[name] = prop
		}
		for _, name := range s.Required {
			required[name] = true
		}
	}
	walk(schema)
	return properties, required
}

func columnFor(name string, prop *openapi3.Schema) model.Column {
	column := model.Column{Name: name}
	switch {
	case isType(prop, openapi3.TypeInteger):
		column.Type = model.ColumnInteger
	case isType(prop, openapi3.TypeNumber):
		column.Type = model.ColumnDecimal
		if prop.Format == "float" || prop.Format == "double" {
			column.Type = model.ColumnFloat
		}
	case isType(prop, openapi3.TypeBoolean):
		column.Type = model.ColumnBoolean
	case isObject(prop), isArray(prop):
		column.Type = model.ColumnJSON
	default:
		column.Type, column.Limit = stringColumn(prop)
	}
	return column
}

func stringColumn(prop *openapi3.Schema) (model.ColumnType, int) {
	switch strings.ToLower(prop.Format) {
	case "date-time":
		return model.ColumnDatetime, 0
	case "date":
		return model.ColumnDate, 0
	case "time":
		return model.ColumnTime, 0
	case "email":
		return columnEmail, 0
	case "uri", "url":
		return columnURL, 0
	case "password":
		return columnPassword, 0
	case "binary":
		return columnFile, 0
	case "textarea", "markdown":
		return model.ColumnText, 0
	}
	if prop.MaxLength != nil {
		if *prop.MaxLength > textThreshold {
			return model.ColumnText, 0
		}
		return model.ColumnString, int(*prop.MaxLength)
	}
	return model.ColumnString, 0
}

func rulesFor(name string, prop *openapi3.Schema, required bool) []validation.Rule {
	var rules []validation.Rule
	if required {
		if isType(prop, openapi3.TypeBoolean) {
			rules = append(rules, validation.Rule{Kind: validation.Inclusion, Attribute: name, In: []string{"true", "false"}})
		} else {
			rules = append(rules, validation.Rule{Kind: validation.Presence, Attribute: name})
		}
	}
	if len(prop.Enum) > 0 {
		rules = append(rules, validation.Rule{
			Kind: validation.Inclusion, Attribute: name, In: enumValues(prop.Enum), AllowBlank: !required,
		})
	}
	if prop.MinLength > 0 || prop.MaxLength != nil {
		rule := validation.Rule{Kind: validation.Length, Attribute: name}
		if prop.MinLength > 0 {
			rule.Minimum = validation.Int(clampInt(prop.MinLength))
		}
		if prop.MaxLength != nil {
			rule.Maximum = validation.Int(clampInt(*prop.MaxLength))
		}
		rules = append(rules, rule)
	}
	if prop.Min != nil || prop.Max != nil || prop.MultipleOf != nil || isType(prop, openapi3.TypeInteger) {
		rules = append(rules, numericRule(name, prop))
	}
	return rules
}

func numericRule(name string, prop *openapi3.Schema) validation.Rule {
	rule := validation.Rule{
		Kind:        validation.Numericality,
		Attribute:   name,
		OnlyInteger: isType(prop, openapi3.TypeInteger),
	}
	if prop.Min != nil {
		if prop.ExclusiveMin {
			rule.GreaterThan = validation.Float(*prop.Min)
		} else {
			rule.GreaterThanOrEqualTo = validation.Float(*prop.Min)
		}
	}
	if prop.Max != nil {
		if prop.ExclusiveMax {
			rule.LessThan = validation.Float(*prop.Max)
		} else {
			rule.LessThanOrEqualTo = validation.Float(*prop.Max)
		}
	}
	if prop.MultipleOf != nil {
		rule.Step = markup.Stringify(*prop.MultipleOf)
	}
	return rule
}

func clampInt(v uint64) int {
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(v)
}

func enumValues(values []any) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if value == nil {
			continue
		}
		out = append(out, markup.Stringify(value))
	}
	return out
}

// labelled maps plain map records to choices using the label field.
func labelled(source model.CollectionSource, labelField string) model.CollectionSource {
	if source == nil || labelField == "" {
		return source
	}
	return model.CollectionFunc(func() ([]any, error) {
		items, err := source.Collection()
		if err != nil {
			return nil, err
		}
		out := make([]any, len(items))
		for i, item := range items {
			record, ok := item.(map[string]any)
			if !ok {
				out[i] = item
				continue
			}
			out[i] = form.Choice{Label: markup.Stringify(record[labelField]), Value: markup.Stringify(record["id"])}
		}
		return out, nil
	})
}

func isType(s *openapi3.Schema, typ string) bool {
	return s != nil && s.Type != nil && s.Type.Is(typ)
}

func isString(s *openapi3.Schema) bool { return isType(s, openapi3.TypeString) }
func isArray(s *openapi3.Schema) bool  { return isType(s, openapi3.TypeArray) }

func isObject(s *openapi3.Schema) bool {
	if s == nil {
		return false
	}
	return isType(s, openapi3.TypeObject) || (s.Type == nil && len(s.Properties) > 0)
}
