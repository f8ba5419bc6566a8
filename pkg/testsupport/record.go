package testsupport

import (
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-formbuilder/pkg/model"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// ErrNoAttribute is returned by Record for attributes it does not respond to.
var ErrNoAttribute = errors.New("testsupport: undefined attribute")

// Record is a bound object for tests implementing every collaborator
// contract the builder consumes. Attributes declared as columns or
// associations read as nil when no value is set; anything else fails with
// ErrNoAttribute.
type Record struct {
	Name         string
	Values       map[string]any
	Schema       []model.Column
	Relations    []model.Association
	Rules        []validation.Rule
	Errors       model.Errors
	Persisted    bool
	HumanNames   map[string]string
	Virtual      []string
	DisplayLabel string
}

// Attribute implements model.Reader.
func (r *Record) Attribute(name string) (any, error) {
	if value, ok := r.Values[name]; ok {
		return value, nil
	}
	if _, ok := r.ColumnFor(name); ok {
		return nil, nil
	}
	if _, ok := r.AssociationFor(name); ok {
		return nil, nil
	}
	for _, virtual := range r.Virtual {
		if virtual == name {
			return nil, nil
		}
	}
	return nil, fmt.Errorf("%w %q for %s", ErrNoAttribute, name, r.Name)
}

// ColumnFor implements model.SchemaProvider. Records without a schema never
// report columns.
func (r *Record) ColumnFor(attribute string) (model.Column, bool) {
	for _, column := range r.Schema {
		if column.Name == attribute {
			return column, true
		}
	}
	return model.Column{}, false
}

// Columns implements model.ColumnLister.
func (r *Record) Columns() []model.Column {
	return append([]model.Column(nil), r.Schema...)
}

// AssociationFor implements model.AssociationProvider.
func (r *Record) AssociationFor(attribute string) (model.Association, bool) {
	for _, association := range r.Relations {
		if association.Name == attribute {
			return association, true
		}
	}
	return model.Association{}, false
}

// Associations implements model.AssociationLister.
func (r *Record) Associations() []model.Association {
	return append([]model.Association(nil), r.Relations...)
}

// ValidationRulesFor implements validation.Provider.
func (r *Record) ValidationRulesFor(attribute string) []validation.Rule {
	var out []validation.Rule
	for _, rule := range r.Rules {
		if rule.Attribute == attribute {
			out = append(out, rule)
		}
	}
	return out
}

// ErrorsFor implements model.ErrorProvider.
func (r *Record) ErrorsFor(attribute string) []string {
	return r.Errors.ErrorsFor(attribute)
}

// NewRecord implements model.Persistence.
func (r *Record) NewRecord() bool { return !r.Persisted }

// ModelName implements model.Named.
func (r *Record) ModelName() string { return r.Name }

// HumanAttributeName implements model.Humanizer. Unknown attributes return
// "" so callers fall back to their own humanization.
func (r *Record) HumanAttributeName(attribute string) string {
	return r.HumanNames[attribute]
}

// String is used as the default label of the record inside collections.
func (r *Record) String() string { return r.DisplayLabel }

// Upload looks like an attached file to the introspector.
type Upload struct {
	Filename    string
	ContentType string
}

// Option is a plain record used as a collection item.
type Option struct {
	ID    int
	Name  string
	Group string
}

// Post returns a blog post fixture covering columns, associations, nested
// records and validation rules.
func Post() *Record {
	publishAt := time.Date(2024, time.March, 9, 14, 5, 0, 0, time.UTC)
	return &Record{
		Name: "post",
		Values: map[string]any{
			"title":      "Hello",
			"body":       "Body text",
			"publish_at": publishAt,
			"published":  true,
			"views":      3,
			"author": &Record{
				Name:   "author",
				Values: map[string]any{"name": "Ada"},
				Schema: []model.Column{{Name: "name", Type: model.ColumnString}},
				Rules:  []validation.Rule{{Kind: validation.Presence, Attribute: "name"}},
			},
			"comments": []any{
				&Record{Name: "comment", Values: map[string]any{"body": "First"}, Schema: []model.Column{{Name: "body", Type: model.ColumnText}}},
				&Record{Name: "comment", Values: map[string]any{"body": "Second"}, Schema: []model.Column{{Name: "body", Type: model.ColumnText}}},
			},
		},
		Schema: []model.Column{
			{Name: "title", Type: model.ColumnString, Limit: 120},
			{Name: "body", Type: model.ColumnText},
			{Name: "publish_at", Type: model.ColumnDatetime},
			{Name: "published", Type: model.ColumnBoolean},
			{Name: "views", Type: model.ColumnInteger},
			{Name: "category_id", Type: model.ColumnInteger},
		},
		Relations: []model.Association{
			{
				Name:       "category",
				Kind:       model.BelongsTo,
				Target:     "category",
				ForeignKey: "category_id",
				Records: model.CollectionFunc(func() ([]any, error) {
					return []any{
						Option{ID: 1, Name: "News", Group: "General"},
						Option{ID: 2, Name: "Releases", Group: "Product"},
					}, nil
				}),
			},
			{Name: "author", Kind: model.HasOne, Target: "author"},
			{Name: "comments", Kind: model.HasMany, Target: "comment"},
		},
		Rules: []validation.Rule{
			{Kind: validation.Presence, Attribute: "title"},
			{Kind: validation.Length, Attribute: "title", Maximum: validation.Int(80)},
			{Kind: validation.Numericality, Attribute: "views", GreaterThanOrEqualTo: validation.Float(0), OnlyInteger: true},
		},
		Errors:  model.Errors{},
		Virtual: []string{"tag_list"},
	}
}
