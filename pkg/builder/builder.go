// Package builder is the entry point of the library: a Builder binds an
// object to a form context and renders inputs, fieldsets, nested forms,
// actions and the form element itself through a shared Environment.
//
// Every method either returns complete markup or an error; nothing is
// partially emitted.
package builder

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/cascade"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/inference"
	"github.com/goliatone/go-formbuilder/pkg/inputs"
	"github.com/goliatone/go-formbuilder/pkg/introspect"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/model"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
)

// ErrBlockArgumentRequired is returned when nested inputs are requested with
// a block that does not receive the nested builder.
var ErrBlockArgumentRequired = errors.New("builder: nested inputs require a block taking the nested builder")

// Columns skipped when Inputs lists an object's attributes.
var SkippedColumns = []string{"id", "created_at", "updated_at", "lock_version"}

// Builder renders markup for one bound object.
type Builder struct {
	env   *Environment
	ctx   *form.Context
	state *formState
}

// formState is shared by a builder and its nested builders for the duration
// of one form.
type formState struct {
	multipart bool
}

// Option configures New.
type Option func(*form.Context)

// WithName overrides the param prefix ("post" by default).
func WithName(name string) Option {
	return func(c *form.Context) {
		if name = strings.TrimSpace(name); name != "" {
			c.Name = name
		}
	}
}

// WithNamespace prefixes every DOM id, for pages with several forms for the
// same model.
func WithNamespace(namespace string) Option {
	return func(c *form.Context) { c.Namespace = strings.TrimSpace(namespace) }
}

// WithAction overrides the i18n action segment ("new" or "edit").
func WithAction(action string) Option {
	return func(c *form.Context) {
		if action = strings.TrimSpace(action); action != "" {
			c.Action = action
		}
	}
}

// WithDefaults applies opts beneath each input's own options.
func WithDefaults(opts ...form.Option) Option {
	return func(c *form.Context) { c.Defaults = append(c.Defaults, opts...) }
}

// New binds object to env. object may be nil for object-less forms, which
// then need WithName.
func New(env *Environment, object any, opts ...Option) *Builder {
	if env == nil {
		env, _ = NewEnvironment()
	}
	ctx := form.NewContext(object, "", introspect.NewMemo(env.introspector))
	for _, opt := range opts {
		if opt != nil {
			opt(ctx)
		}
	}
	return &Builder{env: env, ctx: ctx, state: &formState{}}
}

// Context returns the form context.
func (b *Builder) Context() *form.Context { return b.ctx }

// Object returns the bound object.
func (b *Builder) Object() any { return b.ctx.Object }

func (b *Builder) child(association string, object any, index *int) *Builder {
	return &Builder{
		env:   b.env,
		ctx:   b.ctx.Child(association, object, index, introspect.NewMemo(b.env.introspector)),
		state: b.state,
	}
}

// Input renders the wrapped input for attribute: the type is inferred
// unless form.As is given, the renderer resolved through the environment,
// and the options merged with configuration and translations.
func (b *Builder) Input(attribute string, opts ...form.Option) (markup.HTML, error) {
	attribute = strings.TrimSpace(attribute)
	options := form.Collect(b.ctx.Defaults...).Apply(opts...)
	object := b.ctx.Object

	desc := b.ctx.Memo().Describe(object, attribute, options.As)
	descriptor := form.Descriptor{
		Attribute:   attribute,
		Tag:         b.env.inference.FromDescription(desc, attribute, options),
		Column:      desc.Column,
		Association: desc.Association,
		FileLike:    desc.FileLike,
	}

	resolved, err := b.env.merger.Merge(cascade.Input{Context: b.ctx, Descriptor: descriptor, Options: options})
	if err != nil {
		return "", err
	}
	descriptor.Required = resolved.Required

	value, err := b.value(descriptor, options)
	if err != nil {
		return "", err
	}

	renderer, err := b.env.inputs.Find(descriptor.Tag)
	if err != nil {
		return "", err
	}
	field := inputs.Field{
		Context:    b.ctx,
		Descriptor: descriptor,
		Options:    options,
		Resolved:   resolved,
		Value:      value,
		Services:   b.env.services,
	}
	parts, err := renderer.Render(field)
	if err != nil {
		return "", err
	}
	out, err := b.compose(field, parts)
	if err != nil {
		return "", err
	}

	if descriptor.Tag == inference.TagFile {
		b.state.multipart = true
	}
	b.env.logger.V(2).Info("rendered input", "model", b.ctx.Model(), "attribute", attribute, "tag", descriptor.Tag)
	return out, nil
}

// value reads the submitted attribute. Associations submit their keys; when
// the object only exposes the association itself, the keys are read from its
// records. Errors from the object are returned unchanged.
func (b *Builder) value(descriptor form.Descriptor, options form.Options) (any, error) {
	if options.HasValue {
		return options.Value, nil
	}
	name := descriptor.InputAttribute()
	value, err := b.ctx.Value(name)
	if err == nil || name == descriptor.Attribute {
		return value, err
	}
	records, recordsErr := b.ctx.Value(descriptor.Attribute)
	if recordsErr != nil {
		return nil, err
	}
	return keysOf(records), nil
}

func keysOf(records any) any {
	if records == nil {
		return nil
	}
	rv := reflect.ValueOf(records)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		key, _ := form.Reader(records, "id")
		return key
	}
	keys := make([]any, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		if key, err := form.Reader(rv.Index(i).Interface(), "id"); err == nil && key != nil {
			keys = append(keys, key)
		}
	}
	return keys
}

func (b *Builder) compose(field inputs.Field, parts inputs.Parts) (markup.HTML, error) {
	if parts.Bare || b.env.wrapper == nil {
		return inputs.Compose(field, parts), nil
	}
	out, err := rendertemplate.RenderWrapper(b.env.wrapper, b.env.layout, rendertemplate.WrapperData{
		Tag:      field.Descriptor.Tag,
		ID:       field.ID(),
		Classes:  field.Resolved.WrapperClasses,
		Attrs:    field.Resolved.WrapperAttrs.String(),
		Label:    string(parts.Label),
		Control:  string(parts.Control),
		Hint:     string(parts.Hint),
		Errors:   string(parts.Errors),
		Required: field.Resolved.Required,
	})
	if err != nil {
		return "", fmt.Errorf("builder: wrapper template for %q: %w", field.Descriptor.Attribute, err)
	}
	return markup.HTML(out), nil
}

// Attributes lists the attributes Inputs renders when none are given:
// belongs-to associations, then the declared columns minus SkippedColumns
// and the associations' foreign keys.
func (b *Builder) Attributes() []string {
	var out []string
	foreignKeys := map[string]struct{}{}
	if lister, ok := b.ctx.Object.(model.AssociationLister); ok {
		for _, association := range lister.Associations() {
			if association.Kind != model.BelongsTo {
				continue
			}
			out = append(out, association.Name)
			key := association.ForeignKey
			if key == "" {
				key = association.Name + "_id"
			}
			foreignKeys[key] = struct{}{}
		}
	}
	if lister, ok := b.ctx.Object.(model.ColumnLister); ok {
		skipped := make(map[string]struct{}, len(SkippedColumns))
		for _, name := range SkippedColumns {
			skipped[name] = struct{}{}
		}
		for _, column := range lister.Columns() {
			if _, skip := skipped[column.Name]; skip {
				continue
			}
			if _, fk := foreignKeys[column.Name]; fk {
				continue
			}
			out = append(out, column.Name)
		}
	}
	return out
}
