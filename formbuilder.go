// Package formbuilder is the quick entry point: render the form of an
// OpenAPI operation's request body in one call. The packages under pkg/
// expose every stage separately.
package formbuilder

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
)

var (
	// ErrUnknownOperation is returned when the document has no operation
	// with the requested id.
	ErrUnknownOperation = errors.New("formbuilder: unknown operation")
	// ErrNoRequestModel is returned when an operation's request body is not
	// a component schema reference.
	ErrNoRequestModel = errors.New("formbuilder: operation has no request model")
	// ErrNoSelection is returned when neither an operation id nor a source
	// selection names the form.
	ErrNoSelection = errors.New("formbuilder: no operation or model selected")
)

// Option configures GenerateHTML.
type Option func(*options)

type options struct {
	env       *builder.Environment
	loader    []pkgopenapi.LoaderOption
	parse     []openapi.ParseOption
	values    map[string]any
	errors    map[string][]string
	actions   []string
	form      []builder.FormOption
	builderOp []builder.Option
}

// WithEnvironment renders with env instead of a default environment.
func WithEnvironment(env *builder.Environment) Option {
	return func(o *options) { o.env = env }
}

// WithLoaderOptions configures how the source is fetched.
func WithLoaderOptions(opts ...pkgopenapi.LoaderOption) Option {
	return func(o *options) { o.loader = append(o.loader, opts...) }
}

// WithParseOptions configures schema conversion, e.g. association records.
func WithParseOptions(opts ...openapi.ParseOption) Option {
	return func(o *options) { o.parse = append(o.parse, opts...) }
}

// WithValues prefills the record. Values carrying an "id" render as an edit
// form.
func WithValues(values map[string]any) Option {
	return func(o *options) { o.values = values }
}

// WithErrors surfaces a server side validation payload inline.
func WithErrors(payload map[string][]string) Option {
	return func(o *options) { o.errors = payload }
}

// WithActions names the actions rendered after the inputs. Defaults to
// submit.
func WithActions(names ...string) Option {
	return func(o *options) { o.actions = names }
}

// WithFormOptions applies after the operation's URL and method.
func WithFormOptions(opts ...builder.FormOption) Option {
	return func(o *options) { o.form = append(o.form, opts...) }
}

// WithBuilderOptions configures the builder, e.g. a name prefix.
func WithBuilderOptions(opts ...builder.Option) Option {
	return func(o *options) { o.builderOp = append(o.builderOp, opts...) }
}

// GenerateHTML loads source and renders the form of operationID. An empty
// operationID falls back to the selection carried by source.
func GenerateHTML(ctx context.Context, source pkgopenapi.Source, operationID string, opts ...Option) ([]byte, error) {
	o := collect(opts)
	doc, err := NewLoader(o.loader...).Load(ctx, source)
	if err != nil {
		return nil, err
	}
	return GenerateHTMLFromDocument(ctx, doc, operationID, opts...)
}

// GenerateHTMLFromDocument renders the form of operationID from a loaded
// document. An empty operationID falls back to the document's selection: an
// operation, or a model rendered without URL or method.
func GenerateHTMLFromDocument(ctx context.Context, doc pkgopenapi.Document, operationID string, opts ...Option) ([]byte, error) {
	o := collect(opts)
	catalog, err := openapi.Parse(ctx, doc, o.parse...)
	if err != nil {
		return nil, err
	}
	sel := doc.Selection()
	if operationID != "" {
		sel = pkgopenapi.Selection{Operation: operationID}
	}
	m, target, err := Select(catalog, sel)
	if err != nil {
		return nil, err
	}

	env := o.env
	if env == nil {
		if env, err = builder.NewEnvironment(); err != nil {
			return nil, err
		}
	}
	object := m.Bind(o.values)
	if o.errors != nil {
		object.WithErrors(o.errors)
	}

	formOpts := append(target, o.form...)
	html, err := RenderForm(builder.New(env, object, o.builderOp...), o.actions, formOpts...)
	if err != nil {
		return nil, err
	}
	return []byte(html), nil
}

// Select resolves a selection against catalog. Operations supply the form's
// URL and method; a selected model renders with the builder defaults.
func Select(catalog *openapi.Catalog, sel pkgopenapi.Selection) (*openapi.Model, []builder.FormOption, error) {
	switch {
	case sel.Operation != "":
		op, ok := catalog.Operation(sel.Operation)
		if !ok {
			return nil, nil, fmt.Errorf("%w %q", ErrUnknownOperation, sel.Operation)
		}
		if op.Model == "" {
			return nil, nil, fmt.Errorf("%w: %s", ErrNoRequestModel, op.ID)
		}
		m, err := catalog.Model(op.Model)
		if err != nil {
			return nil, nil, err
		}
		return m, []builder.FormOption{builder.URL(op.Path), builder.Method(strings.ToLower(op.Method))}, nil
	case sel.Model != "":
		m, err := catalog.Model(sel.Model)
		return m, nil, err
	default:
		return nil, nil, ErrNoSelection
	}
}

// RenderForm renders the object's default inputs, its base errors and the
// named actions inside a form.
func RenderForm(b *builder.Builder, actions []string, opts ...builder.FormOption) (markup.HTML, error) {
	return b.Form(builder.Block(func(b *builder.Builder) (markup.HTML, error) {
		fields, err := b.Inputs(nil)
		if err != nil {
			return "", err
		}
		rendered, err := b.Actions(actions...)
		if err != nil {
			return "", err
		}
		return markup.Join(b.SemanticErrors(), fields, rendered), nil
	}), opts...)
}

func collect(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
