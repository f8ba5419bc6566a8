// Package openapi turns OpenAPI component schemas into bound objects the form
// builder can introspect: properties become columns, constraints become
// validation rules, enums and x-relationships become associations.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formbuilder/internal/loader"
	"github.com/goliatone/go-formbuilder/pkg/model"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
)

// ErrUnknownModel is returned when a component schema does not exist.
var ErrUnknownModel = errors.New("openapi: unknown model")

// NewLoader returns the default document loader.
func NewLoader(opts ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	return loader.New(pkgopenapi.NewLoaderOptions(opts...))
}

// ParseOption configures Parse.
type ParseOption func(*parseOptions)

type parseOptions struct {
	validate bool
	external bool
	records  map[string]model.CollectionSource
}

// WithValidation validates the document before conversion.
func WithValidation(enabled bool) ParseOption {
	return func(o *parseOptions) { o.validate = enabled }
}

// WithExternalRefs allows $refs to other documents.
func WithExternalRefs(enabled bool) ParseOption {
	return func(o *parseOptions) { o.external = enabled }
}

// WithRecords supplies the candidate records of associations targeting
// target (a component name), e.g. a query against the host's store.
func WithRecords(target string, source model.CollectionSource) ParseOption {
	return func(o *parseOptions) {
		if o.records == nil {
			o.records = make(map[string]model.CollectionSource)
		}
		o.records[strings.TrimSpace(target)] = source
	}
}

// Operation is the subset of an OpenAPI operation a form needs.
type Operation struct {
	ID      string
	Method  string
	Path    string
	Summary string
	// Model is the component schema of the request body, if it is a $ref.
	Model string
}

// Catalog holds the models of one document.
type Catalog struct {
	models     map[string]*Model
	operations map[string]Operation
}

// Parse loads doc with kin-openapi and converts its component schemas.
func Parse(ctx context.Context, doc pkgopenapi.Document, opts ...ParseOption) (*Catalog, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	options := parseOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	spec, err := loadSpec(ctx, doc, options.external)
	if err != nil {
		return nil, err
	}
	if options.validate {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi: validate: %w", err)
		}
	}

	catalog := &Catalog{
		models:     make(map[string]*Model),
		operations: make(map[string]Operation),
	}
	if spec.Components != nil {
		for name, ref := range spec.Components.Schemas {
			if ref == nil || ref.Value == nil {
				continue
			}
			catalog.models[name] = convertModel(catalog, name, ref.Value, options.records)
		}
	}
	if spec.Paths != nil {
		for path, item := range spec.Paths.Map() {
			if item == nil {
				continue
			}
			for method, operation := range item.Operations() {
				catalog.addOperation(method, path, operation)
			}
		}
	}
	return catalog, nil
}

func loadSpec(ctx context.Context, doc pkgopenapi.Document, external bool) (*openapi3.T, error) {
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}
	kin := &openapi3.Loader{Context: ctx, IsExternalRefsAllowed: external}
	spec, err := kin.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	return spec, nil
}

func (c *Catalog) addOperation(method, path string, operation *openapi3.Operation) {
	if operation == nil {
		return
	}
	id := operation.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}
	c.operations[id] = Operation{
		ID:      id,
		Method:  strings.ToUpper(method),
		Path:    path,
		Summary: operation.Summary,
		Model:   requestModel(operation.RequestBody),
	}
}

func requestModel(body *openapi3.RequestBodyRef) string {
	if body == nil || body.Value == nil {
		return ""
	}
	for _, mediaType := range []string{"application/json", "application/x-www-form-urlencoded", "multipart/form-data"} {
		if mt, ok := body.Value.Content[mediaType]; ok && mt.Schema != nil {
			return refName(mt.Schema.Ref)
		}
	}
	return ""
}

func refName(ref string) string {
	if ref == "" {
		return ""
	}
	return ref[strings.LastIndex(ref, "/")+1:]
}

// Model returns the model of a component schema.
func (c *Catalog) Model(name string) (*Model, error) {
	m, ok := c.models[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownModel, name)
	}
	return m, nil
}

// Models returns the component names, sorted.
func (c *Catalog) Models() []string {
	names := make([]string, 0, len(c.models))
	for name := range c.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Operation returns an operation by id.
func (c *Catalog) Operation(id string) (Operation, bool) {
	op, ok := c.operations[id]
	return op, ok
}

// Operations returns every operation sorted by id.
func (c *Catalog) Operations() []Operation {
	out := make([]Operation, 0, len(c.operations))
	for _, op := range c.operations {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
