package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
)

type previewOptions struct {
	source      string
	model       string
	operation   string
	output      string
	values      string
	errors      string
	actions     []string
	interactive bool
	validate    bool
	timeout     time.Duration
}

func newPreviewCommand(a *app) *cobra.Command {
	opts := &previewOptions{}
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render the form of a schema model",
		Long: "Render the form of a component schema, chosen directly with --model, " +
			"through the request body of --operation, or interactively.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.preview(cmd, opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.source, "source", "s", "", "OpenAPI document path or URL")
	flags.StringVarP(&opts.model, "model", "m", "", "component schema to render")
	flags.StringVar(&opts.operation, "operation", "", "operation whose request body is rendered")
	flags.StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	flags.StringVar(&opts.values, "values", "", "YAML or JSON file with the record values")
	flags.StringVar(&opts.errors, "errors", "", "YAML or JSON file with validation errors by attribute")
	flags.StringSliceVar(&opts.actions, "actions", nil, "actions to render (default submit)")
	flags.BoolVarP(&opts.interactive, "interactive", "i", false, "prompt for the model and values")
	flags.BoolVar(&opts.validate, "validate", true, "validate the document before rendering")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for remote documents")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) preview(cmd *cobra.Command, opts *previewOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	env, err := a.environment(cmd)
	if err != nil {
		return err
	}
	catalog, sel, err := loadCatalog(ctx, opts)
	if err != nil {
		return err
	}
	target, formOpts, err := a.pickModel(ctx, catalog, sel, opts)
	if err != nil {
		return err
	}

	values := map[string]any{}
	if opts.values != "" {
		if err := readYAML(opts.values, &values); err != nil {
			return fmt.Errorf("read values: %w", err)
		}
	}
	if opts.interactive {
		if values, err = a.promptValues(ctx, target, values); err != nil {
			return err
		}
	}

	object := target.Bind(values)
	if opts.errors != "" {
		payload := map[string][]string{}
		if err := readYAML(opts.errors, &payload); err != nil {
			return fmt.Errorf("read errors: %w", err)
		}
		object.WithErrors(payload)
	}

	html, err := formbuilder.RenderForm(builder.New(env, object), opts.actions, formOpts...)
	if err != nil {
		return err
	}
	env.Logger().V(1).Info("rendered form", "model", target.Name(), "bytes", len(html))

	if opts.output == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), html)
		return err
	}
	if err := os.WriteFile(opts.output, []byte(html+"\n"), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Form written to %s\n", opts.output)
	return nil
}

// loadCatalog parses the document behind --source and returns the selection
// its "#Model" or "#op=id" fragment carried.
func loadCatalog(ctx context.Context, opts *previewOptions) (*openapi.Catalog, pkgopenapi.Selection, error) {
	src, err := formbuilder.ResolveSource(opts.source)
	if err != nil {
		return nil, pkgopenapi.Selection{}, err
	}
	var loaderOpts []pkgopenapi.LoaderOption
	if src.Kind() == pkgopenapi.SourceKindURL {
		loaderOpts = append(loaderOpts, pkgopenapi.WithHTTPFallback(opts.timeout))
	}
	doc, err := openapi.NewLoader(loaderOpts...).Load(ctx, src)
	if err != nil {
		return nil, pkgopenapi.Selection{}, err
	}
	catalog, err := openapi.Parse(ctx, doc, openapi.WithValidation(opts.validate))
	return catalog, doc.Selection(), err
}

// pickModel resolves the model from --operation, --model, the source
// fragment or a prompt, in that order. An operation also supplies the form's
// URL and method.
func (a *app) pickModel(ctx context.Context, catalog *openapi.Catalog, sel pkgopenapi.Selection, opts *previewOptions) (*openapi.Model, []builder.FormOption, error) {
	switch {
	case opts.operation != "":
		sel = pkgopenapi.Selection{Operation: opts.operation}
	case opts.model != "":
		sel = pkgopenapi.Selection{Model: opts.model}
	}
	if !sel.Empty() {
		return formbuilder.Select(catalog, sel)
	}

	if !opts.interactive {
		return nil, nil, errors.New("one of --model, --operation, a #fragment on --source or --interactive is required")
	}
	models := catalog.Models()
	if len(models) == 0 {
		return nil, nil, errors.New("the document declares no component schemas")
	}
	idx, err := a.driver.Select(ctx, SelectConfig{Message: "Model", Options: models, PageSize: 15})
	if err != nil {
		return nil, nil, err
	}
	if idx < 0 {
		return nil, nil, ErrAborted
	}
	m, err := catalog.Model(models[idx])
	return m, nil, err
}

// promptValues asks for every column, offering the current value as the
// default. Blank answers leave the value unset.
func (a *app) promptValues(ctx context.Context, m *openapi.Model, values map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(values))
	for key, value := range values {
		out[key] = value
	}
	for _, column := range m.Columns() {
		current := ""
		if value, ok := out[column.Name]; ok && value != nil {
			current = fmt.Sprint(value)
		}
		answer, err := a.driver.Input(ctx, InputConfig{
			Message: column.Name,
			Default: current,
			Help:    "column type " + string(column.Type),
		})
		if err != nil {
			return nil, err
		}
		if answer = strings.TrimSpace(answer); answer != "" {
			out[column.Name] = answer
		}
	}
	return out, nil
}

func readYAML(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}
