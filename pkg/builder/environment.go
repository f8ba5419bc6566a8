package builder

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-logr/logr"

	"github.com/goliatone/go-formbuilder/pkg/actions"
	"github.com/goliatone/go-formbuilder/pkg/cascade"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/inference"
	"github.com/goliatone/go-formbuilder/pkg/inputs"
	"github.com/goliatone/go-formbuilder/pkg/introspect"
	"github.com/goliatone/go-formbuilder/pkg/localize"
	"github.com/goliatone/go-formbuilder/pkg/render"
	rendertemplate "github.com/goliatone/go-formbuilder/pkg/render/template"
	"github.com/goliatone/go-formbuilder/pkg/validation"
)

// Environment holds the process-wide collaborators every builder shares:
// configuration, renderer resolvers, localizer and plugins. Build it once at
// boot; it is read-only afterwards and safe for concurrent use.
type Environment struct {
	cfg          *config.Config
	inputs       *render.Resolver[inputs.Renderer]
	actions      *render.Resolver[actions.Renderer]
	localizer    *localize.Localizer
	reflector    *validation.Reflector
	inference    *inference.Resolver
	introspector *introspect.Introspector
	merger       *cascade.Merger
	services     *inputs.Services
	logger       logr.Logger
	now          func() time.Time

	wrapper rendertemplate.TemplateRenderer
	layout  string
}

// EnvironmentOption configures NewEnvironment.
type EnvironmentOption func(*environmentOptions)

type environmentOptions struct {
	cfg        *config.Config
	translator localize.Translator
	localizer  *localize.Localizer
	reflector  *validation.Reflector
	inference  *inference.Resolver
	plugins    inputs.Plugins
	logger     logr.Logger
	now        func() time.Time

	inputOverride  render.Namespace[inputs.Renderer]
	inputBuilder   render.Namespace[inputs.Renderer]
	actionOverride render.Namespace[actions.Renderer]
	actionBuilder  render.Namespace[actions.Renderer]

	wrapper rendertemplate.TemplateRenderer
	layout  string
}

// WithConfig sets the configuration. Defaults to config.New().
func WithConfig(cfg *config.Config) EnvironmentOption {
	return func(o *environmentOptions) { o.cfg = cfg }
}

// WithTranslator sets the translation source the localizer reads. The
// localizer is built from the configuration's root and cache settings.
func WithTranslator(translator localize.Translator) EnvironmentOption {
	return func(o *environmentOptions) { o.translator = translator }
}

// WithLocalizer supplies a fully built localizer, overriding WithTranslator.
func WithLocalizer(localizer *localize.Localizer) EnvironmentOption {
	return func(o *environmentOptions) { o.localizer = localizer }
}

// WithReflector sets the validation reflector, e.g. one with a custom
// condition evaluator.
func WithReflector(reflector *validation.Reflector) EnvironmentOption {
	return func(o *environmentOptions) { o.reflector = reflector }
}

// WithInference sets the type resolver, e.g. one with extra name patterns.
func WithInference(resolver *inference.Resolver) EnvironmentOption {
	return func(o *environmentOptions) { o.inference = resolver }
}

// WithPlugins sets the helpers used by country, currency and time zone
// inputs.
func WithPlugins(plugins inputs.Plugins) EnvironmentOption {
	return func(o *environmentOptions) { o.plugins = plugins }
}

// WithLogger sets the logger. Defaults to logr.Discard().
func WithLogger(logger logr.Logger) EnvironmentOption {
	return func(o *environmentOptions) { o.logger = logger }
}

// WithClock sets the time source used for empty date selects.
func WithClock(now func() time.Time) EnvironmentOption {
	return func(o *environmentOptions) { o.now = now }
}

// WithInputOverrides sets the first namespace searched for input renderers.
func WithInputOverrides(ns render.Namespace[inputs.Renderer]) EnvironmentOption {
	return func(o *environmentOptions) { o.inputOverride = ns }
}

// WithInputNamespace sets the builder-level namespace searched between the
// overrides and the built-in renderers.
func WithInputNamespace(ns render.Namespace[inputs.Renderer]) EnvironmentOption {
	return func(o *environmentOptions) { o.inputBuilder = ns }
}

// WithActionOverrides sets the first namespace searched for action renderers.
func WithActionOverrides(ns render.Namespace[actions.Renderer]) EnvironmentOption {
	return func(o *environmentOptions) { o.actionOverride = ns }
}

// WithActionNamespace sets the builder-level action namespace.
func WithActionNamespace(ns render.Namespace[actions.Renderer]) EnvironmentOption {
	return func(o *environmentOptions) { o.actionBuilder = ns }
}

// WithWrapperTemplate renders every wrapped input through layout instead of
// the built-in div wrapper. layout is a template name or inline template;
// fragments arrive pre-escaped and must be emitted with |safe.
func WithWrapperTemplate(renderer rendertemplate.TemplateRenderer, layout string) EnvironmentOption {
	return func(o *environmentOptions) {
		o.wrapper = renderer
		o.layout = layout
	}
}

// NewEnvironment builds an Environment. Resolvers search the override
// namespace, the builder namespace, then the built-in renderers.
func NewEnvironment(opts ...EnvironmentOption) (*Environment, error) {
	options := environmentOptions{logger: logr.Discard()}
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	cfg := options.cfg
	if cfg == nil {
		cfg = config.New()
	}
	if options.wrapper != nil {
		if strings.TrimSpace(options.layout) == "" {
			return nil, errors.New("builder: wrapper template requires a layout")
		}
		if compiler, ok := options.wrapper.(rendertemplate.Compiler); ok {
			if err := compiler.Compile(options.layout); err != nil {
				return nil, fmt.Errorf("builder: wrapper template: %w", err)
			}
		}
	}

	localizer := options.localizer
	if localizer == nil {
		localizer = localize.New(options.translator,
			localize.WithRoot(cfg.I18nRoot()),
			localize.WithCache(cfg.I18nCacheLookups()),
			localize.WithLogger(options.logger),
		)
	}
	reflector := options.reflector
	if reflector == nil {
		reflector = validation.NewReflector()
	}
	resolver := options.inference
	if resolver == nil {
		resolver = inference.NewResolver()
	}
	now := options.now
	if now == nil {
		now = time.Now
	}

	var inputNamespaces []render.Namespace[inputs.Renderer]
	for _, ns := range []render.Namespace[inputs.Renderer]{options.inputOverride, options.inputBuilder} {
		if ns != nil {
			inputNamespaces = append(inputNamespaces, ns)
		}
	}
	inputNamespaces = append(inputNamespaces, inputs.Defaults())

	var actionNamespaces []render.Namespace[actions.Renderer]
	for _, ns := range []render.Namespace[actions.Renderer]{options.actionOverride, options.actionBuilder} {
		if ns != nil {
			actionNamespaces = append(actionNamespaces, ns)
		}
	}
	actionNamespaces = append(actionNamespaces, actions.Defaults())

	env := &Environment{
		cfg: cfg,
		inputs: render.NewResolver[inputs.Renderer](render.KindInput,
			render.WithNamespaces(inputNamespaces...),
			render.WithCachePolicy[inputs.Renderer](cfg.CachePolicy()),
			render.WithLogger[inputs.Renderer](options.logger),
		),
		actions: render.NewResolver[actions.Renderer](render.KindAction,
			render.WithNamespaces(actionNamespaces...),
			render.WithCachePolicy[actions.Renderer](cfg.CachePolicy()),
			render.WithLogger[actions.Renderer](options.logger),
		),
		localizer:    localizer,
		reflector:    reflector,
		inference:    resolver,
		introspector: introspect.New(cfg.FileMarkers()...),
		merger:       cascade.New(cfg, localizer, reflector),
		logger:       options.logger,
		now:          now,
		wrapper:      options.wrapper,
		layout:       options.layout,
	}
	env.services = &inputs.Services{
		Config:    cfg,
		Localizer: localizer,
		Reflector: reflector,
		Plugins:   options.plugins,
		Now:       now,
	}
	return env, nil
}

// Config returns the configuration.
func (e *Environment) Config() *config.Config { return e.cfg }

// Localizer returns the shared localizer. Call Clear on it after changing
// translations.
func (e *Environment) Localizer() *localize.Localizer { return e.localizer }

// Inputs returns the input renderer resolver.
func (e *Environment) Inputs() *render.Resolver[inputs.Renderer] { return e.inputs }

// Actions returns the action renderer resolver.
func (e *Environment) Actions() *render.Resolver[actions.Renderer] { return e.actions }

// Inference returns the type resolver.
func (e *Environment) Inference() *inference.Resolver { return e.inference }

// Logger returns the environment logger.
func (e *Environment) Logger() logr.Logger { return e.logger }
