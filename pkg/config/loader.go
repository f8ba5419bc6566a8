package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// DefaultEnvPrefix prefixes environment overrides. Double underscores nest:
// FORMBUILDER__INLINE_ERRORS -> inline_errors.
const DefaultEnvPrefix = "FORMBUILDER"

// File is the serialized form of a Config.
type File struct {
	RequiredString            string   `koanf:"required_string"`
	OptionalString            string   `koanf:"optional_string"`
	DefaultTextFieldSize      int      `koanf:"default_text_field_size" validate:"gte=0"`
	DefaultTextAreaRows       int      `koanf:"default_text_area_rows" validate:"gte=0"`
	DefaultTextAreaCols       int      `koanf:"default_text_area_cols" validate:"gte=0"`
	DefaultStringLength       int      `koanf:"default_string_length" validate:"gte=0"`
	AllFieldsRequired         bool     `koanf:"all_fields_required_by_default"`
	IncludeBlank              bool     `koanf:"include_blank_for_select_by_default"`
	InlineErrors              string   `koanf:"inline_errors" validate:"oneof=sentence list first none"`
	InlineOrder               []string `koanf:"inline_order" validate:"dive,oneof=input hint errors"`
	I18nLookups               bool     `koanf:"i18n_lookups_by_default"`
	I18nCache                 bool     `koanf:"i18n_cache_lookups"`
	I18nRoot                  string   `koanf:"i18n_root" validate:"required"`
	Locale                    string   `koanf:"locale" validate:"required"`
	EscapeLabelsAndHints      bool     `koanf:"escape_html_entities_in_hints_and_labels"`
	HintFormat                string   `koanf:"hint_format" validate:"oneof=text markdown"`
	FileMarkers               []string `koanf:"file_markers"`
	PriorityCountries         []string `koanf:"priority_countries"`
	PriorityTimeZones         []string `koanf:"priority_time_zones"`
	UseRequiredAttribute      bool     `koanf:"use_required_attribute"`
	PerformBrowserValidations bool     `koanf:"perform_browser_validations"`
	DateOrder                 []string `koanf:"date_order" validate:"dive,oneof=year month day"`
	TimeOrder                 []string `koanf:"time_order" validate:"dive,oneof=hour minute second"`
	CachePolicy               string   `koanf:"cache_policy" validate:"oneof=never forever until-reset"`
}

// Snapshot serializes c. Markers are evaluated once.
func Snapshot(c *Config) File {
	if c == nil {
		c = New()
	}
	return File{
		RequiredString:            c.RequiredString(),
		OptionalString:            c.OptionalString(),
		DefaultTextFieldSize:      c.DefaultTextFieldSize(),
		DefaultTextAreaRows:       c.DefaultTextAreaRows(),
		DefaultTextAreaCols:       c.DefaultTextAreaCols(),
		DefaultStringLength:       c.DefaultStringLength(),
		AllFieldsRequired:         c.AllFieldsRequiredByDefault(),
		IncludeBlank:              c.IncludeBlankByDefault(),
		InlineErrors:              string(c.InlineErrors()),
		InlineOrder:               c.InlineOrder(),
		I18nLookups:               c.I18nLookupsByDefault(),
		I18nCache:                 c.I18nCacheLookups(),
		I18nRoot:                  c.I18nRoot(),
		Locale:                    c.Locale(),
		EscapeLabelsAndHints:      c.EscapeLabelsAndHints(),
		HintFormat:                string(c.HintFormat()),
		FileMarkers:               c.FileMarkers(),
		PriorityCountries:         c.PriorityCountries(),
		PriorityTimeZones:         c.PriorityTimeZones(),
		UseRequiredAttribute:      c.UseRequiredAttribute(),
		PerformBrowserValidations: c.PerformBrowserValidations(),
		DateOrder:                 c.DateOrder(),
		TimeOrder:                 c.TimeOrder(),
		CachePolicy:               c.CachePolicy().String(),
	}
}

// Loader layers configuration sources on top of a base Config.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
}

// NewLoader creates a loader reading environment variables under envPrefix
// (without the trailing delimiter). An empty prefix uses DefaultEnvPrefix.
func NewLoader(envPrefix string) *Loader {
	envPrefix = strings.TrimSpace(envPrefix)
	if envPrefix == "" {
		envPrefix = DefaultEnvPrefix
	}
	return &Loader{
		k:         koanf.New("."),
		envPrefix: envPrefix + "__",
	}
}

// Load applies, lowest priority first: base, the YAML file at path (when
// path is not empty) and environment variables. Keys absent from every
// source keep base's value, including callable markers.
func (l *Loader) Load(base *Config, path string) (*Config, error) {
	if base == nil {
		base = New()
	}
	if err := l.k.Load(structs.Provider(Snapshot(base), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("config: load defaults: %w", err)
	}
	defaults := l.k.Raw()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file not found: %s", path)
		}
		if err := l.k.Load(file.Provider(path), koanfyaml.Parser()); err != nil {
			return nil, fmt.Errorf("config: load file: %w", err)
		}
	}

	envProvider := env.Provider(l.envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, l.envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	})
	if err := l.k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("config: load environment: %w", err)
	}

	return l.build(base, defaults)
}

// LoadFlags applies explicitly set CLI flags using mappings from flag name
// to config key. Call Build afterwards to obtain the Config.
func (l *Loader) LoadFlags(flags *pflag.FlagSet, mappings map[string]string) error {
	var errs []error
	flags.Visit(func(f *pflag.Flag) {
		if key, ok := mappings[f.Name]; ok {
			if err := l.k.Set(key, f.Value.String()); err != nil {
				errs = append(errs, fmt.Errorf("flag %s: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

// Build re-derives the Config from everything loaded so far.
func (l *Loader) Build(base *Config) (*Config, error) {
	if base == nil {
		base = New()
	}
	return l.build(base, nil)
}

func (l *Loader) build(base *Config, defaults map[string]any) (*Config, error) {
	var out File
	if err := l.k.Unmarshal("", &out); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := Validate(out); err != nil {
		return nil, err
	}
	return base.With(l.options(out, defaults)...), nil
}

// Validate checks a serialized configuration.
func Validate(f File) error {
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			msgs := make([]string, 0, len(fieldErrs))
			for _, fe := range fieldErrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("config: invalid configuration: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("config: validate: %w", err)
	}
	return nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// options maps keys to options. Markers are only replaced when their value
// differs from the snapshot so callable markers on base survive.
func (l *Loader) options(f File, defaults map[string]any) []Option {
	policy, _ := render.ParseCachePolicy(f.CachePolicy)
	opts := []Option{
		WithDefaultTextFieldSize(f.DefaultTextFieldSize),
		WithDefaultTextAreaRows(f.DefaultTextAreaRows),
		WithDefaultTextAreaCols(f.DefaultTextAreaCols),
		WithDefaultStringLength(f.DefaultStringLength),
		WithAllFieldsRequiredByDefault(f.AllFieldsRequired),
		WithIncludeBlankForSelectByDefault(f.IncludeBlank),
		WithInlineErrors(InlineErrors(f.InlineErrors)),
		WithI18nLookupsByDefault(f.I18nLookups),
		WithI18nCacheLookups(f.I18nCache),
		WithI18nRoot(f.I18nRoot),
		WithLocale(f.Locale),
		WithEscapeLabelsAndHints(f.EscapeLabelsAndHints),
		WithHintFormat(HintFormat(f.HintFormat)),
		WithUseRequiredAttribute(f.UseRequiredAttribute),
		WithPerformBrowserValidations(f.PerformBrowserValidations),
		WithCachePolicy(policy),
	}
	if len(f.InlineOrder) > 0 {
		opts = append(opts, WithInlineOrder(f.InlineOrder...))
	}
	if len(f.FileMarkers) > 0 {
		opts = append(opts, WithFileMarkers(f.FileMarkers...))
	}
	if len(f.DateOrder) > 0 {
		opts = append(opts, WithDateOrder(f.DateOrder...))
	}
	if len(f.TimeOrder) > 0 {
		opts = append(opts, WithTimeOrder(f.TimeOrder...))
	}
	opts = append(opts, WithPriorityCountries(f.PriorityCountries...), WithPriorityTimeZones(f.PriorityTimeZones...))

	if changed(defaults, "required_string", f.RequiredString) {
		opts = append(opts, WithRequiredString(Static(f.RequiredString)))
	}
	if changed(defaults, "optional_string", f.OptionalString) {
		opts = append(opts, WithOptionalString(Static(f.OptionalString)))
	}
	return opts
}

func changed(defaults map[string]any, key, value string) bool {
	if defaults == nil {
		return true
	}
	previous, ok := defaults[key]
	if !ok {
		return true
	}
	return fmt.Sprint(previous) != value
}
