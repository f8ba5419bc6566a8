// Package config holds the process-wide form builder settings.
//
// A Config is immutable. New builds one from the defaults plus options, and
// With derives a copy in which only the keys named by the options change, so
// a per-form configuration overrides its base one key at a time.
package config

import (
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/render"
)

// InlineErrors selects how attribute errors are rendered next to an input.
type InlineErrors string

const (
	InlineSentence InlineErrors = "sentence"
	InlineList     InlineErrors = "list"
	InlineFirst    InlineErrors = "first"
	InlineNone     InlineErrors = "none"
)

// Valid reports whether the mode is known.
func (m InlineErrors) Valid() bool {
	switch m {
	case InlineSentence, InlineList, InlineFirst, InlineNone:
		return true
	default:
		return false
	}
}

// HintFormat selects how hint text is interpreted.
type HintFormat string

const (
	HintText     HintFormat = "text"
	HintMarkdown HintFormat = "markdown"
)

// Marker produces the required/optional marker appended to labels.
type Marker func() string

// Static returns a Marker that always yields s.
func Static(s string) Marker {
	return func() string { return s }
}

// Inline element names accepted by WithInlineOrder.
const (
	PartInput  = "input"
	PartHint   = "hint"
	PartErrors = "errors"
)

// Config is an immutable settings bundle. Use the accessors; the zero value
// is not usable, build one with New.
type Config struct {
	requiredString            Marker
	optionalString            Marker
	defaultTextFieldSize      int
	defaultTextAreaRows       int
	defaultTextAreaCols       int
	allFieldsRequired         bool
	includeBlank              bool
	inlineErrors              InlineErrors
	inlineOrder               []string
	i18nLookups               bool
	i18nCache                 bool
	i18nRoot                  string
	locale                    string
	escapeLabelsAndHints      bool
	hintFormat                HintFormat
	fileMarkers               []string
	priorityCountries         []string
	priorityTimeZones         []string
	useRequiredAttribute      bool
	performBrowserValidations bool
	dateOrder                 []string
	timeOrder                 []string
	cachePolicy               render.CachePolicy
	defaultStringLength       int
}

// Option changes one configuration key.
type Option func(*Config)

// New returns the defaults with opts applied.
func New(opts ...Option) *Config {
	cfg := &Config{
		requiredString:       Static(`<abbr title="required">*</abbr>`),
		optionalString:       Static(""),
		defaultTextAreaRows:  20,
		allFieldsRequired:    true,
		includeBlank:         true,
		inlineErrors:         InlineSentence,
		inlineOrder:          []string{PartInput, PartHint, PartErrors},
		i18nLookups:          true,
		i18nCache:            true,
		i18nRoot:             "formbuilder",
		locale:               "en",
		escapeLabelsAndHints: true,
		hintFormat:           HintText,
		fileMarkers:          []string{"Filename", "OriginalFilename", "ContentType"},
		dateOrder:            []string{"year", "month", "day"},
		timeOrder:            []string{"hour", "minute"},
		cachePolicy:          render.CacheForever,
		defaultStringLength:  255,
	}
	return cfg.apply(opts)
}

// With returns a copy of c in which only the keys named by opts differ.
func (c *Config) With(opts ...Option) *Config {
	if c == nil {
		return New(opts...)
	}
	clone := *c
	clone.inlineOrder = cloneStrings(c.inlineOrder)
	clone.fileMarkers = cloneStrings(c.fileMarkers)
	clone.priorityCountries = cloneStrings(c.priorityCountries)
	clone.priorityTimeZones = cloneStrings(c.priorityTimeZones)
	clone.dateOrder = cloneStrings(c.dateOrder)
	clone.timeOrder = cloneStrings(c.timeOrder)
	return clone.apply(opts)
}

func (c *Config) apply(opts []Option) *Config {
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func WithRequiredString(marker Marker) Option {
	return func(c *Config) {
		if marker != nil {
			c.requiredString = marker
		}
	}
}

func WithOptionalString(marker Marker) Option {
	return func(c *Config) {
		if marker != nil {
			c.optionalString = marker
		}
	}
}

// WithDefaultTextFieldSize sets the size attribute of text-like inputs. Zero
// omits it.
func WithDefaultTextFieldSize(size int) Option {
	return func(c *Config) { c.defaultTextFieldSize = max(size, 0) }
}

func WithDefaultTextAreaRows(rows int) Option {
	return func(c *Config) { c.defaultTextAreaRows = max(rows, 0) }
}

func WithDefaultTextAreaCols(cols int) Option {
	return func(c *Config) { c.defaultTextAreaCols = max(cols, 0) }
}

// WithDefaultStringLength sets the maxlength used for string columns without
// a declared limit or length rule.
func WithDefaultStringLength(length int) Option {
	return func(c *Config) { c.defaultStringLength = max(length, 0) }
}

func WithAllFieldsRequiredByDefault(required bool) Option {
	return func(c *Config) { c.allFieldsRequired = required }
}

func WithIncludeBlankForSelectByDefault(include bool) Option {
	return func(c *Config) { c.includeBlank = include }
}

// WithInlineErrors sets the inline error mode. Unknown modes are ignored.
func WithInlineErrors(mode InlineErrors) Option {
	return func(c *Config) {
		if mode.Valid() {
			c.inlineErrors = mode
		}
	}
}

// WithInlineOrder sets the order of input, hint and errors inside the
// wrapper. Unknown parts are dropped.
func WithInlineOrder(parts ...string) Option {
	return func(c *Config) {
		order := make([]string, 0, len(parts))
		for _, part := range parts {
			switch part = strings.TrimSpace(part); part {
			case PartInput, PartHint, PartErrors:
				order = append(order, part)
			}
		}
		if len(order) > 0 {
			c.inlineOrder = dedupe(order)
		}
	}
}

func WithI18nLookupsByDefault(enabled bool) Option {
	return func(c *Config) { c.i18nLookups = enabled }
}

func WithI18nCacheLookups(enabled bool) Option {
	return func(c *Config) { c.i18nCache = enabled }
}

func WithI18nRoot(root string) Option {
	return func(c *Config) {
		if trimmed := strings.Trim(strings.TrimSpace(root), "."); trimmed != "" {
			c.i18nRoot = trimmed
		}
	}
}

func WithLocale(locale string) Option {
	return func(c *Config) {
		if trimmed := strings.TrimSpace(locale); trimmed != "" {
			c.locale = trimmed
		}
	}
}

func WithEscapeLabelsAndHints(escape bool) Option {
	return func(c *Config) { c.escapeLabelsAndHints = escape }
}

func WithHintFormat(format HintFormat) Option {
	return func(c *Config) {
		switch format {
		case HintText, HintMarkdown:
			c.hintFormat = format
		}
	}
}

// WithFileMarkers replaces the member names used to detect file values.
func WithFileMarkers(markers ...string) Option {
	return func(c *Config) {
		if clean := compact(markers); len(clean) > 0 {
			c.fileMarkers = clean
		}
	}
}

func WithPriorityCountries(codes ...string) Option {
	return func(c *Config) { c.priorityCountries = compact(codes) }
}

func WithPriorityTimeZones(zones ...string) Option {
	return func(c *Config) { c.priorityTimeZones = compact(zones) }
}

func WithUseRequiredAttribute(enabled bool) Option {
	return func(c *Config) { c.useRequiredAttribute = enabled }
}

func WithPerformBrowserValidations(enabled bool) Option {
	return func(c *Config) { c.performBrowserValidations = enabled }
}

// WithDateOrder sets the fragment order of date selects.
func WithDateOrder(parts ...string) Option {
	return func(c *Config) {
		if clean := compact(parts); len(clean) > 0 {
			c.dateOrder = clean
		}
	}
}

// WithTimeOrder sets the fragment order of time selects.
func WithTimeOrder(parts ...string) Option {
	return func(c *Config) {
		if clean := compact(parts); len(clean) > 0 {
			c.timeOrder = clean
		}
	}
}

// WithCachePolicy sets the renderer resolution cache policy.
func WithCachePolicy(policy render.CachePolicy) Option {
	return func(c *Config) { c.cachePolicy = policy }
}

func (c *Config) RequiredString() string           { return c.requiredString() }
func (c *Config) OptionalString() string           { return c.optionalString() }
func (c *Config) DefaultTextFieldSize() int        { return c.defaultTextFieldSize }
func (c *Config) DefaultTextAreaRows() int         { return c.defaultTextAreaRows }
func (c *Config) DefaultTextAreaCols() int         { return c.defaultTextAreaCols }
func (c *Config) DefaultStringLength() int         { return c.defaultStringLength }
func (c *Config) AllFieldsRequiredByDefault() bool { return c.allFieldsRequired }
func (c *Config) IncludeBlankByDefault() bool      { return c.includeBlank }
func (c *Config) InlineErrors() InlineErrors       { return c.inlineErrors }
func (c *Config) InlineOrder() []string            { return cloneStrings(c.inlineOrder) }
func (c *Config) I18nLookupsByDefault() bool       { return c.i18nLookups }
func (c *Config) I18nCacheLookups() bool           { return c.i18nCache }
func (c *Config) I18nRoot() string                 { return c.i18nRoot }
func (c *Config) Locale() string                   { return c.locale }
func (c *Config) EscapeLabelsAndHints() bool       { return c.escapeLabelsAndHints }
func (c *Config) HintFormat() HintFormat           { return c.hintFormat }
func (c *Config) FileMarkers() []string            { return cloneStrings(c.fileMarkers) }
func (c *Config) PriorityCountries() []string      { return cloneStrings(c.priorityCountries) }
func (c *Config) PriorityTimeZones() []string      { return cloneStrings(c.priorityTimeZones) }
func (c *Config) UseRequiredAttribute() bool       { return c.useRequiredAttribute }
func (c *Config) PerformBrowserValidations() bool  { return c.performBrowserValidations }
func (c *Config) DateOrder() []string              { return cloneStrings(c.dateOrder) }
func (c *Config) TimeOrder() []string              { return cloneStrings(c.timeOrder) }
func (c *Config) CachePolicy() render.CachePolicy  { return c.cachePolicy }

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func compact(values []string) []string {
	out := make([]string, 0, len(values))
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return dedupe(out)
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, value := range values {
		if _, ok := seen[value]; ok {
			continue
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	return out
}
