// Package inference picks the type tag of an input from what is known about
// its attribute: an explicit type, associations, file-likeness, the declared
// column and naming conventions.
//
// Resolution order, first match wins:
//
//  1. the explicit type
//  2. a belongs_to, has_many, has_and_belongs_to_many or enum association: select
//  3. a file-like current value: file
//  4. the declared column, mapped through the column table; string columns
//     consult the name patterns
//  5. a supplied collection: select
//  6. a name containing "password": password
//  7. string
//
// Name patterns are ordered by priority, then registration order. The
// built-in order resolves names matching several patterns, e.g. search_url
// is a url.
package inference

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/introspect"
	"github.com/goliatone/go-formbuilder/pkg/model"
)

// Built-in type tags.
const (
	TagString         = "string"
	TagPassword       = "password"
	TagEmail          = "email"
	TagURL            = "url"
	TagPhone          = "phone"
	TagSearch         = "search"
	TagColor          = "color"
	TagNumber         = "number"
	TagText           = "text"
	TagBoolean        = "boolean"
	TagSelect         = "select"
	TagRadio          = "radio"
	TagCheckBoxes     = "check_boxes"
	TagDateSelect     = "date_select"
	TagTimeSelect     = "time_select"
	TagDatetimeSelect = "datetime_select"
	TagDatePicker     = "date_picker"
	TagTimePicker     = "time_picker"
	TagDatetimePicker = "datetime_picker"
	TagFile           = "file"
	TagHidden         = "hidden"
	TagCountry        = "country"
	TagCurrency       = "currency"
	TagTimeZone       = "time_zone"
)

// Built-in pattern priorities. Host rules registered with a higher priority
// run before all of them.
const (
	PriorityPassword = 800 - iota*10
	PriorityCountry
	PriorityEmail
	PriorityURL
	PriorityPhone
	PrioritySearch
	PriorityColor
	PriorityTimeZone
)

// Matcher decides whether a name pattern applies to an attribute.
type Matcher func(attribute string) bool

type rule struct {
	name     string
	tag      string
	priority int
	match    Matcher
	order    int
}

// Describer supplies attribute metadata. *introspect.Introspector and
// *introspect.Memo both satisfy it.
type Describer interface {
	Describe(object any, attribute, as string) introspect.Description
}

// Resolver maps attributes to type tags. It is safe for concurrent use; the
// pattern table is expected to be populated during boot. The zero value is
// ready to use and carries the built-in column table and name patterns.
type Resolver struct {
	once    sync.Once
	mu      sync.RWMutex
	rules   []rule
	columns map[model.ColumnType]string
}

// NewResolver returns a resolver with the built-in column table and name
// patterns registered.
func NewResolver() *Resolver {
	r := &Resolver{}
	r.init()
	return r
}

func (r *Resolver) init() {
	r.once.Do(func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.columns = defaultColumns()
		for _, entry := range builtins() {
			entry.order = len(r.rules)
			r.rules = append(r.rules, entry)
		}
	})
}

// Register adds a name pattern resolving to tag for string-like columns.
// Higher priority values take precedence; ties fall back to registration
// order.
func (r *Resolver) Register(name string, priority int, tag string, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	name = strings.TrimSpace(name)
	tag = strings.TrimSpace(tag)
	if name == "" || tag == "" {
		return
	}
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rules = append(r.rules, rule{
		name:     name,
		tag:      tag,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// MapColumn overrides the tag of a column type.
func (r *Resolver) MapColumn(column model.ColumnType, tag string) {
	r.init()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.columns[column] = strings.TrimSpace(tag)
}

// Patterns returns the pattern names in evaluation order.
func (r *Resolver) Patterns() []string {
	rules := r.sorted()
	names := make([]string, len(rules))
	for i, entry := range rules {
		names[i] = entry.name
	}
	return names
}

// Resolve returns the type tag for attribute on object.
func (r *Resolver) Resolve(describer Describer, object any, attribute string, opts form.Options) string {
	if opts.As != "" {
		return opts.As
	}
	if describer == nil {
		describer = introspect.New()
	}
	return r.FromDescription(describer.Describe(object, attribute, opts.As), attribute, opts)
}

// FromDescription applies the resolution order to metadata already
// collected.
func (r *Resolver) FromDescription(desc introspect.Description, attribute string, opts form.Options) string {
	if opts.As != "" {
		return opts.As
	}
	if desc.Association != nil && selectsFrom(desc.Association.Kind) {
		return TagSelect
	}
	if desc.FileLike {
		return TagFile
	}
	if desc.Column != nil {
		return r.fromColumn(*desc.Column, attribute)
	}
	if opts.Collection != nil {
		return TagSelect
	}
	if strings.Contains(attribute, "password") {
		return TagPassword
	}
	return TagString
}

func (r *Resolver) fromColumn(column model.Column, attribute string) string {
	r.init()
	r.mu.RLock()
	tag, mapped := r.columns[column.Type]
	r.mu.RUnlock()
	if !mapped {
		return string(column.Type)
	}
	if tag != TagString {
		return tag
	}
	for _, entry := range r.sorted() {
		if entry.match(attribute) {
			return entry.tag
		}
	}
	return TagString
}

func (r *Resolver) sorted() []rule {
	r.init()
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	return rules
}

func selectsFrom(kind model.AssociationKind) bool {
	switch kind {
	case model.BelongsTo, model.HasMany, model.HasAndBelongsToMany, model.Enum:
		return true
	default:
		return false
	}
}

func defaultColumns() map[model.ColumnType]string {
	return map[model.ColumnType]string{
		model.ColumnString:    TagString,
		model.ColumnCitext:    TagString,
		model.ColumnInet:      TagString,
		model.ColumnInteger:   TagNumber,
		model.ColumnFloat:     TagNumber,
		model.ColumnDecimal:   TagNumber,
		model.ColumnDatetime:  TagDatetimeSelect,
		model.ColumnTimestamp: TagDatetimeSelect,
		model.ColumnDate:      TagDateSelect,
		model.ColumnTime:      TagTimeSelect,
		model.ColumnBoolean:   TagBoolean,
		model.ColumnText:      TagText,
		model.ColumnJSON:      TagText,
		model.ColumnJSONB:     TagText,
		model.ColumnHstore:    TagText,
	}
}

func builtins() []rule {
	return []rule{
		{name: "password", priority: PriorityPassword, tag: TagPassword, match: Contains("password")},
		{name: "country", priority: PriorityCountry, tag: TagCountry, match: Suffix("country")},
		{name: "email", priority: PriorityEmail, tag: TagEmail, match: Contains("email")},
		{name: "url", priority: PriorityURL, tag: TagURL, match: Segment("url", "website")},
		{name: "phone", priority: PriorityPhone, tag: TagPhone, match: Contains("phone", "fax")},
		{name: "search", priority: PrioritySearch, tag: TagSearch, match: Segment("search")},
		{name: "color", priority: PriorityColor, tag: TagColor, match: Contains("color")},
		{name: "time_zone", priority: PriorityTimeZone, tag: TagTimeZone, match: Contains("time_zone")},
	}
}

// Contains matches names containing any of the fragments.
func Contains(fragments ...string) Matcher {
	return func(attribute string) bool {
		for _, fragment := range fragments {
			if strings.Contains(attribute, fragment) {
				return true
			}
		}
		return false
	}
}

// Suffix matches names ending in any of the suffixes.
func Suffix(suffixes ...string) Matcher {
	return func(attribute string) bool {
		for _, suffix := range suffixes {
			if strings.HasSuffix(attribute, suffix) {
				return true
			}
		}
		return false
	}
}

// Segment matches names with an underscore-delimited word equal to one of
// words: "url", "home_url" and "url_slug" match "url", "curl" does not.
func Segment(words ...string) Matcher {
	return func(attribute string) bool {
		for _, segment := range strings.Split(attribute, "_") {
			for _, word := range words {
				if segment == word {
					return true
				}
			}
		}
		return false
	}
}
