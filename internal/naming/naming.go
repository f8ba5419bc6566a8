// Package naming converts attribute and type names between the forms the
// builder needs: humanized labels, snake_case param keys and singular
// association names.
package naming

import (
	"regexp"
	"strings"

	"github.com/jinzhu/inflection"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	splitWordsPattern = regexp.MustCompile(`[_\-\s]+`)
	sentenceCaser     = cases.Title(language.Und, cases.NoLower)
)

// Humanize converts an attribute name into a sentence-cased label. A trailing
// "_id" is dropped so foreign keys read like their association.
func Humanize(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	name = strings.TrimSuffix(name, "_ids")
	name = strings.TrimSuffix(name, "_id")

	words := splitWordsPattern.Split(splitCamel(name), -1)
	segments := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		segments = append(segments, strings.ToLower(word))
	}
	if len(segments) == 0 {
		return ""
	}
	segments[0] = sentenceCaser.String(segments[0])
	return strings.Join(segments, " ")
}

// Underscore converts CamelCase identifiers into snake_case.
func Underscore(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	spaced := splitCamel(name)
	words := splitWordsPattern.Split(spaced, -1)
	out := make([]string, 0, len(words))
	for _, word := range words {
		if word == "" {
			continue
		}
		out = append(out, strings.ToLower(word))
	}
	return strings.Join(out, "_")
}

// Camelize converts snake_case into exported CamelCase ("author_id" becomes
// "AuthorId"). Callers that need Go initialisms should also try Initialism.
func Camelize(name string) string {
	var out strings.Builder
	for _, word := range splitWordsPattern.Split(strings.TrimSpace(name), -1) {
		if word == "" {
			continue
		}
		out.WriteString(strings.ToUpper(word[:1]))
		out.WriteString(word[1:])
	}
	return out.String()
}

var initialisms = map[string]string{
	"id":   "ID",
	"ids":  "IDs",
	"url":  "URL",
	"uri":  "URI",
	"html": "HTML",
	"api":  "API",
	"ip":   "IP",
	"uuid": "UUID",
}

// Initialism is Camelize with Go initialisms applied ("author_id" becomes
// "AuthorID").
func Initialism(name string) string {
	var out strings.Builder
	for _, word := range splitWordsPattern.Split(strings.TrimSpace(name), -1) {
		if word == "" {
			continue
		}
		if upper, ok := initialisms[strings.ToLower(word)]; ok {
			out.WriteString(upper)
			continue
		}
		out.WriteString(strings.ToUpper(word[:1]))
		out.WriteString(word[1:])
	}
	return out.String()
}

// Singularize returns the singular form of an association name
// ("categories" becomes "category", "statuses" becomes "status").
func Singularize(word string) string {
	return inflection.Singular(word)
}

// Pluralize returns the plural form of an association name.
func Pluralize(word string) string {
	return inflection.Plural(word)
}

// AssociationForKey maps a foreign key onto the association it points at:
// "author_id" becomes "author", "category_ids" becomes "categories". Other
// names are returned unchanged with ok false.
func AssociationForKey(attribute string) (string, bool) {
	switch {
	case strings.HasSuffix(attribute, "_ids") && len(attribute) > len("_ids"):
		return Pluralize(strings.TrimSuffix(attribute, "_ids")), true
	case strings.HasSuffix(attribute, "_id") && len(attribute) > len("_id"):
		return strings.TrimSuffix(attribute, "_id"), true
	default:
		return attribute, false
	}
}

func splitCamel(input string) string {
	var out strings.Builder
	for i, r := range input {
		if i > 0 && isBoundary(input, i, r) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

func isBoundary(input string, index int, r rune) bool {
	prev := rune(input[index-1])
	if isLower(prev) && isUpper(r) {
		return true
	}
	// "HTMLLabel" splits before the last upper-case rune of a run.
	if isUpper(prev) && isUpper(r) && index+1 < len(input) && isLower(rune(input[index+1])) {
		return true
	}
	return (isLetter(prev) && isDigit(r)) || (isDigit(prev) && isLetter(r))
}

func isUpper(r rune) bool  { return r >= 'A' && r <= 'Z' }
func isLower(r rune) bool  { return r >= 'a' && r <= 'z' }
func isDigit(r rune) bool  { return r >= '0' && r <= '9' }
func isLetter(r rune) bool { return isUpper(r) || isLower(r) }
