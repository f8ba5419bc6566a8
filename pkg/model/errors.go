package model

import (
	"strconv"
	"strings"
)

// BaseErrorKey collects messages that do not belong to a single attribute.
const BaseErrorKey = "base"

// Errors is a simple ErrorProvider keyed by attribute name. Messages keep the
// order they were added in.
type Errors map[string][]string

// Add appends messages for the attribute, skipping blanks and duplicates.
func (e Errors) Add(attribute string, messages ...string) {
	if e == nil {
		return
	}
	attribute = strings.TrimSpace(attribute)
	merged := normalizeMessages(append(append([]string(nil), e[attribute]...), messages...))
	if len(merged) == 0 {
		return
	}
	e[attribute] = merged
}

// ErrorsFor implements ErrorProvider.
func (e Errors) ErrorsFor(attribute string) []string {
	if len(e) == 0 {
		return nil
	}
	return append([]string(nil), e[attribute]...)
}

// Empty reports whether no messages were recorded.
func (e Errors) Empty() bool {
	for _, messages := range e {
		if len(messages) > 0 {
			return false
		}
	}
	return true
}

// MapErrorPayload normalises a server error payload (JSON pointer paths,
// dotted paths, bracket indexes, wrapper segments such as "body" or "data")
// onto the supplied attribute names. Paths that do not match an attribute are
// collected under BaseErrorKey so no message is lost.
func MapErrorPayload(attributes []string, payload map[string][]string) Errors {
	out := make(Errors)
	if len(payload) == 0 {
		return out
	}

	known := make(map[string]struct{}, len(attributes))
	for _, attribute := range attributes {
		if trimmed := strings.TrimSpace(attribute); trimmed != "" {
			known[trimmed] = struct{}{}
		}
	}

	for rawPath, messages := range payload {
		mapped, base := mapErrorPath(rawPath, known)
		if base {
			out.Add(BaseErrorKey, messages...)
			continue
		}
		out.Add(mapped, messages...)
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, known map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isBaseKey(trimmed) {
		return "", true
	}

	segments := dropWrapperSegments(stripNumericSegments(parsePathSegments(trimmed)))
	if len(segments) == 0 {
		return "", true
	}

	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := known[candidate]; ok {
			return candidate, false
		}
	}
	// Nested attribute paths fall back to their leaf name, which is how nested
	// builders look messages up.
	leaf := segments[len(segments)-1]
	if _, ok := known[leaf]; ok {
		return leaf, false
	}
	return "", true
}

func parsePathSegments(path string) []string {
	clean := strings.TrimSpace(path)
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimLeft(clean, "#/.$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = strings.Trim(replacer.Replace(clean), "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func dropWrapperSegments(segments []string) []string {
	out := segments
	for len(out) > 0 {
		switch strings.ToLower(out[0]) {
		case "body", "request", "payload", "data", "attributes":
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func isBaseKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", "__all__", "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
