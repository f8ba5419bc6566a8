package openapi

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
)

// Violation is a relationship extension that Parse would ignore or
// misread.
type Violation struct {
	Location string
	Message  string
}

func (v Violation) String() string {
	return v.Location + " -> " + v.Message
}

// Lint checks the x-relationships and x-label-field extensions of every
// component property. Violations are sorted by location.
func Lint(ctx context.Context, doc pkgopenapi.Document) ([]Violation, error) {
	spec, err := loadSpec(ctx, doc, false)
	if err != nil {
		return nil, err
	}
	if spec.Components == nil {
		return nil, nil
	}

	var out []Violation
	for name, ref := range spec.Components.Schemas {
		if ref == nil || ref.Value == nil {
			continue
		}
		properties, _ := flatten(ref.Value)
		for property, prop := range properties {
			if prop == nil || prop.Value == nil {
				continue
			}
			location := fmt.Sprintf("components.schemas.%s.properties.%s", name, property)
			out = append(out, lintProperty(spec.Components.Schemas, location, prop.Value)...)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Location == out[j].Location {
			return out[i].Message < out[j].Message
		}
		return out[i].Location < out[j].Location
	})
	return out, nil
}

func lintProperty(schemas openapi3.Schemas, location string, schema *openapi3.Schema) []Violation {
	var out []Violation
	report := func(format string, args ...any) {
		out = append(out, Violation{Location: location, Message: fmt.Sprintf(format, args...)})
	}

	if raw, ok := schema.Extensions[labelFieldExtensionKey]; ok {
		if label, ok := raw.(string); !ok || strings.TrimSpace(label) == "" {
			report("%s must be a non-empty string", labelFieldExtensionKey)
		}
	}

	raw, ok := schema.Extensions[relationshipExtensionKey]
	if !ok {
		return out
	}
	values, ok := raw.(map[string]any)
	if !ok {
		report("%s must be an object, found %T", relationshipExtensionKey, raw)
		return out
	}

	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if _, known := relationshipKeyLookup[normaliseKey(key)]; !known {
			report("unknown relationship key %q", key)
			continue
		}
		if str, ok := values[key].(string); !ok || strings.TrimSpace(str) == "" {
			report("relationship key %q must be a non-empty string", key)
		}
	}

	rel, ok := relationshipFromExtensions(schema.Extensions)
	if !ok {
		report("relationship type is missing or unsupported")
		return out
	}
	if rel.target == "" {
		report("relationship target is required")
	} else if _, exists := schemas[rel.target]; !exists {
		report("relationship target %q is not a component schema", rel.target)
	}
	return out
}
