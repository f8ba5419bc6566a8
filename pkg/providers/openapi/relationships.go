package openapi

import (
	"strings"
	"unicode"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

const (
	relationshipExtensionKey = "x-relationships"
	labelFieldExtensionKey   = "x-label-field"

	relationshipTypeAttr       = "type"
	relationshipTargetAttr     = "target"
	relationshipForeignKeyAttr = "foreignKey"
	relationshipLabelAttr      = "labelField"
)

var relationshipKeyLookup = map[string]string{
	"type":       relationshipTypeAttr,
	"kind":       relationshipTypeAttr,
	"target":     relationshipTargetAttr,
	"foreignkey": relationshipForeignKeyAttr,
	"foreignid":  relationshipForeignKeyAttr,
	"labelfield": relationshipLabelAttr,
	"label":      relationshipLabelAttr,
}

// relationship is the normalised x-relationships extension of one property.
type relationship struct {
	kind       model.AssociationKind
	target     string
	foreignKey string
	labelField string
}

// relationshipFromExtensions reads x-relationships, accepting any casing or
// separator style in its keys ("foreign_key", "foreign-id", "ForeignKey").
func relationshipFromExtensions(ext map[string]any) (relationship, bool) {
	raw, ok := ext[relationshipExtensionKey].(map[string]any)
	if !ok || len(raw) == 0 {
		return relationship{}, false
	}
	values := make(map[string]string, len(raw))
	for key, val := range raw {
		canonical, ok := relationshipKeyLookup[normaliseKey(key)]
		if !ok {
			continue
		}
		if str, ok := val.(string); ok && strings.TrimSpace(str) != "" {
			values[canonical] = strings.TrimSpace(str)
		}
	}
	kind, ok := associationKind(values[relationshipTypeAttr])
	if !ok {
		return relationship{}, false
	}
	rel := relationship{
		kind:       kind,
		target:     refName(values[relationshipTargetAttr]),
		foreignKey: values[relationshipForeignKeyAttr],
		labelField: values[relationshipLabelAttr],
	}
	if rel.labelField == "" {
		if label, ok := ext[labelFieldExtensionKey].(string); ok {
			rel.labelField = strings.TrimSpace(label)
		}
	}
	return rel, true
}

func associationKind(raw string) (model.AssociationKind, bool) {
	switch normaliseKey(raw) {
	case "belongsto":
		return model.BelongsTo, true
	case "hasone":
		return model.HasOne, true
	case "hasmany":
		return model.HasMany, true
	case "habtm", "hasandbelongstomany", "manytomany":
		return model.HasAndBelongsToMany, true
	default:
		return "", false
	}
}

func normaliseKey(raw string) string {
	var builder strings.Builder
	builder.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsNumber(r) {
			builder.WriteRune(unicode.ToLower(r))
		}
	}
	return builder.String()
}

// associationName derives the association name and foreign key from the
// property hosting the extension. A belongs-to declared on "author_id" is
// named "author" with "author_id" as its key; declared on "author" the key
// defaults to "author_id".
func associationName(property string, rel relationship) (name, foreignKey string) {
	name = property
	foreignKey = rel.foreignKey
	if rel.kind == model.BelongsTo {
		if trimmed, ok := strings.CutSuffix(property, "_id"); ok && trimmed != "" {
			name = trimmed
			if foreignKey == "" {
				foreignKey = property
			}
		}
		if foreignKey == "" {
			foreignKey = name + "_id"
		}
	}
	if rel.kind.Multiple() {
		if trimmed, ok := strings.CutSuffix(property, "_ids"); ok && trimmed != "" {
			name = trimmed + "s"
			if foreignKey == "" {
				foreignKey = property
			}
		}
	}
	return name, foreignKey
}
