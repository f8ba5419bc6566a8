package form

import "strings"

type textMode uint8

const (
	textDefault textMode = iota
	textLiteral
	textKey
	textSuppressed
	textLookup
)

// Text is a label, hint, placeholder or caption setting. The zero value
// defers to the cascade (translations, then the humanized attribute for
// labels).
type Text struct {
	mode  textMode
	value string
	args  map[string]any
}

// Literal uses s verbatim.
func Literal(s string) Text { return Text{mode: textLiteral, value: s} }

// Key looks s up in the translations as an absolute key.
func Key(key string, args ...map[string]any) Text {
	t := Text{mode: textKey, value: strings.TrimSpace(key)}
	if len(args) > 0 {
		t.args = args[0]
	}
	return t
}

// Suppress renders nothing, whatever translations exist.
func Suppress() Text { return Text{mode: textSuppressed} }

// Lookup forces a scoped translation lookup even when lookups are disabled
// by default.
func Lookup() Text { return Text{mode: textLookup} }

// IsDefault reports whether the setting was left to the cascade.
func (t Text) IsDefault() bool { return t.mode == textDefault }

// IsLiteral reports whether the text is used verbatim.
func (t Text) IsLiteral() bool { return t.mode == textLiteral }

// IsKey reports whether the text names a translation key.
func (t Text) IsKey() bool { return t.mode == textKey }

// Suppressed reports whether the element is disabled.
func (t Text) Suppressed() bool { return t.mode == textSuppressed }

// ForcesLookup reports whether a scoped lookup was requested explicitly.
func (t Text) ForcesLookup() bool { return t.mode == textLookup }

// Value returns the literal text or the translation key.
func (t Text) Value() string { return t.value }

// Args returns the interpolation arguments of a key.
func (t Text) Args() map[string]any { return t.args }
