// Package actions renders the buttons and links at the foot of a form.
// Action names (submit, reset, cancel or any custom name) are independent of
// the tag that renders them (input, button, link).
package actions

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-formbuilder/internal/naming"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/form"
	"github.com/goliatone/go-formbuilder/pkg/localize"
	"github.com/goliatone/go-formbuilder/pkg/markup"
)

// Well known action names.
const (
	Submit = "submit"
	Reset  = "reset"
	Cancel = "cancel"
)

// Renderer tags.
const (
	TagInput  = "input"
	TagButton = "button"
	TagLink   = "link"
)

// BackURL is the cancel target when no URL is given.
const BackURL = "javascript:history.back()"

// ErrUnsupportedAction is returned when a tag cannot render an action name,
// e.g. an input action named "preview".
var ErrUnsupportedAction = errors.New("actions: unsupported action")

// Renderer produces the markup of one action.
type Renderer interface {
	Render(action Action) (markup.HTML, error)
}

// RendererFunc adapts a function into a Renderer.
type RendererFunc func(action Action) (markup.HTML, error)

// Render calls the underlying function.
func (fn RendererFunc) Render(action Action) (markup.HTML, error) {
	return fn(action)
}

// Action is the action being rendered.
type Action struct {
	Context   *form.Context
	Name      string
	Tag       string
	Options   form.Options
	Config    *config.Config
	Localizer *localize.Localizer
}

// DefaultTag returns the tag used when the caller gives none: inputs for
// submit and reset, a link for cancel and a button otherwise.
func DefaultTag(name string) string {
	switch name {
	case Submit, Reset:
		return TagInput
	case Cancel:
		return TagLink
	default:
		return TagButton
	}
}

func (a Action) config() *config.Config {
	if a.Config == nil {
		return config.New()
	}
	return a.Config
}

func (a Action) context() *form.Context {
	if a.Context == nil {
		return form.NewContext(nil, "", nil)
	}
	return a.Context
}

// Caption resolves the visible text: the explicit label, then a translation
// under actions.<model>.<name>, then the bundled default for the action
// ("Create %{model}" or "Update %{model}" for submit), then the humanized
// name.
func (a Action) Caption() string {
	text := a.Options.Label
	args := map[string]any{"model": a.ModelName()}
	switch {
	case text.Suppressed():
		return ""
	case text.IsLiteral():
		return text.Value()
	case text.IsKey():
		if value, ok := a.translateKey(text.Value(), mergeArgs(args, text.Args())); ok {
			return value
		}
	}

	ctx := a.context()
	if a.Localizer != nil {
		scope := localize.Scope{
			Type:      localize.Actions,
			Model:     ctx.Model(),
			Nested:    ctx.Nested(),
			Action:    ctx.Action,
			Attribute: a.Name,
			Args:      args,
		}
		if value, ok := a.Localizer.Lookup(a.config().Locale(), scope); ok {
			return value
		}
	}

	key := a.Name
	if a.Name == Submit {
		key = "create"
		if ctx.Action == "edit" {
			key = "update"
		}
	}
	if value, ok := a.translate(key, args); ok {
		return strings.TrimSpace(value)
	}
	return naming.Humanize(a.Name)
}

// ModelName is the human name interpolated as %{model}.
func (a Action) ModelName() string {
	name := a.context().Model()
	if name == "" {
		return ""
	}
	return naming.Humanize(name)
}

func (a Action) translate(key string, args map[string]any) (string, bool) {
	localizer := a.Localizer
	if localizer == nil {
		localizer = localize.New(nil)
	}
	return localizer.Translate(a.config().Locale(), key, args)
}

func (a Action) translateKey(key string, args map[string]any) (string, bool) {
	if a.Localizer == nil {
		return "", false
	}
	return a.Localizer.TranslateKey(a.config().Locale(), key, args)
}

func mergeArgs(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// ID returns the wrapper id, e.g. "post_submit_action".
func (a Action) ID() string {
	return a.context().InputID(a.Name + "_action")
}

// Wrap places control inside the action wrapper.
func Wrap(action Action, control markup.HTML) markup.HTML {
	attrs := markup.Attrs{"id": action.ID()}.Merge(action.Options.WrapperHTML)
	attrs["class"] = markup.Classes("action", action.Tag+"_action", action.Options.WrapperHTML["class"])
	return markup.Tag("div", attrs, control)
}

// Input renders <input type="submit|reset">.
type Input struct{}

// Render implements Renderer.
func (Input) Render(action Action) (markup.HTML, error) {
	if action.Name != Submit && action.Name != Reset {
		return "", fmt.Errorf("%w: %q cannot render as %s", ErrUnsupportedAction, action.Name, TagInput)
	}
	attrs := markup.Attrs{"type": action.Name, "value": action.Caption()}
	if action.Name == Submit {
		attrs["name"] = "commit"
	}
	return Wrap(action, markup.Void("input", attrs.Merge(action.Options.InputHTML))), nil
}

// Button renders a <button>. Submit and reset keep their native type; other
// names are plain buttons.
type Button struct{}

// Render implements Renderer.
func (Button) Render(action Action) (markup.HTML, error) {
	kind := "button"
	if action.Name == Submit || action.Name == Reset {
		kind = action.Name
	}
	attrs := markup.Attrs{"type": kind, "name": "button"}.Merge(action.Options.InputHTML)
	return Wrap(action, markup.Tag("button", attrs, markup.Escape(action.Caption()))), nil
}

// Link renders an anchor. Cancel defaults to BackURL; any other action needs
// an explicit URL.
type Link struct{}

// Render implements Renderer.
func (Link) Render(action Action) (markup.HTML, error) {
	href := action.Options.URL
	if href == "" {
		if action.Name != Cancel {
			return "", fmt.Errorf("%w: link action %q requires a URL", ErrUnsupportedAction, action.Name)
		}
		href = BackURL
	}
	attrs := markup.Attrs{"href": href}.Merge(action.Options.InputHTML)
	return Wrap(action, markup.Tag("a", attrs, markup.Escape(action.Caption()))), nil
}
