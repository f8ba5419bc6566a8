package inputs

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-formbuilder/pkg/form"
)

// ErrMissingCollaborator matches every MissingCollaboratorError.
var ErrMissingCollaborator = errors.New("inputs: missing collaborator")

// MissingCollaboratorError reports an input type whose renderer exists but
// whose external helper was not configured.
type MissingCollaboratorError struct {
	Tag        string
	Capability string
}

func (e *MissingCollaboratorError) Error() string {
	return fmt.Sprintf("inputs: %s input requires a %s provider", e.Tag, e.Capability)
}

// Is reports whether target is ErrMissingCollaborator.
func (e *MissingCollaboratorError) Is(target error) bool {
	return target == ErrMissingCollaborator
}

// Capability names used in MissingCollaboratorError.
const (
	CapabilityCountries  = "countries"
	CapabilityCurrencies = "currencies"
	CapabilityTimeZones  = "time zones"
)

// ChoiceProvider lists the choices of a helper-backed select for a locale.
type ChoiceProvider interface {
	Choices(locale string) ([]form.Choice, error)
}

// ChoiceProviderFunc adapts a function into a ChoiceProvider.
type ChoiceProviderFunc func(locale string) ([]form.Choice, error)

// Choices calls the underlying function.
func (fn ChoiceProviderFunc) Choices(locale string) ([]form.Choice, error) {
	return fn(locale)
}

// Plugins are the optional helpers behind the country, currency and
// time_zone inputs.
type Plugins struct {
	Countries  ChoiceProvider
	Currencies ChoiceProvider
	TimeZones  ChoiceProvider
}
