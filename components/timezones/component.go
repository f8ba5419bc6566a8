package timezones

import "net/http"

// Component bundles the choice provider and the search endpoint over one
// zone list, so a select rendered server side and its remote search agree.
type Component struct {
	opts     Options
	provider *Provider
}

// New builds a component. Zones set through WithZones feed both halves.
func New(opts ...Option) *Component {
	o := NewOptions(opts...)
	var providerOpts []ProviderOption
	if o.Zones != nil {
		providerOpts = append(providerOpts, WithProviderZones(o.Zones))
	}
	return &Component{opts: o, provider: NewProvider(providerOpts...)}
}

// Options returns a copy of the configuration.
func (c *Component) Options() Options {
	return NewOptions(func(o *Options) { *o = c.opts })
}

// Provider returns the ChoiceProvider for inputs.Plugins.TimeZones.
func (c *Component) Provider() *Provider { return c.provider }

// Handler returns the search endpoint.
func (c *Component) Handler() http.Handler { return HandlerWithOptions(c.opts) }

// RegisterRoutes mounts the endpoint under basePath.
func (c *Component) RegisterRoutes(mux Mux, basePath string) (string, error) {
	return RegisterRoutes(mux, basePath, func(o *Options) { *o = c.Options() })
}
