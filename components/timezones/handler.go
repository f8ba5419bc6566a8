package timezones

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// Options configures the search handler.
type Options struct {
	RoutePath    string
	SearchParam  string
	LimitParam   string
	DefaultLimit int
	MaxLimit     int
	// TopOnEmpty returns the first zones for an empty query instead of none.
	TopOnEmpty bool
	// Guard rejects requests before searching; an HTTPError sets the status.
	Guard func(r *http.Request) error
	Zones []string
}

// Option mutates Options.
type Option func(*Options)

// NewOptions applies opts over the defaults and clamps invalid values.
func NewOptions(opts ...Option) Options {
	o := Options{}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	if o.RoutePath == "" {
		o.RoutePath = "/api/timezones"
	}
	if o.SearchParam == "" {
		o.SearchParam = "q"
	}
	if o.LimitParam == "" {
		o.LimitParam = "limit"
	}
	if o.DefaultLimit <= 0 {
		o.DefaultLimit = 50
	}
	if o.MaxLimit <= 0 {
		o.MaxLimit = 200
	}
	if o.Zones != nil {
		o.Zones = append([]string(nil), o.Zones...)
	}
	return o
}

// Option setters.
func WithRoutePath(path string) Option   { return func(o *Options) { o.RoutePath = path } }
func WithSearchParam(name string) Option { return func(o *Options) { o.SearchParam = name } }
func WithLimitParam(name string) Option  { return func(o *Options) { o.LimitParam = name } }
func WithDefaultLimit(limit int) Option  { return func(o *Options) { o.DefaultLimit = limit } }
func WithMaxLimit(limit int) Option      { return func(o *Options) { o.MaxLimit = limit } }
func WithTopOnEmpty(enabled bool) Option { return func(o *Options) { o.TopOnEmpty = enabled } }
func WithZones(zones []string) Option    { return func(o *Options) { o.Zones = zones } }
func WithGuard(guard func(*http.Request) error) Option {
	return func(o *Options) { o.Guard = guard }
}

// limit resolves the requested limit: missing means the default, anything
// above MaxLimit is clamped and negative values yield nothing.
func (o Options) limit(raw string) int {
	if raw == "" {
		return o.DefaultLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n == 0 {
		return o.DefaultLimit
	}
	if n < 0 {
		return 0
	}
	return min(n, o.MaxLimit)
}

// HTTPError carries the status a guard wants returned.
type HTTPError interface {
	error
	StatusCode() int
}

// StatusError is a ready-made HTTPError.
type StatusError struct {
	Code int
	Err  error
}

func (e StatusError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return http.StatusText(e.StatusCode())
}

func (e StatusError) Unwrap() error { return e.Err }

// StatusCode defaults to 500.
func (e StatusError) StatusCode() int {
	if e.Code <= 0 {
		return http.StatusInternalServerError
	}
	return e.Code
}

type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

type choicesResponse struct {
	Data []choice `json:"data"`
}

// NewHandler answers GET and HEAD with {"data": [{"value", "label"}]} for
// the zones matching the search param.
func NewHandler(opts ...Option) http.Handler {
	return HandlerWithOptions(NewOptions(opts...))
}

// HandlerWithOptions is NewHandler for prepared options.
func HandlerWithOptions(o Options) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", http.MethodGet+", "+http.MethodHead)
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		if o.Guard != nil {
			if err := o.Guard(r); err != nil {
				code := http.StatusForbidden
				var httpErr HTTPError
				if errors.As(err, &httpErr) && httpErr.StatusCode() > 0 {
					code = httpErr.StatusCode()
				}
				http.Error(w, http.StatusText(code), code)
				return
			}
		}

		zones := o.Zones
		if zones == nil {
			loaded, err := DefaultZones()
			if err != nil {
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			zones = loaded
		}
		query := r.URL.Query()
		matches := Search(zones, query.Get(o.SearchParam), o.limit(query.Get(o.LimitParam)), o.TopOnEmpty)
		payload := choicesResponse{Data: make([]choice, 0, len(matches))}
		for _, zone := range matches {
			payload.Data = append(payload.Data, choice{Value: zone, Label: zone})
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if r.Method == http.MethodHead {
			return
		}
		_ = json.NewEncoder(w).Encode(payload)
	})
}

// Mux is satisfied by *http.ServeMux.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath joins basePath and the route path.
func MountPath(basePath string, opts ...Option) string {
	return mountPath(basePath, NewOptions(opts...).RoutePath)
}

// RegisterRoutes mounts the handler under basePath and returns the pattern.
func RegisterRoutes(mux Mux, basePath string, opts ...Option) (string, error) {
	if mux == nil {
		return "", fmt.Errorf("timezones: missing mux")
	}
	o := NewOptions(opts...)
	pattern := mountPath(basePath, o.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(o))
	return pattern, nil
}

func mountPath(basePath, routePath string) string {
	routePath = "/" + strings.TrimLeft(strings.TrimSpace(routePath), "/")
	basePath = strings.Trim(strings.TrimSpace(basePath), "/")
	if basePath == "" {
		return routePath
	}
	return "/" + basePath + routePath
}
