package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-logr/logr"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder"
	"github.com/goliatone/go-formbuilder/components/timezones"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/markup"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
)

type serveOptions struct {
	source  string
	addr    string
	timeout time.Duration
}

func newServeCommand(a *app) *cobra.Command {
	opts := &serveOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve form previews and the time zone search endpoint",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.serve(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.source, "source", "s", "", "OpenAPI document path or URL")
	cmd.Flags().StringVar(&opts.addr, "addr", ":8080", "listen address")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 10*time.Second, "timeout for remote documents")
	_ = cmd.MarkFlagRequired("source")
	return cmd
}

func (a *app) serve(cmd *cobra.Command, opts *serveOptions) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	env, err := a.environment(cmd)
	if err != nil {
		return err
	}
	catalog, _, err := loadCatalog(ctx, &previewOptions{source: opts.source, validate: true, timeout: opts.timeout})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              opts.addr,
		Handler:           newRouter(env, catalog, a.zones),
		ReadHeaderTimeout: 5 * time.Second,
	}
	logger := env.Logger()
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", opts.addr, "models", len(catalog.Models()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdown)
}

// newRouter serves GET /forms (the model index), GET /forms/{model} (query
// parameters become record values) and the time zone search endpoint.
func newRouter(env *builder.Environment, catalog *openapi.Catalog, zones *timezones.Component) http.Handler {
	r := chi.NewRouter()
	logger := env.Logger()

	r.Get("/forms", func(w http.ResponseWriter, _ *http.Request) {
		items := make([]markup.HTML, 0, len(catalog.Models()))
		for _, name := range catalog.Models() {
			link := markup.Tag("a", markup.Attrs{"href": "/forms/" + name}, markup.Escape(name))
			items = append(items, markup.Tag("li", nil, link))
		}
		writeHTML(w, logger, http.StatusOK, markup.Tag("ul", nil, markup.Join(items...)))
	})

	r.Get("/forms/{model}", func(w http.ResponseWriter, req *http.Request) {
		m, err := catalog.Model(chi.URLParam(req, "model"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		values := map[string]any{}
		for key, list := range req.URL.Query() {
			if len(list) == 1 {
				values[key] = list[0]
			} else {
				values[key] = list
			}
		}
		html, err := formbuilder.RenderForm(builder.New(env, m.Bind(values)), nil)
		if err != nil {
			logger.Error(err, "render form", "model", m.Name())
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		writeHTML(w, logger, http.StatusOK, html)
	})

	if _, err := zones.RegisterRoutes(r, "/"); err != nil {
		logger.Error(err, "register time zone routes")
	}
	return r
}

func writeHTML(w http.ResponseWriter, logger logr.Logger, status int, html markup.HTML) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := fmt.Fprintln(w, html); err != nil {
		logger.Error(err, "write response")
	}
}
