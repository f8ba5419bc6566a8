package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/go-logr/logr"
	koanfyaml "github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-formbuilder/components/timezones"
	"github.com/goliatone/go-formbuilder/pkg/builder"
	"github.com/goliatone/go-formbuilder/pkg/config"
	"github.com/goliatone/go-formbuilder/pkg/localize"
	"github.com/goliatone/go-formbuilder/pkg/plugins/xtext"
)

// flagKeys maps persistent flags onto configuration keys.
var flagKeys = map[string]string{
	"locale":        "locale",
	"inline-errors": "inline_errors",
	"hint-format":   "hint_format",
	"cache-policy":  "cache_policy",
}

type app struct {
	stdout io.Writer
	stderr io.Writer
	driver PromptDriver

	configPath   string
	translations string
	verbose      bool

	zones *timezones.Component
}

func newApp(stdout, stderr io.Writer, driver PromptDriver) *app {
	return &app{stdout: stdout, stderr: stderr, driver: driver, zones: timezones.New()}
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "formbuilder",
		Short:         "Render HTML forms from OpenAPI schemas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML configuration file")
	flags.StringVar(&a.translations, "translations", "", "directory of YAML translation files")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log renderer resolution and translation misses")
	flags.String("locale", "", "locale for labels and localized choices")
	flags.String("inline-errors", "", "inline error mode: sentence, list, first or none")
	flags.String("hint-format", "", "hint format: text or markdown")
	flags.String("cache-policy", "", "renderer cache policy: never, forever or until-reset")

	root.AddCommand(newPreviewCommand(a), newServeCommand(a), newConfigCommand(a), newLintCommand())
	return root
}

func (a *app) logger() logr.Logger {
	level := slog.LevelInfo
	if a.verbose {
		level = slog.LevelDebug
	}
	return logr.FromSlogHandler(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig layers defaults, the config file, FORMBUILDER__ variables and
// explicitly set flags.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	loader := config.NewLoader(config.DefaultEnvPrefix)
	if _, err := loader.Load(nil, a.configPath); err != nil {
		return nil, err
	}
	if err := loader.LoadFlags(cmd.Flags(), flagKeys); err != nil {
		return nil, err
	}
	return loader.Build(nil)
}

func (a *app) environment(cmd *cobra.Command) (*builder.Environment, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := a.logger()

	catalog := localize.NewCatalog()
	if a.translations != "" {
		if err := catalog.LoadFS(os.DirFS(a.translations)); err != nil {
			return nil, fmt.Errorf("load translations: %w", err)
		}
	}

	plugins := xtext.Plugins()
	plugins.TimeZones = a.zones.Provider()

	return builder.NewEnvironment(
		builder.WithConfig(cfg),
		builder.WithTranslator(catalog),
		builder.WithPlugins(plugins),
		builder.WithLogger(logger),
	)
}

func newConfigCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			k := koanf.New(".")
			if err := k.Load(structs.Provider(config.Snapshot(cfg), "koanf"), nil); err != nil {
				return err
			}
			out, err := k.Marshal(koanfyaml.Parser())
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
}
