package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	pkgopenapi "github.com/goliatone/go-formbuilder/pkg/openapi"
	"github.com/goliatone/go-formbuilder/pkg/providers/openapi"
)

var errLintViolations = errors.New("relationship extensions have violations")

func newLintCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "lint <document>...",
		Short: "Check x-relationships extensions of OpenAPI documents",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, paths []string) error {
			found := false
			for _, path := range paths {
				raw, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				doc, err := pkgopenapi.NewDocument(pkgopenapi.SourceFromFile(path), raw)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				violations, err := openapi.Lint(cmd.Context(), doc)
				if err != nil {
					return fmt.Errorf("lint %s: %w", path, err)
				}
				for _, v := range violations {
					found = true
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", path, v)
				}
			}
			if found {
				return errLintViolations
			}
			return nil
		},
	}
}
