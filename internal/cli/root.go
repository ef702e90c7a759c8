// Package cli implements specctl, the command line companion of the
// service. It resolves the catalog's endpoints offline, without a database.
package cli

import (
	"fmt"
	"slices"

	"github.com/architeacher/specargs/internal/catalog"
	"github.com/architeacher/specargs/internal/config"
	"github.com/spf13/cobra"
)

const (
	FormatText = "text"
	FormatJSON = "json"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string

	catalog *catalog.Catalog
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON}

func NewRootCommand() *cobra.Command {
	opts := &RootOptions{catalog: catalog.New()}

	cmd := &cobra.Command{
		Use:   "specctl",
		Short: "Inspect the specification parameters of svc-specs",
		Long: `Inspect the search endpoints served by svc-specs.

Resolves query strings into specifications and renders the SQL the
service would run, without connecting to a database.`,
		Version:      fmt.Sprintf("%s (commit %s)", config.Version, config.Commit),
		SilenceUsage: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log the resolution to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", FormatText, "output format (json|text)")

	cmd.AddCommand(NewEndpointsCommand(opts))
	cmd.AddCommand(NewResolveCommand(opts))
	cmd.AddCommand(NewConfigCommand(opts))

	return cmd
}
