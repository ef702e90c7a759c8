package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

type endpointInfo struct {
	Name       string   `json:"name"`
	Table      string   `json:"table"`
	Parameter  string   `json:"parameter"`
	Definition string   `json:"definition,omitempty"`
	Keys       []string `json:"keys"`
}

func NewEndpointsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "endpoints",
		Short: "List the search endpoints and the query keys they read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := make([]endpointInfo, 0, len(rootOpts.catalog.Endpoints))

			for _, e := range rootOpts.catalog.Endpoints {
				infos = append(infos, endpointInfo{
					Name:       e.Name,
					Table:      e.Entity.Table,
					Parameter:  e.Parameter.Name(),
					Definition: e.Parameter.DefinitionName(),
					Keys:       rootOpts.catalog.Keys(e),
				})
			}

			if rootOpts.Format == FormatJSON {
				return writeJSON(cmd.OutOrStdout(), infos)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ENDPOINT\tTABLE\tDEFINITION\tKEYS")

			for _, info := range infos {
				definition := info.Definition
				if definition == "" {
					definition = "-"
				}

				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", info.Name, info.Table, definition, strings.Join(info.Keys, ","))
			}

			return tw.Flush()
		},
	}
}
