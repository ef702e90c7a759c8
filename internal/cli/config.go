package cli

import (
	"github.com/architeacher/specargs/internal/config"
	"github.com/spf13/cobra"
)

func NewConfigCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the service configuration read from the environment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Init()
			if err != nil {
				return err
			}

			return config.Dump(cmd.OutOrStdout(), cfg)
		},
	}
}
