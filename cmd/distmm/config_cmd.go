// SPDX-License-Identifier: MIT

package main

import (
	"github.com/katalvlaran/distmm/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the default sweep configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return config.Default().Encode(cmd.OutOrStdout(), "."+format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "yaml", "yaml | toml")

	return cmd
}
