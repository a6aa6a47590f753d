// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/katalvlaran/distmm/bench"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	f := &trialFlags{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one trial with P in-process participants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := f.validate(); err != nil {
				return err
			}
			log, err := g.logger()
			if err != nil {
				return err
			}
			opts, err := f.benchOptions(log)
			if err != nil {
				return err
			}
			runner := bench.LocalRunner{Timeout: f.timeout, Options: opts}

			return report(cmd, runner, f.n, f.procs, f.csv)
		},
	}
	f.register(cmd.Flags(), true)

	return cmd
}

// report runs one trial through runner and prints (and optionally appends)
// its record. A failed trial is printed as a failure row and returned.
func report(cmd *cobra.Command, runner bench.Runner, n, p int, csvPath string) error {
	rec, err := runner.Run(n, p)
	profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
	if err != nil {
		_ = bench.RenderTable(cmd.OutOrStdout(), nil, []bench.Failure{bench.NewFailure(n, p, err)}, profile)

		return err
	}
	if err = bench.RenderTable(cmd.OutOrStdout(), []bench.TimingRecord{*rec}, nil, profile); err != nil {
		return err
	}
	if csvPath != "" {
		return bench.AppendCSV(csvPath, *rec)
	}

	return nil
}
