// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective/wsnet"
	"github.com/spf13/cobra"
)

func newCoordinatorCmd(g *globalFlags) *cobra.Command {
	f := &trialFlags{}
	var listen string
	cmd := &cobra.Command{
		Use:   "coordinator",
		Short: "Act as rank 0 and wait for P-1 workers to dial in",
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
			coord, err := wsnet.Listen(listen, f.procs, f.collectiveOptions(log)...)
			if err != nil {
				return err
			}
			defer coord.Close()
			fmt.Fprintf(cmd.ErrOrStderr(), "workers: distmm worker --url %s --size %d --n %d --rank <1..%d>\n",
				coord.URL(), f.procs, f.n, f.procs-1)

			runner := bench.RunnerFunc(func(n, _ int) (*bench.TimingRecord, error) {
				if err := coord.Wait(); err != nil {
					return nil, err
				}

				return bench.RunTrial(coord, n, opts...)
			})

			return report(cmd, runner, f.n, f.procs, f.csv)
		},
	}
	f.register(cmd.Flags(), true)
	cmd.Flags().StringVar(&listen, "listen", ":7077", "listen address")

	return cmd
}
