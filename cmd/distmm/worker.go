// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective/wsnet"
	"github.com/spf13/cobra"
)

func newWorkerCmd(g *globalFlags) *cobra.Command {
	f := &trialFlags{}
	var (
		url        string
		rank, size int
	)
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Join a coordinator as a worker rank for one trial",
		Long: "Join a coordinator as a worker rank for one trial.\n" +
			"--rank and --size default to the " + envRank + " and " + envSize + " environment variables.",
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			if url == "" {
				return errors.New("--url is required")
			}
			f.procs = size
			if err := f.validate(); err != nil {
				return err
			}
			log, err := g.logger()
			if err != nil {
				return err
			}
			log = log.With("rank", rank)
			opts, err := f.benchOptions(log)
			if err != nil {
				return err
			}

			peer, err := wsnet.Dial(url, rank, size, f.collectiveOptions(log)...)
			if err != nil {
				return err
			}
			defer peer.Close()
			if _, err = bench.RunTrial(peer, f.n, opts...); err != nil {
				return fmt.Errorf("worker %d: %w", rank, err)
			}
			log.Debug("worker done")

			return nil
		},
	}
	f.register(cmd.Flags(), false)
	cmd.Flags().StringVar(&url, "url", "", "coordinator websocket URL")
	cmd.Flags().IntVar(&rank, "rank", envInt(envRank, 1), "this worker's rank (1..size-1)")
	cmd.Flags().IntVar(&size, "size", envInt(envSize, 2), "participant count P")

	return cmd
}
