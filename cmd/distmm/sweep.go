// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/config"
	"github.com/katalvlaran/distmm/engine"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

func newSweepCmd(g *globalFlags) *cobra.Command {
	var path, output string
	var keep bool
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run every (size, processes) pair of a sweep configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log, err := g.logger()
			if err != nil {
				return err
			}
			cfg := config.Default()
			if path != "" {
				if cfg, err = config.Load(path); err != nil {
					return err
				}
			}
			if output != "" {
				cfg.Output = output
			}
			runner, err := sweepRunner(cfg, log)
			if err != nil {
				return err
			}

			if !keep {
				if err = os.Remove(cfg.Output); err != nil && !errors.Is(err, os.ErrNotExist) {
					return fmt.Errorf("clear %s: %w", cfg.Output, err)
				}
			}
			res, err := bench.Sweep(cfg, runner, log, func(r bench.TimingRecord) error {
				return bench.AppendCSV(cfg.Output, r)
			})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "host: %s\n\n", res.Host)
			profile := termenv.NewOutput(os.Stdout).EnvColorProfile()
			if err = bench.RenderTable(w, res.Records, res.Failures, profile); err != nil {
				return err
			}
			for _, c := range bench.StrongScaling(res.Records) {
				fmt.Fprintf(w, "\nN=%d strong scaling:", c.MatrixSize)
				for _, pt := range c.Points {
					fmt.Fprintf(w, " p=%d %.2fx/%.0fx", pt.Processes, pt.Speedup, pt.Ideal)
				}
			}
			fmt.Fprintf(w, "\n\nresults: %s\n", cfg.Output)

			return nil
		},
	}
	cmd.Flags().StringVarP(&path, "config", "c", "", "sweep configuration (.yaml, .yml, .toml); defaults when empty")
	cmd.Flags().StringVarP(&output, "output", "o", "", "results CSV (overrides the configuration)")
	cmd.Flags().BoolVar(&keep, "append", false, "append to an existing results file instead of clearing it")

	return cmd
}

// sweepRunner builds the runner selected by cfg.Transport.
func sweepRunner(cfg *config.Sweep, log *slog.Logger) (bench.Runner, error) {
	k, err := engine.KernelByName(cfg.Kernel, cfg.LocalWorkers)
	if err != nil {
		return nil, err
	}
	opts := []bench.Option{
		bench.WithSeed(cfg.Seed),
		bench.WithKernel(k),
		bench.WithVerify(cfg.Verify),
		bench.WithLogger(log),
	}
	copts := []collective.Option{
		collective.WithTimeout(cfg.Timeout.Duration),
		collective.WithCompression(cfg.Compression),
		collective.WithLogger(log),
	}

	switch cfg.Transport {
	case config.TransportWS:
		f := trialFlags{kernel: cfg.Kernel, workers: cfg.LocalWorkers, timeout: cfg.Timeout.Duration, compression: cfg.Compression}

		return newProcessRunner(cfg.WorkerCmd, cfg.Listen, f.workerArgs(), opts, copts, log)
	default:
		return bench.LocalRunner{Timeout: cfg.Timeout.Duration, Options: opts, Collective: copts}, nil
	}
}
