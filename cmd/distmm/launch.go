// SPDX-License-Identifier: MIT

package main

import (
	"os"

	"github.com/katalvlaran/distmm/config"
	"github.com/spf13/cobra"
)

func newLaunchCmd(g *globalFlags) *cobra.Command {
	f := &trialFlags{}
	var listen, workerCmd string
	cmd := &cobra.Command{
		Use:   "launch",
		Short: "Run one trial over P-1 spawned worker processes (this process is rank 0)",
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
			runner, err := newProcessRunner(workerCmd, listen, f.workerArgs(), opts, f.collectiveOptions(log), log)
			if err != nil {
				return err
			}

			return report(cmd, runner, f.n, f.procs, f.csv)
		},
	}
	f.register(cmd.Flags(), true)
	cmd.Flags().StringVar(&listen, "listen", config.DefaultListen, "coordinator listen address")
	cmd.Flags().StringVar(&workerCmd, "worker-command", selfWorkerCommand(), "command spawned for each worker rank")

	return cmd
}

// selfWorkerCommand re-invokes this binary as a worker.
func selfWorkerCommand() string {
	exe, err := os.Executable()
	if err != nil {
		exe = "distmm"
	}

	return shellQuote(exe) + " worker"
}

// shellQuote single-quotes s for the worker command template.
func shellQuote(s string) string {
	out := []byte{'\''}
	for i := 0; i < len(s); i++ {
		if s[i] == '\'' {
			out = append(out, `'\''`...)

			continue
		}
		out = append(out, s[i])
	}

	return string(append(out, '\''))
}
