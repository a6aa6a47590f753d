// SPDX-License-Identifier: MIT

// Command distmm benchmarks row-partitioned distributed dense matrix
// multiplication against a single-process baseline.
//
//	distmm run --n 1000 --procs 4          # one in-process trial
//	distmm sweep --config sweep.yaml       # full sweep, CSV + table
//	distmm launch --n 1000 --procs 4       # one trial over worker processes
//	distmm coordinator / distmm worker     # manual multi-host setup
package main

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Launch environment variables read by the worker command.
const (
	envRank = "DISTMM_RANK"
	envSize = "DISTMM_SIZE"
)

type globalFlags struct {
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:           "distmm",
		Short:         "Distributed dense matrix multiplication benchmark",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "info", "debug | info | warn | error")
	root.PersistentFlags().StringVar(&g.logFormat, "log-format", "text", "text | json")

	root.AddCommand(
		newRunCmd(g),
		newSweepCmd(g),
		newLaunchCmd(g),
		newCoordinatorCmd(g),
		newWorkerCmd(g),
		newConfigCmd(),
	)

	return root
}

// logger builds the stderr logger selected by the global flags.
func (g *globalFlags) logger() (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(g.logLevel)); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(g.logFormat) {
	case "text":
		return slog.New(slog.NewTextHandler(os.Stderr, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(os.Stderr, opts)), nil
	default:
		return nil, fmt.Errorf("--log-format: unknown format %q", g.logFormat)
	}
}

// envInt reads an integer environment variable, returning def when unset.
func envInt(name string, def int) int {
	v, ok := os.LookupEnv(name)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
