// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/config"
	"github.com/katalvlaran/distmm/engine"
	"github.com/spf13/pflag"
)

// trialFlags are shared by every command that runs a trial.
type trialFlags struct {
	n           int
	procs       int
	seed        int64
	kernel      string
	workers     int
	timeout     time.Duration
	verify      bool
	compression bool
	csv         string
}

func (f *trialFlags) register(fs *pflag.FlagSet, withProcs bool) {
	fs.IntVarP(&f.n, "n", "n", 1000, "matrix size N (A and B are N×N)")
	if withProcs {
		fs.IntVarP(&f.procs, "procs", "p", 4, "participant count P")
	}
	fs.Int64Var(&f.seed, "seed", config.DefaultSeed, "input generation seed")
	fs.StringVar(&f.kernel, "kernel", config.DefaultKernel, "local kernel: naive | parallel | gonum")
	fs.IntVar(&f.workers, "local-workers", 0, "goroutines for the parallel kernel (0 = GOMAXPROCS)")
	fs.DurationVar(&f.timeout, "timeout", config.DefaultTimeout, "deadline for each collective")
	fs.BoolVar(&f.verify, "verify", true, "compare the distributed result with the baseline")
	fs.BoolVar(&f.compression, "compression", false, "snappy-compress websocket payloads")
	fs.StringVar(&f.csv, "csv", "", "append the record to this CSV file")
}

func (f *trialFlags) engineKernel() (engine.Kernel, error) {
	k, err := engine.KernelByName(f.kernel, f.workers)
	if err != nil {
		return nil, fmt.Errorf("--kernel: %w", err)
	}

	return k, nil
}

func (f *trialFlags) benchOptions(log *slog.Logger) ([]bench.Option, error) {
	k, err := f.engineKernel()
	if err != nil {
		return nil, err
	}

	return []bench.Option{
		bench.WithSeed(f.seed),
		bench.WithKernel(k),
		bench.WithVerify(f.verify),
		bench.WithLogger(log),
	}, nil
}

func (f *trialFlags) collectiveOptions(log *slog.Logger) []collective.Option {
	return []collective.Option{
		collective.WithTimeout(f.timeout),
		collective.WithCompression(f.compression),
		collective.WithLogger(log),
	}
}

// workerArgs forwards the settings a spawned worker must share with the
// coordinator.
func (f *trialFlags) workerArgs() []string {
	return []string{
		"--kernel", f.kernel,
		fmt.Sprintf("--local-workers=%d", f.workers),
		"--timeout", f.timeout.String(),
		fmt.Sprintf("--compression=%t", f.compression),
	}
}

func (f *trialFlags) validate() error {
	if f.n < 1 {
		return fmt.Errorf("--n: %d: %w", f.n, engine.ErrInvalidDimension)
	}
	if f.procs < 1 {
		return fmt.Errorf("--procs: %d: %w", f.procs, engine.ErrInvalidDimension)
	}
	if f.timeout <= 0 {
		return errors.New("--timeout must be positive")
	}

	return nil
}
