// SPDX-License-Identifier: MIT

package bench

import (
	"io"
	"log/slog"

	"github.com/katalvlaran/distmm/engine"
)

// DefaultSeed seeds input generation when WithSeed is not given.
const DefaultSeed int64 = 42

const panicKernelNil = "bench: WithKernel: kernel must be non-nil"

// Option configures RunTrial and the runners.
type Option func(*Options)

// Options holds the effective trial configuration.
type Options struct {
	Seed   int64
	Kernel engine.Kernel
	Verify bool
	Logger *slog.Logger
}

// DefaultOptions returns seed 42, the naive kernel, verification on and a
// discarding logger.
func DefaultOptions() Options {
	return Options{
		Seed:   DefaultSeed,
		Kernel: engine.NaiveKernel{},
		Verify: true,
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSeed sets the seed A and B are generated from.
func WithSeed(seed int64) Option { return func(o *Options) { o.Seed = seed } }

// WithKernel selects the kernel for both the baseline and the local multiply.
func WithKernel(k engine.Kernel) Option {
	if k == nil {
		panic(panicKernelNil)
	}

	return func(o *Options) { o.Kernel = k }
}

// WithVerify toggles comparing the distributed result against the baseline.
func WithVerify(on bool) Option { return func(o *Options) { o.Verify = on } }

// WithLogger routes diagnostics to l (nil keeps the default).
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func resolve(opts []Option) Options {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}

	return o
}
