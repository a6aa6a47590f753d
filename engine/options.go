// SPDX-License-Identifier: MIT

package engine

import (
	"io"
	"log/slog"
)

const (
	panicKernelNil = "engine: WithKernel: kernel must be non-nil"
	panicLoggerNil = "engine: WithLogger: logger must be non-nil"
)

// Option configures a trial.
type Option func(*Options)

// Options holds the effective trial configuration.
type Options struct {
	Kernel Kernel         // local multiply kernel; default NaiveKernel
	Logger *slog.Logger   // diagnostics; default discards
	Hook   TransitionHook // state machine observer; default none
}

// DefaultOptions returns the baseline configuration.
func DefaultOptions() Options {
	return Options{
		Kernel: NaiveKernel{},
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithKernel selects the local multiply kernel.
func WithKernel(k Kernel) Option {
	if k == nil {
		panic(panicKernelNil)
	}

	return func(o *Options) { o.Kernel = k }
}

// WithLogger routes trial diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.Logger = l }
}

// WithTransitionHook observes every state transition (nil disables).
func WithTransitionHook(h TransitionHook) Option {
	return func(o *Options) { o.Hook = h }
}
