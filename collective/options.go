// SPDX-License-Identifier: MIT

// Package collective: functional configuration shared by every transport.
//
// Design goals:
//   - Deterministic behavior: no global state.
//   - Safe by construction: panic only on nonsensical values (programmer error).
package collective

import (
	"io"
	"log/slog"
	"time"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTimeout bounds every blocking collective. It mirrors the
	// five-minute per-trial ceiling of the benchmark sweep.
	DefaultTimeout = 5 * time.Minute

	// DefaultCompression toggles snappy compression of wire payloads.
	DefaultCompression = false
)

const (
	panicTimeoutInvalid = "collective: WithTimeout: timeout must be > 0"
	panicFaultInvalid   = "collective: WithFault: rank must be >= 0"
	panicLoggerNil      = "collective: WithLogger: logger must be non-nil"
)

// Option mutates Options.
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
// Fields are unexported; transports read them through accessors.
type Options struct {
	timeout     time.Duration
	compression bool
	faults      []Fault
	logger      *slog.Logger
}

// WithTimeout sets the deadline applied to each blocking collective.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic(panicTimeoutInvalid)
	}

	return func(o *Options) { o.timeout = d }
}

// WithCompression enables snappy compression of wire payloads (wsnet only).
func WithCompression(on bool) Option {
	return func(o *Options) { o.compression = on }
}

// WithFault injects a failure at (rank, phase). Repeatable.
func WithFault(rank int, phase Phase) Option {
	if rank < 0 {
		panic(panicFaultInvalid)
	}

	return func(o *Options) { o.faults = append(o.faults, Fault{Rank: rank, Phase: phase}) }
}

// WithLogger routes transport diagnostics to l.
func WithLogger(l *slog.Logger) Option {
	if l == nil {
		panic(panicLoggerNil)
	}

	return func(o *Options) { o.logger = l }
}

// Resolve applies opts over the defaults.
func Resolve(opts ...Option) Options {
	o := Options{
		timeout:     DefaultTimeout,
		compression: DefaultCompression,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, fn := range opts {
		fn(&o)
	}

	return o
}

// Timeout returns the per-collective deadline.
func (o Options) Timeout() time.Duration { return o.timeout }

// Compression reports whether payload compression is enabled.
func (o Options) Compression() bool { return o.compression }

// Logger returns the diagnostics logger (never nil after Resolve).
func (o Options) Logger() *slog.Logger { return o.logger }

// FaultAt reports whether a fault was injected for (rank, phase).
func (o Options) FaultAt(rank int, phase Phase) bool {
	for _, f := range o.faults {
		if f.Rank == rank && f.Phase == phase {
			return true
		}
	}

	return false
}
