// SPDX-License-Identifier: MIT

package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/katalvlaran/distmm/engine"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Transport names.
const (
	TransportLocal = "local"
	TransportWS    = "ws"
)

// Defaults of the benchmark sweep.
const (
	DefaultSeed      int64 = 42
	DefaultKernel          = "naive"
	DefaultTimeout         = 300 * time.Second
	DefaultTransport       = TransportLocal
	DefaultOutput          = "matrix_multiply_performance_results.csv"
	DefaultListen          = "127.0.0.1:0"
)

// Duration is a time.Duration read from and written as text ("300s", "5m").
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	v, err := time.ParseDuration(string(b))
	if err != nil {
		return fmt.Errorf("%w: duration %q: %w", ErrInvalid, b, err)
	}
	d.Duration = v

	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) { return []byte(d.String()), nil }

// Sweep configures a benchmark sweep.
type Sweep struct {
	Sizes        []int    `yaml:"sizes" toml:"sizes"`
	Processes    []int    `yaml:"processes" toml:"processes"`
	Seed         int64    `yaml:"seed" toml:"seed"`
	Kernel       string   `yaml:"kernel" toml:"kernel"`
	LocalWorkers int      `yaml:"local_workers" toml:"local_workers"`
	Timeout      Duration `yaml:"timeout" toml:"timeout"`
	Transport    string   `yaml:"transport" toml:"transport"`
	Listen       string   `yaml:"listen" toml:"listen"`
	WorkerCmd    string   `yaml:"worker_command" toml:"worker_command"`
	Output       string   `yaml:"output" toml:"output"`
	Verify       bool     `yaml:"verify" toml:"verify"`
	Compression  bool     `yaml:"compression" toml:"compression"`
}

// Default returns the reference sweep: sizes 500, 1000, 1001, 2000
// and 4000 (1001 exercises an uneven split) on 1, 2, 4 and 8 processes with a
// five-minute per-trial timeout.
func Default() *Sweep {
	return &Sweep{
		Sizes:     []int{500, 1000, 1001, 2000, 4000},
		Processes: []int{1, 2, 4, 8},
		Seed:      DefaultSeed,
		Kernel:    DefaultKernel,
		Timeout:   Duration{DefaultTimeout},
		Transport: DefaultTransport,
		Listen:    DefaultListen,
		Output:    DefaultOutput,
		Verify:    true,
	}
}

// Load reads path over Default and validates the result.
func Load(path string) (*Sweep, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: Load: %w", err)
	}
	cfg, err := Parse(data, filepath.Ext(path))
	if err != nil {
		return nil, fmt.Errorf("config: Load %s: %w", path, err)
	}

	return cfg, nil
}

// Parse decodes data in the format named by ext (".yaml", ".yml", ".toml")
// over Default and validates the result.
func Parse(data []byte, ext string) (*Sweep, error) {
	cfg := Default()
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalid, err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Encode writes cfg in the format named by ext.
func (s *Sweep) Encode(w io.Writer, ext string) error {
	switch strings.ToLower(ext) {
	case ".yaml", ".yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("config: Encode: %w", err)
		}

		return enc.Close()
	case ".toml":
		if err := toml.NewEncoder(w).Encode(s); err != nil {
			return fmt.Errorf("config: Encode: %w", err)
		}

		return nil
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, ext)
	}
}

// Validate checks every field against its domain.
func (s *Sweep) Validate() error {
	if len(s.Sizes) == 0 {
		return fmt.Errorf("%w: sizes: empty", ErrInvalid)
	}
	for _, n := range s.Sizes {
		if n < 1 {
			return fmt.Errorf("%w: sizes: %d < 1", ErrInvalid, n)
		}
	}
	if len(s.Processes) == 0 {
		return fmt.Errorf("%w: processes: empty", ErrInvalid)
	}
	for _, p := range s.Processes {
		if p < 1 {
			return fmt.Errorf("%w: processes: %d < 1", ErrInvalid, p)
		}
	}
	if _, err := engine.KernelByName(s.Kernel, s.LocalWorkers); err != nil {
		return fmt.Errorf("%w: kernel: %w", ErrInvalid, err)
	}
	if s.LocalWorkers < 0 {
		return fmt.Errorf("%w: local_workers: %d < 0", ErrInvalid, s.LocalWorkers)
	}
	if s.Timeout.Duration <= 0 {
		return fmt.Errorf("%w: timeout: %s", ErrInvalid, s.Timeout)
	}
	switch s.Transport {
	case TransportLocal:
	case TransportWS:
		if s.WorkerCmd == "" {
			return fmt.Errorf("%w: worker_command: required for transport %q", ErrInvalid, TransportWS)
		}
	default:
		return fmt.Errorf("%w: transport: %q", ErrInvalid, s.Transport)
	}

	return nil
}

// Pairs returns every (size, processes) pair in sweep order.
func (s *Sweep) Pairs() [][2]int {
	out := make([][2]int, 0, len(s.Sizes)*len(s.Processes))
	for _, n := range s.Sizes {
		for _, p := range s.Processes {
			out = append(out, [2]int{n, p})
		}
	}

	return out
}
