// SPDX-License-Identifier: MIT

package bench

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/config"
	"golang.org/x/sync/errgroup"
)

// Runner executes one (n, p) trial across p participants and returns the
// coordinator's record.
type Runner interface {
	Run(n, p int) (*TimingRecord, error)
}

// RunnerFunc adapts a function to Runner.
type RunnerFunc func(n, p int) (*TimingRecord, error)

// Run implements Runner.
func (f RunnerFunc) Run(n, p int) (*TimingRecord, error) { return f(n, p) }

// LocalRunner runs every participant as a goroutine of this process over an
// in-process collective group.
type LocalRunner struct {
	Timeout    time.Duration // per collective; 0 = collective.DefaultTimeout
	Options    []Option
	Collective []collective.Option
}

// Run implements Runner. When several participants fail, the coordinator's
// error is reported: worker errors are usually consequences of it.
func (r LocalRunner) Run(n, p int) (*TimingRecord, error) {
	if n < 1 || p < 1 {
		return nil, fmt.Errorf("%w: n=%d p=%d", ErrInvalidTrial, n, p)
	}
	copts := append([]collective.Option(nil), r.Collective...)
	if r.Timeout > 0 {
		copts = append(copts, collective.WithTimeout(r.Timeout))
	}
	trs, err := collective.NewLocalGroup(p, copts...)
	if err != nil {
		return nil, err
	}

	var (
		g    errgroup.Group
		rec  *TimingRecord
		errs = make([]error, p)
	)
	for rank, tr := range trs {
		rank, tr := rank, tr
		g.Go(func() error {
			defer tr.Close()
			out, err := RunTrial(tr, n, r.Options...)
			if rank == collective.Root {
				rec = out
			}
			errs[rank] = err

			return err
		})
	}
	if err = g.Wait(); err == nil {
		return rec, nil
	}
	if errs[collective.Root] != nil {
		return nil, errs[collective.Root]
	}

	return nil, errors.Join(errs...)
}

// Result is the outcome of a sweep.
type Result struct {
	Host     Host
	Started  time.Time
	Records  []TimingRecord
	Failures []Failure
}

// Sweep runs every (size, processes) pair of cfg through runner in sweep
// order. A failed trial is logged, recorded as a Failure and skipped; the
// sweep always continues. onRecord, when non-nil, observes each record as it
// is produced (for incremental CSV output).
func Sweep(cfg *config.Sweep, runner Runner, log *slog.Logger, onRecord func(TimingRecord) error) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = DefaultOptions().Logger
	}

	res := &Result{Host: DetectHost(), Started: time.Now()}
	for _, pair := range cfg.Pairs() {
		n, p := pair[0], pair[1]
		log.Info("trial start", "n", n, "p", p)
		rec, err := runner.Run(n, p)
		if err == nil && rec == nil {
			err = fmt.Errorf("%w: runner returned no record", ErrInvalidTrial)
		}
		if err != nil {
			f := NewFailure(n, p, err)
			log.Error("trial failed", "n", n, "p", p, "kind", f.Kind, "err", err)
			res.Failures = append(res.Failures, f)

			continue
		}
		res.Records = append(res.Records, *rec)
		if onRecord != nil {
			if err = onRecord(*rec); err != nil {
				return res, fmt.Errorf("bench: Sweep: record sink: %w", err)
			}
		}
	}
	log.Info("sweep done", "records", len(res.Records), "failures", len(res.Failures),
		"elapsed", time.Since(res.Started).Round(time.Millisecond))

	return res, nil
}
