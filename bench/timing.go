// SPDX-License-Identifier: MIT

package bench

import (
	"fmt"
	"time"

	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/engine"
	"github.com/katalvlaran/distmm/matrix"
)

// Tolerances for non-exact agreement (numpy.allclose defaults).
const (
	verifyRTol = 1e-5
	verifyATol = 1e-8
)

// Sequential is the single-process baseline: it computes a·b with k and
// returns the product with its elapsed wall-clock time.
func Sequential(a, b *matrix.Dense, k engine.Kernel) (*matrix.Dense, time.Duration, error) {
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, 0, fmt.Errorf("bench: Sequential: %w", err)
	}
	if k == nil {
		k = engine.NaiveKernel{}
	}
	c, err := matrix.NewDense(a.Rows(), b.Cols())
	if err != nil {
		return nil, 0, fmt.Errorf("bench: Sequential: %w", err)
	}

	start := time.Now()
	err = k.MulRows(c.RawData(), a.RawData(), a.Rows(), a.Cols(), b.RawData(), b.Cols())
	elapsed := time.Since(start)
	if err != nil {
		return nil, 0, fmt.Errorf("bench: Sequential(%s): %w", k.Name(), err)
	}

	return c, elapsed, nil
}

// RunTrial runs one n×n trial on this participant. Every rank of tr must call
// it with the same n. The coordinator returns the record; workers return nil.
func RunTrial(tr collective.Transport, n int, opts ...Option) (*TimingRecord, error) {
	o := resolve(opts)
	log := o.Logger.With("n", n, "p", tr.Size(), "rank", tr.Rank())
	root := tr.Rank() == collective.Root

	var (
		a, b, cSeq *matrix.Dense
		seq        time.Duration
		err        error
	)
	if root {
		if a, b, err = matrix.RandomPair(n, n, n, o.Seed); err != nil {
			return nil, fmt.Errorf("bench: RunTrial: %w", err)
		}
		if cSeq, seq, err = Sequential(a, b, o.Kernel); err != nil {
			return nil, err
		}
		log.Debug("sequential done", "elapsed", seq)
	}

	if err = tr.Barrier(); err != nil {
		return nil, fmt.Errorf("bench: RunTrial: pre-timing barrier: %w", err)
	}
	start := time.Now()
	res, err := engine.Multiply(tr, n, a, b, engine.WithKernel(o.Kernel), engine.WithLogger(o.Logger))
	if err != nil {
		return nil, err
	}
	if err = tr.Barrier(); err != nil {
		return nil, fmt.Errorf("bench: RunTrial: post-timing barrier: %w", err)
	}
	dist := time.Since(start)

	if !root {
		return nil, nil
	}

	exact := false
	if o.Verify {
		if exact, err = verify(res.C, cSeq); err != nil {
			return nil, err
		}
	}
	rec, err := NewTimingRecord(n, tr.Size(), seq, dist)
	if err != nil {
		return nil, err
	}
	rec.Exact = exact
	log.Info("trial done",
		"sequential", seq, "distributed", dist,
		"speedup", rec.Speedup, "efficiency", rec.Efficiency, "exact", exact)
	if rec.Superlinear {
		log.Warn("superlinear efficiency, likely a cache artifact", "efficiency", rec.Efficiency)
	}

	return &rec, nil
}

// verify compares the distributed product with the baseline: bit-identical
// first, then within tolerance.
func verify(got, want *matrix.Dense) (exact bool, err error) {
	if got.Equal(want) {
		return true, nil
	}
	ok, err := matrix.AllClose(got, want, verifyRTol, verifyATol)
	if err != nil {
		return false, fmt.Errorf("%w: %w", ErrVerification, err)
	}
	if !ok {
		diff, _ := matrix.MaxAbsDiff(got, want)

		return false, fmt.Errorf("%w: max |diff| = %g", ErrVerification, diff)
	}

	return false, nil
}
