// SPDX-License-Identifier: MIT

package bench

import (
	"errors"
	"fmt"
	"time"

	"github.com/katalvlaran/distmm/engine"
)

// TimingRecord is the measurement of one successful trial.
type TimingRecord struct {
	MatrixSize      int
	ProcessCount    int
	SequentialTime  time.Duration
	DistributedTime time.Duration
	Speedup         float64 // SequentialTime / DistributedTime
	Efficiency      float64 // Speedup / ProcessCount
	// Superlinear marks Efficiency > 1, a measurement artifact worth flagging.
	Superlinear bool
	// Exact reports bit-identical agreement with the baseline (false when
	// verification was skipped or only tolerance agreement held).
	Exact bool
}

// NewTimingRecord derives speedup and efficiency. Both durations must be
// positive; n and p must be >= 1.
func NewTimingRecord(n, p int, seq, dist time.Duration) (TimingRecord, error) {
	if n < 1 || p < 1 {
		return TimingRecord{}, fmt.Errorf("%w: n=%d p=%d", ErrInvalidTrial, n, p)
	}
	if seq <= 0 || dist <= 0 {
		return TimingRecord{}, fmt.Errorf("%w: sequential=%s distributed=%s", ErrZeroDuration, seq, dist)
	}
	speedup := seq.Seconds() / dist.Seconds()
	eff := speedup / float64(p)

	return TimingRecord{
		MatrixSize:      n,
		ProcessCount:    p,
		SequentialTime:  seq,
		DistributedTime: dist,
		Speedup:         speedup,
		Efficiency:      eff,
		Superlinear:     eff > 1,
	}, nil
}

// Failure reports a trial that produced no record.
type Failure struct {
	MatrixSize   int
	ProcessCount int
	Kind         string
	Err          error
}

// NewFailure classifies err for the (n, p) trial.
func NewFailure(n, p int, err error) Failure {
	return Failure{MatrixSize: n, ProcessCount: p, Kind: KindLabel(err), Err: err}
}

// Error implements error.
func (f Failure) Error() string {
	return fmt.Sprintf("bench: n=%d p=%d: %s: %v", f.MatrixSize, f.ProcessCount, f.Kind, f.Err)
}

// Unwrap exposes the underlying cause.
func (f Failure) Unwrap() error { return f.Err }

// KindLabel is the report label of err: the engine taxonomy plus the
// benchmark's own verification and timing failures.
func KindLabel(err error) string {
	switch {
	case errors.Is(err, ErrVerification):
		return "VerificationError"
	case errors.Is(err, ErrZeroDuration):
		return "ZeroDuration"
	default:
		return engine.KindOf(err).String()
	}
}
