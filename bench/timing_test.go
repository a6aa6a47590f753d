// SPDX-License-Identifier: MIT

package bench_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/engine"
	"github.com/katalvlaran/distmm/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequential(t *testing.T) {
	a, err := matrix.NewIdentity(3)
	require.NoError(t, err)
	b, err := matrix.NewSequence(3, 3)
	require.NoError(t, err)

	c, elapsed, err := bench.Sequential(a, b, nil)
	require.NoError(t, err)
	assert.True(t, c.Equal(b))
	assert.GreaterOrEqual(t, elapsed, time.Duration(0))

	bad, err := matrix.NewSequence(2, 2)
	require.NoError(t, err)
	_, _, err = bench.Sequential(a, bad, nil)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

func TestLocalRunner_Trials(t *testing.T) {
	for _, tc := range []struct{ n, p int }{{1, 1}, {16, 2}, {17, 4}, {3, 8}} {
		r := bench.LocalRunner{Timeout: 10 * time.Second, Options: []bench.Option{bench.WithSeed(9)}}
		rec, err := r.Run(tc.n, tc.p)
		require.NoError(t, err, "%+v", tc)
		require.NotNil(t, rec)
		assert.Equal(t, tc.n, rec.MatrixSize)
		assert.Equal(t, tc.p, rec.ProcessCount)
		assert.True(t, rec.Exact, "%+v", tc)
		assert.Greater(t, rec.SequentialTime, time.Duration(0))
		assert.Greater(t, rec.DistributedTime, time.Duration(0))
		assert.InDelta(t, rec.Speedup/float64(tc.p), rec.Efficiency, 1e-12)
	}
}

func TestLocalRunner_KernelsVerify(t *testing.T) {
	for _, k := range []engine.Kernel{engine.ParallelKernel{Workers: 2}, engine.GonumKernel{}} {
		r := bench.LocalRunner{Options: []bench.Option{bench.WithKernel(k)}}
		rec, err := r.Run(24, 3)
		require.NoError(t, err, k.Name())
		require.NotNil(t, rec)
	}
}

func TestLocalRunner_ReportsCoordinatorError(t *testing.T) {
	r := bench.LocalRunner{
		Timeout:    10 * time.Second,
		Collective: []collective.Option{collective.WithFault(1, collective.PhaseGather)},
	}
	_, err := r.Run(8, 2)
	require.ErrorIs(t, err, collective.ErrGather)
	assert.Equal(t, "GatherError", bench.KindLabel(err))

	_, err = r.Run(0, 2)
	require.ErrorIs(t, err, bench.ErrInvalidTrial)
}

// TestRunTrial_WorkersReturnNil drives RunTrial on a group directly.
func TestRunTrial_WorkersReturnNil(t *testing.T) {
	trs, err := collective.NewLocalGroup(2, collective.WithTimeout(10*time.Second))
	require.NoError(t, err)
	done := make(chan error, 1)
	go func() {
		defer trs[1].Close()
		rec, err := bench.RunTrial(trs[1], 5)
		if err == nil && rec != nil {
			err = assert.AnError
		}
		done <- err
	}()
	rec, err := bench.RunTrial(trs[0], 5, bench.WithVerify(false))
	trs[0].Close()
	require.NoError(t, err)
	require.NoError(t, <-done)
	assert.False(t, rec.Exact)
}
