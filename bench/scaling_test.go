// SPDX-License-Identifier: MIT

package bench_test

import (
	"testing"
	"time"

	"github.com/katalvlaran/distmm/bench"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStrongScaling(t *testing.T) {
	recs := []bench.TimingRecord{
		mustRecord(t, 1000, 4, 8*time.Second, 4*time.Second),
		mustRecord(t, 500, 2, 2*time.Second, time.Second),
		mustRecord(t, 1000, 1, 8*time.Second, 8*time.Second),
		mustRecord(t, 1000, 2, 8*time.Second, 5*time.Second),
	}
	curves := bench.StrongScaling(recs)
	require.Len(t, curves, 2)
	assert.Equal(t, 500, curves[0].MatrixSize)
	assert.Equal(t, 1000, curves[1].MatrixSize)

	pts := curves[1].Points
	require.Len(t, pts, 3)
	assert.Equal(t, []int{1, 2, 4}, []int{pts[0].Processes, pts[1].Processes, pts[2].Processes})
	assert.InDelta(t, 2.0, pts[2].Speedup, 1e-12)
	assert.InDelta(t, 4.0, pts[2].Ideal, 1e-12)

	assert.Empty(t, bench.StrongScaling(nil))
}

func TestBest(t *testing.T) {
	_, ok := bench.Best(nil)
	assert.False(t, ok)

	best, ok := bench.Best([]bench.TimingRecord{
		mustRecord(t, 10, 2, 2*time.Second, 2*time.Second),
		mustRecord(t, 10, 4, 6*time.Second, 2*time.Second),
		mustRecord(t, 10, 8, 4*time.Second, 2*time.Second),
	})
	require.True(t, ok)
	assert.Equal(t, 4, best.ProcessCount)
}
