// SPDX-License-Identifier: MIT

package bench_test

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSweep_SkipsFailures: a failing pair is recorded and the sweep continues.
func TestSweep_SkipsFailures(t *testing.T) {
	cfg := config.Default()
	cfg.Sizes = []int{4, 5}
	cfg.Processes = []int{1, 2}

	var order [][2]int
	runner := bench.RunnerFunc(func(n, p int) (*bench.TimingRecord, error) {
		order = append(order, [2]int{n, p})
		if n == 5 && p == 2 {
			return nil, fmt.Errorf("%w: rank 1: %w", collective.ErrDistribution, collective.ErrTimeout)
		}
		rec, err := bench.NewTimingRecord(n, p, 2*time.Second, time.Second)

		return &rec, err
	})

	var sunk int
	res, err := bench.Sweep(cfg, runner, nil, func(bench.TimingRecord) error { sunk++; return nil })
	require.NoError(t, err)
	assert.Equal(t, [][2]int{{4, 1}, {4, 2}, {5, 1}, {5, 2}}, order)
	assert.Len(t, res.Records, 3)
	assert.Equal(t, 3, sunk)
	require.Len(t, res.Failures, 1)
	assert.Equal(t, "DistributionError", res.Failures[0].Kind)
	assert.Equal(t, 5, res.Failures[0].MatrixSize)
	assert.NotEmpty(t, res.Host.GOARCH)
}

func TestSweep_NilRecordIsFailure(t *testing.T) {
	cfg := config.Default()
	cfg.Sizes, cfg.Processes = []int{3}, []int{1}
	res, err := bench.Sweep(cfg, bench.RunnerFunc(func(int, int) (*bench.TimingRecord, error) { return nil, nil }), nil, nil)
	require.NoError(t, err)
	require.Len(t, res.Failures, 1)
	assert.Empty(t, res.Records)
}

func TestSweep_InvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Sizes = nil
	_, err := bench.Sweep(cfg, bench.LocalRunner{}, nil, nil)
	require.ErrorIs(t, err, config.ErrInvalid)
}

func TestSweep_SinkError(t *testing.T) {
	cfg := config.Default()
	cfg.Sizes, cfg.Processes = []int{3}, []int{1, 2}
	sinkErr := errors.New("disk full")
	res, err := bench.Sweep(cfg, bench.LocalRunner{Timeout: 10 * time.Second}, nil, func(bench.TimingRecord) error { return sinkErr })
	require.ErrorIs(t, err, sinkErr)
	assert.Len(t, res.Records, 1)
}

// TestSweep_LocalEndToEnd runs a small real sweep in-process, including P > N.
func TestSweep_LocalEndToEnd(t *testing.T) {
	cfg := config.Default()
	cfg.Sizes, cfg.Processes = []int{2, 9}, []int{1, 3}
	res, err := bench.Sweep(cfg, bench.LocalRunner{Timeout: 10 * time.Second}, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, res.Failures)
	require.Len(t, res.Records, 4)
	for _, r := range res.Records {
		assert.True(t, r.Exact, "%+v", r)
	}
}

func TestDetectHost(t *testing.T) {
	h := bench.DetectHost()
	assert.Positive(t, h.NumCPU)
	assert.Positive(t, h.GOMAXPROCS)
	assert.Contains(t, h.String(), h.GOARCH)
}
