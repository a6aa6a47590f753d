// SPDX-License-Identifier: MIT

package wsnet_test

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/collective/wsnet"
	"github.com/katalvlaran/distmm/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// group starts a coordinator on a loopback port and dials size-1 workers.
// Transports are returned indexed by rank.
func group(t *testing.T, size int, opts ...collective.Option) []collective.Transport {
	t.Helper()
	root, err := wsnet.Listen("127.0.0.1:0", size, opts...)
	require.NoError(t, err)

	out := make([]collective.Transport, size)
	out[0] = root
	errs := make([]error, size)
	var wg sync.WaitGroup
	for r := 1; r < size; r++ {
		wg.Add(1)
		go func(r int) {
			defer wg.Done()
			p, err := wsnet.Dial(root.URL(), r, size, opts...)
			errs[r] = err
			if err == nil {
				out[r] = p
			}
		}(r)
	}
	wg.Wait()
	require.NoError(t, errors.Join(errs...))
	require.NoError(t, root.Wait())

	return out
}

func runAll(trs []collective.Transport, fn func(tr collective.Transport) error) []error {
	errs := make([]error, len(trs))
	var wg sync.WaitGroup
	for i, tr := range trs {
		wg.Add(1)
		go func(i int, tr collective.Transport) {
			defer wg.Done()
			defer tr.Close()
			errs[i] = fn(tr)
		}(i, tr)
	}
	wg.Wait()

	return errs
}

func TestWS_FullRound(t *testing.T) {
	for _, compress := range []bool{false, true} {
		const size = 3
		trs := group(t, size, collective.WithTimeout(10*time.Second), collective.WithCompression(compress))

		a, err := matrix.NewSequence(5, 2)
		require.NoError(t, err)
		b, err := matrix.NewIdentity(2)
		require.NoError(t, err)
		blocks := make([]matrix.RowBlock, size)
		for r, rng := range [][2]int{{0, 2}, {2, 2}, {4, 1}} {
			blocks[r], err = a.RowBlock(rng[0], rng[1])
			require.NoError(t, err)
		}

		var gathered []matrix.RowBlock
		errs := runAll(trs, func(tr collective.Transport) error {
			var in []matrix.RowBlock
			var bm *matrix.Dense
			if tr.Rank() == collective.Root {
				in, bm = blocks, b
			}
			if err := tr.Barrier(); err != nil {
				return err
			}
			blk, err := tr.Scatter(in)
			if err != nil {
				return err
			}
			own, err := tr.Broadcast(bm)
			if err != nil {
				return err
			}
			if !own.Equal(b) {
				return errors.New("broadcast mismatch")
			}
			parts, err := tr.Gather(blk)
			if err != nil {
				return err
			}
			if tr.Rank() == collective.Root {
				gathered = parts
			}

			return tr.Barrier()
		})
		require.NoError(t, errors.Join(errs...), "compress=%v", compress)
		assert.Equal(t, blocks, gathered, "compress=%v", compress)
	}
}

func TestWS_GatherCrash(t *testing.T) {
	trs := group(t, 3, collective.WithTimeout(10*time.Second), collective.WithFault(2, collective.PhaseGather))
	part, err := matrix.NewSequence(1, 2)
	require.NoError(t, err)
	blk, err := part.RowBlock(0, 1)
	require.NoError(t, err)

	errs := runAll(trs, func(tr collective.Transport) error {
		_, err := tr.Gather(blk)

		return err
	})
	for r := range errs {
		assert.ErrorIs(t, errs[r], collective.ErrGather, "rank %d", r)
	}
	assert.ErrorIs(t, errs[2], collective.ErrInjected)
}

func TestWS_RejectsBadRank(t *testing.T) {
	_, err := wsnet.Dial("ws://127.0.0.1:1/distmm", 0, 2)
	require.ErrorIs(t, err, collective.ErrProtocol)
	_, err = wsnet.Dial("ws://127.0.0.1:1/distmm", 2, 2)
	require.ErrorIs(t, err, collective.ErrProtocol)
}

func TestWS_DuplicateRankRejected(t *testing.T) {
	root, err := wsnet.Listen("127.0.0.1:0", 3, collective.WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer root.Close()

	p, err := wsnet.Dial(root.URL(), 1, 3, collective.WithTimeout(2*time.Second))
	require.NoError(t, err)
	defer p.Close()

	_, err = wsnet.Dial(root.URL(), 1, 3, collective.WithTimeout(2*time.Second))
	require.ErrorIs(t, err, collective.ErrDistribution)
}

func TestWS_WaitTimeout(t *testing.T) {
	root, err := wsnet.Listen("127.0.0.1:0", 2, collective.WithTimeout(50*time.Millisecond))
	require.NoError(t, err)
	defer root.Close()

	err = root.Wait()
	require.ErrorIs(t, err, collective.ErrDistribution)
	require.ErrorIs(t, err, collective.ErrTimeout)

	_, err = root.Scatter(nil)
	require.ErrorIs(t, err, collective.ErrProtocol)
}

func TestWS_SingleParticipant(t *testing.T) {
	root, err := wsnet.Listen("127.0.0.1:0", 1)
	require.NoError(t, err)
	defer root.Close()
	require.NoError(t, root.Wait())

	m, err := matrix.NewSequence(2, 2)
	require.NoError(t, err)
	blk, err := m.RowBlock(0, 2)
	require.NoError(t, err)
	got, err := root.Scatter([]matrix.RowBlock{blk})
	require.NoError(t, err)
	assert.Equal(t, blk, got)
	parts, err := root.Gather(got)
	require.NoError(t, err)
	assert.Len(t, parts, 1)
	require.NoError(t, root.Barrier())
}
