// SPDX-License-Identifier: MIT

package collective

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/katalvlaran/distmm/matrix"
)

// localMsg travels from a worker to the root over the shared gather channel.
// departed marks a Close notification rather than a partial result.
type localMsg struct {
	rank     int
	part     matrix.RowBlock
	departed bool
}

// localGroup is the shared state of one in-process group.
type localGroup struct {
	size int
	opts Options

	scatter []chan matrix.RowBlock // root -> rank, cap 1
	bcast   []chan *matrix.Dense   // root -> rank, cap 1
	ack     []chan struct{}        // root -> rank, cap 1
	gather  chan localMsg          // ranks -> root

	left      []chan struct{} // closed when rank closes
	leftOnce  []sync.Once
	anyLeft   chan struct{} // closed when any rank closes
	anyOnce   sync.Once
	barrierMu sync.Mutex
	arrived   int
	release   chan struct{}
}

// localTransport is one participant's handle on a localGroup.
type localTransport struct {
	g      *localGroup
	rank   int
	closed atomic.Bool
}

// NewLocalGroup creates size connected in-process transports, indexed by rank.
// Each is meant to be driven by its own goroutine. Every exchange copies data,
// so participants never share backing arrays.
func NewLocalGroup(size int, opts ...Option) ([]Transport, error) {
	if size <= 0 {
		return nil, fmt.Errorf("collective: NewLocalGroup: size %d: %w", size, ErrProtocol)
	}

	g := &localGroup{
		size:     size,
		opts:     Resolve(opts...),
		scatter:  make([]chan matrix.RowBlock, size),
		bcast:    make([]chan *matrix.Dense, size),
		ack:      make([]chan struct{}, size),
		gather:   make(chan localMsg, 2*size),
		left:     make([]chan struct{}, size),
		leftOnce: make([]sync.Once, size),
		anyLeft:  make(chan struct{}),
		release:  make(chan struct{}),
	}
	out := make([]Transport, size)
	for r := 0; r < size; r++ {
		g.scatter[r] = make(chan matrix.RowBlock, 1)
		g.bcast[r] = make(chan *matrix.Dense, 1)
		g.ack[r] = make(chan struct{}, 1)
		g.left[r] = make(chan struct{})
		out[r] = &localTransport{g: g, rank: r}
	}

	return out, nil
}

// Rank implements Transport.
func (t *localTransport) Rank() int { return t.rank }

// Size implements Transport.
func (t *localTransport) Size() int { return t.g.size }

// Scatter implements Transport.
func (t *localTransport) Scatter(blocks []matrix.RowBlock) (matrix.RowBlock, error) {
	if t.closed.Load() {
		return matrix.RowBlock{}, fmt.Errorf("%w: rank %d: %w", ErrDistribution, t.rank, ErrClosed)
	}
	g := t.g
	if t.rank != Root {
		b, err := recvPrio(g.scatter[t.rank], g.left[Root], g.opts.timeout)
		if err != nil {
			return matrix.RowBlock{}, fmt.Errorf("%w: rank %d awaiting block: %w", ErrDistribution, t.rank, err)
		}

		return b, nil
	}

	if len(blocks) != g.size {
		return matrix.RowBlock{}, fmt.Errorf("%w: %d blocks for %d ranks: %w", ErrDistribution, len(blocks), g.size, ErrProtocol)
	}
	for r := 1; r < g.size; r++ {
		if err := t.deliver(r, PhaseScatter); err != nil {
			return matrix.RowBlock{}, err
		}
		if err := send(g.scatter[r], blocks[r].Clone(), g.left[r], g.opts.timeout); err != nil {
			return matrix.RowBlock{}, fmt.Errorf("%w: to rank %d: %w", ErrDistribution, r, err)
		}
	}

	return blocks[Root].Clone(), nil
}

// Broadcast implements Transport.
func (t *localTransport) Broadcast(m *matrix.Dense) (*matrix.Dense, error) {
	if t.closed.Load() {
		return nil, fmt.Errorf("%w: rank %d: %w", ErrDistribution, t.rank, ErrClosed)
	}
	g := t.g
	if t.rank != Root {
		b, err := recvPrio(g.bcast[t.rank], g.left[Root], g.opts.timeout)
		if err != nil {
			return nil, fmt.Errorf("%w: rank %d awaiting broadcast: %w", ErrDistribution, t.rank, err)
		}

		return b, nil
	}

	if m == nil {
		return nil, fmt.Errorf("%w: nil broadcast matrix: %w", ErrDistribution, ErrProtocol)
	}
	for r := 1; r < g.size; r++ {
		if err := t.deliver(r, PhaseBroadcast); err != nil {
			return nil, err
		}
		if err := send(g.bcast[r], m.CloneDense(), g.left[r], g.opts.timeout); err != nil {
			return nil, fmt.Errorf("%w: to rank %d: %w", ErrDistribution, r, err)
		}
	}

	return m, nil
}

// deliver checks root-side delivery preconditions for rank r.
func (t *localTransport) deliver(r int, phase Phase) error {
	if t.g.opts.FaultAt(r, phase) {
		t.g.opts.logger.Debug("injected delivery fault", "rank", r, "phase", phase)

		return fmt.Errorf("%w: %s to rank %d: %w", ErrDistribution, phase, r, ErrInjected)
	}

	return nil
}

// Gather implements Transport.
func (t *localTransport) Gather(part matrix.RowBlock) ([]matrix.RowBlock, error) {
	if t.closed.Load() {
		return nil, fmt.Errorf("%w: rank %d: %w", ErrGather, t.rank, ErrClosed)
	}
	g := t.g
	if t.rank != Root {
		if g.opts.FaultAt(t.rank, PhaseGather) {
			g.opts.logger.Debug("injected gather fault", "rank", t.rank)

			return nil, fmt.Errorf("%w: rank %d: %w", ErrGather, t.rank, ErrInjected)
		}
		msg := localMsg{rank: t.rank, part: part.Clone()}
		if err := send(g.gather, msg, g.left[Root], g.opts.timeout); err != nil {
			return nil, fmt.Errorf("%w: rank %d submitting: %w", ErrGather, t.rank, err)
		}
		if _, err := recvPrio(g.ack[t.rank], g.left[Root], g.opts.timeout); err != nil {
			return nil, fmt.Errorf("%w: rank %d awaiting ack: %w", ErrGather, t.rank, err)
		}

		return nil, nil
	}

	parts := make([]matrix.RowBlock, g.size)
	have := make([]bool, g.size)
	parts[Root], have[Root] = part, true
	pending := g.size - 1

	timer := time.NewTimer(g.opts.timeout)
	defer timer.Stop()
	for pending > 0 {
		select {
		case msg := <-g.gather:
			switch {
			case msg.departed && have[msg.rank]:
				continue
			case msg.departed:
				return nil, fmt.Errorf("%w: rank %d left before submitting: %w", ErrGather, msg.rank, ErrClosed)
			case have[msg.rank]:
				return nil, fmt.Errorf("%w: duplicate part from rank %d: %w", ErrGather, msg.rank, ErrProtocol)
			}
			parts[msg.rank], have[msg.rank] = msg.part, true
			pending--
		case <-timer.C:
			return nil, fmt.Errorf("%w: %d of %d parts missing: %w", ErrGather, pending, g.size-1, ErrTimeout)
		}
	}
	for r := 1; r < g.size; r++ {
		select {
		case g.ack[r] <- struct{}{}:
		default:
		}
	}

	return parts, nil
}

// Barrier implements Transport. The barrier is cyclic: each release opens a
// new generation.
func (t *localTransport) Barrier() error {
	if t.closed.Load() {
		return fmt.Errorf("%w: rank %d: %w", ErrBarrier, t.rank, ErrClosed)
	}
	g := t.g
	if g.opts.FaultAt(t.rank, PhaseBarrier) {
		return fmt.Errorf("%w: rank %d: %w", ErrBarrier, t.rank, ErrInjected)
	}

	g.barrierMu.Lock()
	gen := g.release
	g.arrived++
	if g.arrived == g.size {
		g.arrived = 0
		g.release = make(chan struct{})
		close(gen)
	}
	g.barrierMu.Unlock()

	if _, err := recvPrio(gen, g.anyLeft, g.opts.timeout); err != nil {
		return fmt.Errorf("%w: rank %d: %w", ErrBarrier, t.rank, err)
	}

	return nil
}

// Close implements Transport. Idempotent.
func (t *localTransport) Close() error {
	if !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	g := t.g
	g.leftOnce[t.rank].Do(func() { close(g.left[t.rank]) })
	g.anyOnce.Do(func() { close(g.anyLeft) })
	if t.rank != Root {
		select {
		case g.gather <- localMsg{rank: t.rank, departed: true}:
		default:
		}
	}

	return nil
}

// recvPrio receives from ch, failing when gone is closed or after d. A value
// already available on ch wins over a concurrent departure.
func recvPrio[T any](ch <-chan T, gone <-chan struct{}, d time.Duration) (T, error) {
	var zero T
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v, nil
	case <-gone:
		select {
		case v := <-ch:
			return v, nil
		default:
			return zero, ErrClosed
		}
	case <-timer.C:
		return zero, ErrTimeout
	}
}

// send delivers v on ch, failing when gone is closed or after d.
func send[T any](ch chan<- T, v T, gone <-chan struct{}, d time.Duration) error {
	select {
	case ch <- v:
		return nil
	default:
	}
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case ch <- v:
		return nil
	case <-gone:
		return ErrClosed
	case <-timer.C:
		return ErrTimeout
	}
}
