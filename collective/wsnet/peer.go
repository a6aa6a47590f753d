// SPDX-License-Identifier: MIT

package wsnet

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/matrix"
)

// dialRetry is the pause between connection attempts while the coordinator
// is not yet listening.
const dialRetry = 100 * time.Millisecond

// Peer is a worker-side Transport connected to the coordinator.
type Peer struct {
	rank   int
	size   int
	opts   collective.Options
	conn   *websocket.Conn
	closed atomic.Bool
}

var _ collective.Transport = (*Peer)(nil)

// Dial connects worker rank of a size-participant group to the coordinator
// at url, retrying until the timeout expires, and performs the hello exchange.
func Dial(url string, rank, size int, opts ...collective.Option) (*Peer, error) {
	if rank <= collective.Root || rank >= size {
		return nil, fmt.Errorf("wsnet: Dial: rank %d of %d: %w", rank, size, collective.ErrProtocol)
	}
	o := collective.Resolve(opts...)
	d := websocket.Dialer{
		HandshakeTimeout: o.Timeout(),
		ReadBufferSize:   64 << 10,
		WriteBufferSize:  64 << 10,
	}

	deadline := time.Now().Add(o.Timeout())
	var (
		conn *websocket.Conn
		err  error
	)
	for {
		conn, _, err = d.Dial(url, nil)
		if err == nil {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: rank %d dialing %s: %w: %w",
				collective.ErrDistribution, rank, url, collective.ErrTimeout, err)
		}
		time.Sleep(dialRetry)
	}

	p := &Peer{rank: rank, size: size, opts: o, conn: conn}
	if err = writeFrame(conn, Frame{Kind: KindHello, Rank: rank, Size: size}, false, o.Timeout()); err != nil {
		closeConn(conn)

		return nil, fmt.Errorf("%w: rank %d hello: %w", collective.ErrDistribution, rank, err)
	}
	if _, err = readFrame(conn, KindHello, o.Timeout()); err != nil {
		closeConn(conn)

		return nil, fmt.Errorf("%w: rank %d rejected: %w", collective.ErrDistribution, rank, err)
	}
	o.Logger().Info("joined coordinator", "rank", rank, "url", url)

	return p, nil
}

// Rank implements collective.Transport.
func (p *Peer) Rank() int { return p.rank }

// Size implements collective.Transport.
func (p *Peer) Size() int { return p.size }

func (p *Peer) check(phase error) error {
	if p.closed.Load() {
		return fmt.Errorf("%w: rank %d: %w", phase, p.rank, collective.ErrClosed)
	}

	return nil
}

// Scatter implements collective.Transport; blocks is ignored.
func (p *Peer) Scatter(_ []matrix.RowBlock) (matrix.RowBlock, error) {
	if err := p.check(collective.ErrDistribution); err != nil {
		return matrix.RowBlock{}, err
	}
	f, err := readFrame(p.conn, KindScatter, p.opts.Timeout())
	if err != nil {
		return matrix.RowBlock{}, fmt.Errorf("%w: rank %d awaiting block: %w", collective.ErrDistribution, p.rank, err)
	}
	if f.Rank != p.rank {
		return matrix.RowBlock{}, fmt.Errorf("%w: rank %d got block for %d: %w",
			collective.ErrDistribution, p.rank, f.Rank, collective.ErrProtocol)
	}
	b, err := frameBlock(f)
	if err != nil {
		return matrix.RowBlock{}, fmt.Errorf("%w: %w", collective.ErrDistribution, err)
	}

	return b, nil
}

// Broadcast implements collective.Transport; m is ignored.
func (p *Peer) Broadcast(_ *matrix.Dense) (*matrix.Dense, error) {
	if err := p.check(collective.ErrDistribution); err != nil {
		return nil, err
	}
	f, err := readFrame(p.conn, KindBroadcast, p.opts.Timeout())
	if err != nil {
		return nil, fmt.Errorf("%w: rank %d awaiting broadcast: %w", collective.ErrDistribution, p.rank, err)
	}
	m, err := matrix.NewDenseFrom(f.Rows, f.Cols, f.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: rank %d broadcast payload: %w", collective.ErrDistribution, p.rank, err)
	}

	return m, nil
}

// Gather implements collective.Transport.
func (p *Peer) Gather(part matrix.RowBlock) ([]matrix.RowBlock, error) {
	if err := p.check(collective.ErrGather); err != nil {
		return nil, err
	}
	if p.opts.FaultAt(p.rank, collective.PhaseGather) {
		return nil, fmt.Errorf("%w: rank %d: %w", collective.ErrGather, p.rank, collective.ErrInjected)
	}
	if err := writeFrame(p.conn, blockFrame(KindGather, p.rank, part), p.opts.Compression(), p.opts.Timeout()); err != nil {
		return nil, fmt.Errorf("%w: rank %d submitting: %w", collective.ErrGather, p.rank, err)
	}
	if _, err := readFrame(p.conn, KindGatherAck, p.opts.Timeout()); err != nil {
		return nil, fmt.Errorf("%w: rank %d awaiting ack: %w", collective.ErrGather, p.rank, err)
	}

	return nil, nil
}

// Barrier implements collective.Transport.
func (p *Peer) Barrier() error {
	if err := p.check(collective.ErrBarrier); err != nil {
		return err
	}
	if p.opts.FaultAt(p.rank, collective.PhaseBarrier) {
		return fmt.Errorf("%w: rank %d: %w", collective.ErrBarrier, p.rank, collective.ErrInjected)
	}
	if err := writeFrame(p.conn, Frame{Kind: KindBarrier, Rank: p.rank}, false, p.opts.Timeout()); err != nil {
		return fmt.Errorf("%w: rank %d: %w", collective.ErrBarrier, p.rank, err)
	}
	if _, err := readFrame(p.conn, KindRelease, p.opts.Timeout()); err != nil {
		return fmt.Errorf("%w: rank %d awaiting release: %w", collective.ErrBarrier, p.rank, err)
	}

	return nil
}

// Close implements collective.Transport. Idempotent.
func (p *Peer) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	closeConn(p.conn)

	return nil
}
