// SPDX-License-Identifier: MIT

package wsnet

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/matrix"
	"golang.org/x/sync/errgroup"
)

// Coordinator is the rank-0 Transport. It accepts one websocket per worker.
type Coordinator struct {
	size int
	opts collective.Options

	ln  net.Listener
	srv *http.Server

	mu     sync.Mutex
	conns  []*websocket.Conn // indexed by rank; conns[0] is always nil
	joined int
	ready  chan struct{}
	closed atomic.Bool
}

var _ collective.Transport = (*Coordinator)(nil)

// Listen binds addr (host:port, port 0 picks a free one) and starts accepting
// workers for a group of size participants. Call Wait before the first
// collective.
func Listen(addr string, size int, opts ...collective.Option) (*Coordinator, error) {
	if size <= 0 {
		return nil, fmt.Errorf("wsnet: Listen: size %d: %w", size, collective.ErrProtocol)
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("wsnet: Listen %s: %w", addr, err)
	}

	c := &Coordinator{
		size:  size,
		opts:  collective.Resolve(opts...),
		ln:    ln,
		conns: make([]*websocket.Conn, size),
		ready: make(chan struct{}),
	}
	if size == 1 {
		close(c.ready)
	}

	mux := http.NewServeMux()
	mux.HandleFunc(Path, c.handleJoin)
	c.srv = &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := c.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.opts.Logger().Error("coordinator listener stopped", "err", err)
		}
	}()
	c.opts.Logger().Info("coordinator listening", "addr", ln.Addr().String(), "size", size)

	return c, nil
}

// Addr returns the bound listener address.
func (c *Coordinator) Addr() string { return c.ln.Addr().String() }

// URL returns the websocket URL workers dial.
func (c *Coordinator) URL() string { return "ws://" + c.Addr() + Path }

// Wait blocks until every worker has joined or the timeout expires.
func (c *Coordinator) Wait() error {
	timer := time.NewTimer(c.opts.Timeout())
	defer timer.Stop()
	select {
	case <-c.ready:
		return nil
	case <-timer.C:
		c.mu.Lock()
		joined := c.joined
		c.mu.Unlock()

		return fmt.Errorf("%w: %d of %d workers joined: %w",
			collective.ErrDistribution, joined, c.size-1, collective.ErrTimeout)
	}
}

// handleJoin upgrades a worker connection and registers it after a valid hello.
func (c *Coordinator) handleJoin(w http.ResponseWriter, r *http.Request) {
	up := websocket.Upgrader{
		HandshakeTimeout: c.opts.Timeout(),
		ReadBufferSize:   64 << 10,
		WriteBufferSize:  64 << 10,
	}
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		c.opts.Logger().Warn("upgrade failed", "remote", r.RemoteAddr, "err", err)

		return
	}

	hello, err := readFrame(conn, KindHello, c.opts.Timeout())
	if err == nil {
		err = c.register(hello.Rank, hello.Size, conn)
	}
	if err != nil {
		c.opts.Logger().Warn("rejected worker", "remote", r.RemoteAddr, "err", err)
		closeConn(conn)

		return
	}
	c.opts.Logger().Info("worker joined", "rank", hello.Rank, "remote", r.RemoteAddr)
}

// register validates a hello, answers it and records conn. The reply is
// written before the group can become ready, so no collective races it.
func (c *Coordinator) register(rank, size int, conn *websocket.Conn) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case c.closed.Load():
		return collective.ErrClosed
	case size != c.size:
		return fmt.Errorf("wsnet: worker size %d, group size %d: %w", size, c.size, collective.ErrProtocol)
	case rank <= collective.Root || rank >= c.size:
		return fmt.Errorf("wsnet: worker rank %d out of range: %w", rank, collective.ErrProtocol)
	case c.conns[rank] != nil:
		return fmt.Errorf("wsnet: rank %d already joined: %w", rank, collective.ErrProtocol)
	}
	if err := writeFrame(conn, Frame{Kind: KindHello, Rank: rank, Size: c.size}, false, c.opts.Timeout()); err != nil {
		return fmt.Errorf("wsnet: hello reply to rank %d: %w", rank, err)
	}
	c.conns[rank] = conn
	c.joined++
	if c.joined == c.size-1 {
		close(c.ready)
	}

	return nil
}

// Rank implements collective.Transport.
func (c *Coordinator) Rank() int { return collective.Root }

// Size implements collective.Transport.
func (c *Coordinator) Size() int { return c.size }

// workers returns the registered connections or an error if any is missing.
func (c *Coordinator) workers(phase error) ([]*websocket.Conn, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("%w: coordinator: %w", phase, collective.ErrClosed)
	}
	select {
	case <-c.ready:
	default:
		return nil, fmt.Errorf("%w: workers still joining: %w", phase, collective.ErrProtocol)
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*websocket.Conn(nil), c.conns...), nil
}

// each runs fn for every worker rank concurrently, returning the first error.
func (c *Coordinator) each(conns []*websocket.Conn, fn func(rank int, conn *websocket.Conn) error) error {
	var g errgroup.Group
	for r := 1; r < c.size; r++ {
		r, conn := r, conns[r]
		g.Go(func() error { return fn(r, conn) })
	}

	return g.Wait()
}

// Scatter implements collective.Transport.
func (c *Coordinator) Scatter(blocks []matrix.RowBlock) (matrix.RowBlock, error) {
	conns, err := c.workers(collective.ErrDistribution)
	if err != nil {
		return matrix.RowBlock{}, err
	}
	if len(blocks) != c.size {
		return matrix.RowBlock{}, fmt.Errorf("%w: %d blocks for %d ranks: %w",
			collective.ErrDistribution, len(blocks), c.size, collective.ErrProtocol)
	}

	err = c.each(conns, func(r int, conn *websocket.Conn) error {
		if c.opts.FaultAt(r, collective.PhaseScatter) {
			return fmt.Errorf("%w: scatter to rank %d: %w", collective.ErrDistribution, r, collective.ErrInjected)
		}
		if err := writeFrame(conn, blockFrame(KindScatter, r, blocks[r]), c.opts.Compression(), c.opts.Timeout()); err != nil {
			return fmt.Errorf("%w: scatter to rank %d: %w", collective.ErrDistribution, r, err)
		}

		return nil
	})
	if err != nil {
		return matrix.RowBlock{}, err
	}

	return blocks[collective.Root].Clone(), nil
}

// Broadcast implements collective.Transport.
func (c *Coordinator) Broadcast(m *matrix.Dense) (*matrix.Dense, error) {
	conns, err := c.workers(collective.ErrDistribution)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("%w: nil broadcast matrix: %w", collective.ErrDistribution, collective.ErrProtocol)
	}
	rows, cols := m.Shape()
	payload, err := Encode(Frame{Kind: KindBroadcast, Rows: rows, Cols: cols, Data: m.RawData()}, c.opts.Compression())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", collective.ErrDistribution, err)
	}

	err = c.each(conns, func(r int, conn *websocket.Conn) error {
		if c.opts.FaultAt(r, collective.PhaseBroadcast) {
			return fmt.Errorf("%w: broadcast to rank %d: %w", collective.ErrDistribution, r, collective.ErrInjected)
		}
		if err := writeRaw(conn, payload, c.opts.Timeout()); err != nil {
			return fmt.Errorf("%w: broadcast to rank %d: %w", collective.ErrDistribution, r, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return m, nil
}

// Gather implements collective.Transport.
func (c *Coordinator) Gather(part matrix.RowBlock) ([]matrix.RowBlock, error) {
	conns, err := c.workers(collective.ErrGather)
	if err != nil {
		return nil, err
	}
	parts := make([]matrix.RowBlock, c.size)
	parts[collective.Root] = part

	err = c.each(conns, func(r int, conn *websocket.Conn) error {
		f, err := readFrame(conn, KindGather, c.opts.Timeout())
		if err != nil {
			return fmt.Errorf("%w: from rank %d: %w", collective.ErrGather, r, err)
		}
		if f.Rank != r {
			return fmt.Errorf("%w: rank %d sent part labelled %d: %w", collective.ErrGather, r, f.Rank, collective.ErrProtocol)
		}
		b, err := frameBlock(f)
		if err != nil {
			return fmt.Errorf("%w: from rank %d: %w", collective.ErrGather, r, err)
		}
		parts[r] = b

		return nil
	})
	if err != nil {
		return nil, err
	}

	err = c.each(conns, func(r int, conn *websocket.Conn) error {
		if err := writeFrame(conn, Frame{Kind: KindGatherAck, Rank: r}, false, c.opts.Timeout()); err != nil {
			return fmt.Errorf("%w: ack to rank %d: %w", collective.ErrGather, r, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return parts, nil
}

// Barrier implements collective.Transport.
func (c *Coordinator) Barrier() error {
	conns, err := c.workers(collective.ErrBarrier)
	if err != nil {
		return err
	}
	if c.opts.FaultAt(collective.Root, collective.PhaseBarrier) {
		return fmt.Errorf("%w: rank 0: %w", collective.ErrBarrier, collective.ErrInjected)
	}

	err = c.each(conns, func(r int, conn *websocket.Conn) error {
		if _, err := readFrame(conn, KindBarrier, c.opts.Timeout()); err != nil {
			return fmt.Errorf("%w: rank %d: %w", collective.ErrBarrier, r, err)
		}

		return nil
	})
	if err != nil {
		return err
	}

	return c.each(conns, func(r int, conn *websocket.Conn) error {
		if err := writeFrame(conn, Frame{Kind: KindRelease, Rank: r}, false, c.opts.Timeout()); err != nil {
			return fmt.Errorf("%w: release rank %d: %w", collective.ErrBarrier, r, err)
		}

		return nil
	})
}

// Close implements collective.Transport. Idempotent.
func (c *Coordinator) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.mu.Lock()
	for _, conn := range c.conns {
		if conn != nil {
			closeConn(conn)
		}
	}
	c.mu.Unlock()

	return c.srv.Close()
}
