// SPDX-License-Identifier: MIT

package engine

import (
	"fmt"

	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/matrix"
	"github.com/katalvlaran/distmm/partition"
)

// Result is one participant's outcome of Multiply.
type Result struct {
	Rank int
	Role collective.Role
	Plan *partition.Plan
	// Local is this participant's partial product.
	Local matrix.RowBlock
	// C is the assembled product on the coordinator; nil on workers.
	C *matrix.Dense
}

// Distribute performs the scatter of A's row blocks and the broadcast of B.
// The coordinator passes A (Plan.N rows) and B; workers pass nil, nil. On
// return the participant holds exactly its row block and its own copy of B.
//
// Errors:
//   - ErrMissingInput, ErrInvalidDimension, ErrDimensionMismatch (coordinator,
//     before any transport activity).
//   - ErrDistribution when a block or B cannot be delivered or is malformed.
func Distribute(t *Trial, a, b *matrix.Dense) (matrix.RowBlock, *matrix.Dense, error) {
	if err := t.machine.Advance(AwaitingBlock); err != nil {
		return matrix.RowBlock{}, nil, err
	}

	var blocks []matrix.RowBlock
	if t.Role == collective.Coordinator {
		var err error
		if blocks, err = t.split(a, b); err != nil {
			return matrix.RowBlock{}, nil, t.fail(err)
		}
	}

	block, err := t.Transport.Scatter(blocks)
	if err != nil {
		return matrix.RowBlock{}, nil, t.fail(err)
	}
	own, err := t.Transport.Broadcast(b)
	if err != nil {
		return matrix.RowBlock{}, nil, t.fail(err)
	}

	want, _ := t.Plan.Block(t.Rank)
	if block.Offset != want.Offset || block.Rows != want.Count || block.Cols != own.Rows() {
		return matrix.RowBlock{}, nil, t.fail(fmt.Errorf("%w: rank %d got rows [%d,%d) x %d, want [%d,%d) x %d",
			ErrDistribution, t.Rank, block.Offset, block.End(), block.Cols, want.Offset, want.End(), own.Rows()))
	}
	t.cols = own.Cols()
	t.log.Debug("distributed", "offset", block.Offset, "rows", block.Rows)

	if err = t.machine.Advance(Computing); err != nil {
		return matrix.RowBlock{}, nil, t.fail(err)
	}

	return block, own, nil
}

// split validates the coordinator's inputs and cuts A by the plan.
func (t *Trial) split(a, b *matrix.Dense) ([]matrix.RowBlock, error) {
	if a == nil || b == nil {
		return nil, ErrMissingInput
	}
	if a.Rows() != t.Plan.N {
		return nil, fmt.Errorf("%w: A has %d rows, trial planned for %d", ErrInvalidDimension, a.Rows(), t.Plan.N)
	}
	if err := matrix.ValidateMulCompatible(a, b); err != nil {
		return nil, fmt.Errorf("engine: Distribute: %w", err)
	}

	blocks := make([]matrix.RowBlock, t.Size)
	for _, r := range t.Plan.Ranges() {
		blk, err := a.RowBlock(r.Offset, r.Count)
		if err != nil {
			return nil, fmt.Errorf("engine: Distribute: rank %d: %w", r.Rank, err)
		}
		blocks[r.Rank] = blk
	}

	return blocks, nil
}

// LocalMultiply computes block·b with kernel k (nil selects NaiveKernel). The
// partial result sits at the same Offset as block and is block.Rows × b.Cols().
func LocalMultiply(block matrix.RowBlock, b *matrix.Dense, k Kernel) (matrix.RowBlock, error) {
	if err := matrix.ValidateBlockCompatible(block, b); err != nil {
		return matrix.RowBlock{}, fmt.Errorf("engine: LocalMultiply: %w", err)
	}
	if k == nil {
		k = NaiveKernel{}
	}
	out := matrix.RowBlock{
		Offset: block.Offset,
		Rows:   block.Rows,
		Cols:   b.Cols(),
		Data:   make([]float64, block.Rows*b.Cols()),
	}
	if err := k.MulRows(out.Data, block.Data, block.Rows, block.Cols, b.RawData(), b.Cols()); err != nil {
		return matrix.RowBlock{}, fmt.Errorf("engine: LocalMultiply(%s): %w", k.Name(), err)
	}

	return out, nil
}

// Gather submits part and, on the coordinator, assembles every participant's
// partial result into the N×M product by each part's Offset. Workers get a
// nil matrix once the coordinator has acknowledged their part. The
// coordinator never returns a partially filled matrix.
func Gather(t *Trial, part matrix.RowBlock) (*matrix.Dense, error) {
	if err := t.machine.Advance(AwaitingGatherAck); err != nil {
		return nil, err
	}

	parts, err := t.Transport.Gather(part)
	if err != nil {
		return nil, t.fail(err)
	}

	var c *matrix.Dense
	if t.Role == collective.Coordinator {
		if c, err = t.assemble(parts); err != nil {
			return nil, t.fail(err)
		}
		t.log.Debug("assembled", "rows", c.Rows(), "cols", c.Cols())
	}
	if err = t.machine.Advance(Idle); err != nil {
		return nil, t.fail(err)
	}

	return c, nil
}

// assemble validates every part against the plan and places it by Offset.
func (t *Trial) assemble(parts []matrix.RowBlock) (*matrix.Dense, error) {
	if len(parts) != t.Size {
		return nil, fmt.Errorf("%w: %d parts for %d ranks", ErrGather, len(parts), t.Size)
	}
	c, err := matrix.NewDense(t.Plan.N, t.cols)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGather, err)
	}
	sizes := t.Plan.ElementCounts(t.cols)
	for _, r := range t.Plan.Ranges() {
		p := parts[r.Rank]
		if p.Offset != r.Offset || p.Rows != r.Count || p.Cols != t.cols || len(p.Data) != sizes[r.Rank] {
			return nil, fmt.Errorf("%w: rank %d part rows [%d,%d) x %d, want [%d,%d) x %d",
				ErrGather, r.Rank, p.Offset, p.End(), p.Cols, r.Offset, r.End(), t.cols)
		}
		if err = c.PutRowBlock(p); err != nil {
			return nil, fmt.Errorf("%w: rank %d: %w", ErrGather, r.Rank, err)
		}
	}

	return c, nil
}

// Multiply runs one full trial on this participant: distribute, local
// multiply with the configured kernel, gather. The coordinator passes A (n
// rows) and B; workers pass nil, nil.
func Multiply(tr collective.Transport, n int, a, b *matrix.Dense, opts ...Option) (*Result, error) {
	t, err := NewTrial(tr, n, opts...)
	if err != nil {
		return nil, err
	}

	return t.Run(a, b)
}

// Run executes the trial's distribute → compute → gather sequence.
func (t *Trial) Run(a, b *matrix.Dense) (*Result, error) {
	block, own, err := Distribute(t, a, b)
	if err != nil {
		return nil, err
	}
	local, err := LocalMultiply(block, own, t.opts.Kernel)
	if err != nil {
		return nil, t.fail(err)
	}
	c, err := Gather(t, local)
	if err != nil {
		return nil, err
	}

	return &Result{Rank: t.Rank, Role: t.Role, Plan: t.Plan, Local: local, C: c}, nil
}
