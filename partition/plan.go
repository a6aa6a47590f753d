// SPDX-License-Identifier: MIT
// Package partition - plan construction and lookups.
//
// Determinism:
//   - New is a closed-form function of (n, p); no state, no randomness.
//
// Complexity:
//   - New: O(P). Block: O(1). OwnerOf: O(log P). Validate: O(P).

package partition

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
)

// New computes the row partition of n rows over p participants.
// Implementation:
//   - Stage 1: validate n >= 1 and p >= 1 (ErrInvalidDimension).
//   - Stage 2: base = n / p, rem = n % p; ranks r < rem get base+1 rows.
//   - Stage 3: offsets are the running prefix sum of counts.
//
// Complexity: Time O(p), Space O(p).
func New(n, p int) (*Plan, error) {
	if n < 1 || p < 1 {
		return nil, fmt.Errorf("partition.New(n=%d, p=%d): %w", n, p, ErrInvalidDimension)
	}
	base, rem := n/p, n%p
	plan := &Plan{
		N:       n,
		P:       p,
		Counts:  make([]int, p),
		Offsets: make([]int, p),
	}
	off := 0
	for r := 0; r < p; r++ {
		c := base
		if r < rem { // front-loaded remainder
			c++
		}
		plan.Counts[r] = c
		plan.Offsets[r] = off
		off += c
	}

	return plan, nil
}

// Block returns the row range of rank r.
// Errors: ErrRankOutOfRange when r is outside [0, P).
func (p *Plan) Block(rank int) (Range, error) {
	if rank < 0 || rank >= p.P {
		return Range{}, fmt.Errorf("Plan.Block(%d) with P=%d: %w", rank, p.P, ErrRankOutOfRange)
	}

	return Range{Rank: rank, Offset: p.Offsets[rank], Count: p.Counts[rank]}, nil
}

// Ranges returns every rank's range in rank order.
func (p *Plan) Ranges() []Range {
	out := make([]Range, p.P)
	for r := range out {
		out[r] = Range{Rank: r, Offset: p.Offsets[r], Count: p.Counts[r]}
	}

	return out
}

// OwnerOf returns the rank whose block contains row. Among ranks with empty
// blocks sharing the same offset, the non-empty owner is returned.
// Errors: ErrRowOutOfRange when row is outside [0, N).
func (p *Plan) OwnerOf(row int) (int, error) {
	if row < 0 || row >= p.N {
		return 0, fmt.Errorf("Plan.OwnerOf(%d) with N=%d: %w", row, p.N, ErrRowOutOfRange)
	}
	// First rank whose end is beyond row.
	r := sort.Search(p.P, func(i int) bool { return p.Offsets[i]+p.Counts[i] > row })

	return r, nil
}

// ElementCounts returns per-rank element counts for a row width of cols
// (Counts[r]*cols), the Scatterv/Gatherv "sendcounts".
func (p *Plan) ElementCounts(cols int) []int {
	return lo.Map(p.Counts, func(c int, _ int) int { return c * cols })
}

// Displacements returns per-rank element offsets for a row width of cols
// (Offsets[r]*cols), the Scatterv/Gatherv "displacements".
func (p *Plan) Displacements(cols int) []int {
	return lo.Map(p.Offsets, func(o int, _ int) int { return o * cols })
}

// MaxCount returns the largest block size (ceil(N/P)).
func (p *Plan) MaxCount() int { return lo.Max(p.Counts) }

// Validate re-checks every plan invariant. Plans built by New always pass;
// the check guards plans that travelled over a wire or were hand-built.
func (p *Plan) Validate() error {
	if p == nil || p.N < 1 || p.P < 1 {
		return ErrInvalidDimension
	}
	if len(p.Counts) != p.P || len(p.Offsets) != p.P {
		return fmt.Errorf("Plan.Validate: length: %w", ErrCorruptPlan)
	}
	if lo.Sum(p.Counts) != p.N {
		return fmt.Errorf("Plan.Validate: counts sum %d != N %d: %w", lo.Sum(p.Counts), p.N, ErrCorruptPlan)
	}
	off := 0
	for r := 0; r < p.P; r++ {
		if p.Counts[r] < 0 || p.Offsets[r] != off {
			return fmt.Errorf("Plan.Validate: rank %d: %w", r, ErrCorruptPlan)
		}
		if r > 0 && p.Counts[r] > p.Counts[r-1] {
			return fmt.Errorf("Plan.Validate: rank %d larger than rank %d: %w", r, r-1, ErrCorruptPlan)
		}
		off += p.Counts[r]
	}
	if lo.Max(p.Counts)-lo.Min(p.Counts) > 1 {
		return fmt.Errorf("Plan.Validate: imbalance: %w", ErrCorruptPlan)
	}

	return nil
}
