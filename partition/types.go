// SPDX-License-Identifier: MIT

package partition

// Range is the contiguous row range assigned to one rank.
type Range struct {
	Rank   int // participant rank (0..P-1)
	Offset int // first row index
	Count  int // number of rows (>= 0; zero only when P > N)
}

// End returns the exclusive end row (Offset + Count).
func (r Range) End() int { return r.Offset + r.Count }

// Plan maps every rank to its (Count, Offset) for a given (N, P).
//
// Invariants (checked by Validate):
//   - len(Counts) == len(Offsets) == P.
//   - sum(Counts) == N.
//   - Offsets[0] == 0 and Offsets[r+1] == Offsets[r] + Counts[r].
//   - max(Counts) - min(Counts) <= 1, larger blocks first.
type Plan struct {
	N       int   // number of rows to split
	P       int   // number of participants
	Counts  []int // rows per rank
	Offsets []int // first row per rank
}
