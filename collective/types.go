// SPDX-License-Identifier: MIT

package collective

import (
	"fmt"

	"github.com/katalvlaran/distmm/matrix"
)

// Root is the rank of the coordinating participant.
const Root = 0

// Role is the capability a participant holds for one trial.
type Role int

const (
	// Coordinator holds the full inputs, keeps its own block locally and
	// assembles the gathered result.
	Coordinator Role = iota
	// Worker receives a block and B, computes, and submits its partial result.
	Worker
)

// String implements fmt.Stringer.
func (r Role) String() string {
	switch r {
	case Coordinator:
		return "coordinator"
	case Worker:
		return "worker"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// RoleOf derives the role of rank.
func RoleOf(rank int) Role {
	if rank == Root {
		return Coordinator
	}

	return Worker
}

// Phase names a collective step; used for fault injection and error context.
type Phase int

const (
	PhaseScatter Phase = iota
	PhaseBroadcast
	PhaseBarrier
	PhaseGather
)

// String implements fmt.Stringer.
func (p Phase) String() string {
	switch p {
	case PhaseScatter:
		return "scatter"
	case PhaseBroadcast:
		return "broadcast"
	case PhaseBarrier:
		return "barrier"
	case PhaseGather:
		return "gather"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

// Transport is the blocking collective capability shared by all variants.
//
// Contract:
//   - Every rank calls the same sequence of collectives.
//   - Scatter: the root passes exactly Size() blocks indexed by rank and gets
//     its own block back without a round-trip; workers pass nil.
//   - Broadcast: the root passes the matrix; every rank returns a matrix it
//     exclusively owns.
//   - Gather: every rank submits its part; the root returns all parts indexed
//     by rank once every worker has submitted and has been acknowledged;
//     workers return nil after their acknowledgement arrives.
//   - Barrier: returns once all ranks have arrived.
//   - Close releases resources; peers blocked on this rank observe a failure.
type Transport interface {
	Rank() int
	Size() int
	Scatter(blocks []matrix.RowBlock) (matrix.RowBlock, error)
	Broadcast(m *matrix.Dense) (*matrix.Dense, error)
	Gather(part matrix.RowBlock) ([]matrix.RowBlock, error)
	Barrier() error
	Close() error
}

// Fault describes an injected failure: rank fails at phase.
//   - PhaseScatter/PhaseBroadcast: the root fails to deliver to rank.
//   - PhaseGather: rank never submits its part (simulated crash).
//   - PhaseBarrier: rank never arrives.
type Fault struct {
	Rank  int
	Phase Phase
}
