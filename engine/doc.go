// Package engine is the distributed multiplication core: it partitions A by
// rows, distributes the row blocks and the full right operand B, multiplies
// locally on every participant and gathers the partial products back into a
// single result on the coordinator.
//
// Flow for one trial (every participant runs the same code):
//
//	trial, _ := engine.NewTrial(tr, n)        // role + plan from rank/size
//	block, b, _ := engine.Distribute(trial, a, b) // scatter + broadcast
//	part, _ := engine.LocalMultiply(block, b, engine.NaiveKernel{})
//	c, _ := engine.Gather(trial, part)         // non-nil on the coordinator only
//
// Multiply wraps the four steps and drives the per-participant state machine
//
//	Idle → AwaitingBlock → Computing → AwaitingGatherAck → Idle
//
// Determinism:
//   - The plan is a pure function of (N, P) (see package partition).
//   - NaiveKernel and ParallelKernel share matrix.MulRows, so the assembled
//     result is bit-identical to matrix.Mul on the same inputs for every P.
//   - GonumKernel uses BLAS; results agree within floating-point tolerance only.
//
// Errors:
//
//	ErrInvalidDimension  - bad N or P, before any transport activity.
//	ErrDimensionMismatch - B.Rows() != A.Cols(), checked once before partitioning.
//	ErrDistribution      - scatter/broadcast failure.
//	ErrGather            - missing or malformed partial result.
//
// KindOf maps any returned error onto this taxonomy for reporting. No
// operation retries a failed collective.
package engine
