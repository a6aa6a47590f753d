// Package collective defines the blocking collective-communication capability
// used by the distributed multiplication engine: scatter of row blocks,
// broadcast of a full matrix, gather of partial results to the coordinator,
// and a barrier.
//
// Rank 0 is always the coordinator (root); every other rank is a worker. The
// role is derived from the rank at trial start and passed explicitly through
// the trial context; there is no ambient global identity.
//
// Two Transport variants exist:
//
//   - NewLocalGroup: in-process participants (one goroutine each) exchanging
//     copies over channels. Used by unit tests and the single-host runner.
//   - collective/wsnet: one OS process per participant, connected to the
//     coordinator over websockets.
//
// All operations block until the collective completes or fails. There is no
// cancellation primitive: deadlines come from WithTimeout and surface as
// ErrDistribution, ErrGather or ErrBarrier. A failed collective is never
// retried; the trial is invalid.
package collective
