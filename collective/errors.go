// SPDX-License-Identifier: MIT

package collective

import "errors"

// Collective-level failures. Transports wrap a cause (ErrTimeout, ErrClosed,
// ErrProtocol, ErrInjected or an I/O error) under one of the first three
// sentinels so callers can classify with errors.Is.
var (
	// ErrDistribution signals that scatter or broadcast could not deliver data
	// to a participant.
	ErrDistribution = errors.New("collective: distribution failed")

	// ErrGather signals a missing, duplicate or malformed partial result
	// during collection at the coordinator (or a lost acknowledgement at a worker).
	ErrGather = errors.New("collective: gather failed")

	// ErrBarrier signals that not every participant reached the barrier.
	ErrBarrier = errors.New("collective: barrier failed")
)

// Causes.
var (
	// ErrTimeout indicates the transport deadline expired.
	ErrTimeout = errors.New("collective: timeout")

	// ErrClosed indicates the local transport or a peer has been closed.
	ErrClosed = errors.New("collective: transport closed")

	// ErrProtocol indicates an unexpected message, rank or shape.
	ErrProtocol = errors.New("collective: protocol violation")

	// ErrInjected marks a failure produced by WithFault.
	ErrInjected = errors.New("collective: injected fault")
)
