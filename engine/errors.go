// SPDX-License-Identifier: MIT

package engine

import (
	"errors"

	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/matrix"
	"github.com/katalvlaran/distmm/partition"
)

// Error taxonomy of a trial. The first four alias the sentinels of the
// packages that detect them, so errors.Is works across package boundaries.
var (
	// ErrInvalidDimension indicates N < 1 or P < 1, or A's rows != N.
	ErrInvalidDimension = partition.ErrInvalidDimension

	// ErrDimensionMismatch indicates B.Rows() != A.Cols().
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrDistribution indicates a scatter or broadcast failure.
	ErrDistribution = collective.ErrDistribution

	// ErrGather indicates a missing or malformed partial result.
	ErrGather = collective.ErrGather

	// ErrNilTransport indicates NewTrial was called without a transport.
	ErrNilTransport = errors.New("engine: transport is nil")

	// ErrMissingInput indicates the coordinator was given a nil A or B.
	ErrMissingInput = errors.New("engine: coordinator requires both A and B")

	// ErrIllegalTransition indicates a state machine step out of order.
	ErrIllegalTransition = errors.New("engine: illegal state transition")

	// ErrUnknownKernel indicates an unrecognized kernel name.
	ErrUnknownKernel = errors.New("engine: unknown kernel")
)

// ErrorKind classifies a trial failure for reporting.
type ErrorKind int

const (
	KindNone ErrorKind = iota
	KindInvalidDimension
	KindDimensionMismatch
	KindDistribution
	KindGather
	KindBarrier
	KindInternal
)

// String implements fmt.Stringer; values are stable report labels.
func (k ErrorKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindInvalidDimension:
		return "InvalidDimension"
	case KindDimensionMismatch:
		return "DimensionMismatch"
	case KindDistribution:
		return "DistributionError"
	case KindGather:
		return "GatherError"
	case KindBarrier:
		return "BarrierError"
	default:
		return "InternalError"
	}
}

// KindOf classifies err. Distribution and gather failures take precedence
// over their causes; nil maps to KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrDistribution):
		return KindDistribution
	case errors.Is(err, ErrGather):
		return KindGather
	case errors.Is(err, collective.ErrBarrier):
		return KindBarrier
	case errors.Is(err, ErrDimensionMismatch):
		return KindDimensionMismatch
	case errors.Is(err, ErrInvalidDimension), errors.Is(err, ErrMissingInput):
		return KindInvalidDimension
	default:
		return KindInternal
	}
}
