// SPDX-License-Identifier: MIT

package partition

import "errors"

var (
	// ErrInvalidDimension is returned when N < 1 or P < 1. It is raised before
	// any transport activity takes place.
	ErrInvalidDimension = errors.New("partition: invalid dimension")

	// ErrRankOutOfRange indicates a rank outside [0, P).
	ErrRankOutOfRange = errors.New("partition: rank out of range")

	// ErrRowOutOfRange indicates a row index outside [0, N).
	ErrRowOutOfRange = errors.New("partition: row out of range")

	// ErrCorruptPlan indicates a Plan whose counts/offsets violate the
	// partition invariants (sum, contiguity, balance).
	ErrCorruptPlan = errors.New("partition: corrupt plan")
)
