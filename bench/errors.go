// SPDX-License-Identifier: MIT

package bench

import "errors"

var (
	// ErrZeroDuration indicates a non-positive sequential or distributed time.
	ErrZeroDuration = errors.New("bench: duration must be positive")

	// ErrInvalidTrial indicates a matrix size or process count below 1.
	ErrInvalidTrial = errors.New("bench: matrix size and process count must be >= 1")

	// ErrVerification indicates the distributed product differs from the
	// sequential baseline.
	ErrVerification = errors.New("bench: distributed result does not match sequential baseline")

	// ErrBadCSV indicates a malformed results file.
	ErrBadCSV = errors.New("bench: malformed results csv")
)
