// SPDX-License-Identifier: MIT
// Package matrix: element-wise comparison helpers used for verification.

package matrix

import "math"

const opAllClose = "AllClose"

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances are rejected.
//
// Complexity: Time O(r*c), Space O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if math.IsNaN(rtol) || math.IsNaN(atol) || math.IsInf(rtol, 0) || math.IsInf(atol, 0) {
		return false, matrixErrorf(opAllClose, ErrNaNInf)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}

	// Dense fast-path over flat slices.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			for idx := range da.data {
				if math.Abs(da.data[idx]-db.data[idx]) > atol+rtol*math.Abs(db.data[idx]) {
					return false, nil // early-exit on first violation
				}
			}
			return true, nil
		}
	}

	// Generic fallback via At.
	var av, bv float64
	r, c := a.Rows(), a.Cols()
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			av, _ = a.At(i, j)
			bv, _ = b.At(i, j)
			if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
				return false, nil
			}
		}
	}

	return true, nil
}

// MaxAbsDiff returns max |a[i,j] - b[i,j]| over all cells of two same-shaped
// Dense matrices. Useful to report how far a BLAS-backed product drifted
// from the pinned-order kernel.
// Complexity: O(r*c).
func MaxAbsDiff(a, b *Dense) (float64, error) {
	if err := ValidateNotNil(a); err != nil {
		return 0, matrixErrorf("MaxAbsDiff", err)
	}
	if err := ValidateNotNil(b); err != nil {
		return 0, matrixErrorf("MaxAbsDiff", err)
	}
	if err := ValidateSameShape(a, b); err != nil {
		return 0, matrixErrorf("MaxAbsDiff", err)
	}
	var worst, d float64
	for i := range a.data {
		d = math.Abs(a.data[i] - b.data[i])
		if d > worst {
			worst = d
		}
	}

	return worst, nil
}
