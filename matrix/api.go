// SPDX-License-Identifier: MIT
// Package matrix: public constructors and thin facades.
//
// Purpose:
//   - Provide intention-revealing constructors for benchmark inputs.
//   - Each facade delegates to the canonical implementation.

package matrix

// NewZeros returns a new zero-initialized *Dense of size rows×cols.
// Thin alias of NewDense with an intention-revealing name.
func NewZeros(rows, cols int) (*Dense, error) {
	return NewDense(rows, cols)
}

// NewIdentity returns I_n (n×n identity; ones on the diagonal, zeros elsewhere).
// Complexity: O(n^2) zeroing + O(n) diagonal writes.
func NewIdentity(n int) (*Dense, error) {
	I, err := NewDense(n, n)
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ { // fixed i order
		I.data[i*n+i] = 1.0
	}

	return I, nil
}

// NewSequence returns a rows×cols matrix filled with 1, 2, ..., rows*cols in
// row-major order. Handy for hand-checkable fixtures.
// Complexity: O(r*c).
func NewSequence(rows, cols int) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range m.data {
		m.data[i] = float64(i + 1)
	}

	return m, nil
}

// ZerosLike returns a new zero matrix with the same shape as m.
func ZerosLike(m Matrix) (*Dense, error) {
	return NewDense(m.Rows(), m.Cols())
}

// Product is an alias for Mul: matrix product a × b.
// Complexity: O(r*n*c).
func Product(a, b Matrix) (*Dense, error) { return Mul(a, b) }
