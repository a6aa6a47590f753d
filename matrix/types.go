// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by the dense kernels and the
// distribution layer. Errors live in errors.go, kernels in impl_*.go.
package matrix

// Matrix represents a two-dimensional array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrOutOfRange if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrOutOfRange if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// RowBlock is a contiguous horizontal slice of a matrix, tagged with the
// index of its first row in the source matrix.
//   - Offset is authoritative for placement during gather.
//   - Rows may be zero (more participants than rows); Data is then empty.
//   - Data holds Rows*Cols values in row-major order.
type RowBlock struct {
	Offset int       // index of the first row in the full matrix
	Rows   int       // number of rows carried (>= 0)
	Cols   int       // row width
	Data   []float64 // row-major payload, len == Rows*Cols
}

// End returns the exclusive end row index (Offset + Rows).
func (b RowBlock) End() int { return b.Offset + b.Rows }

// Empty reports whether the block carries no rows.
func (b RowBlock) Empty() bool { return b.Rows == 0 }

// Validate checks the internal consistency of the block (non-negative
// geometry and len(Data) == Rows*Cols).
// Complexity: O(1).
func (b RowBlock) Validate() error {
	if b.Offset < 0 || b.Rows < 0 || b.Cols < 0 {
		return validatorErrorf("RowBlock.Validate", ErrBadBlock)
	}
	if len(b.Data) != b.Rows*b.Cols {
		return validatorErrorf("RowBlock.Validate", ErrBadBlock)
	}

	return nil
}

// Row returns row i of the block (relative to the block, not the matrix).
// The returned slice aliases the block buffer.
func (b RowBlock) Row(i int) ([]float64, error) {
	if i < 0 || i >= b.Rows {
		return nil, validatorErrorf("RowBlock.Row", ErrOutOfRange)
	}

	return b.Data[i*b.Cols : (i+1)*b.Cols], nil
}

// Clone returns a deep copy of the block.
func (b RowBlock) Clone() RowBlock {
	cp := make([]float64, len(b.Data))
	copy(cp, b.Data)

	return RowBlock{Offset: b.Offset, Rows: b.Rows, Cols: b.Cols, Data: cp}
}
