// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Cut and place RowBlocks (copy semantics) for the distribution layer.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c);
//     RowBlock: O(count*c); PutRowBlock: O(rows*c).

package matrix

import (
	"fmt"
	"math"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt       = "At"          // method tag used in error wrappers
	ctxSet      = "Set"         // method tag used in error wrappers
	ctxRowBlock = "RowBlock"    // method tag for block extraction
	ctxPutBlock = "PutRowBlock" // method tag for block placement
)

// ---------- Formatting literals ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Stable, human-friendly messages; preserves the sentinel via %w.
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows, cols).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int       // row and column counts (> 0 for public constructors)
	data []float64 // contiguous row-major storage (len == r*c)
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil)
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: allocate zero-filled buffer.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	// Validate shape.
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	// make() zero-fills deterministically.
	return &Dense{r: rows, c: cols, data: make([]float64, rows*cols)}, nil
}

// NewDenseFrom creates an r×c matrix holding a copy of data (row-major).
// Returns ErrInvalidDimensions for non-positive shapes, ErrDimensionMismatch
// when len(data) != rows*cols and ErrNaNInf when data holds a non-finite value.
// Complexity: O(r*c).
func NewDenseFrom(rows, cols int, data []float64) (*Dense, error) {
	m, err := NewDense(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(data) != rows*cols {
		return nil, fmt.Errorf("NewDenseFrom: len %d for %dx%d: %w", len(data), rows, cols, ErrDimensionMismatch)
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, denseErrorf("NewDenseFrom", i/cols, i%cols, ErrNaNInf)
		}
	}
	copy(m.data, data)

	return m, nil
}

// Rows returns the row count. No side effects.
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. No side effects.
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// RawData exposes the row-major backing buffer without copying.
// Callers must treat it as read-only unless they own the matrix; it is
// intended for codecs and kernels that stream whole buffers.
func (m *Dense) RawData() []float64 { return m.data }

// indexOf computes the row-major offset or returns ErrOutOfRange.
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err) // wrap with context
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns an error (bounds or numeric policy).
// NaN and ±Inf are rejected with ErrNaNInf.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err) // wrap with context
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return denseErrorf(ctxSet, row, col, ErrNaNInf)
	}
	m.data[off] = v // direct flat write

	return nil
}

// Clone returns a deep copy (new buffer).
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	return m.CloneDense()
}

// CloneDense is Clone with the concrete return type.
func (m *Dense) CloneDense() *Dense {
	cp := make([]float64, len(m.data)) // allocate same length
	copy(cp, m.data)                   // deep copy

	return &Dense{r: m.r, c: m.c, data: cp}
}

// Equal reports whether o has the same shape and bitwise-identical values.
// Used for round-trip checks where the accumulation order is pinned.
// Complexity: O(r*c).
func (m *Dense) Equal(o *Dense) bool {
	if m == nil || o == nil {
		return m == o
	}
	if m.r != o.r || m.c != o.c {
		return false
	}
	for i := range m.data {
		if math.Float64bits(m.data[i]) != math.Float64bits(o.data[i]) {
			return false
		}
	}

	return true
}

// String renders rows as lines of comma-separated values for diagnostics.
// Complexity: O(r*c).
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ { // iterate rows deterministically
		b.WriteString(_fmtRowOpen)
		base = i * m.c
		for j = 0; j < m.c; j++ {
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep)
			}
		}
		b.WriteString(_fmtRowClose)
	}

	return b.String()
}

// RowBlock copies rows [offset, offset+count) into an independent RowBlock.
// Implementation:
//   - Stage 1: validate 0 ≤ offset, 0 ≤ count, offset+count ≤ Rows.
//   - Stage 2: single contiguous copy (row-major rows are adjacent).
//
// Behavior highlights:
//   - count == 0 is legal and yields an empty block positioned at offset.
//   - The returned block never aliases m.
//
// Errors:
//   - ErrOutOfRange when the range does not fit.
//
// Complexity:
//   - Time O(count*c), Space O(count*c).
func (m *Dense) RowBlock(offset, count int) (RowBlock, error) {
	if offset < 0 || count < 0 || offset+count > m.r {
		return RowBlock{}, denseErrorf(ctxRowBlock, offset, count, ErrOutOfRange)
	}
	buf := make([]float64, count*m.c)
	copy(buf, m.data[offset*m.c:(offset+count)*m.c])

	return RowBlock{Offset: offset, Rows: count, Cols: m.c, Data: buf}, nil
}

// PutRowBlock writes b's rows into m starting at row b.Offset.
// Implementation:
//   - Stage 1: validate the block (geometry and buffer length).
//   - Stage 2: check width equality and that the row range fits.
//   - Stage 3: single contiguous copy.
//
// Errors:
//   - ErrBadBlock for malformed blocks, ErrDimensionMismatch when widths
//     differ, ErrOutOfRange when the rows do not fit.
//
// Complexity:
//   - Time O(rows*c), Space O(1).
func (m *Dense) PutRowBlock(b RowBlock) error {
	if err := b.Validate(); err != nil {
		return denseErrorf(ctxPutBlock, b.Offset, b.Rows, err)
	}
	if b.Cols != m.c {
		return denseErrorf(ctxPutBlock, b.Offset, b.Rows, ErrDimensionMismatch)
	}
	if b.End() > m.r {
		return denseErrorf(ctxPutBlock, b.Offset, b.Rows, ErrOutOfRange)
	}
	copy(m.data[b.Offset*m.c:b.End()*m.c], b.Data)

	return nil
}
