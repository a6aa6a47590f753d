// SPDX-License-Identifier: MIT
// Package matrix provides the dense product used on both sides of the
// benchmark: the sequential baseline (Mul) and the per-participant local
// product (MulBlock). Both run MulRows, so identical inputs yield
// bitwise-identical outputs regardless of how rows were partitioned.
//
// Accumulation order (pinned):
//
//	c[i][j] = (((0 + a[i][0]*b[0][j]) + a[i][1]*b[1][j]) + ... ) + a[i][k-1]*b[k-1][j]
//
// The i→k→j loop nest visits k in ascending order for every (i,j), so each
// output cell sees its partial products left-to-right over the reduction
// dimension. Products are rounded explicitly before accumulation so the
// compiler cannot fuse them into FMA on some architectures and not others.
// Zero operands are NOT skipped: skipping changes results for ±Inf/NaN
// operands and for the sign of zero.

package matrix

import "fmt"

// ZeroSum is the initial accumulator value.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping.
const (
	opMul      = "Mul"
	opMulBlock = "MulBlock"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// Use only when err != nil.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// MulRows computes dst = a·b for a row-major a (rows×k) and b (k×m),
// writing rows×m values into dst. dst is overwritten, not accumulated into.
//
// Contract (unchecked; callers validate):
//   - len(a) >= rows*k, len(b) >= k*m, len(dst) >= rows*m.
//
// Determinism:
//   - Fixed i→k→j order; every row is independent of every other row, so
//     any split of rows across workers reproduces the same bits.
//
// Complexity:
//   - Time O(rows*k*m), Space O(1).
func MulRows(dst, a []float64, rows, k int, b []float64, m int) {
	var (
		i, p, j    int
		rowA, rowC []float64
		rowB       []float64
		av         float64
	)
	for i = 0; i < rows; i++ {
		rowA = a[i*k : (i+1)*k]
		rowC = dst[i*m : (i+1)*m]
		for j = range rowC {
			rowC[j] = ZeroSum
		}
		for p = 0; p < k; p++ {
			av = rowA[p]
			rowB = b[p*m : (p+1)*m]
			for j = 0; j < m; j++ {
				rowC[j] += float64(av * rowB[j]) // explicit rounding: no FMA fusion
			}
		}
	}
}

// Mul returns the matrix product a × b as a new *Dense.
// Implementation:
//   - Stage 1: ValidateMulCompatible(a, b).
//   - Stage 2: fast path for two *Dense operands through MulRows.
//   - Stage 3: generic fallback through At/Set with the same k order.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch (wrapped with "Mul").
//
// Complexity:
//   - Time O(r*k*c), Space O(r*c).
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}

	// Fast-path for two Dense matrices.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			MulRows(res.data, da.data, aRows, aCols, db.data, bCols)
			return res, nil
		}
	}

	// Fallback: generic interface loop in the same i→k→j order.
	var (
		i, k, j int
		av, bv  float64
		off     int
	)
	for i = 0; i < aRows; i++ {
		off = i * bCols
		for k = 0; k < aCols; k++ {
			if av, err = a.At(i, k); err != nil {
				return nil, matrixErrorf(opMul, err)
			}
			for j = 0; j < bCols; j++ {
				if bv, err = b.At(k, j); err != nil {
					return nil, matrixErrorf(opMul, err)
				}
				res.data[off+j] += float64(av * bv)
			}
		}
	}

	return res, nil
}

// MulBlock multiplies a RowBlock by the full right-hand matrix b and returns
// a block of the product positioned at the same Offset (block.Rows × b.Cols).
// Empty blocks yield empty results without touching b's data.
//
// Errors:
//   - ErrNilMatrix, ErrBadBlock, ErrDimensionMismatch (wrapped with "MulBlock").
//
// Complexity:
//   - Time O(rows*k*m), Space O(rows*m).
func MulBlock(block RowBlock, b *Dense) (RowBlock, error) {
	if err := ValidateBlockCompatible(block, b); err != nil {
		return RowBlock{}, matrixErrorf(opMulBlock, err)
	}
	out := RowBlock{
		Offset: block.Offset,
		Rows:   block.Rows,
		Cols:   b.c,
		Data:   make([]float64, block.Rows*b.c),
	}
	MulRows(out.Data, block.Data, block.Rows, block.Cols, b.data, b.c)

	return out, nil
}
