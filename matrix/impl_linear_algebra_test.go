// Package matrix_test validates the pinned-order dense product.
package matrix_test

import (
	"testing"

	"github.com/katalvlaran/distmm/matrix"
	"github.com/stretchr/testify/require"
)

// TestMulIdentityLeavesOperand checks I·B == B bitwise.
func TestMulIdentityLeavesOperand(t *testing.T) {
	I, err := matrix.NewIdentity(4)
	require.NoError(t, err)
	B, err := matrix.NewSequence(4, 4)
	require.NoError(t, err)

	C, err := matrix.Mul(I, B)
	require.NoError(t, err)
	require.True(t, C.Equal(B), "got\n%s", C)
}

// TestMulRectangular multiplies a 2×3 by a 3×2 and checks hand-computed values.
func TestMulRectangular(t *testing.T) {
	A := MustFrom(t, [][]float64{{1, 2, 3}, {4, 5, 6}})
	B := MustFrom(t, [][]float64{{7, 8}, {9, 10}, {11, 12}})

	C, err := matrix.Mul(A, B)
	require.NoError(t, err)
	require.True(t, C.Equal(MustFrom(t, [][]float64{{58, 64}, {139, 154}})))
}

// TestMulMatchesOracleBitwise compares the fast path, the generic path and an
// independent i→j→k oracle on random rectangular inputs.
func TestMulMatchesOracleBitwise(t *testing.T) {
	A := MustRandom(t, 7, 5, 11)
	B := MustRandom(t, 5, 9, 12)

	fast, err := matrix.Mul(A, B)
	require.NoError(t, err)
	slow, err := matrix.Mul(hide{A}, hide{B})
	require.NoError(t, err)

	require.True(t, fast.Equal(slow))
	require.True(t, fast.Equal(naiveIJK(t, A, B)))
}

// TestMulDimensionMismatch checks the inner-dimension guard and nil guard.
func TestMulDimensionMismatch(t *testing.T) {
	_, err := matrix.Mul(MustDense(t, 2, 3), MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	var nilDense *matrix.Dense
	_, err = matrix.Mul(nilDense, MustDense(t, 2, 3))
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulBlockMatchesFullProduct: every block product equals the matching rows
// of the full product, for any split.
func TestMulBlockMatchesFullProduct(t *testing.T) {
	A := MustRandom(t, 6, 4, 3)
	B := MustRandom(t, 4, 5, 4)
	full, err := matrix.Mul(A, B)
	require.NoError(t, err)

	out := MustDense(t, 6, 5)
	for _, cut := range [][2]int{{0, 1}, {1, 0}, {1, 3}, {4, 2}} {
		blk, err := A.RowBlock(cut[0], cut[1])
		require.NoError(t, err)
		part, err := matrix.MulBlock(blk, B)
		require.NoError(t, err)
		require.Equal(t, blk.Offset, part.Offset)
		require.Equal(t, 5, part.Cols)
		require.NoError(t, out.PutRowBlock(part))
	}
	require.True(t, out.Equal(full))
}

// TestMulBlockErrors covers the block guard.
func TestMulBlockErrors(t *testing.T) {
	B := MustDense(t, 3, 3)
	_, err := matrix.MulBlock(matrix.RowBlock{Rows: 1, Cols: 2, Data: []float64{1, 2}}, B)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.MulBlock(matrix.RowBlock{Rows: 1, Cols: 3, Data: []float64{1}}, B)
	require.ErrorIs(t, err, matrix.ErrBadBlock)

	_, err = matrix.MulBlock(matrix.RowBlock{Rows: 0, Cols: 3}, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMulGonumClose: the BLAS-backed product agrees within tolerance.
func TestMulGonumClose(t *testing.T) {
	A := MustRandom(t, 33, 17, 5)
	B := MustRandom(t, 17, 21, 6)

	want, err := matrix.Mul(A, B)
	require.NoError(t, err)
	got, err := matrix.MulGonum(A, B)
	require.NoError(t, err)

	ok, err := matrix.AllClose(got, want, 1e-12, 1e-12)
	require.NoError(t, err)
	require.True(t, ok)

	d, err := matrix.MaxAbsDiff(got, want)
	require.NoError(t, err)
	require.Less(t, d, 1e-10)
}

// TestGonumRoundTrip converts to gonum and back.
func TestGonumRoundTrip(t *testing.T) {
	A := MustRandom(t, 3, 4, 9)
	g, err := matrix.ToGonum(A)
	require.NoError(t, err)
	back, err := matrix.FromGonum(g)
	require.NoError(t, err)
	require.True(t, A.Equal(back))
}
