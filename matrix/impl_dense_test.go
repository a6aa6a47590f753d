// Package matrix_test contains unit tests for the Dense implementation
// of the Matrix interface and its RowBlock helpers.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/distmm/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects non-positive dimensions.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(0, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, 0)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(-1, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestNewDenseFrom checks copying, length mismatch and the finite-value policy.
func TestNewDenseFrom(t *testing.T) {
	src := []float64{1, 2, 3, 4, 5, 6}
	m, err := matrix.NewDenseFrom(2, 3, src)
	require.NoError(t, err)
	src[0] = 99 // must not leak into m
	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)

	_, err = matrix.NewDenseFrom(2, 2, src)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	_, err = matrix.NewDenseFrom(1, 2, []float64{1, math.NaN()})
	require.ErrorIs(t, err, matrix.ErrNaNInf)
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m := MustDense(t, 2, 2)

	_, err := m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(2, 0, 1.23), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, -1, 4.56), matrix.ErrOutOfRange)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m := MustDense(t, 2, 2)
	require.NoError(t, m.Set(0, 0, 1.0))

	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 3.0))

	orig, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, orig)
}

// TestStringOutput checks that String() formats the matrix as expected.
func TestStringOutput(t *testing.T) {
	m := MustFrom(t, [][]float64{{1, 2}, {3, 4}})
	require.Equal(t, "[1, 2]\n[3, 4]\n", m.String())
}

// TestEqualBitwise distinguishes -0 from +0 and compares shapes.
func TestEqualBitwise(t *testing.T) {
	a := MustFrom(t, [][]float64{{0, 1}})
	b := MustFrom(t, [][]float64{{math.Copysign(0, -1), 1}})
	require.False(t, a.Equal(b))
	require.True(t, a.Equal(a.CloneDense()))
	require.False(t, a.Equal(MustDense(t, 2, 1)))
	require.False(t, a.Equal(nil))
}

// TestRowBlockRoundTrip cuts blocks, including an empty one, and puts them back.
func TestRowBlockRoundTrip(t *testing.T) {
	src, err := matrix.NewSequence(4, 3)
	require.NoError(t, err)
	dst := MustDense(t, 4, 3)

	cases := []struct{ off, cnt int }{{0, 2}, {2, 0}, {2, 2}}
	for _, tc := range cases {
		blk, err := src.RowBlock(tc.off, tc.cnt)
		require.NoError(t, err)
		require.Equal(t, tc.off, blk.Offset)
		require.Equal(t, tc.cnt, blk.Rows)
		require.Len(t, blk.Data, tc.cnt*3)
		require.NoError(t, dst.PutRowBlock(blk))
	}
	require.True(t, src.Equal(dst))

	// Blocks never alias the source.
	blk, err := src.RowBlock(0, 1)
	require.NoError(t, err)
	blk.Data[0] = -1
	v, err := src.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

// TestRowBlockErrors covers every rejection path of RowBlock/PutRowBlock.
func TestRowBlockErrors(t *testing.T) {
	m := MustDense(t, 3, 2)

	_, err := m.RowBlock(2, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
	_, err = m.RowBlock(-1, 1)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	require.ErrorIs(t, m.PutRowBlock(matrix.RowBlock{Offset: 0, Rows: 1, Cols: 2, Data: []float64{1}}), matrix.ErrBadBlock)
	require.ErrorIs(t, m.PutRowBlock(matrix.RowBlock{Offset: 0, Rows: 1, Cols: 3, Data: []float64{1, 2, 3}}), matrix.ErrDimensionMismatch)
	require.ErrorIs(t, m.PutRowBlock(matrix.RowBlock{Offset: 2, Rows: 2, Cols: 2, Data: make([]float64, 4)}), matrix.ErrOutOfRange)
}

// TestRowBlockRow checks relative row access on a block.
func TestRowBlockRow(t *testing.T) {
	src, err := matrix.NewSequence(3, 2)
	require.NoError(t, err)
	blk, err := src.RowBlock(1, 2)
	require.NoError(t, err)

	row, err := blk.Row(1)
	require.NoError(t, err)
	require.Equal(t, []float64{5, 6}, row)
	require.Equal(t, 3, blk.End())

	_, err = blk.Row(2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}
