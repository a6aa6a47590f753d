// SPDX-License-Identifier: MIT
// Package matrix_test contains test helpers
//
// Purpose:
//   • Provide small, deterministic test fixtures for kernels and blocks.
//   • Keep all data finite and well-formed to avoid numeric-policy interference.

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/distmm/matrix"
	"github.com/stretchr/testify/require"
)

// hide wraps any Matrix to hide its concrete type from type assertions,
// forcing the generic (non-*Dense) paths in code under test.
type hide struct{ matrix.Matrix }

// MustDense allocates an r×c *Dense or fails the test.
func MustDense(t testing.TB, r, c int) *matrix.Dense {
	t.Helper()
	m, err := matrix.NewDense(r, c)
	require.NoError(t, err)

	return m
}

// MustFrom builds a *Dense from nested rows or fails the test.
func MustFrom(t testing.TB, rows [][]float64) *matrix.Dense {
	t.Helper()
	require.NotEmpty(t, rows)
	c := len(rows[0])
	flat := make([]float64, 0, len(rows)*c)
	for _, row := range rows {
		require.Len(t, row, c)
		flat = append(flat, row...)
	}
	m, err := matrix.NewDenseFrom(len(rows), c, flat)
	require.NoError(t, err)

	return m
}

// MustRandom builds a seeded random r×c matrix or fails the test.
func MustRandom(t testing.TB, r, c int, seed int64) *matrix.Dense {
	t.Helper()
	m, err := matrix.Random(r, c, seed)
	require.NoError(t, err)

	return m
}

// naiveIJK is an independent textbook i→j→k product used as an oracle.
// Its per-cell k order matches MulRows, so results must be bitwise equal.
func naiveIJK(t testing.TB, a, b *matrix.Dense) *matrix.Dense {
	t.Helper()
	out := MustDense(t, a.Rows(), b.Cols())
	for i := 0; i < a.Rows(); i++ {
		for j := 0; j < b.Cols(); j++ {
			sum := 0.0
			for k := 0; k < a.Cols(); k++ {
				av, err := a.At(i, k)
				require.NoError(t, err)
				bv, err := b.At(k, j)
				require.NoError(t, err)
				sum += float64(av * bv)
			}
			require.NoError(t, out.Set(i, j, sum))
		}
	}

	return out
}
