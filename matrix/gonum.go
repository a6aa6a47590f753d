// SPDX-License-Identifier: MIT
// Package matrix - gonum bridge.
//
// The BLAS-backed gonum product is an "equivalent vectorized dense kernel":
// numerically equivalent within tolerance, but its blocked accumulation order
// differs from MulRows, so results are compared with AllClose, never Equal.

package matrix

import "gonum.org/v1/gonum/mat"

// ToGonum returns a *mat.Dense holding a copy of m.
func ToGonum(m *Dense) (*mat.Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf("ToGonum", err)
	}
	buf := make([]float64, len(m.data))
	copy(buf, m.data)

	return mat.NewDense(m.r, m.c, buf), nil
}

// FromGonum copies any gonum matrix into a new *Dense.
func FromGonum(g mat.Matrix) (*Dense, error) {
	r, c := g.Dims()
	out, err := NewDense(r, c)
	if err != nil {
		return nil, matrixErrorf("FromGonum", err)
	}
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			out.data[i*c+j] = g.At(i, j)
		}
	}

	return out, nil
}

// MulGonumRows computes dst = a·b (rows×k by k×m) through gonum's BLAS-backed
// Mul. Zero-row inputs are a no-op (gonum rejects empty matrices).
func MulGonumRows(dst, a []float64, rows, k int, b []float64, m int) {
	if rows == 0 || k == 0 || m == 0 {
		return
	}
	ga := mat.NewDense(rows, k, a[:rows*k])
	gb := mat.NewDense(k, m, b[:k*m])
	gc := mat.NewDense(rows, m, dst[:rows*m])
	gc.Mul(ga, gb)
}

// MulGonum returns a × b computed by gonum.
func MulGonum(a, b *Dense) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf("MulGonum", err)
	}
	res, err := NewDense(a.r, b.c)
	if err != nil {
		return nil, matrixErrorf("MulGonum", err)
	}
	MulGonumRows(res.data, a.data, a.r, a.c, b.data, b.c)

	return res, nil
}
