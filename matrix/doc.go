// Package matrix provides the dense row-major matrix used by the distributed
// multiplication engine, the RowBlock slice exchanged between participants,
// and the sequential multiplication kernel shared by the baseline and the
// distributed local product.
//
// The matrix package provides:
//
//   - Dense: a flat row-major buffer with bounds-checked At/Set.
//   - RowBlock: a contiguous run of rows tagged with its starting row index.
//   - Mul / MulRows: the dense product with a pinned accumulation order, so
//     the same inputs always produce bit-identical outputs.
//   - AllClose / MaxAbsDiff: numeric comparison helpers for verification.
//   - A gonum bridge (ToGonum, FromGonum, MulGonum) for BLAS-backed products.
//
// See the examples in this package for usage patterns.
package matrix
