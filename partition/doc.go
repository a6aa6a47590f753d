// Package partition splits the rows of an N-row matrix across P participants.
//
// The split is as even as possible: every participant gets floor(N/P) or
// ceil(N/P) rows, and the N mod P remainder rows go one each to the FIRST
// N mod P ranks (front-loaded remainder). Offsets are contiguous and
// non-overlapping, so rank order and offset order coincide.
//
// A Plan is a pure function of (N, P): it never depends on runtime load and
// is recomputed by every participant at the start of a trial.
//
//	N=10, P=4  →  counts [3 3 2 2], offsets [0 3 6 8]
//	N=2,  P=4  →  counts [1 1 0 0], offsets [0 1 2 2]
package partition
