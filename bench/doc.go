// Package bench measures the distributed multiplication against a
// single-process baseline and produces one TimingRecord per
// (matrix size, process count) trial.
//
// Timing window (the same on every transport):
//
//	rank 0: generate A, B; time the sequential product
//	all:    Barrier
//	        start
//	        engine.Multiply (scatter, broadcast, compute, gather)
//	        Barrier
//	        stop  → distributed_time
//
// Derived metrics: speedup = sequential/distributed and efficiency =
// speedup/processes. Zero durations are rejected (ErrZeroDuration) rather
// than producing Inf or NaN. Efficiency above 1 is kept as measured and
// flagged Superlinear (a caching artifact, never clamped).
//
// Failed trials become Failure values (size, processes, error kind) and are
// excluded from the record table.
package bench
