// Package distmm is a distributed dense matrix multiplication benchmark.
//
// A coordinator splits the rows of A across P participants, broadcasts B,
// lets every participant multiply its own row block and gathers the partial
// results back into C = A x B. The same trial is timed against a sequential
// baseline, verified, and reported as speedup and parallel efficiency.
//
// Packages:
//
//	matrix/      dense row-major matrices, row blocks, kernels and comparison
//	partition/   front-loaded row distribution plans
//	collective/  scatter, broadcast, gather and barrier over an in-process group
//	collective/wsnet/  the same collectives over websockets between processes
//	engine/      the per-participant trial state machine and kernels
//	config/      sweep configuration files (YAML, TOML)
//	bench/       timing records, sweeps, CSV persistence and reporting
//	cmd/distmm/  the command line driver
package distmm
