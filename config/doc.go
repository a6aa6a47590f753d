// Package config loads and validates benchmark sweep configuration.
//
// A sweep is the cross product of matrix sizes and process counts, run in
// sizes-major order. Files are YAML (.yaml, .yml) or TOML (.toml); keys not
// present in the file keep the values of Default. Unknown keys are rejected.
//
//	sizes: [500, 1000, 1001, 2000, 4000]
//	processes: [1, 2, 4, 8]
//	seed: 42
//	kernel: naive        # naive | parallel | gonum
//	timeout: 300s        # per trial
//	transport: local     # local | ws
//	output: matrix_multiply_performance_results.csv
package config
