// Package testutil provides deterministic data generators for tests and
// benchmarks.
//
// All generators hang off RNG, which is seeded and safe for concurrent
// use, so test data is reproducible across runs and goroutines.
package testutil
