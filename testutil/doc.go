// Package testutil provides testing utilities for bernoulli.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating deterministic key sets and measuring
// observed error rates.
//
// # Key Generation
//
//	rng := testutil.NewRNG(seed)
//	members := rng.Strings(1000, 16)   // distinct random strings
//	probes := rng.StringsExcept(10000, 16, members)
//
// # Observed Rates
//
//	fpr := testutil.ObservedRate(probes, f.Contains)
package testutil
