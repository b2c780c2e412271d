// Package testutil provides testing utilities for ncdgo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded random source for synthetic labelled corpora and a
// call-counting length provider.
//
// # Synthetic Corpora
//
//	rng := testutil.NewRNG(seed)
//	items, labels := rng.Corpus(3, 20, 30) // 3 classes, 20 docs each, 30 words per doc
//
// Each class draws its words from its own vocabulary with a Zipf skew, so a
// reasonable compressor separates the classes.
//
// # Counting
//
//	cp := testutil.NewCountingProvider(inner)
//	// ... build rows ...
//	cp.Lengths(), cp.Combined()
package testutil
