// Package dataset loads labelled text collections, draws reproducible
// per-class samples and persists sampled index lists so repeated runs
// evaluate the same subsets.
package dataset
