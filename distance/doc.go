// Package distance provides compression-based distance functions.
//
// Every function takes the compressed lengths of two items and of their
// aggregation and returns a scalar distance. None of them clamp: depending on
// the compressor, combined lengths may exceed the theoretical bound and the
// resulting distance can exceed 1.
//
// # Supported Metrics
//
//   - MetricNCD: Normalized Compression Distance (default)
//   - MetricCLM: Compression-based Length Metric
//   - MetricCDM: Compression-based Dissimilarity Measure
//
// # Usage
//
//	d, err := distance.NCD(lenA, lenB, lenAB)
//	fn, _ := distance.Provider(distance.MetricCDM)
package distance
