// Package distance provides the vector distance kernels used by pose scoring.
//
// Kernels operate on float64 slices and delegate to gonum's floats package.
//
// # Supported Metrics
//
//   - MetricCosine: cosine distance (1 - cosine similarity), guarded for zero vectors
//   - MetricL2: squared Euclidean distance
//
// # Usage
//
//	d := distance.Cosine(a, b)   // in [0, 2], 1 if either vector has zero length
//	sq := distance.SquaredL2(a, b)
//	m, _ := distance.ParseMetric("l2")
//	fn, _ := distance.Provider(m)
package distance
