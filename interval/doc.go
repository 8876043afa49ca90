// Package interval implements a small temporal interval algebra over
// immutable, sorted interval sets.
//
// The package is generic over the bounds type B (see Bounds) and the payload
// type P. Three pure operators are provided:
//
//   - Filter keeps the intervals matching a function
//   - Coalesce merges intervals separated by at most epsilon
//   - Join combines two sets pairwise under a Predicate
//
// Predicates are plain functions composed with Or, And and Not:
//
//	pred := interval.Or(interval.Overlaps[interval.Bounds3D](), interval.Before[interval.Bounds3D](1))
//	joined := interval.Join(a, b, pred, interval.SpanMerge[interval.Bounds3D](concat), 1)
//
// Operators never mutate their inputs; every result is a freshly allocated Set.
package interval
