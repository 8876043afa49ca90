package interval

import "sort"

// MergeFunc combines a joined pair into a new interval.
type MergeFunc[B Bounds[B], P any] func(l, r Interval[B, P]) Interval[B, P]

// SpanMerge returns a MergeFunc whose bounds are the span of both inputs and
// whose payload is concat(l.Payload, r.Payload).
func SpanMerge[B Bounds[B], P any](concat func(a, b P) P) MergeFunc[B, P] {
	return func(l, r Interval[B, P]) Interval[B, P] {
		return Interval[B, P]{
			Bounds:  l.Bounds.Span(r.Bounds),
			Payload: concat(l.Payload, r.Payload),
		}
	}
}

// Join evaluates predicate on pairs (l, r), l from left and r from right,
// and emits merge(l, r) for every pair that satisfies it.
//
// window bounds the search radius: only pairs whose temporal Distance is at
// most window are considered. It is not a semantic filter; a window smaller
// than the predicate's reach silently drops matches. A negative window
// considers every pair.
//
// Pairs are visited in (left, right) order. The result is re-sorted and
// de-duplicated like NewSet, so |Join(A, B)| <= |A| * |B|.
func Join[B Bounds[B], P any](left, right Set[B, P], predicate Predicate[B], merge MergeFunc[B, P], window float64) Set[B, P] {
	if left.Empty() || right.Empty() {
		return Set[B, P]{}
	}
	r := right.items

	// maxEnd[i] is the largest end among r[:i+1]; it is non-decreasing, so
	// the first candidate for a given lower bound can be binary searched.
	maxEnd := make([]float64, len(r))
	for i, it := range r {
		maxEnd[i] = it.End()
		if i > 0 && maxEnd[i-1] > maxEnd[i] {
			maxEnd[i] = maxEnd[i-1]
		}
	}

	var out []Interval[B, P]
	for _, l := range left.items {
		lo, hi := 0, len(r)
		if window >= 0 {
			lo = sort.Search(len(r), func(i int) bool { return maxEnd[i] >= l.Start()-window })
			hi = sort.Search(len(r), func(i int) bool { return r[i].Start() > l.End()+window })
		}
		for j := lo; j < hi; j++ {
			if window >= 0 && Distance(l.Bounds, r[j].Bounds) > window {
				continue
			}
			if predicate(l.Bounds, r[j].Bounds) {
				out = append(out, merge(l, r[j]))
			}
		}
	}

	return NewSet(out...)
}
