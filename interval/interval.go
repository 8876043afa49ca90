package interval

import (
	"cmp"
	"iter"
	"slices"
)

// Interval is a bounded range carrying a payload.
type Interval[B Bounds[B], P any] struct {
	Bounds  B
	Payload P
}

// New returns an interval with the given bounds and payload.
func New[B Bounds[B], P any](bounds B, payload P) Interval[B, P] {
	return Interval[B, P]{Bounds: bounds, Payload: payload}
}

// Start returns the start of the time range.
func (i Interval[B, P]) Start() float64 { return i.Bounds.Start() }

// End returns the end of the time range.
func (i Interval[B, P]) End() float64 { return i.Bounds.End() }

// Set is an immutable sequence of intervals sorted by (start, end) with no
// two elements sharing identical bounds. The zero value is an empty set.
type Set[B Bounds[B], P any] struct {
	items []Interval[B, P]
}

// NewSet builds a Set from intervals. The input is copied, stably sorted by
// (start, end) and de-duplicated on bounds; the first occurrence wins.
func NewSet[B Bounds[B], P any](intervals ...Interval[B, P]) Set[B, P] {
	items := slices.Clone(intervals)
	slices.SortStableFunc(items, compareIntervals[B, P])
	return Set[B, P]{items: dedupe(items)}
}

// fromSorted wraps items that are already sorted and unique. Ownership of
// items passes to the Set.
func fromSorted[B Bounds[B], P any](items []Interval[B, P]) Set[B, P] {
	return Set[B, P]{items: items}
}

func compareIntervals[B Bounds[B], P any](a, b Interval[B, P]) int {
	if c := cmp.Compare(a.Start(), b.Start()); c != 0 {
		return c
	}
	return cmp.Compare(a.End(), b.End())
}

// dedupe drops later elements whose bounds equal an earlier element with the
// same (start, end). items must be sorted.
func dedupe[B Bounds[B], P any](items []Interval[B, P]) []Interval[B, P] {
	if len(items) < 2 {
		return items
	}
	out := items[:0]
	runStart := 0
	for _, it := range items {
		if len(out) > 0 && compareIntervals(out[len(out)-1], it) != 0 {
			runStart = len(out)
		}
		if slices.ContainsFunc(out[runStart:], func(o Interval[B, P]) bool { return o.Bounds == it.Bounds }) {
			continue
		}
		out = append(out, it)
	}
	return out
}

// Len returns the number of intervals.
func (s Set[B, P]) Len() int { return len(s.items) }

// Empty reports whether the set has no intervals.
func (s Set[B, P]) Empty() bool { return len(s.items) == 0 }

// At returns the i-th interval in order.
func (s Set[B, P]) At(i int) Interval[B, P] { return s.items[i] }

// Intervals returns a copy of the intervals in order.
func (s Set[B, P]) Intervals() []Interval[B, P] { return slices.Clone(s.items) }

// All iterates the intervals in order.
func (s Set[B, P]) All() iter.Seq2[int, Interval[B, P]] {
	return func(yield func(int, Interval[B, P]) bool) {
		for i, it := range s.items {
			if !yield(i, it) {
				return
			}
		}
	}
}

// Filter returns the intervals for which keep returns true, in order.
func Filter[B Bounds[B], P any](s Set[B, P], keep func(Interval[B, P]) bool) Set[B, P] {
	var out []Interval[B, P]
	for _, it := range s.items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return fromSorted(out)
}

// MapPayload returns a set with the same bounds and payloads transformed by fn.
func MapPayload[B Bounds[B], P, Q any](s Set[B, P], fn func(P) Q) Set[B, Q] {
	out := make([]Interval[B, Q], len(s.items))
	for i, it := range s.items {
		out[i] = Interval[B, Q]{Bounds: it.Bounds, Payload: fn(it.Payload)}
	}
	return fromSorted(out)
}
