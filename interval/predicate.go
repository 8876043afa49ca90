package interval

// Predicate decides whether a pair of bounds should be joined.
type Predicate[B Bounds[B]] func(a, b B) bool

// Overlaps holds when the time ranges of a and b intersect in more than a
// single point.
func Overlaps[B Bounds[B]]() Predicate[B] {
	return func(a, b B) bool {
		return a.Start() < b.End() && b.Start() < a.End()
	}
}

// Before holds when a ends at or before b starts, with a gap of at most
// maxDist.
func Before[B Bounds[B]](maxDist float64) Predicate[B] {
	return func(a, b B) bool {
		gap := b.Start() - a.End()
		return gap >= 0 && gap <= maxDist
	}
}

// After holds when a starts at or after b ends, with a gap of at most
// maxDist.
func After[B Bounds[B]](maxDist float64) Predicate[B] {
	return func(a, b B) bool {
		return Before[B](maxDist)(b, a)
	}
}

// During holds when a lies within b.
func During[B Bounds[B]]() Predicate[B] {
	return func(a, b B) bool {
		return b.Start() <= a.Start() && a.End() <= b.End()
	}
}

// Or holds when any of ps holds.
func Or[B Bounds[B]](ps ...Predicate[B]) Predicate[B] {
	return func(a, b B) bool {
		for _, p := range ps {
			if p(a, b) {
				return true
			}
		}
		return false
	}
}

// And holds when all of ps hold.
func And[B Bounds[B]](ps ...Predicate[B]) Predicate[B] {
	return func(a, b B) bool {
		for _, p := range ps {
			if !p(a, b) {
				return false
			}
		}
		return true
	}
}

// Not negates p.
func Not[B Bounds[B]](p Predicate[B]) Predicate[B] {
	return func(a, b B) bool {
		return !p(a, b)
	}
}
