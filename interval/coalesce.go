package interval

// Coalesce merges temporally close intervals using Span for the bounds.
// See CoalesceWith.
func Coalesce[B Bounds[B], P any](s Set[B, P], epsilon float64, mergePayload func(group []P) P) Set[B, P] {
	return CoalesceWith(s, epsilon, func(a, b B) B { return a.Span(b) }, mergePayload)
}

// CoalesceWith scans s in order and groups consecutive intervals while the
// gap between the group's end and the next start is at most epsilon.
// Overlapping intervals always join the current group. A negative epsilon
// is treated as 0.
//
// A group with a single member is returned unchanged. A larger group becomes
// one interval whose bounds fold mergeBounds over the members and whose
// payload is mergePayload of the members' payloads in input order. If
// mergePayload is nil the first member's payload is kept.
//
// Adjacent output intervals are separated by strictly more than epsilon, so
// coalescing the output again with the same epsilon is a no-op.
func CoalesceWith[B Bounds[B], P any](s Set[B, P], epsilon float64, mergeBounds func(a, b B) B, mergePayload func(group []P) P) Set[B, P] {
	items := s.items
	if len(items) == 0 {
		return Set[B, P]{}
	}
	epsilon = max(epsilon, 0)

	out := make([]Interval[B, P], 0, len(items))
	groupStart := 0
	bounds := items[0].Bounds

	flush := func(end int) {
		if end-groupStart == 1 {
			out = append(out, items[groupStart])
			return
		}
		var payload P
		if mergePayload != nil {
			group := make([]P, 0, end-groupStart)
			for _, it := range items[groupStart:end] {
				group = append(group, it.Payload)
			}
			payload = mergePayload(group)
		} else {
			payload = items[groupStart].Payload
		}
		out = append(out, Interval[B, P]{Bounds: bounds, Payload: payload})
	}

	for i := 1; i < len(items); i++ {
		next := items[i]
		if next.Start()-bounds.End() > epsilon {
			flush(i)
			groupStart = i
			bounds = next.Bounds
			continue
		}
		bounds = mergeBounds(bounds, next.Bounds)
	}
	flush(len(items))

	return fromSorted(out)
}
