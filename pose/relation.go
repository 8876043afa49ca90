package pose

import "math"

// Constraint is an extra predicate on a candidate record. Relations built
// here are false whenever a referenced joint has a zero coordinate.
//
// Directions follow OpenPose: "left" and "right" are the subject's sides,
// i.e. the opposite of the viewer's when the subject faces the camera.
type Constraint func(Record) bool

// Point is a 2D coordinate.
type Point struct{ X, Y float64 }

func usable(j Joint) bool {
	return j.X != 0 && j.Y != 0
}

func pair(r Record, a, b JointID) (Joint, Joint, bool) {
	ja, jb := r.Joints.Get(a), r.Joints.Get(b)
	return ja, jb, usable(ja) && usable(jb)
}

// LeftOf holds when joint a is on the subject's left of joint b.
func LeftOf(a, b JointID) Constraint {
	return func(r Record) bool {
		ja, jb, ok := pair(r, a, b)
		return ok && ja.X > jb.X
	}
}

// RightOf holds when joint a is on the subject's right of joint b.
func RightOf(a, b JointID) Constraint {
	return func(r Record) bool {
		ja, jb, ok := pair(r, a, b)
		return ok && ja.X < jb.X
	}
}

// Below holds when joint a is lower in the frame than joint b.
func Below(a, b JointID) Constraint {
	return func(r Record) bool {
		ja, jb, ok := pair(r, a, b)
		return ok && ja.Y > jb.Y
	}
}

// Above holds when joint a is higher in the frame than joint b.
func Above(a, b JointID) Constraint {
	return func(r Record) bool {
		ja, jb, ok := pair(r, a, b)
		return ok && ja.Y < jb.Y
	}
}

// CloseTo holds when a and b are within fraction of the record's box size
// on both axes.
func CloseTo(a, b JointID, fraction float64) Constraint {
	return func(r Record) bool {
		ja, jb, ok := pair(r, a, b)
		if !ok {
			return false
		}
		return math.Abs(jb.X-ja.X) <= fraction*r.BBox.Width() &&
			math.Abs(jb.Y-ja.Y) <= fraction*r.BBox.Height()
	}
}

// AngleFromX returns the angle in degrees, in [0, 180], between the image
// x axis and the segment a -> b. ok is false if either joint is unusable or
// the segment has zero length.
func AngleFromX(r Record, a, b JointID) (deg float64, ok bool) {
	ja, jb, ok := pair(r, a, b)
	if !ok {
		return 0, false
	}
	dx, dy := jb.X-ja.X, jb.Y-ja.Y
	n := math.Hypot(dx, dy)
	if n == 0 {
		return 0, false
	}
	cos := math.Max(-1, math.Min(1, dx/n))
	return math.Acos(cos) * 180 / math.Pi, true
}

// LessTiltedThan holds when segment a1->a2 makes a smaller angle with the x
// axis than segment b1->b2 by more than marginDeg degrees.
func LessTiltedThan(a1, a2, b1, b2 JointID, marginDeg float64) Constraint {
	return func(r Record) bool {
		angA, okA := AngleFromX(r, a1, a2)
		angB, okB := AngleFromX(r, b1, b2)
		return okA && okB && angA+marginDeg < angB
	}
}

// All combines constraints with logical AND. An empty list always holds.
func All(cs ...Constraint) Constraint {
	return func(r Record) bool {
		for _, c := range cs {
			if !c(r) {
				return false
			}
		}
		return true
	}
}

// SegmentsIntersect reports whether segments p1q1 and p2q2 intersect,
// collinear overlaps included.
func SegmentsIntersect(p1, q1, p2, q2 Point) bool {
	o1 := orientation(p1, q1, p2)
	o2 := orientation(p1, q1, q2)
	o3 := orientation(p2, q2, p1)
	o4 := orientation(p2, q2, q1)

	if o1 != o2 && o3 != o4 {
		return true
	}

	return (o1 == 0 && onSegment(p1, q1, p2)) ||
		(o2 == 0 && onSegment(p1, q1, q2)) ||
		(o3 == 0 && onSegment(p2, q2, p1)) ||
		(o4 == 0 && onSegment(p2, q2, q1))
}

// orientation returns 0 for collinear, 1 for clockwise, -1 otherwise.
func orientation(p, q, r Point) int {
	v := (q.Y-p.Y)*(r.X-q.X) - (q.X-p.X)*(r.Y-q.Y)
	switch {
	case v == 0:
		return 0
	case v > 0:
		return 1
	default:
		return -1
	}
}

// onSegment reports whether r lies in the bounding rectangle of pq.
func onSegment(p, q, r Point) bool {
	return r.X <= math.Max(p.X, q.X) && r.X >= math.Min(p.X, q.X) &&
		r.Y <= math.Max(p.Y, q.Y) && r.Y >= math.Min(p.Y, q.Y)
}
