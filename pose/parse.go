package pose

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseConstraint builds a Constraint from a relation expression over the
// part names of s:
//
//	Nose above Neck
//	RWrist left-of LWrist       (also right-of, below)
//	LWrist close-to RWrist 0.1
//	RShoulder:RElbow less-tilted-than LShoulder:LElbow 15
func ParseConstraint(s *Skeleton, expr string) (Constraint, error) {
	fields := strings.Fields(expr)
	if len(fields) < 3 {
		return nil, fmt.Errorf("pose: constraint %q: want <joint> <relation> <joint> [arg]", expr)
	}
	rel := strings.ToLower(fields[1])

	if rel == "less-tilted-than" {
		if len(fields) != 4 {
			return nil, fmt.Errorf("pose: constraint %q: want <a1:a2> less-tilted-than <b1:b2> <margin>", expr)
		}
		a1, a2, err := segment(s, fields[0])
		if err != nil {
			return nil, err
		}
		b1, b2, err := segment(s, fields[2])
		if err != nil {
			return nil, err
		}
		margin, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("pose: constraint %q: margin: %w", expr, err)
		}
		return LessTiltedThan(a1, a2, b1, b2, margin), nil
	}

	a, err := joint(s, fields[0])
	if err != nil {
		return nil, err
	}
	b, err := joint(s, fields[2])
	if err != nil {
		return nil, err
	}

	if rel == "close-to" {
		if len(fields) != 4 {
			return nil, fmt.Errorf("pose: constraint %q: want <a> close-to <b> <fraction>", expr)
		}
		fraction, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("pose: constraint %q: fraction: %w", expr, err)
		}
		return CloseTo(a, b, fraction), nil
	}

	if len(fields) != 3 {
		return nil, fmt.Errorf("pose: constraint %q: unexpected argument %q", expr, fields[3])
	}
	switch rel {
	case "left-of":
		return LeftOf(a, b), nil
	case "right-of":
		return RightOf(a, b), nil
	case "above":
		return Above(a, b), nil
	case "below":
		return Below(a, b), nil
	default:
		return nil, fmt.Errorf("pose: constraint %q: unknown relation %q", expr, fields[1])
	}
}

func joint(s *Skeleton, name string) (JointID, error) {
	id, ok := s.IndexOf(name)
	if !ok {
		return 0, fmt.Errorf("pose: %s has no part %q", s.Name, name)
	}
	return id, nil
}

func segment(s *Skeleton, expr string) (JointID, JointID, error) {
	from, to, ok := strings.Cut(expr, ":")
	if !ok {
		return 0, 0, fmt.Errorf("pose: segment %q: want <from>:<to>", expr)
	}
	a, err := joint(s, from)
	if err != nil {
		return 0, 0, err
	}
	b, err := joint(s, to)
	if err != nil {
		return 0, 0, err
	}
	return a, b, nil
}
