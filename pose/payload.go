package pose

import "slices"

// Payload is the data carried by a search interval. It is a closed variant:
// either a SingleFrame produced by filtering, or a FrameList produced by
// coalescing or joining.
type Payload interface {
	isPayload()
	// Len returns the number of frames reachable from the payload.
	Len() int
}

// SingleFrame wraps one matching frame.
type SingleFrame struct {
	Frame Frame
}

func (SingleFrame) isPayload() {}

// Len implements Payload.
func (SingleFrame) Len() int { return 1 }

// FrameList is an ordered list of prior payloads.
type FrameList []Payload

func (FrameList) isPayload() {}

// Len implements Payload.
func (l FrameList) Len() int {
	n := 0
	for _, p := range l {
		n += p.Len()
	}
	return n
}

// Concat merges a coalesced group: the result lists the group's payloads
// in input order.
func Concat(group []Payload) Payload {
	return FrameList(slices.Clone(group))
}

// Append concatenates the payload lists of a and b. A SingleFrame counts as
// a one-element list.
func Append(a, b Payload) Payload {
	la, lb := asList(a), asList(b)
	out := make(FrameList, 0, len(la)+len(lb))
	out = append(out, la...)
	return append(out, lb...)
}

func asList(p Payload) FrameList {
	switch v := p.(type) {
	case FrameList:
		return v
	case nil:
		return nil
	default:
		return FrameList{v}
	}
}

// Flatten returns every frame reachable from p in depth-first order.
func Flatten(p Payload) []Frame {
	var out []Frame
	var walk func(Payload)
	walk = func(p Payload) {
		switch v := p.(type) {
		case SingleFrame:
			out = append(out, v.Frame)
		case FrameList:
			for _, c := range v {
				walk(c)
			}
		}
	}
	walk(p)
	return out
}
