package poseseq

import (
	"github.com/hupe1980/poseseq/interval"
	"github.com/hupe1980/poseseq/pose"
)

// Match is one occurrence of a query's pose sequence.
type Match struct {
	Start float64   `json:"start"`
	End   float64   `json:"end"`
	Box   pose.BBox `json:"bbox"`

	// Stages[i] holds the coalesced frames matched for query pose i.
	Stages []pose.Payload `json:"-"`
}

// Duration returns End - Start in seconds.
func (m Match) Duration() float64 { return m.End - m.Start }

// Frames returns the frames of every stage in stage order.
func (m Match) Frames() []pose.Frame {
	var out []pose.Frame
	for _, st := range m.Stages {
		out = append(out, pose.Flatten(st)...)
	}
	return out
}

// StageFrames returns the frames matched for pose i.
func (m Match) StageFrames(i int) []pose.Frame {
	if i < 0 || i >= len(m.Stages) {
		return nil
	}
	return pose.Flatten(m.Stages[i])
}

func toMatches(s Spans) []Match {
	out := make([]Match, 0, s.Len())
	for _, sp := range s.All() {
		out = append(out, toMatch(sp))
	}
	return out
}

func toMatch(sp interval.Interval[interval.Bounds3D, pose.Payload]) Match {
	b := sp.Bounds
	m := Match{
		Start: b.T1,
		End:   b.T2,
		Box:   pose.BBox{X1: b.X1, X2: b.X2, Y1: b.Y1, Y2: b.Y2},
	}
	if list, ok := sp.Payload.(pose.FrameList); ok {
		m.Stages = []pose.Payload(list)
	} else if sp.Payload != nil {
		m.Stages = []pose.Payload{sp.Payload}
	}
	return m
}
