// Package similarity scores how closely an observed pose matches a reference
// pose after removing the subject's screen position and size.
package similarity

import (
	"errors"
	"fmt"
	"math"

	"github.com/hupe1980/poseseq/distance"
	"github.com/hupe1980/poseseq/pose"
)

// ErrDomain is matched by every *DomainError.
var ErrDomain = errors.New("similarity: outside domain")

// DomainError indicates that a score is undefined for the given box,
// e.g. an aspect ratio with zero height.
type DomainError struct {
	Op   string
	BBox pose.BBox
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("similarity: %s: degenerate bounding box %s", e.Op, e.BBox)
}

// Is reports ErrDomain equivalence.
func (e *DomainError) Is(target error) bool { return target == ErrDomain }

// Vec is a bbox-relative joint coordinate.
type Vec [2]float64

// Normalize maps joints into the coordinate frame of box: the origin is the
// box center and unit length is the box size per axis. Every joint is mapped,
// sentinels included; callers decide which joints to skip.
func Normalize(js pose.Joints, box pose.BBox) (map[pose.JointID]Vec, error) {
	if box.Degenerate() {
		return nil, &DomainError{Op: "normalize", BBox: box}
	}
	cx, cy := box.Center()
	w, h := box.Width(), box.Height()

	out := make(map[pose.JointID]Vec, len(js))
	for id, j := range js {
		out[id] = Vec{(j.X - cx) / w, (j.Y - cy) / h}
	}
	return out, nil
}

// Scorer compares observed records against reference poses.
// It is immutable and safe for concurrent use.
type Scorer struct {
	skeleton *pose.Skeleton
	ids      []pose.JointID
	metric   distance.Metric
	dist     distance.Func
}

// ScorerOption configures a Scorer.
type ScorerOption func(*Scorer)

// WithMetric selects the per-joint distance. Metrics unknown to
// distance.Provider are ignored and cosine distance is kept.
func WithMetric(m distance.Metric) ScorerOption {
	return func(sc *Scorer) {
		if fn, err := distance.Provider(m); err == nil {
			sc.metric = m
			sc.dist = fn
		}
	}
}

// NewScorer returns a Scorer over the joint ids of s. The per-joint distance
// defaults to cosine distance.
func NewScorer(s *pose.Skeleton, opts ...ScorerOption) *Scorer {
	sc := &Scorer{
		skeleton: s,
		ids:      s.IDs(),
		metric:   distance.MetricCosine,
		dist:     distance.Cosine,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(sc)
		}
	}
	return sc
}

// Skeleton returns the joint table the scorer iterates.
func (sc *Scorer) Skeleton() *pose.Skeleton { return sc.skeleton }

// Metric returns the per-joint distance metric.
func (sc *Scorer) Metric() distance.Metric { return sc.metric }

// JointSimilarity returns 1 - mean joint distance between rec and ref.
//
// Joints that are the sentinel in rec are skipped, whatever ref holds there.
// The accumulated distance is still divided by the total number of joint ids,
// so undetected joints pull the score towards 1. Under cosine distance a
// joint whose normalized vector has zero length contributes distance 1;
// under MetricL2 the squared distance of the normalized vectors is used.
func (sc *Scorer) JointSimilarity(rec pose.Record, ref pose.Reference) (float64, error) {
	obs, err := Normalize(rec.Joints, rec.BBox)
	if err != nil {
		return 0, err
	}
	refBox := ref.BBox()
	if refBox.Degenerate() {
		return 0, &DomainError{Op: "joint similarity", BBox: refBox}
	}
	if len(sc.ids) == 0 {
		return 1, nil
	}
	cx, cy := refBox.Center()
	w, h := refBox.Width(), refBox.Height()

	total := 0.0
	for _, id := range sc.ids {
		if rec.Joints.Get(id).IsSentinel() {
			continue
		}
		rj := ref.Joints.Get(id)
		r := Vec{(rj.X - cx) / w, (rj.Y - cy) / h}
		o := obs[id]
		total += sc.dist(o[:], r[:])
	}
	return 1 - total/float64(len(sc.ids)), nil
}

// BBoxSimilarity compares aspect ratios (width/height) of box and the box
// computed from ref's joints: 1 - |Δaspect| / referenceAspect.
func (sc *Scorer) BBoxSimilarity(box pose.BBox, ref pose.Reference) (float64, error) {
	refBox := ref.BBox()
	if refBox.Degenerate() {
		return 0, &DomainError{Op: "bbox similarity", BBox: refBox}
	}
	if box.Degenerate() {
		return 0, &DomainError{Op: "bbox similarity", BBox: box}
	}
	refAspect := refBox.Aspect()
	return 1 - math.Abs(refAspect-box.Aspect())/refAspect, nil
}
