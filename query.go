package poseseq

import (
	"fmt"

	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/similarity"
)

// Query describes an ordered sequence of reference poses to search for.
type Query struct {
	// Poses must be matched in this order. At least one is required.
	Poses []pose.Reference

	// GapSeconds is the largest tolerated gap between consecutive stages.
	GapSeconds float64

	// SimilarityThreshold gates candidates: JointSimilarity >= threshold.
	SimilarityThreshold float64

	// Epsilon is the coalesce tolerance within a stage, in seconds.
	Epsilon float64

	// AspectThreshold additionally requires BBoxSimilarity >= AspectThreshold.
	// Zero disables the check.
	AspectThreshold float64

	// Constraints must all hold for a frame to be a candidate of any stage.
	Constraints []pose.Constraint
}

// DefaultQuery returns a query over poses with the default tolerances.
func DefaultQuery(poses ...pose.Reference) Query {
	return Query{
		Poses:               poses,
		GapSeconds:          1,
		SimilarityThreshold: 0.95,
		Epsilon:             0.1,
	}
}

// Validate checks the query before any frame is scored.
func (q Query) Validate() error {
	if len(q.Poses) == 0 {
		return invalidQuery("no poses")
	}
	if !(q.SimilarityThreshold >= 0 && q.SimilarityThreshold <= 1) {
		return invalidQuery("similarity threshold %v outside [0, 1]", q.SimilarityThreshold)
	}
	if !(q.Epsilon >= 0) {
		return invalidQuery("negative epsilon %v", q.Epsilon)
	}
	if !(q.GapSeconds >= 0) {
		return invalidQuery("negative gap %v", q.GapSeconds)
	}
	if !(q.AspectThreshold >= 0) {
		return invalidQuery("negative aspect threshold %v", q.AspectThreshold)
	}
	for i, ref := range q.Poses {
		if box := ref.BBox(); box.Degenerate() {
			err := &similarity.DomainError{Op: "reference", BBox: box}
			return translateError(poseReason(i, ref), err)
		}
	}
	return nil
}

func poseReason(i int, ref pose.Reference) string {
	if ref.Name != "" {
		return fmt.Sprintf("pose %d (%s)", i, ref.Name)
	}
	return fmt.Sprintf("pose %d", i)
}
