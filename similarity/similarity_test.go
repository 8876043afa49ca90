package similarity

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/poseseq/distance"
	"github.com/hupe1980/poseseq/pose"
)

// square is a four-joint skeleton whose last id is Background.
var square = &pose.Skeleton{
	Name:       "square",
	Parts:      []string{"A", "B", "C", "Background"},
	Background: 3,
}

func squareJoints() pose.Joints {
	return pose.Joints{
		0: {X: 0.2, Y: 0.2, Confidence: 1},
		1: {X: 0.6, Y: 0.3, Confidence: 1},
		2: {X: 0.3, Y: 0.7, Confidence: 1},
	}
}

func vs(v Vec) []float64 { return v[:] }

func TestNormalize(t *testing.T) {
	box := pose.BBox{X1: 0.2, X2: 0.6, Y1: 0.1, Y2: 0.9}
	js := pose.Joints{
		0: {X: 0.6, Y: 0.9, Confidence: 1},
		1: {X: 0.4, Y: 0.5, Confidence: 1},
		2: {X: 0.2, Y: 0.1, Confidence: 1},
	}

	got, err := Normalize(js, box)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, vs(got[0]), 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0}, vs(got[1]), 1e-12)
	assert.InDeltaSlice(t, []float64{-0.5, -0.5}, vs(got[2]), 1e-12)

	_, err = Normalize(js, pose.BBox{X1: 0.5, X2: 0.5, Y1: 0, Y2: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDomain)
}

func TestNormalize_RemovesPositionAndScale(t *testing.T) {
	sc := NewScorer(square)
	ref := pose.Reference{Joints: squareJoints()}

	// Same shape, shifted right and scaled by half.
	moved := pose.Joints{}
	for id, j := range squareJoints() {
		moved[id] = pose.Joint{X: 0.4 + j.X/2, Y: 0.05 + j.Y/2, Confidence: j.Confidence}
	}

	sim, err := sc.JointSimilarity(pose.NewRecord(moved), ref)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestJointSimilarity_Reflexive(t *testing.T) {
	sc := NewScorer(square)
	js := squareJoints()

	sim, err := sc.JointSimilarity(pose.NewRecord(js), pose.Reference{Joints: js})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-9)
}

func TestJointSimilarity_DecreasesWithDivergence(t *testing.T) {
	sc := NewScorer(square)
	ref := pose.Reference{Joints: squareJoints()}

	prev := 1.0 + 1e-9
	for _, shift := range []float64{0, 0.05, 0.1, 0.15} {
		js := squareJoints()
		j := js[2]
		j.X += shift
		js[2] = j

		sim, err := sc.JointSimilarity(pose.NewRecord(js), ref)
		require.NoError(t, err)
		assert.Less(t, sim, prev, "shift %.2f", shift)
		prev = sim
	}
}

// The accumulated distance is divided by every joint id, skipped sentinels
// included. This mirrors the reference behaviour and is kept deliberately;
// if it ever changes this test documents the old semantics.
func TestJointSimilarity_DividesByAllJointIDs(t *testing.T) {
	sc := NewScorer(square)
	ref := pose.Reference{Joints: squareJoints()}

	// Observe only A and B; C is the sentinel and is skipped.
	obs := squareJoints()
	obs[0] = pose.Joint{X: 0.2, Y: 0.3, Confidence: 1}
	delete(obs, 2)
	rec := pose.Record{Joints: obs, BBox: pose.BBox{X1: 0.2, X2: 0.6, Y1: 0.2, Y2: 0.7}}

	norm, err := Normalize(obs, rec.BBox)
	require.NoError(t, err)
	refNorm, err := Normalize(ref.Joints, ref.BBox())
	require.NoError(t, err)

	var sum float64
	for _, id := range []pose.JointID{0, 1} {
		sum += sc.dist(vs(norm[id]), vs(refNorm[id]))
	}

	sim, err := sc.JointSimilarity(rec, ref)
	require.NoError(t, err)
	assert.InDelta(t, 1-sum/4, sim, 1e-12, "divide by all four ids")
	assert.NotEqual(t, 1-sum/2, sim)
}

func TestJointSimilarity_ZeroLengthVector(t *testing.T) {
	sc := NewScorer(square)
	js := pose.Joints{
		0: {X: 0.2, Y: 0.2, Confidence: 1},
		1: {X: 0.6, Y: 0.6, Confidence: 1},
		2: {X: 0.4, Y: 0.4, Confidence: 1}, // box center
	}

	sim, err := sc.JointSimilarity(pose.NewRecord(js), pose.Reference{Joints: js})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, sim, 1e-12)
}

func TestJointSimilarity_Degenerate(t *testing.T) {
	sc := NewScorer(square)

	_, err := sc.JointSimilarity(pose.NewRecord(squareJoints()), pose.Reference{Joints: pose.Joints{
		0: {X: 0.5, Y: 0.5, Confidence: 1},
	}})
	require.Error(t, err)

	var de *DomainError
	require.True(t, errors.As(err, &de))
	assert.Equal(t, "joint similarity", de.Op)

	_, err = sc.JointSimilarity(pose.Record{Joints: squareJoints()}, pose.Reference{Joints: squareJoints()})
	assert.ErrorIs(t, err, ErrDomain, "zero observed box")
}

func TestBBoxSimilarity(t *testing.T) {
	sc := NewScorer(square)
	// Reference box: width 0.4, height 0.5 -> aspect 0.8.
	ref := pose.Reference{Joints: squareJoints()}

	t.Run("IdenticalAspect", func(t *testing.T) {
		sim, err := sc.BBoxSimilarity(pose.BBox{X1: 0, X2: 0.8, Y1: 0, Y2: 1}, ref)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-12)
	})

	t.Run("StrictlyDecreasing", func(t *testing.T) {
		prev := 1.0
		for _, w := range []float64{0.9, 1.0, 1.2, 1.6} {
			sim, err := sc.BBoxSimilarity(pose.BBox{X1: 0, X2: w, Y1: 0, Y2: 1}, ref)
			require.NoError(t, err)
			assert.Less(t, sim, prev, "width %.1f", w)
			prev = sim
		}
		sim, err := sc.BBoxSimilarity(pose.BBox{X1: 0, X2: 0.4, Y1: 0, Y2: 1}, ref)
		require.NoError(t, err)
		assert.InDelta(t, 0.5, sim, 1e-12)
	})

	t.Run("DegenerateReference", func(t *testing.T) {
		flat := pose.Reference{Joints: pose.Joints{
			0: {X: 0.2, Y: 0.5, Confidence: 1},
			1: {X: 0.6, Y: 0.5, Confidence: 1},
		}}
		_, err := sc.BBoxSimilarity(pose.BBox{X1: 0, X2: 1, Y1: 0, Y2: 1}, flat)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrDomain)
	})
}

func TestScorer_Deterministic(t *testing.T) {
	sc := NewScorer(pose.Body25)
	assert.Same(t, pose.Body25, sc.Skeleton())

	js := pose.Joints{}
	for i := range 25 {
		js[pose.JointID(i)] = pose.Joint{X: 0.3 + float64(i%5)*0.07, Y: 0.1 + float64(i/5)*0.15, Confidence: 1}
	}
	ref := pose.Reference{Joints: js}
	rec := pose.NewRecord(js)

	a, err := sc.JointSimilarity(rec, ref)
	require.NoError(t, err)
	b, err := sc.JointSimilarity(rec, ref)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestScorer_Metric(t *testing.T) {
	ref := pose.Reference{Joints: pose.Joints{
		0: {X: 0.2, Y: 0.2, Confidence: 1},
		1: {X: 0.6, Y: 0.6, Confidence: 1},
		2: {X: 0.5, Y: 0.4, Confidence: 1},
	}}
	// Joint 2 moves halfway towards the box center: same direction, half length.
	obs := pose.Joints{
		0: {X: 0.2, Y: 0.2, Confidence: 1},
		1: {X: 0.6, Y: 0.6, Confidence: 1},
		2: {X: 0.45, Y: 0.4, Confidence: 1},
	}
	rec := pose.NewRecord(obs)

	cos := NewScorer(square)
	assert.Equal(t, distance.MetricCosine, cos.Metric())
	sim, err := cos.JointSimilarity(rec, ref)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-12)

	l2 := NewScorer(square, WithMetric(distance.MetricL2))
	assert.Equal(t, distance.MetricL2, l2.Metric())
	sim, err = l2.JointSimilarity(rec, ref)
	require.NoError(t, err)
	// Normalized x moves from 0.25 to 0.125 over four joint ids.
	assert.InDelta(t, 1-0.015625/4, sim, 1e-12)

	sim, err = l2.JointSimilarity(pose.NewRecord(ref.Joints), ref)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, sim, 1e-12)

	unknown := NewScorer(square, WithMetric(distance.Metric(99)), nil)
	assert.Equal(t, distance.MetricCosine, unknown.Metric())
}
