package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/poseseq/pose"
)

func TestPose(t *testing.T) {
	rng := NewRNG(4711)

	js := rng.Pose(pose.Body25)

	assert.Len(t, js, pose.Body25.Len())
	assert.True(t, js.Get(pose.Body25.Background).IsSentinel())
	assert.True(t, pose.Detected(js, pose.Body25))
	for id, j := range js {
		if id == pose.Body25.Background {
			continue
		}
		assert.GreaterOrEqual(t, j.X, 0.1)
		assert.Less(t, j.X, 0.9)
		assert.GreaterOrEqual(t, j.Y, 0.1)
		assert.Less(t, j.Y, 0.9)
	}
	assert.False(t, pose.BBoxOf(js).Degenerate())
}

func TestReset(t *testing.T) {
	rng := NewRNG(4711)
	p1 := rng.Pose(pose.COCO18)

	rng.Reset()
	p2 := rng.Pose(pose.COCO18)

	assert.Equal(t, p1, p2)
	assert.Equal(t, int64(4711), rng.Seed())
}

func TestTransform(t *testing.T) {
	js := pose.Joints{
		0: {X: 0.5, Y: 0.25, Confidence: 1},
		1: {},
	}

	out := Transform(js, 2, 0.1, 0.2)

	assert.InDelta(t, 1.1, out[0].X, 1e-12)
	assert.InDelta(t, 0.7, out[0].Y, 1e-12)
	assert.True(t, out[1].IsSentinel())
	assert.InDelta(t, 0.5, js[0].X, 1e-12, "input must not change")
}

func TestJitter(t *testing.T) {
	rng := NewRNG(1)
	js := rng.Pose(pose.Body25)

	out := rng.Jitter(js, 0.01)

	for id, j := range js {
		if j.IsSentinel() {
			assert.True(t, out[id].IsSentinel())
			continue
		}
		assert.InDelta(t, j.X, out[id].X, 0.01)
		assert.InDelta(t, j.Y, out[id].Y, 0.01)
	}
}

func TestBlankAndDrop(t *testing.T) {
	assert.False(t, pose.Detected(Blank(pose.Body25), pose.Body25))

	js := NewRNG(2).Pose(pose.Body25)
	dropped := Drop(js, 3)
	assert.True(t, dropped[3].IsSentinel())
	assert.False(t, js[3].IsSentinel())
	assert.False(t, pose.Detected(dropped, pose.Body25))
}

func TestFrames(t *testing.T) {
	js := NewRNG(3).Pose(pose.Body25)

	frames := Frames(2, Repeat(js, 3)...)

	require.Len(t, frames, 3)
	assert.Equal(t, 2, frames[2].Index)
	assert.InDelta(t, 1.0, frames[2].T1, 1e-12)
	assert.InDelta(t, 1.5, frames[2].T2, 1e-12)
	assert.Equal(t, pose.BBoxOf(js), frames[0].BBox)
}
