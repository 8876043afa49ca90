package poseseq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/hupe1980/poseseq/distance"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/similarity"
	"github.com/hupe1980/poseseq/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	a, b pose.Reference
}

func newFixture() fixture {
	rng := testutil.NewRNG(42)
	return fixture{
		a: rng.Reference(pose.Body25, "a"),
		b: rng.Reference(pose.Body25, "b"),
	}
}

// stream builds frames at 1 fps from a pattern:
// 'a' and 'b' are the references moved and scaled, 'w' is 'a' squeezed
// horizontally, 'x' collapses every joint to one point and '-' is blank.
func (fx fixture) stream(pattern string) []pose.Frame {
	poses := make([]pose.Joints, 0, len(pattern))
	for _, c := range pattern {
		switch c {
		case 'a':
			poses = append(poses, testutil.Transform(fx.a.Joints, 0.5, 0.2, 0.1))
		case 'b':
			poses = append(poses, testutil.Transform(fx.b.Joints, 0.5, 0.1, 0.2))
		case 'w':
			poses = append(poses, squeeze(fx.a.Joints, 0.5))
		case 'x':
			poses = append(poses, collapse(fx.a.Joints))
		default:
			poses = append(poses, testutil.Blank(pose.Body25))
		}
	}
	return testutil.Frames(1, poses...)
}

func squeeze(js pose.Joints, sx float64) pose.Joints {
	out := make(pose.Joints, len(js))
	for id, j := range js {
		if !j.IsSentinel() {
			j.X *= sx
		}
		out[id] = j
	}
	return out
}

func collapse(js pose.Joints) pose.Joints {
	out := make(pose.Joints, len(js))
	for id, j := range js {
		if !j.IsSentinel() {
			j.X, j.Y = 0.5, 0.5
		}
		out[id] = j
	}
	return out
}

func indices(frames []pose.Frame) []int {
	out := make([]int, len(frames))
	for i, f := range frames {
		out[i] = f.Index
	}
	return out
}

func TestSearch(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()

	t.Run("SinglePose", func(t *testing.T) {
		frames := fx.stream("bbaaabbbbb")
		q := DefaultQuery(fx.a)
		q.SimilarityThreshold = 0.9

		matches, err := New().Search(ctx, frames, q)
		require.NoError(t, err)
		require.Len(t, matches, 1)

		m := matches[0]
		assert.InDelta(t, 2.0, m.Start, 1e-12)
		assert.InDelta(t, 5.0, m.End, 1e-12)
		assert.InDelta(t, 3.0, m.Duration(), 1e-12)
		require.Len(t, m.Stages, 1)
		assert.Equal(t, []int{2, 3, 4}, indices(m.StageFrames(0)))
		assert.Equal(t, frames[2].BBox, m.Box)
	})

	t.Run("TwoPosesWithinGap", func(t *testing.T) {
		frames := fx.stream("aa-b")
		q := DefaultQuery(fx.a, fx.b)

		matches, err := New().Search(ctx, frames, q)
		require.NoError(t, err)
		require.Len(t, matches, 1)

		m := matches[0]
		assert.InDelta(t, 0.0, m.Start, 1e-12)
		assert.InDelta(t, 4.0, m.End, 1e-12)
		require.Len(t, m.Stages, 2)
		assert.Equal(t, []int{0, 1}, indices(m.StageFrames(0)))
		assert.Equal(t, []int{3}, indices(m.StageFrames(1)))
		assert.Equal(t, []int{0, 1, 3}, indices(m.Frames()))
		assert.Equal(t, frames[0].BBox.Span(frames[3].BBox), m.Box)
	})

	t.Run("TwoPosesBeyondGap", func(t *testing.T) {
		frames := fx.stream("aa-b")
		q := DefaultQuery(fx.a, fx.b)
		q.GapSeconds = 0.5

		matches, err := New().Search(ctx, frames, q)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("Adjacent", func(t *testing.T) {
		matches, err := New().Search(ctx, fx.stream("aabb"), DefaultQuery(fx.a, fx.b))
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.InDelta(t, 0.0, matches[0].Start, 1e-12)
		assert.InDelta(t, 4.0, matches[0].End, 1e-12)
	})

	t.Run("WrongOrder", func(t *testing.T) {
		matches, err := New().Search(ctx, fx.stream("bb-aa"), DefaultQuery(fx.a, fx.b))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("EmptyStage", func(t *testing.T) {
		matches, err := New().Search(ctx, fx.stream("aaaa"), DefaultQuery(fx.a, fx.b, fx.a))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("NoFrames", func(t *testing.T) {
		matches, err := New().Search(ctx, nil, DefaultQuery(fx.a))
		require.NoError(t, err)
		assert.Empty(t, matches)
	})

	t.Run("RepeatedSequence", func(t *testing.T) {
		matches, err := New().Search(ctx, fx.stream("ab---ab"), DefaultQuery(fx.a, fx.b))
		require.NoError(t, err)
		require.Len(t, matches, 2)
		assert.InDelta(t, 0.0, matches[0].Start, 1e-12)
		assert.InDelta(t, 2.0, matches[0].End, 1e-12)
		assert.InDelta(t, 5.0, matches[1].Start, 1e-12)
		assert.InDelta(t, 7.0, matches[1].End, 1e-12)
	})

	t.Run("Epsilon", func(t *testing.T) {
		frames := fx.stream("a-a")

		matches, err := New().Search(ctx, frames, DefaultQuery(fx.a))
		require.NoError(t, err)
		assert.Len(t, matches, 2)

		q := DefaultQuery(fx.a)
		q.Epsilon = 1
		matches, err = New().Search(ctx, frames, q)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, []int{0, 2}, indices(matches[0].Frames()))
	})

	t.Run("DegenerateFrameIsSkipped", func(t *testing.T) {
		matches, err := New().Search(ctx, fx.stream("axa"), DefaultQuery(fx.a))
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("UndetectedFrameIsSkipped", func(t *testing.T) {
		frames := fx.stream("aaa")
		frames[1].Joints = testutil.Drop(frames[1].Joints, 4)

		matches, err := New().Search(ctx, frames, DefaultQuery(fx.a))
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("UnsortedInput", func(t *testing.T) {
		frames := fx.stream("bbaa-bb-aab")
		want, err := New().Search(ctx, frames, DefaultQuery(fx.a, fx.b))
		require.NoError(t, err)

		shuffled := append([]pose.Frame(nil), frames...)
		rand.New(rand.NewSource(3)).Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})
		got, err := New().Search(ctx, shuffled, DefaultQuery(fx.a, fx.b))
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestSearchAspect(t *testing.T) {
	fx := newFixture()
	frames := fx.stream("aw")

	q := DefaultQuery(fx.a)
	matches, err := New().Search(context.Background(), frames, q)
	require.NoError(t, err)
	require.Len(t, matches, 1, "joint similarity ignores per-axis scale")
	assert.Equal(t, []int{0, 1}, indices(matches[0].Frames()))

	q.AspectThreshold = 0.9
	matches, err = New().Search(context.Background(), frames, q)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, []int{0}, indices(matches[0].Frames()))
}

func TestSearchConstraints(t *testing.T) {
	fx := newFixture()
	frames := fx.stream("aa")
	never := func(pose.Record) bool { return false }

	e := New()
	n, err := e.Query(fx.a).Where(never).Count(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	nose, neck := pose.Body25.MustIndex("Nose"), pose.Body25.MustIndex("Neck")
	var c pose.Constraint
	if fx.a.Joints[nose].Y < fx.a.Joints[neck].Y {
		c = pose.Above(nose, neck)
	} else {
		c = pose.Below(nose, neck)
	}
	n, err = e.Query(fx.a).Where(c).Count(context.Background(), frames)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestSearchJoinWindow(t *testing.T) {
	fx := newFixture()
	frames := fx.stream("aa-b")
	q := DefaultQuery(fx.a, fx.b)

	matches, err := New(WithJoinWindow(0.5)).Search(context.Background(), frames, q)
	require.NoError(t, err)
	assert.Empty(t, matches, "a window below the gap drops the match")

	matches, err = New(WithJoinWindow(-1)).Search(context.Background(), frames, q)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

func TestSearchParallelMatchesSequential(t *testing.T) {
	fx := newFixture()
	rng := rand.New(rand.NewSource(99))
	pattern := make([]byte, 300)
	for i := range pattern {
		pattern[i] = "ab-"[rng.Intn(3)]
	}
	frames := fx.stream(string(pattern))

	q := DefaultQuery(fx.a, fx.b, fx.a)
	q.GapSeconds = 2

	seq, err := New(WithConcurrency(1)).Search(context.Background(), frames, q)
	require.NoError(t, err)
	par, err := New(WithConcurrency(4)).Search(context.Background(), frames, q)
	require.NoError(t, err)

	assert.NotEmpty(t, seq)
	assert.Equal(t, seq, par)
	for _, m := range par {
		assert.Len(t, m.Stages, 3)
		assert.LessOrEqual(t, m.Start, m.End)
	}
}

func TestSearchInvalidQuery(t *testing.T) {
	fx := newFixture()
	frames := fx.stream("ab")

	blank := pose.Reference{Name: "blank", Joints: testutil.Blank(pose.Body25)}

	tests := []struct {
		name     string
		q        Query
		isDomain bool
	}{
		{"NoPoses", DefaultQuery(), false},
		{"ThresholdAboveOne", Query{Poses: []pose.Reference{fx.a}, SimilarityThreshold: 1.5}, false},
		{"NegativeThreshold", Query{Poses: []pose.Reference{fx.a}, SimilarityThreshold: -0.1}, false},
		{"NegativeEpsilon", Query{Poses: []pose.Reference{fx.a}, Epsilon: -1}, false},
		{"NegativeGap", Query{Poses: []pose.Reference{fx.a}, GapSeconds: -1}, false},
		{"NegativeAspect", Query{Poses: []pose.Reference{fx.a}, AspectThreshold: -1}, false},
		{"DegenerateReference", DefaultQuery(fx.a, blank), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New().Search(context.Background(), frames, tt.q)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidQuery)

			var iqe *InvalidQueryError
			require.ErrorAs(t, err, &iqe)
			assert.Equal(t, tt.isDomain, errors.Is(err, similarity.ErrDomain))
		})
	}
}

func TestSearchCancelled(t *testing.T) {
	fx := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, n := range []int{1, 4} {
		_, err := New(WithConcurrency(n)).Search(ctx, fx.stream("ab"), DefaultQuery(fx.a, fx.b))
		assert.ErrorIs(t, err, context.Canceled)
	}
}

func TestSearchMetrics(t *testing.T) {
	fx := newFixture()
	metrics := &BasicMetricsCollector{}
	e := New(WithMetricsCollector(metrics), WithLogger(nil))

	_, err := e.Search(context.Background(), fx.stream("aa-b"), DefaultQuery(fx.a, fx.b))
	require.NoError(t, err)
	_, err = e.Search(context.Background(), nil, Query{})
	require.Error(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(2), stats.SearchCount)
	assert.Equal(t, int64(1), stats.SearchErrors)
	assert.Equal(t, int64(1), stats.MatchCount)
	assert.Equal(t, int64(2), stats.StageCount)
	assert.Equal(t, int64(3), stats.CandidateCount)
	assert.Equal(t, int64(2), stats.SpanCount)
}

func TestSearchLogging(t *testing.T) {
	fx := newFixture()
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	e := New(WithLogger(logger), WithConcurrency(1))

	_, err := e.Search(context.Background(), fx.stream("a-x"), DefaultQuery(fx.a))
	require.NoError(t, err)

	records := map[string]map[string]any{}
	for _, line := range bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n")) {
		var rec map[string]any
		require.NoError(t, json.Unmarshal(line, &rec))
		records[rec["msg"].(string)] = rec
	}

	require.Contains(t, records, "stage generated")
	assert.Equal(t, 0.0, records["stage generated"]["stage"])
	assert.Equal(t, 1.0, records["stage generated"]["spans"])

	require.Contains(t, records, "frame skipped")
	assert.Equal(t, 0.0, records["frame skipped"]["stage"])
	assert.Equal(t, 2.0, records["frame skipped"]["frame"])

	require.Contains(t, records, "search completed")
	assert.Equal(t, 1.0, records["search completed"]["poses"])
	assert.Equal(t, 1.0, records["search completed"]["matches"])
}

func TestSearchDistanceMetric(t *testing.T) {
	skel := &pose.Skeleton{
		Name:       "quad",
		Parts:      []string{"A", "B", "C", "D", "Background"},
		Background: 4,
	}
	ref := pose.Reference{Name: "ref", Joints: pose.Joints{
		0: {X: 0.2, Y: 0.2, Confidence: 1},
		1: {X: 0.6, Y: 0.6, Confidence: 1},
		2: {X: 0.5, Y: 0.4, Confidence: 1},
		3: {X: 0.3, Y: 0.5, Confidence: 1},
	}}
	// C keeps its direction from the box center at half the length.
	shrunk := pose.Joints{
		0: {X: 0.2, Y: 0.2, Confidence: 1},
		1: {X: 0.6, Y: 0.6, Confidence: 1},
		2: {X: 0.45, Y: 0.4, Confidence: 1},
		3: {X: 0.3, Y: 0.5, Confidence: 1},
	}
	frames := testutil.Frames(1, shrunk)
	q := Query{Poses: []pose.Reference{ref}, GapSeconds: 1, SimilarityThreshold: 0.999, Epsilon: 0.1}

	matches, err := New(WithSkeleton(skel)).Search(context.Background(), frames, q)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "cosine ignores the length change")

	matches, err = New(WithSkeleton(skel), WithDistanceMetric(distance.MetricL2)).Search(context.Background(), frames, q)
	require.NoError(t, err)
	assert.Empty(t, matches, "l2 scores 1 - 0.015625/5")

	matches, err = New(WithSkeleton(skel), WithDistanceMetric(distance.Metric(99))).Search(context.Background(), frames, q)
	require.NoError(t, err)
	assert.Len(t, matches, 1, "unsupported metric keeps cosine")
}

func TestDetectionMask(t *testing.T) {
	fx := newFixture()
	frames := fx.stream("a-bx--a")

	bm := DetectionMask(frames, pose.Body25)

	for i, f := range frames {
		assert.Equal(t, f.Detected(pose.Body25), bm.Contains(uint32(i)), "frame %d", i)
	}
	assert.Equal(t, uint64(4), bm.GetCardinality())
}

func TestSearchBuilder(t *testing.T) {
	fx := newFixture()
	ctx := context.Background()
	frames := fx.stream("aa-b---aab")
	e := New()

	t.Run("Build", func(t *testing.T) {
		q := e.Query(fx.a, fx.b).Gap(2).Threshold(0.8).Epsilon(0.5).Aspect(0.7).Build()
		assert.Equal(t, 2.0, q.GapSeconds)
		assert.Equal(t, 0.8, q.SimilarityThreshold)
		assert.Equal(t, 0.5, q.Epsilon)
		assert.Equal(t, 0.7, q.AspectThreshold)
		assert.Len(t, q.Poses, 2)
	})

	t.Run("Execute", func(t *testing.T) {
		matches, err := e.Query(fx.a, fx.b).Execute(ctx, frames)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("First", func(t *testing.T) {
		m, err := e.Query(fx.a, fx.b).First(ctx, frames)
		require.NoError(t, err)
		assert.InDelta(t, 0.0, m.Start, 1e-12)

		_, err = e.Query(fx.b, fx.b, fx.a).First(ctx, frames)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("Exists", func(t *testing.T) {
		ok, err := e.Query(fx.a, fx.b).Exists(ctx, frames)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("Stream", func(t *testing.T) {
		var starts []float64
		for m, err := range e.Query(fx.a, fx.b).Stream(ctx, frames) {
			require.NoError(t, err)
			starts = append(starts, m.Start)
			break
		}
		assert.Equal(t, []float64{0}, starts)

		for _, err := range e.Query().Stream(ctx, frames) {
			assert.ErrorIs(t, err, ErrInvalidQuery)
		}
	})

	t.Run("MustExecutePanics", func(t *testing.T) {
		assert.Panics(t, func() { e.Query().MustExecute(ctx, frames) })
	})
}
