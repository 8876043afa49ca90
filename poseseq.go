package poseseq

import (
	"context"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/poseseq/interval"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/similarity"
)

// Span is a search interval: frame time range plus screen box, carrying the
// matched frames.
type Span = interval.Interval[interval.Bounds3D, pose.Payload]

// Spans is an immutable sorted set of Span.
type Spans = interval.Set[interval.Bounds3D, pose.Payload]

// Engine searches frame streams for pose sequences.
// It is immutable after New and safe for concurrent use.
type Engine struct {
	skeleton    *pose.Skeleton
	scorer      *similarity.Scorer
	concurrency int
	joinWindow  float64
	metrics     MetricsCollector
	logger      *Logger
}

// New creates an Engine.
func New(optFns ...Option) *Engine {
	o := applyOptions(optFns)

	return &Engine{
		skeleton:    o.skeleton,
		scorer:      similarity.NewScorer(o.skeleton, similarity.WithMetric(o.metric)),
		concurrency: o.concurrency,
		joinWindow:  o.joinWindow,
		metrics:     o.metricsCollector,
		logger:      o.logger,
	}
}

// Skeleton returns the joint layout the engine scores with.
func (e *Engine) Skeleton() *pose.Skeleton { return e.skeleton }

// Search returns every span of frames in which the query poses occur in
// order. Consecutive poses may overlap in time or be separated by at most
// q.GapSeconds. Matches are sorted by start, then end.
//
// frames need not be sorted. A cancelled ctx aborts the search with
// ctx.Err().
func (e *Engine) Search(ctx context.Context, frames []pose.Frame, q Query) ([]Match, error) {
	start := time.Now()

	result, err := e.search(ctx, frames, q)
	var matches []Match
	if err == nil {
		matches = toMatches(result)
	}

	e.metrics.RecordSearch(len(q.Poses), len(matches), time.Since(start), err)
	e.logger.WithPoses(len(q.Poses)).LogSearch(ctx, len(frames), len(matches), err)

	return matches, err
}

// SearchSpans is Search without the conversion to Match.
func (e *Engine) SearchSpans(ctx context.Context, frames []pose.Frame, q Query) (Spans, error) {
	return e.search(ctx, frames, q)
}

func (e *Engine) search(ctx context.Context, frames []pose.Frame, q Query) (Spans, error) {
	if err := q.Validate(); err != nil {
		return Spans{}, err
	}
	if err := ctx.Err(); err != nil {
		return Spans{}, err
	}

	detected := DetectionMask(frames, e.skeleton)
	base := detectedSpans(frames, detected)

	pred := interval.Or(
		interval.Overlaps[interval.Bounds3D](),
		interval.Before[interval.Bounds3D](q.GapSeconds),
	)
	merge := interval.SpanMerge[interval.Bounds3D](pose.Append)

	if e.concurrency == 1 {
		return e.foldLazy(ctx, base, q, pred, merge)
	}

	stages := make([]Spans, len(q.Poses))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range q.Poses {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			stages[i] = e.stage(gctx, i, base, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Spans{}, err
	}

	result := stages[0]
	for i := 1; i < len(stages); i++ {
		if result.Empty() {
			break
		}
		if err := ctx.Err(); err != nil {
			return Spans{}, err
		}
		result = interval.Join(result, stages[i], pred, merge, e.joinWindow)
	}
	return result, nil
}

// foldLazy generates each stage only when the running result is non-empty.
func (e *Engine) foldLazy(ctx context.Context, base Spans, q Query, pred interval.Predicate[interval.Bounds3D], merge interval.MergeFunc[interval.Bounds3D, pose.Payload]) (Spans, error) {
	var result Spans
	for i := range q.Poses {
		if err := ctx.Err(); err != nil {
			return Spans{}, err
		}
		st := e.stage(ctx, i, base, q)
		if i == 0 {
			result = st
		} else {
			result = interval.Join(result, st, pred, merge, e.joinWindow)
		}
		if result.Empty() {
			break
		}
	}
	return result, nil
}

// stage filters base down to the candidates of pose i and coalesces them.
// Each resulting span carries a one-element list so joined spans hold one
// entry per pose.
func (e *Engine) stage(ctx context.Context, i int, base Spans, q Query) Spans {
	start := time.Now()
	ref := q.Poses[i]
	log := e.logger.WithStage(i)

	candidates := interval.Filter(base, func(s Span) bool {
		f := s.Payload.(pose.SingleFrame).Frame
		return e.accept(ctx, log, f, ref, q)
	})
	coalesced := interval.Coalesce(candidates, q.Epsilon, pose.Concat)
	st := interval.MapPayload(coalesced, func(p pose.Payload) pose.Payload {
		return pose.FrameList{p}
	})

	e.metrics.RecordStage(i, candidates.Len(), st.Len(), time.Since(start))
	log.LogStage(ctx, candidates.Len(), st.Len())

	return st
}

// accept is the candidate gate of a stage.
func (e *Engine) accept(ctx context.Context, log *Logger, f pose.Frame, ref pose.Reference, q Query) bool {
	sim, err := e.scorer.JointSimilarity(f.Record, ref)
	if err != nil {
		log.LogFrameSkipped(ctx, f.Index, err)
		return false
	}
	if sim < q.SimilarityThreshold {
		return false
	}
	if q.AspectThreshold > 0 {
		bs, err := e.scorer.BBoxSimilarity(f.BBox, ref)
		if err != nil {
			log.LogFrameSkipped(ctx, f.Index, err)
			return false
		}
		if bs < q.AspectThreshold {
			return false
		}
	}
	for _, c := range q.Constraints {
		if c != nil && !c(f.Record) {
			return false
		}
	}
	return true
}

// DetectionMask returns the positions in frames that pass the detection
// gate of s.
func DetectionMask(frames []pose.Frame, s *pose.Skeleton) *roaring.Bitmap {
	bm := roaring.New()
	for i, f := range frames {
		if f.Detected(s) {
			bm.Add(uint32(i))
		}
	}
	bm.RunOptimize()
	return bm
}

func detectedSpans(frames []pose.Frame, detected *roaring.Bitmap) Spans {
	items := make([]Span, 0, detected.GetCardinality())
	it := detected.Iterator()
	for it.HasNext() {
		f := frames[it.Next()]
		items = append(items, interval.New(frameBounds(f), pose.Payload(pose.SingleFrame{Frame: f})))
	}
	return interval.NewSet(items...)
}

func frameBounds(f pose.Frame) interval.Bounds3D {
	return interval.Bounds3D{
		T1: f.T1, T2: f.T2,
		X1: f.BBox.X1, X2: f.BBox.X2,
		Y1: f.BBox.Y1, Y2: f.BBox.Y2,
	}
}
