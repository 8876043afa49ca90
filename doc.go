// Package poseseq searches time-ordered streams of body-pose observations
// for spans that match an ordered sequence of reference poses.
//
// # Quick Start
//
//	frames, _ := openpose.NewLoader(store, openpose.VideoMeta{Width: 1920, Height: 1080, FPS: 30}).
//	    Load(ctx, "clip/clip")
//	raise, _ := openpose.LoadReference(ctx, store, "poses/raise.json")
//	wave, _ := openpose.LoadReference(ctx, store, "poses/wave.json")
//
//	e := poseseq.New()
//	matches, _ := e.Query(raise, wave).Gap(1).Threshold(0.95).Execute(ctx, frames)
//	for _, m := range matches {
//	    fmt.Println(m.Start, m.End, m.Box)
//	}
//
// # Algorithm
//
// Frames that fail the detection gate (any joint other than Background is the
// sentinel) are dropped once. For every query pose, the remaining frames are
// filtered by joint similarity against the reference and coalesced into spans
// when they are at most Epsilon seconds apart. The per-pose spans are then
// folded in pose order with a temporal join: a span of pose i+1 extends a
// running match when it overlaps it or starts at most GapSeconds after it.
//
// Candidate generation for the poses runs concurrently (see WithConcurrency);
// the join fold is sequential.
//
// # Similarity
//
// Joints are expressed relative to their bounding box (center origin, unit
// box size) so subject position and scale do not matter. The score is one
// minus the mean cosine distance over all joint ids of the skeleton. Joints
// missing in the observed frame are skipped but still counted in the mean.
//
// # Observability
//
// Use WithLogger for structured slog output and WithMetricsCollector for
// metrics. The observability package provides a Prometheus collector.
package poseseq
