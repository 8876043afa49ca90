// Package testutil provides testing utilities for poseseq.
//
// This package is intended for use in tests and benchmarks only.
// It provides helpers for generating random poses and frame streams.
//
// # Random Poses
//
//	rng := testutil.NewRNG(seed)
//	ref := rng.Reference(pose.Body25, "raise")
//	obs := testutil.Transform(ref.Joints, 2, 0.3, 0.1) // same pose, moved and scaled
//
// # Frame Streams
//
//	frames := testutil.Frames(1, testutil.Repeat(obs, 5)...) // 5 frames at 1 fps
package testutil
