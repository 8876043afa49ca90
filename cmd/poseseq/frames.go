package main

import (
	"context"
	"errors"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/hupe1980/poseseq"
	"github.com/hupe1980/poseseq/blobstore"
	"github.com/hupe1980/poseseq/openpose"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/snapshot"
)

func addFrameFlags(f *pflag.FlagSet) {
	f.String("frames", "", "Blob prefix of the OpenPose keypoint files")
	f.Float64("width", 1920, "Video width in pixels")
	f.Float64("height", 1080, "Video height in pixels")
	f.Float64("fps", 30, "Video frame rate")
	f.String("policy", openpose.LargestBBox.String(), "Subject selection: largest, rightmost")
	f.String("skeleton", pose.Body25.Name, "Keypoint layout: BODY_25, COCO")
}

// loadFrames reads frames from the snapshot name, or from the keypoint files
// under the frames prefix when name is empty.
func loadFrames(ctx context.Context, v *viper.Viper, store blobstore.BlobStore, logger *poseseq.Logger, name string) ([]pose.Frame, *pose.Skeleton, error) {
	if name != "" {
		snap, err := snapshot.Load(ctx, store, name)
		if err != nil {
			return nil, nil, err
		}
		skel, err := pose.SkeletonByName(snap.Skeleton)
		if err != nil {
			return nil, nil, err
		}
		logger.DebugContext(ctx, "loaded snapshot", "name", name, "frames", len(snap.Frames), "source", snap.Source)
		return snap.Frames, skel, nil
	}

	prefix := v.GetString("frames")
	if prefix == "" {
		return nil, nil, errors.New("either --frames or --snapshot is required")
	}
	skel, err := pose.SkeletonByName(v.GetString("skeleton"))
	if err != nil {
		return nil, nil, err
	}
	policy, err := openpose.ParsePolicy(v.GetString("policy"))
	if err != nil {
		return nil, nil, err
	}

	meta := openpose.VideoMeta{
		Width:  v.GetFloat64("width"),
		Height: v.GetFloat64("height"),
		FPS:    v.GetFloat64("fps"),
	}
	frames, err := openpose.NewLoader(store, meta,
		openpose.WithSkeleton(skel),
		openpose.WithPolicy(policy),
		openpose.WithController(newController(v)),
		openpose.WithLogger(logger.Logger),
	).Load(ctx, prefix)
	if err != nil {
		return nil, nil, err
	}
	return frames, skel, nil
}
