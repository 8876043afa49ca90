package main

import (
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/poseseq"
	"github.com/hupe1980/poseseq/codec"
	"github.com/hupe1980/poseseq/distance"
	"github.com/hupe1980/poseseq/observability"
	"github.com/hupe1980/poseseq/openpose"
	"github.com/hupe1980/poseseq/pose"
)

func searchCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Find spans matching a sequence of reference poses",
		Long: `Search loads frames from OpenPose keypoint files (--frames) or a snapshot
(--snapshot) and prints every span in which the reference poses (--ref,
in order) appear, as a JSON array.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSearch(cmd, v)
		},
	}

	f := cmd.Flags()
	addFrameFlags(f)
	f.String("snapshot", "", "Load frames from this snapshot instead of keypoint files")
	f.StringSlice("ref", nil, "Reference pose file, repeat once per pose in sequence order")
	f.Float64("canvas-width", openpose.DefaultCanvasWidth, "Width of the editor canvas of the reference poses")
	f.Float64("canvas-height", openpose.DefaultCanvasHeight, "Height of the editor canvas of the reference poses")
	f.Float64("gap", 1, "Maximum gap in seconds between consecutive poses")
	f.Float64("threshold", 0.95, "Minimum joint similarity in [0, 1]")
	f.Float64("epsilon", 0.1, "Merge candidate frames at most this many seconds apart")
	f.Float64("aspect", 0, "Minimum bounding box aspect similarity (0 disables)")
	f.String("metric", "cosine", "Per-joint distance: cosine or l2")
	f.StringSlice("where", nil, `Joint relation every candidate must satisfy, e.g. "RWrist above Nose" (repeatable)`)
	f.Float64("join-window", poseseq.DefaultJoinWindow, "Join search radius in seconds (negative = unbounded)")
	f.Int("concurrency", 0, "Parallel candidate generation (0 = GOMAXPROCS)")
	f.String("metrics-file", "", "Write Prometheus metrics to this file after the search")

	return cmd
}

func runSearch(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	logger := newLogger(v, cmd.ErrOrStderr())

	store, err := openStore(ctx, v)
	if err != nil {
		return err
	}

	frames, skel, err := loadFrames(ctx, v, store, logger, v.GetString("snapshot"))
	if err != nil {
		return err
	}

	names := v.GetStringSlice("ref")
	if len(names) == 0 {
		return errors.New("at least one --ref is required")
	}
	refs := make([]pose.Reference, 0, len(names))
	for _, name := range names {
		ref, err := openpose.LoadReference(ctx, store, name,
			openpose.WithSkeleton(skel),
			openpose.WithCanvas(v.GetFloat64("canvas-width"), v.GetFloat64("canvas-height")),
		)
		if err != nil {
			return err
		}
		refs = append(refs, ref)
	}

	metric, err := distance.ParseMetric(v.GetString("metric"))
	if err != nil {
		return err
	}
	var where []pose.Constraint
	for _, expr := range v.GetStringSlice("where") {
		c, err := pose.ParseConstraint(skel, expr)
		if err != nil {
			return err
		}
		where = append(where, c)
	}

	reg := prometheus.NewRegistry()
	collector, err := observability.NewCollector(reg)
	if err != nil {
		return err
	}

	engine := poseseq.New(
		poseseq.WithSkeleton(skel),
		poseseq.WithDistanceMetric(metric),
		poseseq.WithConcurrency(v.GetInt("concurrency")),
		poseseq.WithJoinWindow(v.GetFloat64("join-window")),
		poseseq.WithLogger(logger),
		poseseq.WithMetricsCollector(collector),
	)

	matches, err := engine.Query(refs...).
		Gap(v.GetFloat64("gap")).
		Threshold(v.GetFloat64("threshold")).
		Epsilon(v.GetFloat64("epsilon")).
		Aspect(v.GetFloat64("aspect")).
		Where(where...).
		Execute(ctx, frames)
	if err != nil {
		return err
	}

	if path := v.GetString("metrics-file"); path != "" {
		if err := prometheus.WriteToTextfile(path, reg); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	if matches == nil {
		matches = []poseseq.Match{}
	}
	out, err := codec.Default.Marshal(matches)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return err
}
