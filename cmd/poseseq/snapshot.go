package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hupe1980/poseseq/codec"
	"github.com/hupe1980/poseseq/snapshot"
)

func snapshotCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Store keypoint files as a compressed frame snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSnapshot(cmd, v)
		},
	}

	f := cmd.Flags()
	addFrameFlags(f)
	f.String("out", "", "Name of the snapshot blob to write")
	f.String("compression", snapshot.CompressionZSTD.String(), "Block compression: none, lz4, zstd")
	f.String("codec", codec.Default.Name(), "Body codec: json, go-json")

	return cmd
}

func runSnapshot(cmd *cobra.Command, v *viper.Viper) error {
	ctx := cmd.Context()
	logger := newLogger(v, cmd.ErrOrStderr())

	out := v.GetString("out")
	if out == "" {
		return errors.New("--out is required")
	}
	compression, err := snapshot.ParseCompression(v.GetString("compression"))
	if err != nil {
		return err
	}
	c, err := codec.Lookup(v.GetString("codec"))
	if err != nil {
		return err
	}

	store, err := openStore(ctx, v)
	if err != nil {
		return err
	}
	frames, skel, err := loadFrames(ctx, v, store, logger, "")
	if err != nil {
		return err
	}

	snap := snapshot.Snapshot{
		Skeleton: skel.Name,
		Source:   v.GetString("frames"),
		Frames:   frames,
	}
	if err := snapshot.Save(ctx, store, out, snap,
		snapshot.WithCompression(compression),
		snapshot.WithCodec(c),
		snapshot.WithController(newController(v)),
	); err != nil {
		return err
	}

	logger.InfoContext(ctx, "snapshot written", "name", out, "frames", len(frames), "compression", compression)
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "wrote %d frames to %s\n", len(frames), out)
	return err
}
