// Command poseseq searches OpenPose keypoint output for pose sequences.
//
//	poseseq search --frames clip/ --ref poses/raise.json --ref poses/wave.json --gap 1
//	poseseq snapshot --frames clip/ --out snapshots/clip.psnp --compression zstd
//	poseseq search --snapshot snapshots/clip.psnp --ref poses/raise.json
//
// Every flag can also be set in a config file (--config) or through a
// POSESEQ_ environment variable, e.g. POSESEQ_STORE=s3.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := RootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
