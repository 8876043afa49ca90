package poseseq_test

import (
	"context"
	"fmt"
	"log"

	"github.com/hupe1980/poseseq"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/testutil"
)

// Example_sequence demonstrates searching a stream for one pose followed by
// another.
func Example_sequence() {
	rng := testutil.NewRNG(42)
	raise := rng.Reference(pose.Body25, "raise")
	wave := rng.Reference(pose.Body25, "wave")

	// 1 fps: raise, raise, wave, nobody
	frames := testutil.Frames(1,
		raise.Joints,
		testutil.Transform(raise.Joints, 0.5, 0.2, 0.2),
		wave.Joints,
		testutil.Blank(pose.Body25),
	)

	e := poseseq.New()
	matches, err := e.Query(raise, wave).
		Gap(1).          // wave at most 1s after raise
		Threshold(0.95). // joint similarity
		Epsilon(0.1).    // merge adjacent frames
		Execute(context.Background(), frames)
	if err != nil {
		log.Fatal(err)
	}

	for _, m := range matches {
		fmt.Printf("[%.0f, %.0f) raise frames=%d wave frames=%d\n",
			m.Start, m.End, len(m.StageFrames(0)), len(m.StageFrames(1)))
	}
	// Output: [0, 3) raise frames=2 wave frames=1
}

// Example_constraints demonstrates restricting candidates with joint relations.
func Example_constraints() {
	s := pose.Body25
	nose, neck := s.MustIndex("Nose"), s.MustIndex("Neck")

	rng := testutil.NewRNG(42)
	ref := rng.Reference(s, "upright")
	// Put the nose just above the neck.
	n := ref.Joints.Get(neck)
	ref.Joints[nose] = pose.Joint{X: n.X, Y: n.Y - 0.05, Confidence: 1}
	frames := testutil.Frames(1, ref.Joints, ref.Joints)

	e := poseseq.New()
	for _, c := range []struct {
		name string
		c    pose.Constraint
	}{
		{"nose above neck", pose.Above(nose, neck)},
		{"nose below neck", pose.Below(nose, neck)},
	} {
		found, err := e.Query(ref).Where(c.c).Exists(context.Background(), frames)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %v\n", c.name, found)
	}
	// Output:
	// nose above neck: true
	// nose below neck: false
}
