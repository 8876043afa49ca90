package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/poseseq/pose"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Uniform returns a pseudo-random number in [minVal, maxVal).
func (r *RNG) Uniform(minVal, maxVal float64) float64 {
	return minVal + r.Float64()*(maxVal-minVal)
}

// Pose returns joints for every id of s. Landmarks lie in [0.1, 0.9) on both
// axes with confidence in [0.5, 1); Background is the sentinel.
func (r *RNG) Pose(s *pose.Skeleton) pose.Joints {
	js := make(pose.Joints, s.Len())
	for _, id := range s.IDs() {
		if id == s.Background {
			js[id] = pose.Joint{}
			continue
		}
		js[id] = pose.Joint{
			X:          r.Uniform(0.1, 0.9),
			Y:          r.Uniform(0.1, 0.9),
			Confidence: r.Uniform(0.5, 1),
		}
	}
	return js
}

// Reference returns a random named reference pose.
func (r *RNG) Reference(s *pose.Skeleton, name string) pose.Reference {
	return pose.Reference{Name: name, Joints: r.Pose(s)}
}

// Jitter moves every landmark by up to ±amount per axis. Sentinels are kept.
func (r *RNG) Jitter(js pose.Joints, amount float64) pose.Joints {
	out := make(pose.Joints, len(js))
	for id, j := range js {
		if !j.IsSentinel() {
			j.X += r.Uniform(-amount, amount)
			j.Y += r.Uniform(-amount, amount)
		}
		out[id] = j
	}
	return out
}

// Transform scales every landmark by scale and shifts it by (dx, dy).
// Sentinels are kept.
func Transform(js pose.Joints, scale, dx, dy float64) pose.Joints {
	out := make(pose.Joints, len(js))
	for id, j := range js {
		if !j.IsSentinel() {
			j.X = j.X*scale + dx
			j.Y = j.Y*scale + dy
		}
		out[id] = j
	}
	return out
}

// Blank returns all-sentinel joints for s, as produced for frames without
// a detected person.
func Blank(s *pose.Skeleton) pose.Joints {
	js := make(pose.Joints, s.Len())
	for _, id := range s.IDs() {
		js[id] = pose.Joint{}
	}
	return js
}

// Drop returns a copy of js with the given joints replaced by the sentinel.
func Drop(js pose.Joints, ids ...pose.JointID) pose.Joints {
	out := make(pose.Joints, len(js))
	for id, j := range js {
		out[id] = j
	}
	for _, id := range ids {
		out[id] = pose.Joint{}
	}
	return out
}

// Repeat returns n references to js.
func Repeat(js pose.Joints, n int) []pose.Joints {
	out := make([]pose.Joints, n)
	for i := range out {
		out[i] = js
	}
	return out
}

// Frames places poses on the time axis at fps frames per second:
// frame i spans [i/fps, (i+1)/fps).
func Frames(fps float64, poses ...pose.Joints) []pose.Frame {
	frames := make([]pose.Frame, len(poses))
	for i, js := range poses {
		frames[i] = pose.Frame{
			Index:  i,
			T1:     float64(i) / fps,
			T2:     float64(i+1) / fps,
			Record: pose.NewRecord(js),
		}
	}
	return frames
}
