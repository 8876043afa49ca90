package openpose

import (
	"log/slog"

	"github.com/hupe1980/poseseq/codec"
	"github.com/hupe1980/poseseq/pose"
	"github.com/hupe1980/poseseq/resource"
)

// Default editor canvas used to normalize reference poses.
const (
	DefaultCanvasWidth  = 1280
	DefaultCanvasHeight = 720
)

type options struct {
	skeleton     *pose.Skeleton
	policy       Policy
	codec        codec.Codec
	controller   *resource.Controller
	logger       *slog.Logger
	canvasWidth  float64
	canvasHeight float64
}

// Option configures a Loader or LoadReference.
type Option func(*options)

// WithSkeleton sets the keypoint layout. Default: pose.Body25.
func WithSkeleton(s *pose.Skeleton) Option {
	return func(o *options) {
		if s != nil {
			o.skeleton = s
		}
	}
}

// WithPolicy sets the subject selection policy. Default: LargestBBox.
func WithPolicy(p Policy) Option {
	return func(o *options) {
		o.policy = p
	}
}

// WithCodec sets the JSON codec. Default: codec.Default.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c != nil {
			o.codec = c
		}
	}
}

// WithController gates reads through a resource controller.
// Without one, files are read with no concurrency or rate limit.
func WithController(c *resource.Controller) Option {
	return func(o *options) {
		o.controller = c
	}
}

// WithLogger sets the logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCanvas sets the editor canvas size used by LoadReference.
func WithCanvas(width, height float64) Option {
	return func(o *options) {
		if width > 0 && height > 0 {
			o.canvasWidth, o.canvasHeight = width, height
		}
	}
}

func applyOptions(opts []Option) options {
	o := options{
		skeleton:     pose.Body25,
		policy:       LargestBBox,
		codec:        codec.Default,
		logger:       slog.New(slog.DiscardHandler),
		canvasWidth:  DefaultCanvasWidth,
		canvasHeight: DefaultCanvasHeight,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
