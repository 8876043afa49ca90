package poseseq

import (
	"log/slog"
	"runtime"

	"github.com/hupe1980/poseseq/distance"
	"github.com/hupe1980/poseseq/pose"
)

// DefaultJoinWindow is the join search radius in seconds.
const DefaultJoinWindow = 1.0

type options struct {
	skeleton         *pose.Skeleton
	metric           distance.Metric
	concurrency      int
	joinWindow       float64
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures an Engine.
type Option func(*options)

// WithSkeleton selects the joint layout frames and references use.
// Defaults to pose.Body25. A nil skeleton is ignored.
func WithSkeleton(s *pose.Skeleton) Option {
	return func(o *options) {
		if s != nil {
			o.skeleton = s
		}
	}
}

// WithDistanceMetric selects the per-joint distance of the similarity
// score. Defaults to distance.MetricCosine. Unsupported metrics are ignored.
func WithDistanceMetric(m distance.Metric) Option {
	return func(o *options) {
		if _, err := distance.Provider(m); err == nil {
			o.metric = m
		}
	}
}

// WithConcurrency bounds how many stages generate candidates at once.
// Values below 1 select runtime.GOMAXPROCS(0). With 1, stages are generated
// lazily and the fold stops at the first empty stage.
func WithConcurrency(n int) Option {
	return func(o *options) {
		o.concurrency = n
	}
}

// WithJoinWindow sets the join search radius in seconds.
//
// Only stage spans within window seconds of the running result are
// considered. A window smaller than the query gap silently drops matches
// that the gap would allow. A negative window disables the bound.
func WithJoinWindow(window float64) Option {
	return func(o *options) {
		o.joinWindow = window
	}
}

// WithMetricsCollector configures a metrics collector for monitoring searches.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &poseseq.BasicMetricsCollector{}
//	e := poseseq.New(poseseq.WithMetricsCollector(metrics))
//	// ... search ...
//	stats := metrics.GetStats()
//	fmt.Printf("Searches: %d, Avg latency: %dns\n", stats.SearchCount, stats.SearchAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for searches.
// Pass nil to disable logging.
//
// Example with JSON logging:
//
//	logger := poseseq.NewJSONLogger(slog.LevelDebug)
//	e := poseseq.New(poseseq.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		skeleton:         pose.Body25,
		metric:           distance.MetricCosine,
		joinWindow:       DefaultJoinWindow,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.concurrency < 1 {
		o.concurrency = runtime.GOMAXPROCS(0)
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
