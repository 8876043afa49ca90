package poseseq

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus
// (see the observability package).
type MetricsCollector interface {
	// RecordSearch is called after each search.
	// poses is the query length, matches the number of results and err is nil
	// if successful.
	RecordSearch(poses, matches int, duration time.Duration, err error)

	// RecordStage is called after candidate generation for one query pose.
	// candidates counts frames that passed the gate, spans the coalesced result.
	RecordStage(stage, candidates, spans int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordSearch(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordStage(int, int, int, time.Duration)    {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	SearchCount      atomic.Int64
	SearchErrors     atomic.Int64
	SearchTotalNanos atomic.Int64
	MatchCount       atomic.Int64
	StageCount       atomic.Int64
	CandidateCount   atomic.Int64
	SpanCount        atomic.Int64
}

// RecordSearch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSearch(poses, matches int, duration time.Duration, err error) {
	b.SearchCount.Add(1)
	b.SearchTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SearchErrors.Add(1)
		return
	}
	b.MatchCount.Add(int64(matches))
}

// RecordStage implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStage(stage, candidates, spans int, duration time.Duration) {
	b.StageCount.Add(1)
	b.CandidateCount.Add(int64(candidates))
	b.SpanCount.Add(int64(spans))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		SearchCount:    b.SearchCount.Load(),
		SearchErrors:   b.SearchErrors.Load(),
		SearchAvgNanos: b.getAvgSearchNanos(),
		MatchCount:     b.MatchCount.Load(),
		StageCount:     b.StageCount.Load(),
		CandidateCount: b.CandidateCount.Load(),
		SpanCount:      b.SpanCount.Load(),
	}
}

func (b *BasicMetricsCollector) getAvgSearchNanos() int64 {
	count := b.SearchCount.Load()
	if count == 0 {
		return 0
	}
	return b.SearchTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	SearchCount    int64
	SearchErrors   int64
	SearchAvgNanos int64
	MatchCount     int64
	StageCount     int64
	CandidateCount int64
	SpanCount      int64
}
