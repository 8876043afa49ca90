// Package observability exports search metrics to Prometheus.
package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/poseseq"
)

const namespace = "poseseq"

// Collector implements poseseq.MetricsCollector with Prometheus metrics.
type Collector struct {
	searches       *prometheus.CounterVec
	searchDuration *prometheus.HistogramVec
	matches        prometheus.Histogram
	stageDuration  *prometheus.HistogramVec
	candidates     *prometheus.CounterVec
	spans          *prometheus.CounterVec

	collectors []prometheus.Collector
}

var (
	_ poseseq.MetricsCollector = (*Collector)(nil)
	_ prometheus.Collector     = (*Collector)(nil)
)

// NewCollector creates the metrics and registers them with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		searches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of sequence searches",
		}, []string{"status"}),
		searchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Latency of sequence searches",
			Buckets:   prometheus.DefBuckets,
		}, []string{"status"}),
		matches: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_matches",
			Help:      "Number of matches returned by successful searches",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Latency of candidate generation per query pose",
			Buckets:   prometheus.DefBuckets,
		}, []string{"stage"}),
		candidates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_candidates_total",
			Help:      "Frames accepted by the similarity gate per query pose",
		}, []string{"stage"}),
		spans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stage_spans_total",
			Help:      "Coalesced spans per query pose",
		}, []string{"stage"}),
	}
	c.collectors = []prometheus.Collector{
		c.searches, c.searchDuration, c.matches,
		c.stageDuration, c.candidates, c.spans,
	}

	if err := reg.Register(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, col := range c.collectors {
		col.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, col := range c.collectors {
		col.Collect(ch)
	}
}

// RecordSearch implements poseseq.MetricsCollector.
func (c *Collector) RecordSearch(poses, matches int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.searches.WithLabelValues(status).Inc()
	c.searchDuration.WithLabelValues(status).Observe(d.Seconds())
	if err == nil {
		c.matches.Observe(float64(matches))
	}
}

// RecordStage implements poseseq.MetricsCollector.
func (c *Collector) RecordStage(stage, candidates, spans int, d time.Duration) {
	label := strconv.Itoa(stage)
	c.stageDuration.WithLabelValues(label).Observe(d.Seconds())
	c.candidates.WithLabelValues(label).Add(float64(candidates))
	c.spans.WithLabelValues(label).Add(float64(spans))
}
