// Package prommetrics exports ncdgo experiment metrics to Prometheus.
package prommetrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements ncdgo.MetricsCollector on Prometheus vectors.
type Collector struct {
	rowLatency      *prometheus.HistogramVec
	blocks          *prometheus.CounterVec
	blockLatency    prometheus.Histogram
	classified      *prometheus.CounterVec
	classifyLatency prometheus.Histogram
	runs            *prometheus.CounterVec
	accuracy        *prometheus.GaugeVec
	runLatency      *prometheus.HistogramVec
}

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		rowLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ncdgo_row_duration_seconds",
			Help:    "Time to compute one distance matrix row",
			Buckets: prometheus.DefBuckets,
		}, []string{"status"}),
		blocks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ncdgo_blocks_total",
			Help: "Persisted distance blocks by outcome",
		}, []string{"status"}),
		blockLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ncdgo_block_duration_seconds",
			Help:    "Time to compute and persist one block",
			Buckets: prometheus.ExponentialBuckets(0.1, 2, 12),
		}),
		classified: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ncdgo_classified_items_total",
			Help: "Test items classified by k nearest neighbours",
		}, []string{"k"}),
		classifyLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ncdgo_classification_duration_seconds",
			Help:    "Time to classify one matrix or block set",
			Buckets: prometheus.DefBuckets,
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ncdgo_runs_total",
			Help: "Completed experiment runs",
		}, []string{"compressor"}),
		accuracy: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ncdgo_run_accuracy_ratio",
			Help: "Accuracy of the latest run (0.0-1.0)",
		}, []string{"compressor"}),
		runLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ncdgo_run_duration_seconds",
			Help:    "Wall time of experiment runs",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 10),
		}, []string{"compressor"}),
	}

	for _, col := range []prometheus.Collector{
		c.rowLatency, c.blocks, c.blockLatency, c.classified,
		c.classifyLatency, c.runs, c.accuracy, c.runLatency,
	} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// MustNew is like New but panics on registration errors.
func MustNew(reg prometheus.Registerer) *Collector {
	c, err := New(reg)
	if err != nil {
		panic(err)
	}
	return c
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRow implements ncdgo.MetricsCollector.
func (c *Collector) RecordRow(d time.Duration, err error) {
	c.rowLatency.WithLabelValues(status(err)).Observe(d.Seconds())
}

// RecordBlock implements ncdgo.MetricsCollector.
func (c *Collector) RecordBlock(st string, d time.Duration, err error) {
	c.blocks.WithLabelValues(st).Inc()
	if st == "written" {
		c.blockLatency.Observe(d.Seconds())
	}
}

// RecordClassification implements ncdgo.MetricsCollector.
func (c *Collector) RecordClassification(k, count int, d time.Duration, err error) {
	if err != nil {
		return
	}
	c.classified.WithLabelValues(strconv.Itoa(k)).Add(float64(count))
	c.classifyLatency.Observe(d.Seconds())
}

// RecordRun implements ncdgo.MetricsCollector.
func (c *Collector) RecordRun(compressor string, accuracy float64, d time.Duration) {
	c.runs.WithLabelValues(compressor).Inc()
	c.accuracy.WithLabelValues(compressor).Set(accuracy)
	c.runLatency.WithLabelValues(compressor).Observe(d.Seconds())
}
