package ncdgo

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems;
// package prommetrics provides a Prometheus implementation.
//
// Implementations must be safe for concurrent use: rows and blocks are
// reported from worker goroutines.
type MetricsCollector interface {
	// RecordRow is called after each distance matrix row.
	RecordRow(duration time.Duration, err error)

	// RecordBlock is called after each persisted block with its outcome
	// ("written", "skipped", "claimed" or "failed").
	RecordBlock(status string, duration time.Duration, err error)

	// RecordClassification is called after classifying count test items.
	RecordClassification(k, count int, duration time.Duration, err error)

	// RecordRun is called after each completed experiment run.
	RecordRun(compressor string, accuracy float64, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRow(time.Duration, error)                      {}
func (NoopMetricsCollector) RecordBlock(string, time.Duration, error)            {}
func (NoopMetricsCollector) RecordClassification(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordRun(string, float64, time.Duration)            {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RowCount           atomic.Int64
	RowErrors          atomic.Int64
	RowTotalNanos      atomic.Int64
	BlocksWritten      atomic.Int64
	BlocksSkipped      atomic.Int64
	BlocksClaimed      atomic.Int64
	BlocksFailed       atomic.Int64
	ClassifiedItems    atomic.Int64
	ClassifyErrors     atomic.Int64
	RunCount           atomic.Int64
	lastAccuracyMicros atomic.Int64
}

// RecordRow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRow(duration time.Duration, err error) {
	b.RowCount.Add(1)
	b.RowTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RowErrors.Add(1)
	}
}

// RecordBlock implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBlock(status string, _ time.Duration, _ error) {
	switch status {
	case "written":
		b.BlocksWritten.Add(1)
	case "skipped":
		b.BlocksSkipped.Add(1)
	case "claimed":
		b.BlocksClaimed.Add(1)
	default:
		b.BlocksFailed.Add(1)
	}
}

// RecordClassification implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClassification(_ int, count int, _ time.Duration, err error) {
	if err != nil {
		b.ClassifyErrors.Add(1)
		return
	}
	b.ClassifiedItems.Add(int64(count))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ string, accuracy float64, _ time.Duration) {
	b.RunCount.Add(1)
	b.lastAccuracyMicros.Store(int64(accuracy * 1e6))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RowCount:        b.RowCount.Load(),
		RowErrors:       b.RowErrors.Load(),
		RowAvgNanos:     b.getAvgRowNanos(),
		BlocksWritten:   b.BlocksWritten.Load(),
		BlocksSkipped:   b.BlocksSkipped.Load(),
		BlocksClaimed:   b.BlocksClaimed.Load(),
		BlocksFailed:    b.BlocksFailed.Load(),
		ClassifiedItems: b.ClassifiedItems.Load(),
		ClassifyErrors:  b.ClassifyErrors.Load(),
		RunCount:        b.RunCount.Load(),
		LastAccuracy:    float64(b.lastAccuracyMicros.Load()) / 1e6,
	}
}

func (b *BasicMetricsCollector) getAvgRowNanos() int64 {
	count := b.RowCount.Load()
	if count == 0 {
		return 0
	}
	return b.RowTotalNanos.Load() / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RowCount        int64
	RowErrors       int64
	RowAvgNanos     int64
	BlocksWritten   int64
	BlocksSkipped   int64
	BlocksClaimed   int64
	BlocksFailed    int64
	ClassifiedItems int64
	ClassifyErrors  int64
	RunCount        int64
	LastAccuracy    float64
}
