package prommetrics

import (
	"errors"
	"testing"
	"time"

	"github.com/hupe1980/ncdgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ ncdgo.MetricsCollector = (*Collector)(nil)

func TestCollector(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.RecordRow(time.Millisecond, nil)
	c.RecordRow(time.Millisecond, errors.New("boom"))
	c.RecordBlock("written", time.Second, nil)
	c.RecordBlock("written", time.Second, nil)
	c.RecordBlock("skipped", 0, nil)
	c.RecordBlock("failed", 0, errors.New("boom"))
	c.RecordClassification(3, 40, time.Millisecond, nil)
	c.RecordClassification(3, 99, time.Millisecond, errors.New("boom"))
	c.RecordRun("gzip", 0.75, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.blocks.WithLabelValues("written")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.blocks.WithLabelValues("skipped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.blocks.WithLabelValues("failed")))
	assert.Equal(t, 40.0, testutil.ToFloat64(c.classified.WithLabelValues("3")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.runs.WithLabelValues("gzip")))
	assert.Equal(t, 0.75, testutil.ToFloat64(c.accuracy.WithLabelValues("gzip")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.rowLatency))
}

func TestDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	require.Error(t, err)
	assert.Panics(t, func() { MustNew(reg) })
}

func TestWithExperiment(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := MustNew(reg)

	exp, err := ncdgo.New[string](ncdgo.WithMetricsCollector(c))
	require.NoError(t, err)

	_, err = exp.Matrix(t.Context(), []string{"aaaa", "bbbb"}, []string{"aaab"})
	require.NoError(t, err)
	assert.Equal(t, 1, testutil.CollectAndCount(c.rowLatency))
}
