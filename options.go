package ncdgo

import (
	"github.com/hupe1980/ncdgo/aggregate"
	"github.com/hupe1980/ncdgo/blobstore"
	"github.com/hupe1980/ncdgo/block"
	"github.com/hupe1980/ncdgo/compressor"
	"github.com/hupe1980/ncdgo/distance"
	"github.com/hupe1980/ncdgo/knn"
	"github.com/hupe1980/ncdgo/resource"
)

type options struct {
	compressor       compressor.Compressor
	aggregation      aggregate.Func
	metric           distance.Metric
	workers          int
	logger           *Logger
	metricsCollector MetricsCollector
	blobs            blobstore.BlobStore
	blockSize        int
	blockConcurrency int
	claimer          block.Claimer
	resources        *resource.Controller
	tieBreak         knn.TieBreak
	seed             int64
}

func defaultOptions() options {
	return options{
		compressor:       compressor.NewGzip(9),
		aggregation:      aggregate.ConcatSpace,
		metric:           distance.MetricNCD,
		workers:          1,
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		blockSize:        block.DefaultBlockSize,
		blockConcurrency: 1,
	}
}

// Option configures an Experiment.
type Option func(*options)

// WithCompressor sets the compressor measuring item lengths.
// If nil is passed, gzip at level 9 is used.
func WithCompressor(c compressor.Compressor) Option {
	return func(o *options) {
		if c != nil {
			o.compressor = c
		}
	}
}

// WithAggregation sets how two items are joined before compressing the
// pair. The order is held fixed: the test item always comes first.
// If nil is passed, aggregate.ConcatSpace is used.
func WithAggregation(agg aggregate.Func) Option {
	return func(o *options) {
		if agg != nil {
			o.aggregation = agg
		}
	}
}

// WithMetric sets the distance formula.
func WithMetric(m distance.Metric) Option {
	return func(o *options) {
		o.metric = m
	}
}

// WithWorkers sets the number of matrix rows computed concurrently.
// 1 computes rows sequentially.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithBlockStore enables Record and Score, persisting blocks under
// "{compressor}/" in store.
func WithBlockStore(store blobstore.BlobStore) Option {
	return func(o *options) {
		o.blobs = store
	}
}

// WithBlockSize sets the number of test rows per persisted block.
func WithBlockSize(n int) Option {
	return func(o *options) {
		o.blockSize = n
	}
}

// WithBlockConcurrency sets the number of blocks Record computes at once.
func WithBlockConcurrency(n int) Option {
	return func(o *options) {
		o.blockConcurrency = n
	}
}

// WithClaimer makes Record claim every block before computing it so
// several workers can share one run.
func WithClaimer(c block.Claimer) Option {
	return func(o *options) {
		o.claimer = c
	}
}

// WithResourceController bounds block memory and block write throughput.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.resources = rc
	}
}

// WithTieBreak sets how tied votes are resolved. seed drives
// knn.TieBreakRandom and is ignored otherwise.
func WithTieBreak(tb knn.TieBreak, seed int64) Option {
	return func(o *options) {
		o.tieBreak = tb
		o.seed = seed
	}
}
