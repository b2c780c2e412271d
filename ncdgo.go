package ncdgo

import (
	"cmp"
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/hupe1980/ncdgo/block"
	"github.com/hupe1980/ncdgo/compressor"
	"github.com/hupe1980/ncdgo/dataset"
	"github.com/hupe1980/ncdgo/distance"
	"github.com/hupe1980/ncdgo/knn"
	"github.com/hupe1980/ncdgo/matrix"
)

// Experiment runs compression-distance k-NN classification with a fixed
// compressor, aggregation policy and metric. It is safe for concurrent use.
type Experiment[L cmp.Ordered] struct {
	opts     options
	provider *compressor.Provider
	builder  *matrix.Builder
	store    *block.Store
	logger   *Logger
}

// Result is the outcome of one Run.
type Result[L cmp.Ordered] struct {
	Compressor  string
	Metric      distance.Metric
	K           int
	Accuracy    float64
	Elapsed     time.Duration
	Predictions []L
	Report      *knn.Report
}

// Record renders the result as "compressorName,accuracy,elapsedSeconds".
func (r *Result[L]) Record() string {
	return r.Compressor + "," +
		strconv.FormatFloat(r.Accuracy, 'f', -1, 64) + "," +
		strconv.FormatFloat(r.Elapsed.Seconds(), 'f', 3, 64)
}

// New creates an Experiment.
func New[L cmp.Ordered](optFns ...Option) (*Experiment[L], error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.workers < 1 {
		return nil, fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidOption, opts.workers)
	}
	if opts.blockSize < 1 {
		return nil, fmt.Errorf("%w: block size must be at least 1, got %d", ErrInvalidOption, opts.blockSize)
	}
	if opts.blockConcurrency < 1 {
		return nil, fmt.Errorf("%w: block concurrency must be at least 1, got %d", ErrInvalidOption, opts.blockConcurrency)
	}
	dist, err := distance.Provider(opts.metric)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOption, err)
	}

	e := &Experiment[L]{
		opts:     opts,
		provider: compressor.NewProvider(opts.compressor, opts.aggregation),
		logger:   opts.logger.WithCompressor(opts.compressor.Name()),
	}
	e.builder = matrix.NewBuilder(e.provider, dist, func(o *matrix.Options) {
		o.Workers = opts.workers
		o.OnRow = func(index int, elapsed time.Duration, err error) {
			e.logger.LogRow(context.Background(), index, elapsed, err)
			opts.metricsCollector.RecordRow(elapsed, err)
		}
	})
	if opts.blobs != nil {
		e.store = block.NewStore(opts.blobs, opts.compressor.Name(), func(o *block.StoreOptions) {
			o.Resources = opts.resources
		})
	}
	return e, nil
}

// Compressor returns the name of the compressor in use.
func (e *Experiment[L]) Compressor() string { return e.provider.Name() }

// Store returns the block store, or nil without WithBlockStore.
func (e *Experiment[L]) Store() *block.Store { return e.store }

func (e *Experiment[L]) knnOptions() knn.Options {
	return knn.Options{TieBreak: e.opts.tieBreak, Seed: e.opts.seed}
}

// Matrix computes the full test x train distance matrix in memory.
func (e *Experiment[L]) Matrix(ctx context.Context, train, test []string) (*matrix.Matrix, error) {
	return e.builder.Build(ctx, test, train)
}

// Run builds the distance matrix of test against train, predicts every
// test label from its k nearest train items and reports the accuracy.
func (e *Experiment[L]) Run(ctx context.Context, train, test *dataset.Collection[L], k int) (res *Result[L], err error) {
	logger := e.logger.WithK(k)
	defer func() {
		if res == nil {
			logger.LogRun(ctx, 0, 0, 0, err)
			return
		}
		logger.LogRun(ctx, res.Accuracy, len(res.Predictions), res.Elapsed, err)
	}()

	if err := train.Validate(); err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	if err := test.Validate(); err != nil {
		return nil, fmt.Errorf("test: %w", err)
	}
	if k <= 0 || k > train.Len() {
		return nil, &InvalidKError{K: k, N: train.Len()}
	}

	start := time.Now()
	m, err := e.builder.Build(ctx, test.Items, train.Items)
	if err != nil {
		return nil, err
	}

	classifyStart := time.Now()
	pred, err := knn.Classify(m.Rows, train.Labels, k, func(o *knn.Options) { *o = e.knnOptions() })
	e.opts.metricsCollector.RecordClassification(k, len(m.Rows), time.Since(classifyStart), err)
	if err != nil {
		return nil, err
	}

	report, err := knn.Accuracy(pred, test.Labels)
	if err != nil {
		return nil, err
	}

	res = &Result[L]{
		Compressor:  e.provider.Name(),
		Metric:      e.opts.metric,
		K:           k,
		Accuracy:    report.Accuracy,
		Elapsed:     time.Since(start),
		Predictions: pred,
		Report:      report,
	}
	e.opts.metricsCollector.RecordRun(res.Compressor, res.Accuracy, res.Elapsed)
	return res, nil
}

// Record computes and persists the distance blocks of test against train.
// test.Items[0] has global index offset. Blocks already persisted are
// skipped, so an interrupted Record can simply be called again.
func (e *Experiment[L]) Record(ctx context.Context, train, test *dataset.Collection[L], offset int) (summary *block.Summary, err error) {
	if e.store == nil {
		return nil, ErrNoBlockStore
	}
	logger := e.logger.WithRange(offset, offset+len(test.Items))
	defer func() { logger.LogRecord(ctx, summary, err) }()

	rec := block.NewRecorder(e.store, e.builder, func(o *block.RecorderOptions) {
		o.BlockSize = e.opts.blockSize
		o.BlockConcurrency = e.opts.blockConcurrency
		o.Claimer = e.opts.claimer
		o.Resources = e.opts.resources
		o.OnBlock = func(key block.Key, status block.Status, elapsed time.Duration, err error) {
			logger.LogBlock(ctx, key, status, elapsed, err)
			e.opts.metricsCollector.RecordBlock(status.String(), elapsed, err)
		}
	})
	return rec.Record(ctx, test.Items, train.Items, offset)
}

// Score classifies every persisted block with k nearest neighbours and
// aggregates the accuracy. Unless partial is set, a missing or unreadable
// block fails with a MissingResourceError.
func (e *Experiment[L]) Score(ctx context.Context, trainLabels, testLabels []L, k int, partial bool) (score *block.Score, err error) {
	if e.store == nil {
		return nil, ErrNoBlockStore
	}
	logger := e.logger.WithK(k)
	defer func() { logger.LogScore(ctx, score, err) }()

	start := time.Now()
	score, err = block.Evaluate(ctx, e.store, testLabels, trainLabels, k, func(o *block.ScoreOptions) {
		o.Partial = partial
		o.KNN = e.knnOptions()
	})
	count := 0
	if score != nil {
		count = score.Total
	}
	e.opts.metricsCollector.RecordClassification(k, count, time.Since(start), err)
	return score, err
}

// RecordNamed computes the full distance matrix of test against train and
// persists it as a single named block, replacing any block of that name.
func (e *Experiment[L]) RecordNamed(ctx context.Context, name string, train, test *dataset.Collection[L]) (err error) {
	if e.store == nil {
		return ErrNoBlockStore
	}
	key := block.NamedKey(name)
	logger := e.logger.WithRange(0, len(test.Items))
	start := time.Now()
	defer func() {
		status := block.StatusWritten
		if err != nil {
			status = block.StatusFailed
		}
		logger.LogBlock(ctx, key, status, time.Since(start), err)
		e.opts.metricsCollector.RecordBlock(status.String(), time.Since(start), err)
	}()

	m, err := e.builder.Build(ctx, test.Items, train.Items)
	if err != nil {
		return err
	}
	return e.store.Put(ctx, key, m)
}

// ScoreNamed classifies the rows of the named block written by RecordNamed.
// The block must have one row per test label.
func (e *Experiment[L]) ScoreNamed(ctx context.Context, name string, trainLabels, testLabels []L, k int) (score *block.Score, err error) {
	if e.store == nil {
		return nil, ErrNoBlockStore
	}
	logger := e.logger.WithK(k)
	defer func() { logger.LogScore(ctx, score, err) }()

	start := time.Now()
	score, err = block.EvaluateBlock(ctx, e.store, block.NamedKey(name), testLabels, trainLabels, k, func(o *block.ScoreOptions) {
		o.KNN = e.knnOptions()
	})
	count := 0
	if score != nil {
		count = score.Total
	}
	e.opts.metricsCollector.RecordClassification(k, count, time.Since(start), err)
	return score, err
}
