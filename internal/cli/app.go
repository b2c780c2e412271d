package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/hupe1980/ncdgo"
	"github.com/hupe1980/ncdgo/aggregate"
	"github.com/hupe1980/ncdgo/blobstore"
	ncdminio "github.com/hupe1980/ncdgo/blobstore/minio"
	ncds3 "github.com/hupe1980/ncdgo/blobstore/s3"
	"github.com/hupe1980/ncdgo/block"
	"github.com/hupe1980/ncdgo/codec"
	"github.com/hupe1980/ncdgo/compressor"
	"github.com/hupe1980/ncdgo/distance"
	"github.com/hupe1980/ncdgo/internal/config"
	"github.com/hupe1980/ncdgo/knn"
	"github.com/hupe1980/ncdgo/prommetrics"
	"github.com/hupe1980/ncdgo/resource"
)

type flags struct {
	configPath  string
	compressor  string
	aggregation string
	metric      string
	workers     int
	tieBreak    string
	seed        int64
	storageDir  string
	logLevel    string
	logFormat   string
	metricsAddr string
}

// app holds the state shared by all commands of one invocation.
type app struct {
	flags  flags
	out    io.Writer
	errOut io.Writer

	cfg        *config.Config
	codec      codec.Codec
	logger     *ncdgo.Logger
	metrics    ncdgo.MetricsCollector
	metricsSrv *http.Server
	blobs      blobstore.BlobStore
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}

	pf := cmd.Flags()
	if pf.Changed("compressor") {
		cfg.Compressor = a.flags.compressor
	}
	if pf.Changed("aggregation") {
		cfg.Aggregation = a.flags.aggregation
	}
	if pf.Changed("metric") {
		cfg.Metric = a.flags.metric
	}
	if pf.Changed("workers") {
		cfg.Workers = a.flags.workers
	}
	if pf.Changed("tie-break") {
		cfg.TieBreak = a.flags.tieBreak
	}
	if pf.Changed("seed") {
		cfg.Seed = a.flags.seed
	}
	if pf.Changed("storage-dir") {
		cfg.Storage.Backend = config.BackendLocal
		cfg.Storage.Dir = a.flags.storageDir
	}
	if pf.Changed("log-level") {
		cfg.Log.Level = a.flags.logLevel
	}
	if pf.Changed("log-format") {
		cfg.Log.Format = a.flags.logFormat
	}
	if pf.Changed("metrics-addr") {
		cfg.MetricsAddr = a.flags.metricsAddr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	a.codec, _ = codec.ByName(cfg.Codec)
	a.logger = newLogger(a.errOut, cfg.Log)

	a.metrics = ncdgo.NoopMetricsCollector{}
	if cfg.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		c, err := prommetrics.New(reg)
		if err != nil {
			return err
		}
		a.metrics = c
		a.serveMetrics(reg, cfg.MetricsAddr)
	}
	return nil
}

func newLogger(w io.Writer, cfg config.LogConfig) *ncdgo.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return ncdgo.NewLogger(slog.NewJSONHandler(w, opts))
	}
	return ncdgo.NewLogger(slog.NewTextHandler(w, opts))
}

func (a *app) serveMetrics(reg *prometheus.Registry, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	a.metricsSrv = &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srv, logger := a.metricsSrv, a.logger
	go func() {
		logger.Info("serving metrics", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server error", "error", err)
		}
	}()
}

func (a *app) close() {
	if a.metricsSrv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.metricsSrv.Shutdown(ctx); err != nil {
		a.logger.Error("metrics server shutdown", "error", err)
	}
}

// store opens the configured block store once.
func (a *app) store(ctx context.Context) (blobstore.BlobStore, error) {
	if a.blobs != nil {
		return a.blobs, nil
	}

	s := a.cfg.Storage
	switch s.Backend {
	case config.BackendLocal:
		a.blobs = blobstore.NewLocalStore(s.Dir)
	case config.BackendMinio:
		client, err := minio.New(s.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(s.AccessKey, s.SecretKey, ""),
			Secure: s.UseSSL,
			Region: s.Region,
		})
		if err != nil {
			return nil, fmt.Errorf("minio client: %w", err)
		}
		a.blobs = ncdminio.NewStore(client, s.Bucket, s.Prefix)
	case config.BackendS3:
		st, err := ncds3.New(ctx, s.Bucket, ncds3.WithPrefix(s.Prefix), ncds3.WithRegion(s.Region))
		if err != nil {
			return nil, err
		}
		a.blobs = st
	default:
		return nil, fmt.Errorf("unknown storage backend %q", s.Backend)
	}
	return a.blobs, nil
}

func (a *app) claimer(ctx context.Context) (block.Claimer, error) {
	table := a.cfg.Storage.ClaimTable
	if table == "" {
		return nil, nil
	}

	var opts []func(*awsconfig.LoadOptions) error
	if a.cfg.Storage.Region != "" {
		opts = append(opts, awsconfig.WithRegion(a.cfg.Storage.Region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	lease := time.Duration(a.cfg.Storage.ClaimLeaseMinutes) * time.Minute
	return ncds3.NewDDBClaimer(dynamodb.NewFromConfig(awsCfg), table, owner(), func(o *ncds3.DDBClaimerOptions) {
		o.Lease = lease
	}), nil
}

func owner() string {
	host, err := os.Hostname()
	if err != nil {
		host = "unknown"
	}
	return fmt.Sprintf("%s-%d", host, os.Getpid())
}

// experiment builds an Experiment from the effective configuration.
// withBlocks attaches the block store and its limits.
func (a *app) experiment(ctx context.Context, withBlocks bool) (*ncdgo.Experiment[label], error) {
	cfg := a.cfg

	comp, err := compressor.ByName(cfg.Compressor)
	if err != nil {
		return nil, err
	}
	agg, err := aggregate.ByName(cfg.Aggregation)
	if err != nil {
		return nil, err
	}
	metric, err := distance.ParseMetric(cfg.Metric)
	if err != nil {
		return nil, err
	}
	tb, err := knn.ParseTieBreak(cfg.TieBreak)
	if err != nil {
		return nil, err
	}

	opts := []ncdgo.Option{
		ncdgo.WithCompressor(comp),
		ncdgo.WithAggregation(agg),
		ncdgo.WithMetric(metric),
		ncdgo.WithWorkers(cfg.Workers),
		ncdgo.WithTieBreak(tb, cfg.Seed),
		ncdgo.WithLogger(a.logger),
		ncdgo.WithMetricsCollector(a.metrics),
	}

	if withBlocks {
		blobs, err := a.store(ctx)
		if err != nil {
			return nil, err
		}
		claimer, err := a.claimer(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts,
			ncdgo.WithBlockStore(blobs),
			ncdgo.WithBlockSize(cfg.Block.Size),
			ncdgo.WithBlockConcurrency(cfg.Block.Concurrency),
			ncdgo.WithClaimer(claimer),
			ncdgo.WithResourceController(resource.NewController(resource.Config{
				MemoryLimitBytes:   cfg.Limits.MemoryBytes,
				MaxBlockWorkers:    int64(cfg.Block.Concurrency),
				IOLimitBytesPerSec: cfg.Limits.IOBytesPerSecond,
			})),
		)
	}

	return ncdgo.New[label](opts...)
}
