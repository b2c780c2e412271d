// Package config manages the ncdgo command line configuration file.
// It handles loading, saving and validating experiment settings.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/hupe1980/ncdgo/aggregate"
	"github.com/hupe1980/ncdgo/codec"
	"github.com/hupe1980/ncdgo/compressor"
	"github.com/hupe1980/ncdgo/distance"
	"github.com/hupe1980/ncdgo/knn"
)

// DefaultFile is the configuration file looked up in the working directory.
const DefaultFile = "ncdgo.toml"

// Storage backends.
const (
	BackendLocal = "local"
	BackendMinio = "minio"
	BackendS3    = "s3"
)

// Config represents the ncdgo configuration
type Config struct {
	Compressor  string `toml:"compressor"`
	Aggregation string `toml:"aggregation"`
	Metric      string `toml:"metric"`
	Workers     int    `toml:"workers"`
	K           int    `toml:"k"`
	TieBreak    string `toml:"tie_break"`
	Seed        int64  `toml:"seed"`
	Codec       string `toml:"codec"`

	Block   BlockConfig   `toml:"block"`
	Storage StorageConfig `toml:"storage"`
	Limits  LimitsConfig  `toml:"limits"`
	Log     LogConfig     `toml:"log"`

	MetricsAddr string `toml:"metrics_addr"`
}

// BlockConfig controls persisted distance blocks.
type BlockConfig struct {
	Size        int `toml:"size"`
	Concurrency int `toml:"concurrency"`
}

// StorageConfig selects where blocks and sampled index lists are kept.
type StorageConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`

	Bucket    string `toml:"bucket"`
	Prefix    string `toml:"prefix"`
	Endpoint  string `toml:"endpoint"`
	Region    string `toml:"region"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
	UseSSL    bool   `toml:"use_ssl"`

	// ClaimTable is a DynamoDB table used to claim blocks across
	// machines. Empty disables distributed claims.
	ClaimTable string `toml:"claim_table"`
	// ClaimLeaseMinutes is how long a claim blocks other machines before
	// an unfinished block is taken over.
	ClaimLeaseMinutes int `toml:"claim_lease_minutes"`
}

// LimitsConfig bounds resources of block runs. Zero means unlimited.
type LimitsConfig struct {
	MemoryBytes      int64 `toml:"memory_bytes"`
	IOBytesPerSecond int64 `toml:"io_bytes_per_second"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Compressor:  compressor.NameGzip,
		Aggregation: aggregate.NameConcatSpace,
		Metric:      distance.MetricNCD.String(),
		Workers:     1,
		K:           2,
		TieBreak:    knn.TieBreakClosest.String(),
		Codec:       codec.GoJSON{}.Name(),
		Block: BlockConfig{
			Size:        100,
			Concurrency: 1,
		},
		Storage: StorageConfig{
			Backend: BackendLocal,
			Dir:     "distance_matrix",

			ClaimLeaseMinutes: 60,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load reads the configuration at path on top of Default. A missing file
// at DefaultFile is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultFile
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Encode writes the configuration as TOML to w.
func (c *Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks that every named component exists and numeric settings
// are in range.
func (c *Config) Validate() error {
	var errs []error

	if _, err := compressor.ByName(c.Compressor); err != nil {
		errs = append(errs, err)
	}
	if _, err := aggregate.ByName(c.Aggregation); err != nil {
		errs = append(errs, err)
	}
	if _, err := distance.ParseMetric(c.Metric); err != nil {
		errs = append(errs, err)
	}
	if _, err := knn.ParseTieBreak(c.TieBreak); err != nil {
		errs = append(errs, err)
	}
	if _, ok := codec.ByName(c.Codec); !ok {
		errs = append(errs, fmt.Errorf("unknown codec %q", c.Codec))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("workers must be >= 1, got %d", c.Workers))
	}
	if c.K < 1 {
		errs = append(errs, fmt.Errorf("k must be >= 1, got %d", c.K))
	}
	if c.Block.Size < 1 {
		errs = append(errs, fmt.Errorf("block.size must be >= 1, got %d", c.Block.Size))
	}
	if c.Block.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("block.concurrency must be >= 1, got %d", c.Block.Concurrency))
	}
	if c.Storage.ClaimLeaseMinutes < 0 {
		errs = append(errs, fmt.Errorf("storage.claim_lease_minutes must not be negative, got %d", c.Storage.ClaimLeaseMinutes))
	}
	if c.Limits.MemoryBytes < 0 || c.Limits.IOBytesPerSecond < 0 {
		errs = append(errs, errors.New("limits must not be negative"))
	}

	switch c.Storage.Backend {
	case BackendLocal:
		if c.Storage.Dir == "" {
			errs = append(errs, errors.New("storage.dir is required for the local backend"))
		}
	case BackendMinio:
		if c.Storage.Endpoint == "" {
			errs = append(errs, errors.New("storage.endpoint is required for the minio backend"))
		}
		fallthrough
	case BackendS3:
		if c.Storage.Bucket == "" {
			errs = append(errs, fmt.Errorf("storage.bucket is required for the %s backend", c.Storage.Backend))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown storage backend %q", c.Storage.Backend))
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("unknown log format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}
