// Package resource bounds the memory and write throughput of block runs.
package resource

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds resource limits.
type Config struct {
	// MemoryLimitBytes is the hard limit for in-flight distance blocks.
	// If 0, no hard limit is enforced (only tracking).
	MemoryLimitBytes int64

	// MaxBlockWorkers is the maximum number of blocks computed at once.
	// If 0, defaults to 1.
	MaxBlockWorkers int64

	// IOLimitBytesPerSec is the maximum write throughput for persisted blocks.
	// If 0, unlimited.
	IOLimitBytesPerSec int64
}

// Controller manages shared resources of a block run. A nil *Controller
// imposes no limits.
type Controller struct {
	cfg Config

	memSem  *semaphore.Weighted // nil if unlimited
	memUsed atomic.Int64

	blockSem *semaphore.Weighted

	ioLimiter *rate.Limiter
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxBlockWorkers <= 0 {
		cfg.MaxBlockWorkers = 1
	}

	c := &Controller{
		cfg:      cfg,
		blockSem: semaphore.NewWeighted(cfg.MaxBlockWorkers),
	}

	if cfg.MemoryLimitBytes > 0 {
		c.memSem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
	}

	if cfg.IOLimitBytesPerSec > 0 {
		c.ioLimiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}

	return c
}

// Config returns the effective limits.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// BlockBytes estimates the memory held by a rows x cols float64 block.
func BlockBytes(rows, cols int) int64 {
	return int64(rows) * int64(cols) * 8
}

// AcquireMemory reserves memory for a block.
// If a hard limit is configured and usage would exceed it,
// this blocks until memory is available or ctx is canceled.
// Requests above the limit are clamped to the limit so a single
// oversized block can still run on its own.
func (c *Controller) AcquireMemory(ctx context.Context, bytes int64) (int64, error) {
	if c == nil || bytes <= 0 {
		return 0, nil
	}

	if c.memSem != nil {
		bytes = min(bytes, c.cfg.MemoryLimitBytes)
		if err := c.memSem.Acquire(ctx, bytes); err != nil {
			return 0, err
		}
	}

	c.memUsed.Add(bytes)
	return bytes, nil
}

// TryAcquireMemory attempts to reserve memory without blocking.
// Returns true if acquired, false if limit would be exceeded.
func (c *Controller) TryAcquireMemory(bytes int64) bool {
	if c == nil || bytes <= 0 {
		return true
	}

	if c.memSem != nil {
		if !c.memSem.TryAcquire(bytes) {
			return false
		}
	}

	c.memUsed.Add(bytes)
	return true
}

// ReleaseMemory releases memory returned by AcquireMemory.
func (c *Controller) ReleaseMemory(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}

	if c.memSem != nil {
		c.memSem.Release(bytes)
	}
	c.memUsed.Add(-bytes)
}

// MemoryUsage returns the current memory usage in bytes.
func (c *Controller) MemoryUsage() int64 {
	if c == nil {
		return 0
	}
	return c.memUsed.Load()
}

// AcquireBlock reserves a block worker slot.
// Blocks if all slots are busy.
func (c *Controller) AcquireBlock(ctx context.Context) error {
	if c == nil {
		return ctx.Err()
	}
	return c.blockSem.Acquire(ctx, 1)
}

// TryAcquireBlock attempts to reserve a block worker slot without blocking.
func (c *Controller) TryAcquireBlock() bool {
	if c == nil {
		return true
	}
	return c.blockSem.TryAcquire(1)
}

// ReleaseBlock releases a block worker slot.
func (c *Controller) ReleaseBlock() {
	if c == nil {
		return
	}
	c.blockSem.Release(1)
}

// AcquireIO waits until the IO limit allows writing the specified number
// of bytes. Writes larger than the burst are admitted in burst-sized steps.
func (c *Controller) AcquireIO(ctx context.Context, bytes int) error {
	if c == nil || c.ioLimiter == nil {
		return nil
	}
	burst := c.ioLimiter.Burst()
	for bytes > 0 {
		n := min(bytes, burst)
		if err := c.ioLimiter.WaitN(ctx, n); err != nil {
			return err
		}
		bytes -= n
	}
	return nil
}
