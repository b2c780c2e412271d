package block

import (
	"context"
	"sync"
)

// Claimer grants exclusive ownership of a block to one worker so several
// workers can share a run. blobstore/s3.DDBClaimer is the distributed
// implementation.
type Claimer interface {
	// Claim reports whether the caller now owns name. It returns false
	// without error when another worker holds the claim.
	Claim(ctx context.Context, name string) (bool, error)
	// Release gives up a claim held by the caller.
	Release(ctx context.Context, name string) error
}

// MemoryClaimer is an in-process Claimer for workers sharing one process.
type MemoryClaimer struct {
	mu      sync.Mutex
	claimed map[string]struct{}
}

// NewMemoryClaimer returns an empty MemoryClaimer.
func NewMemoryClaimer() *MemoryClaimer {
	return &MemoryClaimer{claimed: make(map[string]struct{})}
}

func (c *MemoryClaimer) Claim(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.claimed[name]; ok {
		return false, nil
	}
	c.claimed[name] = struct{}{}
	return true, nil
}

func (c *MemoryClaimer) Release(_ context.Context, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.claimed, name)
	return nil
}
