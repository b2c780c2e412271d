package block

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/hupe1980/ncdgo/matrix"
	"github.com/hupe1980/ncdgo/resource"
	"golang.org/x/sync/errgroup"
)

// DefaultBlockSize is the number of test rows per persisted block.
const DefaultBlockSize = 100

// ErrNoTrainItems is returned when recording against an empty train set.
var ErrNoTrainItems = errors.New("no train items")

// Status is the outcome of one block.
type Status int

const (
	StatusWritten Status = iota
	StatusSkipped        // already persisted
	StatusClaimed        // owned by another worker
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusWritten:
		return "written"
	case StatusSkipped:
		return "skipped"
	case StatusClaimed:
		return "claimed"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// BlockError reports the failure of one block.
type BlockError struct {
	Key Key
	Err error
}

func (e *BlockError) Error() string {
	return fmt.Sprintf("block [%d, %d): %v", e.Key.Start, e.Key.End, e.Err)
}

func (e *BlockError) Unwrap() error { return e.Err }

// Summary lists what a Record call did with each block, ordered by Start.
type Summary struct {
	Written []Key
	Skipped []Key
	Claimed []Key
	Failed  []Key
}

// Total returns the number of blocks the call covered.
func (s *Summary) Total() int {
	return len(s.Written) + len(s.Skipped) + len(s.Claimed) + len(s.Failed)
}

// RecorderOptions configures a Recorder.
type RecorderOptions struct {
	// BlockSize is the number of test rows per block. Defaults to DefaultBlockSize.
	BlockSize int

	// BlockConcurrency is the number of blocks computed at once. Defaults to 1.
	BlockConcurrency int

	// Claimer, if set, must grant a block before it is computed.
	Claimer Claimer

	// Resources bounds in-flight block memory and block slots. May be nil.
	Resources *resource.Controller

	// OnBlock, if set, is called once per block. It may be called concurrently.
	OnBlock func(key Key, status Status, elapsed time.Duration, err error)
}

// Recorder computes distance blocks and persists them.
type Recorder struct {
	store   *Store
	builder *matrix.Builder
	opts    RecorderOptions
}

// NewRecorder creates a Recorder writing blocks built by builder to store.
func NewRecorder(store *Store, builder *matrix.Builder, optFns ...func(o *RecorderOptions)) *Recorder {
	opts := RecorderOptions{
		BlockSize:        DefaultBlockSize,
		BlockConcurrency: 1,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = DefaultBlockSize
	}
	if opts.BlockConcurrency <= 0 {
		opts.BlockConcurrency = 1
	}
	return &Recorder{store: store, builder: builder, opts: opts}
}

// Keys returns the range keys covering len(test) items starting at global
// index offset. The last block ends at the last item.
func (r *Recorder) Keys(n, offset int) []Key {
	keys := make([]Key, 0, (n+r.opts.BlockSize-1)/r.opts.BlockSize)
	for s := 0; s < n; s += r.opts.BlockSize {
		keys = append(keys, RangeKey(offset+s, offset+min(s+r.opts.BlockSize, n)))
	}
	return keys
}

type blockResult struct {
	key    Key
	status Status
	err    error
}

// Record computes and persists every block of test that is not yet stored.
// test[0] has global index offset. Blocks already persisted or claimed by
// another worker are skipped. A failing block does not stop the others;
// all failures are returned together along with the summary.
func (r *Recorder) Record(ctx context.Context, test, train []string, offset int) (*Summary, error) {
	if len(train) == 0 {
		return nil, ErrNoTrainItems
	}
	if offset < 0 {
		return nil, fmt.Errorf("record: negative offset %d", offset)
	}

	keys := r.Keys(len(test), offset)
	results := make([]blockResult, 0, len(keys))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(r.opts.BlockConcurrency)

	for _, key := range keys {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			start := time.Now()
			status, err := r.record(ctx, key, test[key.Start-offset:key.End-offset], train)
			if r.opts.OnBlock != nil {
				r.opts.OnBlock(key, status, time.Since(start), err)
			}
			mu.Lock()
			results = append(results, blockResult{key: key, status: status, err: err})
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].key.Start < results[j].key.Start })

	summary := &Summary{}
	var merr *multierror.Error
	for _, res := range results {
		switch res.status {
		case StatusWritten:
			summary.Written = append(summary.Written, res.key)
		case StatusSkipped:
			summary.Skipped = append(summary.Skipped, res.key)
		case StatusClaimed:
			summary.Claimed = append(summary.Claimed, res.key)
		default:
			summary.Failed = append(summary.Failed, res.key)
			merr = multierror.Append(merr, &BlockError{Key: res.key, Err: res.err})
		}
	}
	if err := ctx.Err(); err != nil && len(results) < len(keys) {
		merr = multierror.Append(merr, err)
	}
	return summary, merr.ErrorOrNil()
}

func (r *Recorder) record(ctx context.Context, key Key, test, train []string) (Status, error) {
	ok, err := r.store.Exists(ctx, key)
	if err != nil {
		return StatusFailed, err
	}
	if ok {
		return StatusSkipped, nil
	}

	name := r.store.Path(key)
	if r.opts.Claimer != nil {
		won, err := r.opts.Claimer.Claim(ctx, name)
		if err != nil {
			return StatusFailed, err
		}
		if !won {
			return StatusClaimed, nil
		}
	}

	if err := r.compute(ctx, key, test, train); err != nil {
		if r.opts.Claimer != nil {
			// Let another worker retry the block.
			if rerr := r.opts.Claimer.Release(context.WithoutCancel(ctx), name); rerr != nil {
				err = errors.Join(err, rerr)
			}
		}
		return StatusFailed, err
	}
	return StatusWritten, nil
}

func (r *Recorder) compute(ctx context.Context, key Key, test, train []string) error {
	rc := r.opts.Resources
	if err := rc.AcquireBlock(ctx); err != nil {
		return err
	}
	defer rc.ReleaseBlock()

	held, err := rc.AcquireMemory(ctx, resource.BlockBytes(key.Len(), len(train)))
	if err != nil {
		return err
	}
	defer rc.ReleaseMemory(held)

	m, err := r.builder.BuildAt(ctx, key.Start, test, train)
	if err != nil {
		return err
	}
	return r.store.Put(ctx, key, m)
}
