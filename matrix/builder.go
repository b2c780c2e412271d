package matrix

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hupe1980/ncdgo/distance"
	"golang.org/x/sync/errgroup"
)

// LengthProvider measures compressed lengths. compressor.Provider is the
// standard implementation.
type LengthProvider interface {
	Length(item string) (int, error)
	CombinedLength(a, b string) (int, error)
}

// RowError reports the failure of the row of one test item.
// Index is the global test index, so the caller can retry that item alone.
type RowError struct {
	Index int
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// Options configures a Builder.
type Options struct {
	// Workers is the number of rows computed concurrently.
	// 0 or 1 computes rows sequentially in the calling goroutine.
	Workers int

	// OnRow, if set, is called after every row with its global index,
	// elapsed time and error. It may be called concurrently.
	OnRow func(index int, elapsed time.Duration, err error)

	// KeepGoing computes every row even when some rows fail. The matrix is
	// then returned along with the error, holding nil for each failed row.
	KeepGoing bool
}

// Builder computes distance rows and matrices. Rows share no mutable state,
// so a Builder is safe for concurrent use if its LengthProvider is.
type Builder struct {
	provider LengthProvider
	dist     distance.Func
	opts     Options
}

// NewBuilder creates a Builder. A nil dist selects distance.NCD.
func NewBuilder(p LengthProvider, dist distance.Func, optFns ...func(o *Options)) *Builder {
	if dist == nil {
		dist = distance.NCD
	}
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{provider: p, dist: dist, opts: opts}
}

// BuildRow computes the distances of test to every train item, in train order.
// The compressed length of test is computed once and reused for the whole row.
func (b *Builder) BuildRow(ctx context.Context, test string, train []string) (Row, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lenA, err := b.provider.Length(test)
	if err != nil {
		return nil, fmt.Errorf("compress test item: %w", err)
	}

	row := make(Row, len(train))
	for j, t := range train {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lenB, err := b.provider.Length(t)
		if err != nil {
			return nil, fmt.Errorf("compress train item %d: %w", j, err)
		}
		lenAB, err := b.provider.CombinedLength(test, t)
		if err != nil {
			return nil, fmt.Errorf("compress combination with train item %d: %w", j, err)
		}
		d, err := b.dist(lenA, lenB, lenAB)
		if err != nil {
			return nil, fmt.Errorf("distance to train item %d: %w", j, err)
		}
		row[j] = d
	}
	return row, nil
}

// Build computes the full |test| x |train| matrix.
func (b *Builder) Build(ctx context.Context, test, train []string) (*Matrix, error) {
	return b.BuildAt(ctx, 0, test, train)
}

// BuildRange computes rows [start, end) of the full matrix of test against train.
func (b *Builder) BuildRange(ctx context.Context, test, train []string, start, end int) (*Matrix, error) {
	if start < 0 || end > len(test) || start > end {
		return nil, fmt.Errorf("invalid range [%d,%d) for %d test items", start, end, len(test))
	}
	return b.BuildAt(ctx, start, test[start:end], train)
}

// BuildAt computes the rows of test, where test[0] has global index offset.
// Rows are placed by index, not completion order. If any row fails no matrix
// is returned and the error is a *RowError naming the global index, unless
// KeepGoing is set.
func (b *Builder) BuildAt(ctx context.Context, offset int, test, train []string) (*Matrix, error) {
	if b.opts.KeepGoing {
		return b.buildAll(ctx, offset, test, train)
	}

	rows := make([]Row, len(test))

	if b.opts.Workers <= 1 {
		for i, item := range test {
			row, err := b.row(ctx, offset+i, item, train)
			if err != nil {
				return nil, err
			}
			rows[i] = row
		}
		return &Matrix{Start: offset, Rows: rows}, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)

	for i, item := range test {
		g.Go(func() error {
			row, err := b.row(gctx, offset+i, item, train)
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Matrix{Start: offset, Rows: rows}, nil
}

func (b *Builder) row(ctx context.Context, index int, test string, train []string) (Row, error) {
	start := time.Now()
	row, err := b.BuildRow(ctx, test, train)
	if err != nil {
		err = &RowError{Index: index, Err: err}
	}
	if b.opts.OnRow != nil {
		b.opts.OnRow(index, time.Since(start), err)
	}
	return row, err
}

// buildAll computes every row and joins the row errors in index order.
func (b *Builder) buildAll(ctx context.Context, offset int, test, train []string) (*Matrix, error) {
	rows := make([]Row, len(test))
	errs := make([]error, len(test))

	g := new(errgroup.Group)
	g.SetLimit(max(b.opts.Workers, 1))
	for i, item := range test {
		g.Go(func() error {
			rows[i], errs[i] = b.row(ctx, offset+i, item, train)
			return nil
		})
	}
	_ = g.Wait()

	return &Matrix{Start: offset, Rows: rows}, errors.Join(errs...)
}
