package block

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/hupe1980/ncdgo/blobstore"
	"github.com/hupe1980/ncdgo/matrix"
	"github.com/hupe1980/ncdgo/resource"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

// MissingResourceError reports an absent or unreadable block.
type MissingResourceError = blobstore.MissingResourceError

// ErrMissingResource matches every MissingResourceError.
var ErrMissingResource = blobstore.ErrMissingResource

// ErrEmptyBlock is returned when persisting a block without rows or columns.
var ErrEmptyBlock = errors.New("empty block")

// Store reads and writes the blocks of one compressor.
type Store struct {
	blobs     blobstore.BlobStore
	prefix    string
	resources *resource.Controller
}

// StoreOptions configures a Store.
type StoreOptions struct {
	// Resources throttles block writes with its IO limiter. May be nil.
	Resources *resource.Controller
}

// NewStore returns a Store keeping its blocks under "{compressorName}/".
func NewStore(blobs blobstore.BlobStore, compressorName string, optFns ...func(o *StoreOptions)) *Store {
	var opts StoreOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Store{
		blobs:     blobs,
		prefix:    compressorName,
		resources: opts.Resources,
	}
}

// Path returns the blob name of key.
func (s *Store) Path(key Key) string {
	return path.Join(s.prefix, key.String())
}

// Put encodes m as a float64 .npy array and stores it atomically under key.
// A range key must match the rows of m.
func (s *Store) Put(ctx context.Context, key Key, m *matrix.Matrix) error {
	name := s.Path(key)
	if key.IsRange() && (key.Start != m.Start || key.End != m.End()) {
		return fmt.Errorf("put %s: block covers [%d, %d)", name, m.Start, m.End())
	}
	dense := m.Dense()
	if dense == nil {
		return fmt.Errorf("put %s: %w", name, ErrEmptyBlock)
	}

	var buf bytes.Buffer
	if err := npyio.Write(&buf, dense); err != nil {
		return fmt.Errorf("put %s: encode: %w", name, err)
	}
	if err := s.resources.AcquireIO(ctx, buf.Len()); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	if err := s.blobs.Put(ctx, name, buf.Bytes()); err != nil {
		return fmt.Errorf("put %s: %w", name, err)
	}
	return nil
}

// Get loads the block stored under key. Range blocks start at key.Start;
// named blocks start at 0. An absent or undecodable block yields a
// MissingResourceError.
func (s *Store) Get(ctx context.Context, key Key) (*matrix.Matrix, error) {
	name := s.Path(key)
	data, err := blobstore.ReadAll(ctx, s.blobs, name)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, &MissingResourceError{Name: name, Op: "get"}
		}
		return nil, fmt.Errorf("get %s: %w", name, err)
	}

	var dense mat.Dense
	if err := npyio.Read(bytes.NewReader(data), &dense); err != nil {
		return nil, &MissingResourceError{Name: name, Op: "get", Err: err}
	}

	start := 0
	if key.IsRange() {
		start = key.Start
		if r, _ := dense.Dims(); r != key.Len() {
			return nil, &MissingResourceError{
				Name: name,
				Op:   "get",
				Err:  fmt.Errorf("block has %d rows, want %d", r, key.Len()),
			}
		}
	}
	return matrix.FromDense(start, &dense), nil
}

// Exists reports whether a block is stored under key.
func (s *Store) Exists(ctx context.Context, key Key) (bool, error) {
	return blobstore.Exists(ctx, s.blobs, s.Path(key))
}

// Keys lists the range keys of all stored blocks ordered by Start.
// Named blocks and foreign files are ignored.
func (s *Store) Keys(ctx context.Context) ([]Key, error) {
	names, err := s.blobs.List(ctx, s.prefix+"/")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.prefix, err)
	}

	var keys []Key
	for _, name := range names {
		// Only direct children of the compressor directory.
		if path.Dir(name) != s.prefix {
			continue
		}
		k, err := ParseKey(name)
		if err != nil || !k.IsRange() {
			continue
		}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Start != keys[j].Start {
			return keys[i].Start < keys[j].Start
		}
		return keys[i].End < keys[j].End
	})
	return keys, nil
}
