package dataset

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path"

	"github.com/hupe1980/ncdgo/blobstore"
	"github.com/hupe1980/ncdgo/codec"
)

// ErrIndexMismatch is returned when a stored index list was sampled from
// another dataset or with another per-class count.
var ErrIndexMismatch = errors.New("index list does not match dataset")

// IndexList is a sampled index list together with what it was drawn from.
type IndexList struct {
	Dataset  string `json:"dataset"`
	Seed     int64  `json:"seed"`
	PerClass int    `json:"per_class"`
	Indices  []int  `json:"indices"`
}

// Fingerprint identifies a collection by the content of its items and
// labels.
func Fingerprint[L comparable](c *Collection[L]) string {
	h := sha256.New()
	for i, item := range c.Items {
		if i < len(c.Labels) {
			fmt.Fprintf(h, "%v", c.Labels[i])
		}
		h.Write([]byte{0})
		h.Write([]byte(item))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// IndexStore persists sampled index lists under "indices/{name}.json".
type IndexStore struct {
	blobs blobstore.BlobStore
	codec codec.Codec
}

// NewIndexStore returns an IndexStore. A nil codec selects codec.Default.
func NewIndexStore(blobs blobstore.BlobStore, c codec.Codec) *IndexStore {
	if c == nil {
		c = codec.Default
	}
	return &IndexStore{blobs: blobs, codec: c}
}

func (s *IndexStore) path(name string) string {
	return path.Join("indices", name+".json")
}

// Save stores list under name, replacing any existing list.
func (s *IndexStore) Save(ctx context.Context, name string, list *IndexList) error {
	data, err := s.codec.Marshal(list)
	if err != nil {
		return fmt.Errorf("save indices %s: %w", name, err)
	}
	if err := s.blobs.Put(ctx, s.path(name), data); err != nil {
		return fmt.Errorf("save indices %s: %w", name, err)
	}
	return nil
}

// Load returns the list stored under name. An absent list yields a
// blobstore.MissingResourceError.
func (s *IndexStore) Load(ctx context.Context, name string) (*IndexList, error) {
	p := s.path(name)
	data, err := blobstore.ReadAll(ctx, s.blobs, p)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return nil, &blobstore.MissingResourceError{Name: p, Op: "load indices"}
		}
		return nil, fmt.Errorf("load indices %s: %w", name, err)
	}
	var list IndexList
	if err := s.codec.Unmarshal(data, &list); err != nil {
		return nil, &blobstore.MissingResourceError{Name: p, Op: "load indices", Err: err}
	}
	return &list, nil
}

// SampleOrLoad returns the list stored under name, or samples perClass
// indices of every class of c with seed and stores them under name.
// A stored list drawn from another dataset or with another per-class
// count fails with ErrIndexMismatch.
func SampleOrLoad[L comparable](ctx context.Context, s *IndexStore, name string, c *Collection[L], perClass int, seed int64) ([]int, error) {
	id := Fingerprint(c)

	list, err := s.Load(ctx, name)
	if err == nil {
		if list.Dataset != id || list.PerClass != perClass {
			return nil, fmt.Errorf("indices %s: %w: stored dataset %s with %d per class, have %s with %d",
				name, ErrIndexMismatch, list.Dataset, list.PerClass, id, perClass)
		}
		for _, idx := range list.Indices {
			if idx < 0 || idx >= c.Len() {
				return nil, fmt.Errorf("indices %s: index %d out of range [0, %d)", name, idx, c.Len())
			}
		}
		return list.Indices, nil
	}
	var mre *blobstore.MissingResourceError
	if !errors.As(err, &mre) || mre.Err != nil {
		return nil, err
	}

	indices, err := SamplePerClass(c.Labels, perClass, seed)
	if err != nil {
		return nil, err
	}
	if err := s.Save(ctx, name, &IndexList{Dataset: id, Seed: seed, PerClass: perClass, Indices: indices}); err != nil {
		return nil, err
	}
	return indices, nil
}
