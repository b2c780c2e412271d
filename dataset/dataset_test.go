package dataset

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/hupe1980/ncdgo/blobstore"
	"github.com/hupe1980/ncdgo/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadJSONL(t *testing.T) {
	in := `{"label":1,"text":"first item"}
{"label":0,"text":"second item"}

{"label":1,"text":"third"}
`
	col, err := LoadJSONL[int](strings.NewReader(in), nil)
	require.NoError(t, err)
	require.NoError(t, col.Validate())
	assert.Equal(t, []string{"first item", "second item", "third"}, col.Items)
	assert.Equal(t, []int{1, 0, 1}, col.Labels)

	strCol, err := LoadJSONL[string](strings.NewReader(`{"label":"spam","text":"x"}`), codec.JSON{})
	require.NoError(t, err)
	assert.Equal(t, []string{"spam"}, strCol.Labels)

	_, err = LoadJSONL[int](strings.NewReader("{\"label\":\"oops\",\"text\":\"x\"}\n"), nil)
	assert.Error(t, err)
}

func TestWriteJSONLRoundTrip(t *testing.T) {
	col := &Collection[int]{Items: []string{"a b", "c"}, Labels: []int{3, 4}}
	var buf bytes.Buffer
	require.NoError(t, WriteJSONL(&buf, nil, col))

	back, err := LoadJSONL[int](&buf, nil)
	require.NoError(t, err)
	assert.Equal(t, col, back)

	bad := &Collection[int]{Items: []string{"a"}}
	assert.Error(t, WriteJSONL(&buf, nil, bad))
}

func TestCollectionSliceSubset(t *testing.T) {
	col := &Collection[string]{
		Items:  []string{"a", "b", "c", "d"},
		Labels: []string{"x", "y", "x", "y"},
	}

	s, err := col.Slice(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, s.Items)
	assert.Equal(t, 2, s.Len())

	_, err = col.Slice(3, 5)
	assert.Error(t, err)

	sub, err := col.Subset([]int{3, 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "a"}, sub.Items)
	assert.Equal(t, []string{"y", "x"}, sub.Labels)

	_, err = col.Subset([]int{4})
	assert.Error(t, err)
}

func TestSamplePerClass(t *testing.T) {
	labels := []int{2, 0, 2, 0, 2, 0, 2, 1, 1, 1}

	a, err := SamplePerClass(labels, 2, 7)
	require.NoError(t, err)
	b, err := SamplePerClass(labels, 2, 7)
	require.NoError(t, err)
	assert.Equal(t, a, b, "same seed, same sample")
	require.Len(t, a, 6)

	// Classes in first-appearance order: 2, 0, 1.
	for i, want := range []int{2, 2, 0, 0, 1, 1} {
		assert.Equal(t, want, labels[a[i]])
	}
	assert.Less(t, a[0], a[1])
	assert.NotEqual(t, a[0], a[1])

	all, err := SamplePerClass(labels, 3, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3, 5, 7, 8, 9}, all[3:])

	_, err = SamplePerClass(labels, 4, 1)
	assert.ErrorIs(t, err, ErrNotEnoughItems)

	_, err = SamplePerClass(labels, 0, 1)
	assert.Error(t, err)
}

func TestIndexStore(t *testing.T) {
	ctx := context.Background()
	blobs := blobstore.NewMemoryStore()
	s := NewIndexStore(blobs, nil)

	_, err := s.Load(ctx, "train")
	require.ErrorIs(t, err, blobstore.ErrMissingResource)

	col := &Collection[int]{
		Items:  []string{"a", "b", "c", "d", "e", "f"},
		Labels: []int{0, 1, 0, 1, 0, 1},
	}
	first, err := SampleOrLoad(ctx, s, "train", col, 2, 42)
	require.NoError(t, err)
	assert.Len(t, first, 4)

	ok, err := blobstore.Exists(ctx, blobs, "indices/train.json")
	require.NoError(t, err)
	assert.True(t, ok)

	stored, err := s.Load(ctx, "train")
	require.NoError(t, err)
	assert.Equal(t, Fingerprint(col), stored.Dataset)
	assert.Equal(t, 2, stored.PerClass)
	assert.Equal(t, int64(42), stored.Seed)

	// A persisted list is reused even when the seed changes.
	again, err := SampleOrLoad(ctx, s, "train", col, 2, 99)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	small := &Collection[int]{Items: []string{"a"}, Labels: []int{0}}
	require.NoError(t, s.Save(ctx, "manual", &IndexList{Dataset: Fingerprint(small), PerClass: 1, Indices: []int{5, 0}}))
	got, err := s.Load(ctx, "manual")
	require.NoError(t, err)
	assert.Equal(t, []int{5, 0}, got.Indices)

	_, err = SampleOrLoad(ctx, s, "manual", small, 1, 0)
	assert.Error(t, err, "stored index beyond the labels")

	require.NoError(t, blobs.Put(ctx, "indices/broken.json", []byte("{")))
	_, err = SampleOrLoad(ctx, s, "broken", col, 1, 0)
	assert.ErrorIs(t, err, blobstore.ErrMissingResource)
}

func TestSampleOrLoadRejectsForeignList(t *testing.T) {
	ctx := context.Background()
	s := NewIndexStore(blobstore.NewMemoryStore(), nil)

	first := &Collection[int]{Labels: make([]int, 60), Items: make([]string, 60)}
	for i := range first.Labels {
		first.Labels[i] = i % 3
		first.Items[i] = fmt.Sprintf("first %d", i)
	}
	second := &Collection[int]{Labels: make([]int, 60), Items: make([]string, 60)}
	for i := range second.Labels {
		second.Labels[i] = i % 2
		second.Items[i] = fmt.Sprintf("second %d", i)
	}

	_, err := SampleOrLoad(ctx, s, "train", first, 5, 7)
	require.NoError(t, err)

	tests := []struct {
		name     string
		col      *Collection[int]
		perClass int
	}{
		{"other dataset", second, 5},
		{"other per-class count", first, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SampleOrLoad(ctx, s, "train", tt.col, tt.perClass, 7)
			require.ErrorIs(t, err, ErrIndexMismatch)
		})
	}
}

func TestFingerprint(t *testing.T) {
	a := &Collection[string]{Items: []string{"x", "y"}, Labels: []string{"p", "q"}}
	b := &Collection[string]{Items: []string{"x", "y"}, Labels: []string{"p", "q"}}
	c := &Collection[string]{Items: []string{"x", "y"}, Labels: []string{"q", "p"}}

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(c))
	assert.Len(t, Fingerprint(a), 16)
}
