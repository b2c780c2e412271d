package dataset

import (
	"fmt"
	"io"

	"github.com/hupe1980/ncdgo/codec"
)

// Collection is a sequence of text items and their labels, aligned by index.
type Collection[L comparable] struct {
	Items  []string
	Labels []L
}

// Record is one JSON Lines entry.
type Record[L comparable] struct {
	Label L      `json:"label"`
	Text  string `json:"text"`
}

// Validate checks that every item has a label.
func (c *Collection[L]) Validate() error {
	if len(c.Items) != len(c.Labels) {
		return fmt.Errorf("dataset: %d items but %d labels", len(c.Items), len(c.Labels))
	}
	return nil
}

// Len returns the number of items.
func (c *Collection[L]) Len() int { return len(c.Items) }

// Slice returns items [start, end). The result shares storage with c.
func (c *Collection[L]) Slice(start, end int) (*Collection[L], error) {
	if start < 0 || end > c.Len() || start > end {
		return nil, fmt.Errorf("dataset: invalid slice [%d, %d) of %d items", start, end, c.Len())
	}
	return &Collection[L]{Items: c.Items[start:end], Labels: c.Labels[start:end]}, nil
}

// Subset returns the items at indices, in the given order.
func (c *Collection[L]) Subset(indices []int) (*Collection[L], error) {
	out := &Collection[L]{
		Items:  make([]string, len(indices)),
		Labels: make([]L, len(indices)),
	}
	for i, idx := range indices {
		if idx < 0 || idx >= c.Len() {
			return nil, fmt.Errorf("dataset: index %d out of range [0, %d)", idx, c.Len())
		}
		out.Items[i] = c.Items[idx]
		out.Labels[i] = c.Labels[idx]
	}
	return out, nil
}

// LoadJSONL reads one {"label": ..., "text": ...} record per line.
// A nil codec selects codec.Default.
func LoadJSONL[L comparable](r io.Reader, c codec.Codec) (*Collection[L], error) {
	records, err := codec.DecodeLines[Record[L]](r, c)
	if err != nil {
		return nil, fmt.Errorf("dataset: %w", err)
	}
	out := &Collection[L]{
		Items:  make([]string, len(records)),
		Labels: make([]L, len(records)),
	}
	for i, rec := range records {
		out.Items[i] = rec.Text
		out.Labels[i] = rec.Label
	}
	return out, nil
}

// WriteJSONL writes c as JSON Lines.
func WriteJSONL[L comparable](w io.Writer, c codec.Codec, col *Collection[L]) error {
	if err := col.Validate(); err != nil {
		return err
	}
	records := make([]Record[L], col.Len())
	for i := range records {
		records[i] = Record[L]{Label: col.Labels[i], Text: col.Items[i]}
	}
	return codec.EncodeLines(w, c, records)
}
