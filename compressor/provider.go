package compressor

import (
	"github.com/hupe1980/ncdgo/aggregate"
)

// Provider measures single and combined compressed lengths of text items.
//
// The aggregation policy is fixed at construction, so CombinedLength(a, b)
// always compresses the same join of a and b within one Provider.
// Lengths are never cached.
type Provider struct {
	c   Compressor
	agg aggregate.Func
}

// NewProvider creates a Provider. A nil agg selects aggregate.ConcatSpace.
func NewProvider(c Compressor, agg aggregate.Func) *Provider {
	if agg == nil {
		agg = aggregate.ConcatSpace
	}
	return &Provider{c: c, agg: agg}
}

// Name returns the name of the underlying compressor.
func (p *Provider) Name() string { return p.c.Name() }

// Length returns the compressed length of item on its own.
func (p *Provider) Length(item string) (int, error) {
	return p.c.CompressedLen([]byte(item))
}

// CombinedLength returns the compressed length of the aggregation of a and b.
func (p *Provider) CombinedLength(a, b string) (int, error) {
	return p.c.CompressedLen([]byte(p.agg(a, b)))
}
