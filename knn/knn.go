// Package knn classifies test items by majority vote over their k nearest
// train items in a distance matrix.
//
// Neighbors are ranked by ascending distance; equal distances rank the lower
// train index first. When several labels share the highest vote count the
// label of the closest tied neighbor wins, and if those neighbors are at the
// same distance the lowest label value wins. TieBreakRandom instead draws
// uniformly among the tied labels from a source seeded with the explicit
// seed and the row's global index, so a row draws the same way however the
// matrix is split into blocks.
package knn

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/hupe1980/ncdgo/internal/queue"
)

// ErrInvalidK is returned when k is not in [1, number of train items].
var ErrInvalidK = errors.New("invalid k")

// InvalidKError reports a k outside [1, N].
type InvalidKError struct {
	K int
	N int
}

func (e *InvalidKError) Error() string {
	return fmt.Sprintf("k=%d must be in [1, %d]", e.K, e.N)
}

// Is reports whether target is ErrInvalidK.
func (e *InvalidKError) Is(target error) bool { return target == ErrInvalidK }

// TieBreak selects how equal vote counts are resolved.
type TieBreak int

const (
	// TieBreakClosest picks the label of the closest tied neighbor.
	TieBreakClosest TieBreak = iota
	// TieBreakRandom picks uniformly among tied labels using Options.Seed.
	TieBreakRandom
)

func (t TieBreak) String() string {
	switch t {
	case TieBreakClosest:
		return "closest"
	case TieBreakRandom:
		return "random"
	default:
		return fmt.Sprintf("Unknown(%d)", int(t))
	}
}

// ParseTieBreak parses "closest" or "random".
func ParseTieBreak(s string) (TieBreak, error) {
	switch s {
	case "", "closest":
		return TieBreakClosest, nil
	case "random":
		return TieBreakRandom, nil
	default:
		return 0, fmt.Errorf("unknown tie break %q", s)
	}
}

// Options configures classification.
type Options struct {
	TieBreak TieBreak
	Seed     int64
	// Offset is the global test index of the first row. It only affects
	// TieBreakRandom.
	Offset int
}

// Predict returns the majority label among the k nearest entries of row.
func Predict[L cmp.Ordered, R ~[]float64](row R, trainLabels []L, k int, optFns ...func(o *Options)) (L, error) {
	opts := newOptions(optFns)
	return predict(row, trainLabels, k, opts, opts.Offset)
}

// Classify predicts a label for every row of a distance matrix.
// Columns of every row must correspond to trainLabels by position.
func Classify[L cmp.Ordered, R ~[]float64](rows []R, trainLabels []L, k int, optFns ...func(o *Options)) ([]L, error) {
	if err := checkK(k, len(trainLabels)); err != nil {
		return nil, err
	}

	opts := newOptions(optFns)

	out := make([]L, len(rows))
	for i, row := range rows {
		label, err := predict(row, trainLabels, k, opts, opts.Offset+i)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

func newOptions(optFns []func(o *Options)) Options {
	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}

// rowSource returns the random source for the row with global index.
func rowSource(seed int64, index int) *rand.Rand {
	return rand.New(rand.NewPCG(uint64(seed), uint64(index)))
}

func checkK(k, n int) error {
	if k <= 0 || k > n {
		return &InvalidKError{K: k, N: n}
	}
	return nil
}

type tally[L cmp.Ordered] struct {
	label   L
	votes   int
	nearest float64
}

func predict[L cmp.Ordered, R ~[]float64](row R, trainLabels []L, k int, opts Options, index int) (L, error) {
	var zero L
	if len(row) != len(trainLabels) {
		return zero, fmt.Errorf("row has %d columns but there are %d train labels", len(row), len(trainLabels))
	}
	if err := checkK(k, len(trainLabels)); err != nil {
		return zero, err
	}
	for j, d := range row {
		if math.IsNaN(d) {
			return zero, fmt.Errorf("distance to train item %d is NaN", j)
		}
	}

	nbrs := queue.Nearest(row, k)

	tallies := make([]*tally[L], 0, k)
	byLabel := make(map[L]*tally[L], k)
	for _, n := range nbrs {
		label := trainLabels[n.Index]
		t, ok := byLabel[label]
		if !ok {
			// Neighbors arrive nearest first, so the first sighting is the nearest.
			t = &tally[L]{label: label, nearest: n.Distance}
			byLabel[label] = t
			tallies = append(tallies, t)
		}
		t.votes++
	}

	most := 0
	for _, t := range tallies {
		most = max(most, t.votes)
	}
	tied := make([]*tally[L], 0, len(tallies))
	for _, t := range tallies {
		if t.votes == most {
			tied = append(tied, t)
		}
	}

	if opts.TieBreak == TieBreakRandom && len(tied) > 1 {
		slices.SortFunc(tied, func(a, b *tally[L]) int { return cmp.Compare(a.label, b.label) })
		return tied[rowSource(opts.Seed, index).IntN(len(tied))].label, nil
	}

	best := tied[0]
	for _, t := range tied[1:] {
		if t.nearest < best.nearest || (t.nearest == best.nearest && t.label < best.label) {
			best = t
		}
	}
	return best.label, nil
}
