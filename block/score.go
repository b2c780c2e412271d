package block

import (
	"cmp"
	"context"
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hupe1980/ncdgo/knn"
)

// ErrOverlap is returned when two stored blocks cover the same test item.
var ErrOverlap = errors.New("overlapping blocks")

// Score is the accuracy of k-NN predictions over the stored blocks.
type Score struct {
	// Accuracy is the block-size weighted mean of the block accuracies.
	Accuracy float64
	Hits     int
	Total    int
	// Blocks lists the blocks that were scored.
	Blocks []Key
	// Skipped lists unreadable blocks left out by a partial score.
	Skipped []Key
	// Missing lists test ranges without any block, for a partial score.
	Missing []Key
	// Correct holds the global test indices predicted correctly.
	Correct *roaring.Bitmap
}

// ScoreOptions configures Evaluate.
type ScoreOptions struct {
	// Partial skips missing ranges and unreadable blocks instead of failing.
	Partial bool
	// KNN configures the classifier.
	KNN knn.Options
}

// Evaluate classifies every stored block of store with k nearest neighbours
// and aggregates the accuracy. The rows of block [s, e) are compared with
// testLabels[s:e]. Blocks must not overlap. Unless Partial is set, any
// range of testLabels without a block and any unreadable block yields a
// MissingResourceError.
func Evaluate[L cmp.Ordered](ctx context.Context, store *Store, testLabels, trainLabels []L, k int, optFns ...func(o *ScoreOptions)) (*Score, error) {
	var opts ScoreOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	keys, err := store.Keys(ctx)
	if err != nil {
		return nil, err
	}

	score := &Score{Correct: roaring.New()}
	var reports []*knn.Report

	next := 0
	for i, key := range keys {
		if i > 0 && key.Start < keys[i-1].End {
			return nil, fmt.Errorf("score: %w: %s and %s", ErrOverlap, keys[i-1], key)
		}
		if key.End > len(testLabels) {
			return nil, fmt.Errorf("score: %s exceeds %d test labels", key, len(testLabels))
		}
		if key.Start > next {
			if err := score.missing(store, RangeKey(next, key.Start), opts.Partial); err != nil {
				return nil, err
			}
		}
		next = key.End

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		report, err := scoreBlock(ctx, store, key, testLabels[key.Start:key.End], trainLabels, k, opts)
		if err != nil {
			var mre *MissingResourceError
			if opts.Partial && errors.As(err, &mre) {
				score.Skipped = append(score.Skipped, key)
				continue
			}
			return nil, err
		}
		reports = append(reports, report)
		score.Correct.Or(report.Bitmap(key.Start))
		score.Blocks = append(score.Blocks, key)
	}
	if next < len(testLabels) {
		if err := score.missing(store, RangeKey(next, len(testLabels)), opts.Partial); err != nil {
			return nil, err
		}
	}

	combined := knn.Combine(reports...)
	score.Accuracy = combined.Accuracy
	score.Hits = combined.Hits()
	score.Total = combined.Total()
	return score, nil
}

// EvaluateBlock classifies the rows of the single block stored under key.
// Row i of a range block is compared with testLabels[key.Start+i]; row i of
// a named block with testLabels[i], so a named block must have one row per
// test label. An absent or unreadable block yields a MissingResourceError.
func EvaluateBlock[L cmp.Ordered](ctx context.Context, store *Store, key Key, testLabels, trainLabels []L, k int, optFns ...func(o *ScoreOptions)) (*Score, error) {
	var opts ScoreOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	truth := testLabels
	if key.IsRange() {
		if key.Start < 0 || key.End > len(testLabels) {
			return nil, fmt.Errorf("score: %s exceeds %d test labels", key, len(testLabels))
		}
		truth = testLabels[key.Start:key.End]
	}

	report, err := scoreBlock(ctx, store, key, truth, trainLabels, k, opts)
	if err != nil {
		return nil, err
	}
	return &Score{
		Accuracy: report.Accuracy,
		Hits:     report.Hits(),
		Total:    report.Total(),
		Blocks:   []Key{key},
		Correct:  report.Bitmap(key.Start),
	}, nil
}

// scoreBlock classifies the rows of key against truth. The rows are
// treated as global test indices starting at key.Start.
func scoreBlock[L cmp.Ordered](ctx context.Context, store *Store, key Key, truth, trainLabels []L, k int, opts ScoreOptions) (*knn.Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m, err := store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if m.Cols() != len(trainLabels) {
		return nil, &MissingResourceError{
			Name: store.Path(key),
			Op:   "score",
			Err:  fmt.Errorf("block has %d columns for %d train labels", m.Cols(), len(trainLabels)),
		}
	}
	if m.Len() != len(truth) {
		return nil, &MissingResourceError{
			Name: store.Path(key),
			Op:   "score",
			Err:  fmt.Errorf("block has %d rows for %d test labels", m.Len(), len(truth)),
		}
	}

	pred, err := knn.Classify(m.Rows, trainLabels, k, func(o *knn.Options) {
		*o = opts.KNN
		o.Offset = key.Start
	})
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", key, err)
	}
	report, err := knn.Accuracy(pred, truth)
	if err != nil {
		return nil, fmt.Errorf("score %s: %w", key, err)
	}
	return report, nil
}

func (s *Score) missing(store *Store, gap Key, partial bool) error {
	if !partial {
		return &MissingResourceError{Name: store.Path(gap), Op: "score"}
	}
	s.Missing = append(s.Missing, gap)
	return nil
}
