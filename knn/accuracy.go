package knn

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Report holds the outcome of comparing predictions with true labels.
type Report struct {
	// Accuracy is the fraction of correct predictions (0 for an empty report).
	Accuracy float64
	// Correct records, per test item, whether its prediction was right.
	Correct []bool
}

// Accuracy compares predictions with the true labels position by position.
func Accuracy[L comparable](predictions, truth []L) (*Report, error) {
	if len(predictions) != len(truth) {
		return nil, fmt.Errorf("accuracy: %d predictions for %d true labels", len(predictions), len(truth))
	}
	correct := make([]bool, len(predictions))
	for i := range predictions {
		correct[i] = predictions[i] == truth[i]
	}
	return newReport(correct), nil
}

func newReport(correct []bool) *Report {
	r := &Report{Correct: correct}
	if len(correct) > 0 {
		r.Accuracy = float64(r.Hits()) / float64(len(correct))
	}
	return r
}

// Hits returns the number of correct predictions.
func (r *Report) Hits() int {
	n := 0
	for _, ok := range r.Correct {
		if ok {
			n++
		}
	}
	return n
}

// Total returns the number of predictions.
func (r *Report) Total() int { return len(r.Correct) }

// Bitmap returns the global indices of correct predictions, where the first
// prediction has index offset.
func (r *Report) Bitmap(offset int) *roaring.Bitmap {
	bm := roaring.New()
	for i, ok := range r.Correct {
		if ok {
			bm.Add(uint32(offset + i))
		}
	}
	return bm
}

// Combine concatenates reports computed over separate batches. The combined
// accuracy is the batch-size weighted mean of the individual accuracies.
func Combine(reports ...*Report) *Report {
	var correct []bool
	for _, r := range reports {
		correct = append(correct, r.Correct...)
	}
	return newReport(correct)
}
