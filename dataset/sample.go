package dataset

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
)

// ErrNotEnoughItems is returned when a class has fewer items than requested.
var ErrNotEnoughItems = errors.New("not enough items in class")

// SamplePerClass draws n distinct indices of every class in labels.
// Classes appear in order of first appearance; the indices of each class
// are returned in ascending order. The same seed yields the same sample.
func SamplePerClass[L comparable](labels []L, n int, seed int64) ([]int, error) {
	if n <= 0 {
		return nil, fmt.Errorf("dataset: sample size %d must be positive", n)
	}

	var order []L
	byClass := make(map[L][]int)
	for i, l := range labels {
		if _, ok := byClass[l]; !ok {
			order = append(order, l)
		}
		byClass[l] = append(byClass[l], i)
	}

	rng := rand.New(rand.NewSource(seed))
	out := make([]int, 0, n*len(order))
	for _, l := range order {
		members := byClass[l]
		if len(members) < n {
			return nil, fmt.Errorf("dataset: %w: class %v has %d, want %d", ErrNotEnoughItems, l, len(members), n)
		}
		picked := make([]int, n)
		for i, p := range rng.Perm(len(members))[:n] {
			picked[i] = members[p]
		}
		slices.Sort(picked)
		out = append(out, picked...)
	}
	return out, nil
}
