package knn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccuracy(t *testing.T) {
	r, err := Accuracy([]int{0, 1, 1, 0}, []int{0, 1, 0, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, r.Accuracy, 1e-12)
	assert.Equal(t, []bool{true, true, false, true}, r.Correct)
	assert.Equal(t, 3, r.Hits())
	assert.Equal(t, 4, r.Total())

	_, err = Accuracy([]int{0}, []int{0, 1})
	assert.Error(t, err)

	empty, err := Accuracy([]string{}, []string{})
	require.NoError(t, err)
	assert.Equal(t, 0.0, empty.Accuracy)
}

func TestBitmap(t *testing.T) {
	r, err := Accuracy([]int{1, 2, 3}, []int{1, 0, 3})
	require.NoError(t, err)
	bm := r.Bitmap(10)
	assert.Equal(t, []uint32{10, 12}, bm.ToArray())
}

func TestCombineWeightedByBatchSize(t *testing.T) {
	// Block [0,10): 9 correct, block [10,20): 4 correct.
	a := &Report{Correct: make([]bool, 10)}
	for i := range 9 {
		a.Correct[i] = true
	}
	b := &Report{Correct: make([]bool, 10)}
	for i := range 4 {
		b.Correct[i] = true
	}
	a = newReport(a.Correct)
	b = newReport(b.Correct)

	c := Combine(a, b)
	assert.Equal(t, 20, c.Total())
	assert.Equal(t, 13, c.Hits())
	assert.InDelta(t, 0.65, c.Accuracy, 1e-12)
	assert.InDelta(t, (a.Accuracy*10+b.Accuracy*10)/20, c.Accuracy, 1e-12)

	// Unequal sizes.
	small := newReport([]bool{true, true})
	large := newReport([]bool{false, false, false, true, false, false})
	cu := Combine(small, large)
	assert.InDelta(t, (1.0*2+(1.0/6)*6)/8, cu.Accuracy, 1e-12)
}
