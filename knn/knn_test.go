package knn

import (
	"errors"
	"math"
	"testing"

	"github.com/hupe1980/ncdgo/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictMajority(t *testing.T) {
	labels := []int{0, 1, 1, 0, 1}
	row := []float64{0.9, 0.2, 0.3, 0.1, 0.8}

	got, err := Predict(row, labels, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, got)

	got, err = Predict(row, labels, 1)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestPredictTieBreakClosest(t *testing.T) {
	tests := []struct {
		name     string
		row      []float64
		labels   []string
		k        int
		expected string
	}{
		{"FirstLabelCloser", []float64{0.1, 0.2, 0.3, 0.4}, []string{"a", "b", "b", "a"}, 4, "a"},
		{"SecondLabelCloser", []float64{0.3, 0.1, 0.2, 0.4}, []string{"a", "b", "b", "a"}, 4, "b"},
		{"ThreeWay", []float64{0.5, 0.4, 0.3}, []string{"x", "y", "z"}, 3, "z"},
		{"TieOutsideK", []float64{0.1, 0.2, 0.3, 0.05}, []string{"a", "b", "b", "c"}, 2, "c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for range 10 {
				got, err := Predict(tt.row, tt.labels, tt.k)
				require.NoError(t, err)
				assert.Equal(t, tt.expected, got)
			}
		})
	}
}

func TestPredictTieBreakIdenticalDistances(t *testing.T) {
	// Both tied labels have their closest neighbor at the same distance:
	// the lowest label value wins regardless of column order.
	got, err := Predict([]float64{0.5, 0.5}, []int{7, 3}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got)

	got, err = Predict([]float64{0.5, 0.5}, []int{3, 7}, 2)
	require.NoError(t, err)
	assert.Equal(t, 3, got)
}

func TestClassifyTieBreakRandomIndependentOfSplit(t *testing.T) {
	labels := []string{"a", "b", "c"}
	rows := make([][]float64, 100)
	for i := range rows {
		rows[i] = []float64{0.1, 0.2, 0.3}
	}
	random := func(offset int) func(o *Options) {
		return func(o *Options) {
			o.TieBreak = TieBreakRandom
			o.Seed = 5
			o.Offset = offset
		}
	}

	whole, err := Classify(rows, labels, 3, random(0))
	require.NoError(t, err)

	tests := []struct {
		name   string
		splits []int
	}{
		{"halves", []int{0, 50, 100}},
		{"uneven", []int{0, 7, 33, 90, 100}},
		{"single rows", []int{0, 1, 2, 3, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var joined []string
			for i := 1; i < len(tt.splits); i++ {
				start, end := tt.splits[i-1], tt.splits[i]
				part, err := Classify(rows[start:end], labels, 3, random(start))
				require.NoError(t, err)
				joined = append(joined, part...)
			}
			assert.Equal(t, whole, joined)
		})
	}

	got, err := Predict(rows[42], labels, 3, random(42))
	require.NoError(t, err)
	assert.Equal(t, whole[42], got)
}

func TestPredictTieBreakRandom(t *testing.T) {
	row := []float64{0.1, 0.2}
	labels := []string{"a", "b"}
	seeded := func(seed int64) func(o *Options) {
		return func(o *Options) {
			o.TieBreak = TieBreakRandom
			o.Seed = seed
		}
	}

	first, err := Predict(row, labels, 2, seeded(9))
	require.NoError(t, err)
	assert.Contains(t, labels, first)
	for range 5 {
		again, err := Predict(row, labels, 2, seeded(9))
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}

	rows := make([][]float64, 200)
	for i := range rows {
		rows[i] = row
	}
	preds, err := Classify(rows, labels, 2, seeded(1))
	require.NoError(t, err)
	seen := map[string]bool{}
	for _, p := range preds {
		seen[p] = true
	}
	assert.Len(t, seen, 2)

	// Without a tie the random mode agrees with the majority.
	got, err := Predict([]float64{0.1, 0.2, 0.3}, []string{"a", "a", "b"}, 3, seeded(1))
	require.NoError(t, err)
	assert.Equal(t, "a", got)
}

func TestInvalidK(t *testing.T) {
	for _, k := range []int{0, -1, 4} {
		_, err := Predict([]float64{0.1, 0.2, 0.3}, []int{0, 1, 0}, k)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrInvalidK))

		var ike *InvalidKError
		require.ErrorAs(t, err, &ike)
		assert.Equal(t, k, ike.K)
		assert.Equal(t, 3, ike.N)

		_, err = Classify([][]float64{{0.1, 0.2, 0.3}}, []int{0, 1, 0}, k)
		assert.True(t, errors.Is(err, ErrInvalidK))
	}
}

func TestPredictShapeMismatch(t *testing.T) {
	_, err := Predict([]float64{0.1, 0.2}, []int{0, 1, 0}, 1)
	assert.Error(t, err)
}

func TestPredictNaN(t *testing.T) {
	_, err := Predict([]float64{0.1, math.NaN()}, []int{0, 1}, 1)
	assert.Error(t, err)
}

func TestClassifyMatrixRows(t *testing.T) {
	m := &matrix.Matrix{Rows: []matrix.Row{
		{0.1, 0.2, 0.8, 0.9},
		{0.9, 0.8, 0.2, 0.1},
	}}
	preds, err := Classify(m.Rows, []int{0, 0, 1, 1}, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, preds)
}

func TestClassifyWrapsRowIndex(t *testing.T) {
	_, err := Classify([][]float64{{0.1, 0.2}, {0.1}}, []int{0, 1}, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 1")
}

func TestParseTieBreak(t *testing.T) {
	tb, err := ParseTieBreak("random")
	require.NoError(t, err)
	assert.Equal(t, TieBreakRandom, tb)
	assert.Equal(t, "random", tb.String())

	tb, err = ParseTieBreak("")
	require.NoError(t, err)
	assert.Equal(t, TieBreakClosest, tb)

	_, err = ParseTieBreak("optimistic")
	assert.Error(t, err)
}
