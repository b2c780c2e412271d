package ncdgo_test

import (
	"context"
	"fmt"

	"github.com/hupe1980/ncdgo"
	"github.com/hupe1980/ncdgo/blobstore"
	"github.com/hupe1980/ncdgo/compressor"
	"github.com/hupe1980/ncdgo/dataset"
)

func Example() {
	exp, err := ncdgo.New[string](ncdgo.WithCompressor(compressor.NewGzip(9)))
	if err != nil {
		panic(err)
	}

	train := &dataset.Collection[string]{
		Items:  []string{"aaaa", "aaab", "zzzz", "zzzy"},
		Labels: []string{"a", "a", "z", "z"},
	}
	test := &dataset.Collection[string]{
		Items:  []string{"aaac"},
		Labels: []string{"a"},
	}

	res, err := exp.Run(context.Background(), train, test, 1)
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Predictions, res.Accuracy)
	// Output: [a] 1
}

func ExampleExperiment_Record() {
	ctx := context.Background()
	exp, err := ncdgo.New[int](
		ncdgo.WithBlockStore(blobstore.NewMemoryStore()),
		ncdgo.WithBlockSize(2),
	)
	if err != nil {
		panic(err)
	}

	train := &dataset.Collection[int]{Items: []string{"abab", "cdcd"}, Labels: []int{0, 1}}
	test := &dataset.Collection[int]{Items: []string{"abba", "dcdc", "baba"}, Labels: []int{0, 1, 0}}

	summary, err := exp.Record(ctx, train, test, 0)
	if err != nil {
		panic(err)
	}
	for _, k := range summary.Written {
		fmt.Println(k)
	}

	score, err := exp.Score(ctx, train.Labels, test.Labels, 1, false)
	if err != nil {
		panic(err)
	}
	fmt.Println(score.Total)
	// Output:
	// test_dis_idx_from_0_to_2.npy
	// test_dis_idx_from_2_to_3.npy
	// 3
}
