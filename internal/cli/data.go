package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/hupe1980/ncdgo/dataset"
)

// label is a class label read from JSON Lines. Numeric labels are kept
// in their textual form.
type label string

func (l *label) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := gojson.Unmarshal(b, &s); err != nil {
			return err
		}
		*l = label(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		return fmt.Errorf("label must not be null")
	}
	*l = label(b)
	return nil
}

func (l label) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(string(l))
}

// dataFlags selects the train and test collections of a command.
type dataFlags struct {
	train         string
	test          string
	trainPerClass int
	testPerClass  int
}

func (d *dataFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&d.train, "train", "", "train set (JSON Lines of {\"label\", \"text\"})")
	f.StringVar(&d.test, "test", "", "test set (JSON Lines of {\"label\", \"text\"})")
	f.IntVar(&d.trainPerClass, "train-per-class", 0, "sample this many train items per class (0 uses all)")
	f.IntVar(&d.testPerClass, "test-per-class", 0, "sample this many test items per class (0 uses all)")
	_ = cmd.MarkFlagRequired("train")
	_ = cmd.MarkFlagRequired("test")
}

func (a *app) loadCollection(path string) (*dataset.Collection[label], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	c, err := dataset.LoadJSONL[label](f, a.codec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// sample reduces c, loaded from path, to perClass items of every class.
// The sampled indices are persisted in the block store under a name built
// from the file name, the split, perClass and the seed so later commands
// see the same subset. A stored list drawn from different data is
// rejected.
func (a *app) sample(ctx context.Context, c *dataset.Collection[label], path, split string, perClass int) (*dataset.Collection[label], error) {
	if perClass <= 0 {
		return c, nil
	}
	blobs, err := a.store(ctx)
	if err != nil {
		return nil, err
	}
	name := fmt.Sprintf("%s-%s-%d-%d", datasetName(path), split, perClass, a.cfg.Seed)
	indices, err := dataset.SampleOrLoad(ctx, dataset.NewIndexStore(blobs, a.codec), name, c, perClass, a.cfg.Seed)
	if err != nil {
		return nil, err
	}
	return c.Subset(indices)
}

// datasetName is the base name of path without its extension.
func datasetName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func (a *app) loadData(ctx context.Context, d *dataFlags) (train, test *dataset.Collection[label], err error) {
	if train, err = a.loadCollection(d.train); err != nil {
		return nil, nil, err
	}
	if test, err = a.loadCollection(d.test); err != nil {
		return nil, nil, err
	}
	if train, err = a.sample(ctx, train, d.train, "train", d.trainPerClass); err != nil {
		return nil, nil, err
	}
	if test, err = a.sample(ctx, test, d.test, "test", d.testPerClass); err != nil {
		return nil, nil, err
	}
	a.logger.Info("loaded data", "train", train.Len(), "test", test.Len())
	return train, test, nil
}
