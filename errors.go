package ncdgo

import (
	"errors"

	"github.com/hupe1980/ncdgo/blobstore"
	"github.com/hupe1980/ncdgo/block"
	"github.com/hupe1980/ncdgo/compressor"
	"github.com/hupe1980/ncdgo/distance"
	"github.com/hupe1980/ncdgo/knn"
	"github.com/hupe1980/ncdgo/matrix"
)

var (
	// ErrUnsupportedInput is returned when a compressor cannot handle an item.
	ErrUnsupportedInput = compressor.ErrUnsupportedInput

	// ErrDegenerateInput is returned when a distance is undefined for the
	// compressed lengths, e.g. two empty items.
	ErrDegenerateInput = distance.ErrDegenerateInput

	// ErrInvalidK is returned when k <= 0 or k exceeds the number of train items.
	ErrInvalidK = knn.ErrInvalidK

	// ErrMissingResource is returned when a persisted block or index list
	// is absent or unreadable.
	ErrMissingResource = blobstore.ErrMissingResource

	// ErrNoBlockStore is returned by Record and Score without WithBlockStore.
	ErrNoBlockStore = errors.New("no block store configured")

	// ErrInvalidOption is returned by New for out-of-range options.
	ErrInvalidOption = errors.New("invalid option")
)

type (
	// UnsupportedInputError names the compressor and the rejected input size.
	UnsupportedInputError = compressor.UnsupportedInputError

	// DegenerateInputError names the metric and the offending lengths.
	DegenerateInputError = distance.DegenerateInputError

	// InvalidKError names k and the number of train items.
	InvalidKError = knn.InvalidKError

	// MissingResourceError names the blob and the operation that needed it.
	MissingResourceError = blobstore.MissingResourceError

	// RowError carries the global test index of a failed row.
	RowError = matrix.RowError

	// BlockError carries the key of a failed block.
	BlockError = block.BlockError
)
