package block

import (
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	ext         = ".npy"
	rangePrefix = "test_dis_idx_from_"
	rangeSep    = "_to_"
)

// ErrInvalidKey is returned for names that are not block files.
var ErrInvalidKey = errors.New("invalid block key")

// Key identifies a persisted block. A range key covers test items
// [Start, End); a named key stores an arbitrary subset under Name.
type Key struct {
	Start int
	End   int
	Name  string
}

// RangeKey returns the key of the block covering test items [start, end).
func RangeKey(start, end int) Key {
	return Key{Start: start, End: end}
}

// NamedKey returns the key of a named subset block.
func NamedKey(name string) Key {
	return Key{Name: name}
}

// IsRange reports whether k addresses a test index range.
func (k Key) IsRange() bool { return k.Name == "" }

// Len returns the number of rows covered by a range key.
func (k Key) Len() int { return k.End - k.Start }

// String returns the file name of the block.
func (k Key) String() string {
	if !k.IsRange() {
		return k.Name + ext
	}
	return rangePrefix + strconv.Itoa(k.Start) + rangeSep + strconv.Itoa(k.End) + ext
}

// ParseKey parses a block file name. Any directory part is ignored.
func ParseKey(name string) (Key, error) {
	base := path.Base(name)
	stem, ok := strings.CutSuffix(base, ext)
	if !ok || stem == "" {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}

	rest, ok := strings.CutPrefix(stem, rangePrefix)
	if !ok {
		return NamedKey(stem), nil
	}
	from, to, ok := strings.Cut(rest, rangeSep)
	if !ok {
		return Key{}, fmt.Errorf("%w: %q", ErrInvalidKey, name)
	}
	start, err := strconv.Atoi(from)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, name, err)
	}
	end, err := strconv.Atoi(to)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidKey, name, err)
	}
	if start < 0 || end <= start {
		return Key{}, fmt.Errorf("%w: %q: empty range [%d, %d)", ErrInvalidKey, name, start, end)
	}
	return RangeKey(start, end), nil
}
