// Package codec centralizes encoding of datasets and persisted index lists.
//
// Changing the codec used for a store is a breaking change: index lists
// written by one codec may not decode with another.
package codec

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "go-json", "":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// maxLine bounds a single JSON Lines record.
const maxLine = 64 << 20

// DecodeLines decodes one value per non-empty line of r.
// Errors name the 1-based line number.
func DecodeLines[T any](r io.Reader, c Codec) ([]T, error) {
	if c == nil {
		c = Default
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLine)

	var out []T
	line := 0
	for sc.Scan() {
		line++
		b := bytes.TrimSpace(sc.Bytes())
		if len(b) == 0 {
			continue
		}
		var v T
		if err := c.Unmarshal(b, &v); err != nil {
			return nil, fmt.Errorf("codec %s: line %d: %w", c.Name(), line, err)
		}
		out = append(out, v)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("codec %s: line %d: %w", c.Name(), line+1, err)
	}
	return out, nil
}

// EncodeLines writes one encoded value per line to w.
func EncodeLines[T any](w io.Writer, c Codec, values []T) error {
	if c == nil {
		c = Default
	}

	bw := bufio.NewWriter(w)
	for i, v := range values {
		b, err := c.Marshal(v)
		if err != nil {
			return fmt.Errorf("codec %s: record %d: %w", c.Name(), i, err)
		}
		if _, err := bw.Write(b); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
