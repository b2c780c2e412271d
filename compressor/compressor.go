package compressor

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Compressor reports the compressed size of a blob.
// Implementations must be deterministic for a fixed input and safe for
// concurrent use.
type Compressor interface {
	// Name returns the stable registry name of the compressor.
	Name() string
	// CompressedLen returns the number of bytes data occupies after compression.
	CompressedLen(data []byte) (int, error)
}

// ErrUnsupportedInput is returned when a compressor cannot process an input,
// typically because it is below the compressor's minimum size.
var ErrUnsupportedInput = errors.New("unsupported input")

// UnsupportedInputError reports an input that violates a compressor constraint.
type UnsupportedInputError struct {
	Compressor string
	Size       int
	Min        int
}

func (e *UnsupportedInputError) Error() string {
	return fmt.Sprintf("%s: input of %d bytes is below the minimum of %d bytes", e.Compressor, e.Size, e.Min)
}

// Is reports whether target is ErrUnsupportedInput.
func (e *UnsupportedInputError) Is(target error) bool { return target == ErrUnsupportedInput }

// Factory creates a new Compressor instance.
type Factory func() Compressor

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{
		NameGzip:      func() Compressor { return NewGzip(9) },
		NameZlib:      func() Compressor { return NewZlib(9) },
		NameDeflate:   func() Compressor { return NewDeflate(9) },
		NameZstd:      func() Compressor { return NewZstd() },
		NameS2:        func() Compressor { return NewS2() },
		NameSnappy:    func() Compressor { return NewSnappy() },
		NameLZ4:       func() Compressor { return NewLZ4() },
		NameLZ4Block:  func() Compressor { return NewLZ4Block() },
		NameBzip2:     func() Compressor { return NewBzip2(9) },
		NameLZMA:      func() Compressor { return NewXZ() },
		NameLZMAAlone: func() Compressor { return NewLZMA() },
	}
)

// Register adds a compressor factory under name, replacing any previous one.
func Register(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = f
}

// ByName returns a new instance of a registered compressor.
func ByName(name string) (Compressor, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown compressor %q", name)
	}
	return f(), nil
}

// Names returns the sorted names of all registered compressors.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// countingWriter discards output and counts bytes.
type countingWriter struct {
	n int
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += len(p)
	return len(p), nil
}

// resetWriter is a compressing writer that can be retargeted to a new sink.
type resetWriter interface {
	io.WriteCloser
	Reset(w io.Writer) error
}

// streamCompressor measures a streaming encoder's output. Encoders are pooled
// and reused; a failed encoder is dropped instead of returned to the pool.
type streamCompressor struct {
	name      string
	newWriter func(w io.Writer) (resetWriter, error)
	pool      sync.Pool
}

func (c *streamCompressor) Name() string { return c.name }

func (c *streamCompressor) CompressedLen(data []byte) (int, error) {
	var cw countingWriter

	zw, err := c.get(&cw)
	if err != nil {
		return 0, fmt.Errorf("%s: create encoder: %w", c.name, err)
	}
	if _, err := zw.Write(data); err != nil {
		return 0, fmt.Errorf("%s: compress %d bytes: %w", c.name, len(data), err)
	}
	if err := zw.Close(); err != nil {
		return 0, fmt.Errorf("%s: flush: %w", c.name, err)
	}
	c.pool.Put(zw)

	return cw.n, nil
}

func (c *streamCompressor) get(w io.Writer) (resetWriter, error) {
	if v := c.pool.Get(); v != nil {
		zw := v.(resetWriter)
		if err := zw.Reset(w); err != nil {
			return nil, err
		}
		return zw, nil
	}
	return c.newWriter(w)
}

// resetAdapter lifts encoders whose Reset has no error result.
type resetAdapter[W interface {
	io.WriteCloser
	Reset(io.Writer)
}] struct {
	zw W
}

func (a resetAdapter[W]) Write(p []byte) (int, error) { return a.zw.Write(p) }
func (a resetAdapter[W]) Close() error                { return a.zw.Close() }

func (a resetAdapter[W]) Reset(w io.Writer) error {
	a.zw.Reset(w)
	return nil
}
