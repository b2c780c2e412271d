package testutil

import (
	"math"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Word returns a random lowercase word of length n drawn from alphabet.
func (r *RNG) Word(n int, alphabet string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.wordLocked(n, alphabet)
}

func (r *RNG) wordLocked(n int, alphabet string) string {
	var sb strings.Builder
	sb.Grow(n)
	for range n {
		sb.WriteByte(alphabet[r.rand.Intn(len(alphabet))])
	}
	return sb.String()
}

// Vocabulary returns size distinct-ish random words of 3 to 8 letters.
func (r *RNG) Vocabulary(size int, alphabet string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	words := make([]string, size)
	for i := range words {
		words[i] = r.wordLocked(3+r.rand.Intn(6), alphabet)
	}
	return words
}

// Zipf samples an integer in [0, n) following a Zipf distribution with exponent s.
func (r *RNG) Zipf(n int, s float64) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.zipfLocked(n, s)
}

func (r *RNG) zipfLocked(n int, s float64) int {
	if n <= 1 {
		return 0
	}
	var norm float64
	for i := 1; i <= n; i++ {
		norm += 1 / math.Pow(float64(i), s)
	}
	target := r.rand.Float64() * norm
	var acc float64
	for i := 1; i <= n; i++ {
		acc += 1 / math.Pow(float64(i), s)
		if acc >= target {
			return i - 1
		}
	}
	return n - 1
}

// Document joins words Zipf-sampled words from vocab.
func (r *RNG) Document(vocab []string, words int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	parts := make([]string, words)
	for i := range parts {
		parts[i] = vocab[r.zipfLocked(len(vocab), 1.1)]
	}
	return strings.Join(parts, " ")
}

// classAlphabets gives each synthetic class a mostly disjoint character set.
var classAlphabets = []string{
	"abcdefg",
	"nopqrst",
	"uvwxyz",
	"hijklm",
}

// Corpus generates classes*perClass documents of the given word count.
// Labels are class numbers; documents are ordered class by class.
func (r *RNG) Corpus(classes, perClass, words int) ([]string, []int) {
	items := make([]string, 0, classes*perClass)
	labels := make([]int, 0, classes*perClass)
	for c := range classes {
		vocab := r.Vocabulary(40, classAlphabets[c%len(classAlphabets)])
		for range perClass {
			items = append(items, r.Document(vocab, words))
			labels = append(labels, c)
		}
	}
	return items, labels
}

// LengthProvider is the contract counted by CountingProvider.
type LengthProvider interface {
	Length(item string) (int, error)
	CombinedLength(a, b string) (int, error)
}

// CountingProvider wraps a LengthProvider and counts calls per item.
type CountingProvider struct {
	inner    LengthProvider
	lengths  atomic.Int64
	combined atomic.Int64

	mu      sync.Mutex
	perItem map[string]int
}

// NewCountingProvider wraps inner.
func NewCountingProvider(inner LengthProvider) *CountingProvider {
	return &CountingProvider{inner: inner, perItem: make(map[string]int)}
}

// Length implements LengthProvider.
func (c *CountingProvider) Length(item string) (int, error) {
	c.lengths.Add(1)
	c.mu.Lock()
	c.perItem[item]++
	c.mu.Unlock()
	return c.inner.Length(item)
}

// CombinedLength implements LengthProvider.
func (c *CountingProvider) CombinedLength(a, b string) (int, error) {
	c.combined.Add(1)
	return c.inner.CombinedLength(a, b)
}

// Lengths returns the number of Length calls.
func (c *CountingProvider) Lengths() int64 { return c.lengths.Load() }

// Combined returns the number of CombinedLength calls.
func (c *CountingProvider) Combined() int64 { return c.combined.Load() }

// LengthCalls returns how often Length was called with item.
func (c *CountingProvider) LengthCalls(item string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.perItem[item]
}
