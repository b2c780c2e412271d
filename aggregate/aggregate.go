// Package aggregate joins two text items into one blob before compression.
//
// The join order is significant: compressors with adaptive state produce
// different sizes depending on which text comes first, so a policy keeps the
// order it was given (A then B) and callers hold one policy fixed for an
// entire run.
package aggregate

import (
	"fmt"
	"strings"
)

// Func combines two items into a single blob.
type Func func(a, b string) string

// Name constants for the built-in policies.
const (
	NameConcatSpace = "concat-space"
	NameJagWord     = "jag-word"
	NameJagChar     = "jag-char"
)

// ConcatSpace concatenates a and b with a single space separator.
func ConcatSpace(a, b string) string {
	return a + " " + b
}

// JagWord interleaves the space-separated words of a and b, starting with a.
// The remaining words of the longer item are appended in order.
func JagWord(a, b string) string {
	wa := strings.Split(a, " ")
	wb := strings.Split(b, " ")
	return strings.Join(interleave(wa, wb), " ")
}

// JagChar interleaves the characters of a and b, starting with a.
func JagChar(a, b string) string {
	ra := []rune(a)
	rb := []rune(b)
	return string(interleave(ra, rb))
}

func interleave[T any](a, b []T) []T {
	out := make([]T, 0, len(a)+len(b))
	n := min(len(a), len(b))
	for i := range n {
		out = append(out, a[i], b[i])
	}
	out = append(out, a[n:]...)
	return append(out, b[n:]...)
}

// ByName returns a built-in aggregation policy by its stable name.
// An empty name selects ConcatSpace.
func ByName(name string) (Func, error) {
	switch name {
	case "", NameConcatSpace:
		return ConcatSpace, nil
	case NameJagWord:
		return JagWord, nil
	case NameJagChar:
		return JagChar, nil
	default:
		return nil, fmt.Errorf("unknown aggregation %q", name)
	}
}
