package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcatSpace(t *testing.T) {
	assert.Equal(t, "aaaa zzzz", ConcatSpace("aaaa", "zzzz"))
	assert.Equal(t, "zzzz aaaa", ConcatSpace("zzzz", "aaaa"))
	assert.Equal(t, " ", ConcatSpace("", ""))
}

func TestJagWord(t *testing.T) {
	tests := []struct {
		name, a, b, expected string
	}{
		{"Equal", "a b c", "x y z", "a x b y c z"},
		{"LongerA", "a b c d", "x", "a x b c d"},
		{"LongerB", "a", "x y z", "a x y z"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, JagWord(tt.a, tt.b))
		})
	}
}

func TestJagChar(t *testing.T) {
	assert.Equal(t, "axbycz", JagChar("abc", "xyz"))
	assert.Equal(t, "axbc", JagChar("abc", "x"))
	assert.Equal(t, "äöü", JagChar("äü", "ö"))
}

func TestByName(t *testing.T) {
	fn, err := ByName("")
	require.NoError(t, err)
	assert.Equal(t, "a b", fn("a", "b"))

	fn, err = ByName(NameJagChar)
	require.NoError(t, err)
	assert.Equal(t, "ab", fn("a", "b"))

	_, err = ByName("stack")
	assert.Error(t, err)
}
