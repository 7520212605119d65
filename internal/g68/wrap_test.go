package g68

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitChunks(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{
			"well-known self-explanatory text -- dash",
			[]string{"well-", "known", " ", "self-", "explanatory", " ", "text", " ", "--", " ", "dash"},
		},
		{
			"x-y ab-cd abc-def-ghi word--word",
			[]string{"x-y", " ", "ab-", "cd", " ", "abc-", "def-", "ghi", " ", "word", "--", "word"},
		},
		{"  two  spaces", []string{"  ", "two", "  ", "spaces"}},
		{"æø-åæ", []string{"æø-", "åæ"}},
		{"12-34", []string{"12-34"}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitChunks(tt.in))
		})
	}
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "tab     here new line", normalizeWhitespace("tab\there\nnew line"))
	assert.Equal(t, "a b c", normalizeWhitespace("a\rb\fc"))
	assert.Equal(t, "ab      x", normalizeWhitespace("ab\tx"))
}

func TestWrap(t *testing.T) {
	t.Run("long word is broken", func(t *testing.T) {
		lines := Wrap(strings.Repeat("a", 200), 81, 36)
		assert.Equal(t, []int{81, 81, 38}, lineLengths(lines))
	})

	t.Run("whitespace is kept", func(t *testing.T) {
		assert.Equal(t, []string{"tab     here new line"}, Wrap("tab\there\nnew line", 81, 36))
	})

	t.Run("words do not straddle lines", func(t *testing.T) {
		assert.Equal(t, []string{"aaa ", "bbb ", "ccc"}, Wrap("aaa bbb ccc", 5, 0))
	})

	t.Run("long word prefers its last hyphen", func(t *testing.T) {
		assert.Equal(t, []string{"12-", "34567", "89"}, Wrap("12-3456789", 5, 0))
	})

	t.Run("overflow ends with placeholder", func(t *testing.T) {
		lines := Wrap(strings.Repeat("abc 123 foo", 1000), 81, 36)
		assert.Len(t, lines, 36)
		assert.Equal(t, []int{81, 81, 77}, lineLengths(lines)[:3])
		assert.Equal(t,
			"fooabc 123 fooabc 123 fooabc 123 fooabc 123 fooabc 123 fooabc 123 fooabc [...]",
			lines[35])
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, Wrap("", 81, 36))
	})
}

func lineLengths(lines []string) []int {
	out := make([]int, len(lines))
	for i, l := range lines {
		out[i] = len([]rune(l))
	}
	return out
}
