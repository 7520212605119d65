// =============================================================================
// Prisme Transactions - Payment Text Wrapping
// =============================================================================
//
// Payment text is split into lines of at most 81 characters, up to 36 lines.
// Receivers of the G68 files compare the wrapped output byte for byte, so the
// algorithm follows a fixed set of rules:
//
//   1. Tabs expand to the next multiple of 8 columns; every other whitespace
//      character becomes a single space. Whitespace is never dropped.
//   2. Text is cut into chunks: runs of spaces, words, hyphenated word parts
//      ("well-" "known") and em-dashes ("--" between two words).
//   3. Chunks are packed greedily. A chunk longer than a whole line is broken,
//      preferring the position after its last hyphen.
//   4. If the text needs more than the line limit, the last line ends with
//      the placeholder " [...]".
//
// =============================================================================

package g68

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	tabSize         = 8
	wrapPlaceholder = " [...]"
)

// Wrap splits text into lines of at most width characters. When maxLines is
// positive and the text does not fit, the last line is truncated and marked
// with the placeholder.
func Wrap(text string, width, maxLines int) []string {
	chunks := splitChunks(normalizeWhitespace(text))
	return packChunks(chunks, width, maxLines)
}

// normalizeWhitespace expands tabs and turns all whitespace into spaces.
func normalizeWhitespace(text string) string {
	var b strings.Builder
	col := 0
	for _, r := range text {
		switch r {
		case '\t':
			n := tabSize - col%tabSize
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n', '\r':
			b.WriteByte(' ')
			col = 0
		case '\v', '\f':
			b.WriteByte(' ')
			col++
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}

// =============================================================================
// CHUNKING
// =============================================================================

func isWordChar(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// isLetter is a word character that is not a digit.
func isLetter(r rune) bool {
	return isWordChar(r) && !unicode.IsDigit(r)
}

// isWordPunct may precede an em-dash.
func isWordPunct(r rune) bool {
	return isWordChar(r) || strings.ContainsRune(`!"'&.,?`, r)
}

// emDashEnd returns the end of a run of two or more hyphens starting at i
// that is followed by a word character, or -1.
func emDashEnd(rs []rune, i int) int {
	if i+1 >= len(rs) || rs[i] != '-' || rs[i+1] != '-' {
		return -1
	}
	j := i
	for j < len(rs) && rs[j] == '-' {
		j++
	}
	if j < len(rs) && isWordChar(rs[j]) {
		return j
	}
	return -1
}

// splitChunks cuts normalized text into space runs, words, hyphenated word
// parts and em-dashes.
func splitChunks(s string) []string {
	rs := []rune(s)
	var chunks []string
	for i := 0; i < len(rs); {
		if rs[i] == ' ' {
			j := i
			for j < len(rs) && rs[j] == ' ' {
				j++
			}
			chunks = append(chunks, string(rs[i:j]))
			i = j
			continue
		}
		if i > 0 && isWordPunct(rs[i-1]) {
			if j := emDashEnd(rs, i); j > 0 {
				chunks = append(chunks, string(rs[i:j]))
				i = j
				continue
			}
		}
		j := wordEnd(rs, i)
		chunks = append(chunks, string(rs[i:j]))
		i = j
	}
	return chunks
}

// wordEnd finds where the word starting at i ends. A word ends before a
// space, after a hyphen joining two letter runs, or before an em-dash.
func wordEnd(rs []rune, i int) int {
	n := len(rs)
	for k := i + 1; k < n; k++ {
		switch rs[k] {
		case ' ':
			return k
		case '-':
			if hyphenBreak(rs, k) {
				return k + 1
			}
			if isWordPunct(rs[k-1]) && emDashEnd(rs, k) > 0 {
				return k
			}
		}
	}
	return n
}

// hyphenBreak reports whether the hyphen at k sits between two letters on
// each side, e.g. "ab-cd" or "a-b-cd".
func hyphenBreak(rs []rune, k int) bool {
	n := len(rs)
	before := (k >= 2 && isLetter(rs[k-2]) && isLetter(rs[k-1])) ||
		(k >= 3 && isLetter(rs[k-3]) && rs[k-2] == '-' && isLetter(rs[k-1]))
	if !before || k+1 >= n || !isLetter(rs[k+1]) {
		return false
	}
	if k+3 < n && rs[k+2] == '-' && isLetter(rs[k+3]) {
		return true
	}
	return k+2 < n && isLetter(rs[k+2])
}

// =============================================================================
// PACKING
// =============================================================================

func runeLen(s string) int { return utf8.RuneCountInString(s) }

func packChunks(chunks []string, width, maxLines int) []string {
	var lines []string
	pos := 0
	for pos < len(chunks) {
		var cur []string
		curLen := 0

		for pos < len(chunks) {
			l := runeLen(chunks[pos])
			if curLen+l > width {
				break
			}
			cur = append(cur, chunks[pos])
			curLen += l
			pos++
		}

		if pos < len(chunks) && runeLen(chunks[pos]) > width {
			var head string
			head, chunks[pos] = breakLongChunk(chunks[pos], width, curLen)
			cur = append(cur, head)
			curLen += runeLen(head)
		}

		if len(cur) == 0 {
			continue
		}

		if maxLines <= 0 || len(lines)+1 < maxLines || (pos >= len(chunks) && curLen <= width) {
			lines = append(lines, strings.Join(cur, ""))
			continue
		}

		// Out of lines: end the text with the placeholder.
		for len(cur) > 0 {
			last := cur[len(cur)-1]
			if strings.TrimSpace(last) != "" && curLen+runeLen(wrapPlaceholder) <= width {
				return append(lines, strings.Join(cur, "")+wrapPlaceholder)
			}
			curLen -= runeLen(last)
			cur = cur[:len(cur)-1]
		}
		if len(lines) > 0 {
			prev := strings.TrimRightFunc(lines[len(lines)-1], unicode.IsSpace)
			if runeLen(prev)+runeLen(wrapPlaceholder) <= width {
				lines[len(lines)-1] = prev + wrapPlaceholder
				return lines
			}
		}
		return append(lines, strings.TrimLeftFunc(wrapPlaceholder, unicode.IsSpace))
	}
	return lines
}

// breakLongChunk splits a chunk that is wider than a line. The head fills
// the space left on the current line, cut after the last hyphen when there
// is one with non-hyphen text before it. A full line gets an empty head.
func breakLongChunk(chunk string, width, curLen int) (head, rest string) {
	spaceLeft := width - curLen
	if width < 1 {
		spaceLeft = 1
	}
	rs := []rune(chunk)
	end := spaceLeft
	if len(rs) > spaceLeft {
		hyphen := -1
		for i := spaceLeft - 1; i >= 0; i-- {
			if rs[i] == '-' {
				hyphen = i
				break
			}
		}
		if hyphen > 0 && strings.Trim(string(rs[:hyphen]), "-") != "" {
			end = hyphen + 1
		}
	}
	return string(rs[:end]), string(rs[end:])
}
