// =============================================================================
// Prisme Transactions - Positional Layouts
// =============================================================================
//
// A Layout is an ordered list of fixed-width columns. Formatting a layout
// right-justifies every value to its column width with spaces; parsing cuts
// a line back into named raw substrings at the same offsets.
//
// Widths and offsets count characters, not bytes.
//
// =============================================================================

package field

import (
	"strings"
	"unicode/utf8"
)

// Column is one fixed-width position in a Layout.
type Column struct {
	Name  string
	Width int

	// Default is used when no value is supplied. A column without a
	// default must always be given a value.
	Default    string
	HasDefault bool
}

// Col declares a column without a default.
func Col(name string, width int) Column {
	return Column{Name: name, Width: width}
}

// ColDefault declares a column with a default value.
func ColDefault(name string, width int, def string) Column {
	return Column{Name: name, Width: width, Default: def, HasDefault: true}
}

// Layout is an ordered list of columns.
type Layout []Column

// Extend returns a new layout with cols appended.
func (l Layout) Extend(cols ...Column) Layout {
	out := make(Layout, 0, len(l)+len(cols))
	out = append(out, l...)
	return append(out, cols...)
}

// Width is the total width of the layout.
func (l Layout) Width() int {
	n := 0
	for _, c := range l {
		n += c.Width
	}
	return n
}

// Names lists the column names in order.
func (l Layout) Names() []string {
	names := make([]string, len(l))
	for i, c := range l {
		names[i] = c.Name
	}
	return names
}

// Format renders values positionally. Every value is right-justified and
// space-padded to its column width. A column without value or default fails
// with ErrNullField; a value wider than its column fails with ErrTooLong.
func (l Layout) Format(values map[string]string) (string, error) {
	var b strings.Builder
	for _, c := range l {
		v, ok := values[c.Name]
		if !ok {
			if !c.HasDefault {
				return "", Errorf(ErrNullField, c.Name, "", "value cannot be empty")
			}
			v = c.Default
		}
		if n := utf8.RuneCountInString(v); n > c.Width {
			return "", Errorf(ErrTooLong, c.Name, v, "wider than %d characters", c.Width)
		}
		b.WriteString(PadLeft(v, c.Width, ' '))
	}
	return b.String(), nil
}

// Parse cuts line into raw substrings keyed by column name. A line shorter
// than the layout yields shortened or empty values for the trailing columns.
func (l Layout) Parse(line string) map[string]string {
	runes := []rune(line)
	out := make(map[string]string, len(l))
	pos := 0
	for _, c := range l {
		start := min(pos, len(runes))
		end := min(pos+c.Width, len(runes))
		out[c.Name] = string(runes[start:end])
		pos += c.Width
	}
	return out
}

// PadLeft right-justifies s to width using pad.
func PadLeft(s string, width int, pad rune) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return strings.Repeat(string(pad), width-n) + s
}

// Zfill left-pads a numeric string with zeros to width, keeping a leading
// sign in front of the padding.
func Zfill(s string, width int) string {
	if s != "" && (s[0] == '-' || s[0] == '+') {
		return s[:1] + PadLeft(s[1:], width-1, '0')
	}
	return PadLeft(s, width, '0')
}
