// =============================================================================
// Prisme Transactions - 10Q File Reader
// =============================================================================
//
// ReadGroups turns a 10Q file into one Group per logical transaction. A new
// group starts at every type 10 line; type 24 and 26 lines add their fields
// to the current group. Later lines overwrite earlier values of the same
// field, so a group keeps the last text line only. The transaction type
// itself is not kept; the source line numbers are.
//
// =============================================================================

package tenq

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Group is the merged field set of one logical transaction.
type Group struct {
	// LineNos are the 1-based source line numbers of the group's lines.
	LineNos []int

	keys   []string
	values map[string]string
}

func newGroup() *Group {
	return &Group{values: make(map[string]string)}
}

func (g *Group) set(name, value string) {
	if _, ok := g.values[name]; !ok {
		g.keys = append(g.keys, name)
	}
	g.values[name] = value
}

// Get returns the raw value of a field.
func (g *Group) Get(name string) (string, bool) {
	v, ok := g.values[name]
	return v, ok
}

// Keys lists the field names in the order they first appeared.
func (g *Group) Keys() []string {
	return append([]string(nil), g.keys...)
}

// LineNosString joins the source line numbers with commas.
func (g *Group) LineNosString() string {
	parts := make([]string, len(g.LineNos))
	for i, n := range g.LineNos {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

// UnknownLineFunc is called for every line whose transaction type is not
// recognised.
type UnknownLineFunc func(lineNo int, transType string)

// ReadGroups reads a 10Q file and groups its lines. onUnknown may be nil.
func ReadGroups(r io.Reader, onUnknown UnknownLineFunc) ([]*Group, error) {
	var groups []*Group
	var cur *Group

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")

		rec, ok := ParseLine(line)
		if !ok {
			if onUnknown != nil {
				onUnknown(lineNo, TransTypeOf(line))
			}
			continue
		}

		if rec.TransType == TypePerson || cur == nil {
			if cur != nil {
				groups = append(groups, cur)
			}
			cur = newGroup()
		}

		layout, _ := LayoutFor(rec.TransType)
		for _, name := range layout.Names() {
			if name == ColTransType {
				continue
			}
			cur.set(name, rec.Fields[name])
		}
		if rec.TransType == TypeText {
			cur.set(ColRateText, rec.Fields[ColRateText])
		}
		cur.LineNos = append(cur.LineNos, lineNo)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read 10Q lines: %w", err)
	}
	if cur != nil {
		groups = append(groups, cur)
	}
	return groups, nil
}

// Headers returns the spreadsheet header row for groups: the source line
// numbers first, then every field name in first-seen order.
func Headers(groups []*Group) []string {
	headers := []string{ColSourceLineNos}
	seen := map[string]bool{ColSourceLineNos: true}
	for _, g := range groups {
		for _, k := range g.keys {
			if !seen[k] {
				seen[k] = true
				headers = append(headers, k)
			}
		}
	}
	return headers
}
