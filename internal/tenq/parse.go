package tenq

import (
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Record is one decoded 10Q line. Fields holds the raw positional
// substrings, padding included, keyed by column name.
type Record struct {
	TransType string
	Fields    map[string]string
}

// TransTypeOf returns the transaction type code at offset 4-6 of line.
func TransTypeOf(line string) string {
	r := []rune(line)
	if len(r) < 6 {
		return string(r[min(4, len(r)):])
	}
	return string(r[4:6])
}

// ParseLine decodes a single line. It reports false for lines whose
// transaction type is not 10, 24 or 26.
func ParseLine(line string) (Record, bool) {
	tt := TransTypeOf(line)
	layout, ok := LayoutFor(tt)
	if !ok {
		return Record{}, false
	}
	rec := Record{TransType: tt, Fields: layout.Parse(line)}
	if tt == TypeText {
		rest := []rune(line)
		rest = rest[min(layout.Width(), len(rest)):]
		rec.Fields[ColRateText] = string(rest[:min(rateTextWidth, len(rest))])
	}
	return rec, true
}

// Parse splits text on CRLF and decodes every recognised line. Lines of
// unknown type are skipped.
func Parse(text string) []Record {
	var out []Record
	for _, line := range strings.Split(text, "\r\n") {
		if rec, ok := ParseLine(line); ok {
			out = append(out, rec)
		}
	}
	return out
}

// Value returns a field with its padding removed.
func (r Record) Value(name string) string {
	return strings.TrimSpace(r.Fields[name])
}

// Date decodes a YYYYMMDD field.
func (r Record) Date(name string) (time.Time, error) {
	raw := r.Value(name)
	t, err := time.Parse(field.DateLayout, raw)
	if err != nil {
		return time.Time{}, field.Errorf(field.ErrWrongType, name, raw, "expected YYYYMMDD")
	}
	return t, nil
}

// Int decodes a numeric field.
func (r Record) Int(name string) (int64, error) {
	raw := r.Value(name)
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, field.Errorf(field.ErrWrongType, name, raw, "expected digits")
	}
	return n, nil
}

// Amount decodes a signed øre amount such as "0000100000+" into DKK.
func (r Record) Amount(name string) (*money.Money, error) {
	return ParseAmount(name, r.Fields[name])
}

// ParseAmount decodes ten digits followed by a "+" or "-" sign.
func ParseAmount(name, raw string) (*money.Money, error) {
	raw = strings.TrimSpace(raw)
	if len(raw) < 2 {
		return nil, field.Errorf(field.ErrWrongType, name, raw, "expected digits followed by a sign")
	}
	digits, sign := raw[:len(raw)-1], raw[len(raw)-1]
	ore, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || ore < 0 {
		return nil, field.Errorf(field.ErrWrongType, name, raw, "expected digits followed by a sign")
	}
	switch sign {
	case '-':
		ore = -ore
	case '+':
	default:
		return nil, field.Errorf(field.ErrWrongType, name, raw, "sign must be '+' or '-'")
	}
	return money.New(ore, money.DKK), nil
}
