// =============================================================================
// Prisme Transactions - G69 Values
// =============================================================================
//
// A Value is a tagged union of the types a G69 field may hold. Conversion
// into the declared field type follows fixed rules:
//
//   declared int      accepts int
//   declared decimal  accepts decimal, int (promoted)
//   declared date     accepts date
//   declared string   accepts string, int (decimal digits)
//
// Any other combination fails with ErrWrongType. Booleans are only accepted
// by aliases.
//
// =============================================================================

package g69

import (
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Value is a typed G69 input value.
type Value struct {
	typ ValueType
	i   int64
	d   decimal.Decimal
	t   time.Time
	s   string
	b   bool
}

// Values maps field (or alias) names to values.
type Values map[string]Value

func Int(v int64) Value           { return Value{typ: TypeInt, i: v} }
func Dec(v decimal.Decimal) Value { return Value{typ: TypeDecimal, d: v} }
func Date(v time.Time) Value      { return Value{typ: TypeDate, t: v} }
func Str(v string) Value          { return Value{typ: TypeString, s: v} }
func Bool(v bool) Value           { return Value{typ: TypeBool, b: v} }

func (v Value) Type() ValueType           { return v.typ }
func (v Value) BoolValue() bool           { return v.b }
func (v Value) IntValue() int64           { return v.i }
func (v Value) DecValue() decimal.Decimal { return v.d }
func (v Value) DateValue() time.Time      { return v.t }
func (v Value) TextValue() string         { return v.s }

// String renders the value for error messages.
func (v Value) String() string {
	switch v.typ {
	case TypeInt:
		return strconv.FormatInt(v.i, 10)
	case TypeDecimal:
		return v.d.String()
	case TypeDate:
		return v.t.Format(time.DateOnly)
	case TypeBool:
		return strconv.FormatBool(v.b)
	}
	return v.s
}

// format converts v into decl's type and renders its unpadded text.
func (v Value) format(decl Decl) (string, error) {
	switch decl.Type {
	case TypeInt:
		if v.typ == TypeInt {
			return strconv.FormatInt(v.i, 10), nil
		}
	case TypeDecimal:
		switch v.typ {
		case TypeDecimal:
			return FormatAmount(v.d), nil
		case TypeInt:
			return FormatAmount(decimal.NewFromInt(v.i)), nil
		}
	case TypeDate:
		if v.typ == TypeDate {
			return v.t.Format(field.DateLayout), nil
		}
	case TypeString:
		switch v.typ {
		case TypeString:
			return v.s, nil
		case TypeInt:
			return strconv.FormatInt(v.i, 10), nil
		}
	}
	return "", field.Errorf(field.ErrWrongType, decl.Name, v.String(), "%s value does not fit a %s field", v.typ, decl.Type)
}

// FormatAmount renders a kroner amount as unsigned øre followed by a sign
// marker: "-" for negative amounts, a space otherwise. Fractions of an øre
// are truncated.
//
//	123.45  -> "12345 "
//	-0.5    -> "50-"
func FormatAmount(kr decimal.Decimal) string {
	ore := kr.Mul(decimal.NewFromInt(100)).Truncate(0)
	if ore.Sign() < 0 {
		return ore.Abs().String() + "-"
	}
	return ore.String() + " "
}

// ParseValue builds a value for the named field or alias from text, such as
// a spreadsheet cell. Dates are accepted as YYYY-MM-DD or YYYYMMDD.
func ParseValue(name, raw string) (Value, error) {
	raw = strings.TrimSpace(raw)
	if _, ok := lookupAlias(name); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return Value{}, field.Errorf(field.ErrWrongType, name, raw, "expected a boolean")
		}
		return Bool(b), nil
	}

	decl, ok := Lookup(name)
	if !ok {
		return Value{}, field.Errorf(field.ErrUnknownField, name, raw, "not a G69 field")
	}
	switch decl.Type {
	case TypeInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Value{}, field.Errorf(field.ErrWrongType, name, raw, "expected an integer")
		}
		return Int(n), nil
	case TypeDecimal:
		if !strings.Contains(raw, ".") {
			raw = strings.Replace(raw, ",", ".", 1)
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			return Value{}, field.Errorf(field.ErrWrongType, name, raw, "expected a decimal number")
		}
		return Dec(d), nil
	case TypeDate:
		for _, layout := range []string{time.DateOnly, field.DateLayout} {
			if t, err := time.Parse(layout, raw); err == nil {
				return Date(t), nil
			}
		}
		return Value{}, field.Errorf(field.ErrWrongType, name, raw, "expected a date")
	}
	return Str(raw), nil
}
