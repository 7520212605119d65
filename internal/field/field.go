// =============================================================================
// Prisme Transactions - Field Primitives
// =============================================================================
//
// A Field is a typed value that has been validated against its declaration
// (a Spec) and rendered to its canonical serialized text. Fields are built
// immediately before serialization and discarded afterwards.
//
// KINDS AND THEIR SERIALIZED FORM:
//   Numeric            decimal digits, e.g. 42 -> "42"
//   ZeroPaddedNumeric  left-zero-padded to Length, e.g. 42 -> "0042"
//   String             verbatim; may not contain & ! or \
//   Date               YYYYMMDD (Length is always 8)
//   Enum               zero-padded ordinal of the enum member
//
// =============================================================================

package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"
)

// Kind is the datatype of a field.
type Kind int

const (
	Numeric Kind = iota
	ZeroPaddedNumeric
	String
	Date
	Enum
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case ZeroPaddedNumeric:
		return "zero-padded numeric"
	case String:
		return "string"
	case Date:
		return "date"
	case Enum:
		return "enum"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// DateLayout is the serialized layout of date fields.
const DateLayout = "20060102"

// BannedCharacters may never appear in a String field.
const BannedCharacters = `&!\`

// Spec declares a field.
type Spec struct {
	Name   string
	Kind   Kind
	Length int

	// Ordinals lists the valid members of an Enum field. Empty means any
	// ordinal that fits Length is accepted.
	Ordinals []int64
}

// Field is a validated field value.
type Field struct {
	spec       Spec
	num        int64
	text       string
	date       time.Time
	serialized string
}

// Int builds a Numeric, ZeroPaddedNumeric or Enum field.
func (s Spec) Int(v int64) (Field, error) {
	digits := strconv.FormatInt(v, 10)
	switch s.Kind {
	case Numeric, ZeroPaddedNumeric:
	case Enum:
		if len(s.Ordinals) > 0 && !containsOrdinal(s.Ordinals, v) {
			return Field{}, Errorf(ErrOutOfRange, s.Name, digits, "not a member of the enum")
		}
	default:
		return Field{}, Errorf(ErrWrongType, s.Name, digits, "%s field cannot hold an integer", s.Kind)
	}
	if len(digits) > s.Length {
		return Field{}, Errorf(ErrTooLong, s.Name, digits, "must be %d digits or shorter", s.Length)
	}
	f := Field{spec: s, num: v, serialized: digits}
	if s.Kind != Numeric {
		f.serialized = Zfill(digits, s.Length)
	}
	return f, nil
}

// Text builds a String field.
func (s Spec) Text(v string) (Field, error) {
	if s.Kind != String {
		return Field{}, Errorf(ErrWrongType, s.Name, v, "%s field cannot hold a string", s.Kind)
	}
	if i := strings.IndexAny(v, BannedCharacters); i >= 0 {
		return Field{}, Errorf(ErrIllegalCharacter, s.Name, v, "contains %q", v[i])
	}
	if n := utf8.RuneCountInString(v); n > s.Length {
		return Field{}, Errorf(ErrTooLong, s.Name, v, "length must be %d or shorter, got %d", s.Length, n)
	}
	return Field{spec: s, text: v, serialized: v}, nil
}

// Time builds a Date field.
func (s Spec) Time(v time.Time) (Field, error) {
	if s.Kind != Date {
		return Field{}, Errorf(ErrWrongType, s.Name, v.Format(time.DateOnly), "%s field cannot hold a date", s.Kind)
	}
	return Field{spec: s, date: v, serialized: v.Format(DateLayout)}, nil
}

// Parse rebuilds a field from its serialized text.
func (s Spec) Parse(raw string) (Field, error) {
	switch s.Kind {
	case Numeric, ZeroPaddedNumeric, Enum:
		if raw == "" || strings.Trim(raw, "0123456789") != "" {
			return Field{}, Errorf(ErrWrongType, s.Name, raw, "expected digits")
		}
		if len(raw) > s.Length {
			return Field{}, Errorf(ErrTooLong, s.Name, raw, "must be %d digits or shorter", s.Length)
		}
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return Field{}, Errorf(ErrWrongType, s.Name, raw, "%v", err)
		}
		return s.Int(v)
	case Date:
		d, err := time.Parse(DateLayout, raw)
		if err != nil {
			return Field{}, Errorf(ErrWrongType, s.Name, raw, "expected YYYYMMDD")
		}
		return s.Time(d)
	}
	return s.Text(raw)
}

// MustParse is like Parse but panics on error.
func (s Spec) MustParse(raw string) Field {
	f, err := s.Parse(raw)
	if err != nil {
		panic(err)
	}
	return f
}

func (f Field) Spec() Spec           { return f.spec }
func (f Field) Name() string         { return f.spec.Name }
func (f Field) Serialized() string   { return f.serialized }
func (f Field) IntValue() int64      { return f.num }
func (f Field) TextValue() string    { return f.text }
func (f Field) DateValue() time.Time { return f.date }

// String renders the field for debugging, e.g. <Linjeløbenummer: 00001>.
func (f Field) String() string {
	return fmt.Sprintf("<%s: %s>", f.spec.Name, f.serialized)
}

func containsOrdinal(ordinals []int64, v int64) bool {
	for _, o := range ordinals {
		if o == v {
			return true
		}
	}
	return false
}

// KronerToOre converts whole kroner to øre. Amounts whose øre value does not
// fit in an int64 fail with ErrTooLong instead of wrapping around.
func KronerToOre(name string, kr int64) (int64, error) {
	if kr > math.MaxInt64/100 || kr < math.MinInt64/100 {
		return 0, Errorf(ErrTooLong, name, strconv.FormatInt(kr, 10), "amount in øre does not fit in 64 bits")
	}
	return kr * 100, nil
}
