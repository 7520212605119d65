// =============================================================================
// Prisme Transactions - Codec Errors
// =============================================================================
//
// All codec failures are synchronous and carry the offending field name(s).
// The Kind of an *Error is one of the sentinel values below, so callers can
// branch with errors.Is:
//
//   if errors.Is(err, field.ErrTooLong) { ... }
//
// =============================================================================

package field

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds.
var (
	ErrTooLong           = errors.New("value too long")
	ErrWrongType         = errors.New("wrong type")
	ErrIllegalCharacter  = errors.New("illegal character")
	ErrMissingRequired   = errors.New("missing required field")
	ErrRequiredTogether  = errors.New("required-together violation")
	ErrMutuallyExclusive = errors.New("mutually-exclusive violation")
	ErrDuplicateID       = errors.New("duplicate floating field id")
	ErrMissingID         = errors.New("floating field id missing")
	ErrInvalidPostType   = errors.New("invalid post type")
	ErrNullField         = errors.New("null positional field")
	ErrUnknownField      = errors.New("unknown field")
	ErrOutOfRange        = errors.New("value out of range")
)

// Error describes a codec failure.
type Error struct {
	// Kind is one of the sentinel errors of this package.
	Kind error

	// Fields names the offending field(s). The first entry is the field the
	// failure was detected on.
	Fields []string

	// Value is the offending value, if useful.
	Value string

	// Detail is an optional human-readable explanation.
	Detail string
}

// Errorf builds an *Error for a single field.
func Errorf(kind error, name, value, format string, args ...any) *Error {
	return &Error{
		Kind:   kind,
		Fields: []string{name},
		Value:  value,
		Detail: fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Kind.Error())
	if len(e.Fields) > 0 {
		b.WriteString(": ")
		b.WriteString(strings.Join(e.Fields, ", "))
	}
	if e.Value != "" {
		fmt.Fprintf(&b, " (value %q)", e.Value)
	}
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	return b.String()
}

// Unwrap exposes the Kind to errors.Is.
func (e *Error) Unwrap() error { return e.Kind }
