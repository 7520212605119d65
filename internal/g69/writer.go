// =============================================================================
// Prisme Transactions - G69 Writer
// =============================================================================
//
// SERIALIZATION STEPS:
//   1. Upper-case the post type and check it is NOR, PRI or SUP
//   2. Resolve aliases into their target fields
//   3. Check required, required-together and mutually exclusive rules
//   4. Convert, format and width-check every present field in table order
//   5. Join header and "<code><value>" segments with "&"
//
// The line number starts at 1 and advances once per successful record. It
// never resets by itself; call ResetLineNumber when starting a new file.
//
// =============================================================================

package g69

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

const (
	// InterfaceType is the Snitfladetype of every G69 record.
	InterfaceType = "G69"

	orgType    = 1
	lineFormat = "FLYD"
)

// Post types accepted by SerializeTransaction.
const (
	PostNormal   = "NOR"
	PostPriority = "PRI"
	PostSupply   = "SUP"
)

var (
	siteSpec    = field.Spec{Name: "registreringssted", Kind: field.ZeroPaddedNumeric, Length: 3}
	lineNoSpec  = field.Spec{Name: "linjenummer", Kind: field.ZeroPaddedNumeric, Length: 5}
	orgUnitSpec = field.Spec{Name: "organisationsenhed", Kind: field.ZeroPaddedNumeric, Length: 4}
	orgTypeSpec = field.Spec{Name: "organisationstype", Kind: field.ZeroPaddedNumeric, Length: 2}
)

// Writer serializes G69 records for one sender. It is not safe for
// concurrent use.
type Writer struct {
	site    field.Field
	orgUnit field.Field
	lineNo  int64
}

// NewWriter creates a writer for the given registration site and
// organisation unit.
func NewWriter(site, orgUnit int64) (*Writer, error) {
	s, err := siteSpec.Int(site)
	if err != nil {
		return nil, err
	}
	ou, err := orgUnitSpec.Int(orgUnit)
	if err != nil {
		return nil, err
	}
	return &Writer{site: s, orgUnit: ou, lineNo: 1}, nil
}

// LineNumber is the number the next record will get.
func (w *Writer) LineNumber() int64 { return w.lineNo }

// ResetLineNumber starts numbering from 1 again.
func (w *Writer) ResetLineNumber() { w.lineNo = 1 }

// NormalizePostType upper-cases postType and checks it is a known post type.
func NormalizePostType(postType string) (string, error) {
	pt := strings.ToUpper(postType)
	switch pt {
	case PostNormal, PostPriority, PostSupply:
		return pt, nil
	}
	return "", field.Errorf(field.ErrInvalidPostType, "post_type", postType, "post_type must be NOR, PRI or SUP")
}

// SerializeTransaction renders one G69 record.
func (w *Writer) SerializeTransaction(postType string, values Values) (string, error) {
	pt, err := NormalizePostType(postType)
	if err != nil {
		return "", err
	}
	resolved, err := resolveAliases(values)
	if err != nil {
		return "", err
	}
	if err := validateRules(resolved); err != nil {
		return "", err
	}

	header, err := w.header(pt)
	if err != nil {
		return "", err
	}
	segments := []string{header}
	for _, decl := range Fields {
		v, ok := resolved[decl.Name]
		if !ok {
			continue
		}
		seg, err := formatSegment(decl, v)
		if err != nil {
			return "", err
		}
		segments = append(segments, seg)
	}

	w.lineNo++
	return strings.Join(segments, "&"), nil
}

// SerializeTransactionPair renders a debit record followed by the matching
// credit record, CRLF-joined. Both records consume a line number. If either
// fails, the line number is left where it was.
func (w *Writer) SerializeTransactionPair(postType string, values Values) (string, error) {
	start := w.lineNo
	lines := make([]string, 0, 2)
	for _, debit := range []bool{true, false} {
		v := make(Values, len(values)+1)
		for name, val := range values {
			v[name] = val
		}
		delete(v, "is_kredit")
		v["is_debet"] = Bool(debit)

		line, err := w.SerializeTransaction(postType, v)
		if err != nil {
			w.lineNo = start
			side := "credit"
			if debit {
				side = "debit"
			}
			return "", fmt.Errorf("%s record: %w", side, err)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\r\n"), nil
}

func (w *Writer) header(postType string) (string, error) {
	line, err := lineNoSpec.Int(w.lineNo)
	if err != nil {
		return "", err
	}
	ot, err := orgTypeSpec.Int(orgType)
	if err != nil {
		return "", err
	}
	return w.site.Serialized() + InterfaceType + line.Serialized() +
		w.orgUnit.Serialized() + ot.Serialized() + postType + lineFormat, nil
}

// formatSegment renders "<code><value>" for one field.
func formatSegment(decl Decl, v Value) (string, error) {
	s, err := v.format(decl)
	if err != nil {
		return "", err
	}
	if strings.Contains(s, "&") {
		return "", field.Errorf(field.ErrIllegalCharacter, decl.Name, s, "may not contain &")
	}
	if n := utf8.RuneCountInString(s); n > decl.Width {
		return "", field.Errorf(field.ErrTooLong, decl.Name, s, "may not exceed length %d", decl.Width)
	}
	if decl.Pad {
		s = field.PadLeft(s, decl.Width, '0')
	}
	return fmt.Sprintf("%03d%s", decl.Code, s), nil
}
