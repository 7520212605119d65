package g68

import (
	"strconv"
	"strings"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Line is a parsed G68 line.
type Line struct {
	Site            int64
	LineNumber      int64
	TransactionType TransactionType
	Floating        []field.Floating
}

// Parse reads a G68 line back into typed fields. Floating fields are checked
// against the registry: unknown ids fail with ErrUnknownField and values are
// validated as on serialization.
func Parse(line string) (*Line, error) {
	fixedWidth := fixedLayout.Width()
	if len([]rune(line)) < fixedWidth {
		return nil, field.Errorf(field.ErrWrongType, "G68", line, "line is shorter than the fixed section (%d)", fixedWidth)
	}
	raw := fixedLayout.Parse(line)

	if raw[interfaceTypeSpec.Name] != InterfaceType {
		return nil, field.Errorf(field.ErrWrongType, interfaceTypeSpec.Name, raw[interfaceTypeSpec.Name], "not a G68 line")
	}
	site, err := siteSpec.Parse(raw[siteSpec.Name])
	if err != nil {
		return nil, err
	}
	lineNo, err := lineNoSpec.Parse(raw[lineNoSpec.Name])
	if err != nil {
		return nil, err
	}
	txType, err := transactionTypeSpec.Parse(raw[transactionTypeSpec.Name])
	if err != nil {
		return nil, err
	}
	if _, err := floatingMarkerSpec.Parse(raw[floatingMarkerSpec.Name]); err != nil {
		return nil, err
	}

	out := &Line{
		Site:            site.IntValue(),
		LineNumber:      lineNo.IntValue(),
		TransactionType: TransactionType(txType.IntValue()),
	}

	rest := string([]rune(line)[fixedWidth:])
	if rest == "" {
		return out, nil
	}
	if !strings.HasPrefix(rest, "&") {
		return nil, field.Errorf(field.ErrWrongType, "G68", rest, "floating section must start with '&'")
	}
	for _, seg := range strings.Split(rest[1:], "&") {
		f, err := parseFloating(seg)
		if err != nil {
			return nil, err
		}
		out.Floating = append(out.Floating, f)
	}
	return out, nil
}

func parseFloating(seg string) (field.Floating, error) {
	if len(seg) < 2 {
		return field.Floating{}, field.Errorf(field.ErrMissingID, "G68", seg, "floating field without id")
	}
	id, err := strconv.Atoi(seg[:2])
	if err != nil {
		return field.Floating{}, field.Errorf(field.ErrMissingID, "G68", seg, "id must be two digits")
	}
	fs, ok := registry.Lookup(id)
	if !ok {
		return field.Floating{}, field.Errorf(field.ErrUnknownField, "G68", seg[:2], "no floating field type has this id")
	}
	f, err := fs.Parse(seg[2:])
	if err != nil {
		return field.Floating{}, err
	}
	return fs.FloatAt(id, f)
}

// Lookup returns the first floating field with the given id.
func (l *Line) Lookup(id int) (field.Floating, bool) {
	for _, f := range l.Floating {
		if f.ID() == id {
			return f, true
		}
	}
	return field.Floating{}, false
}

// AmountKr is the signed amount in whole kroner.
func (l *Line) AmountKr() int64 {
	amount, _ := l.Lookup(Amount.ID)
	kr := amount.IntValue() / 100
	if sign, ok := l.Lookup(Sign.ID); ok && sign.TextValue() == "-" {
		kr = -kr
	}
	return kr
}

// Text joins the payment text lines back together.
func (l *Line) Text() string {
	var b strings.Builder
	for _, f := range l.Floating {
		if TextLine.Owns(f.ID()) {
			b.WriteString(f.TextValue())
		}
	}
	return b.String()
}
