// =============================================================================
// Prisme Transactions - G68 Field Declarations
// =============================================================================
//
// G68 is the payment-instruction format: one line per outgoing payment.
//
// LINE STRUCTURE:
//   fixed fields     Registreringssted(3) Snitfladetype(3) Linjeløbenummer(5)
//                    Transaktionstype(2)
//   marker           FlydendeEllerFast(1) = "1"
//   floating fields  &NN<value>, ascending by id
//
// FLOATING FIELD IDS:
//   02 Organisationsenhed               12 Udbetalingsdato
//   03 Organisationstype                16 Posteringshenvisning (required)
//   07 UdIdent (required)               40-75 BetalingstekstLinje
//   08 Udbetalingsbeløb (required)
//   09 Fortegnsmarkering (required)
//   10 UdbetalingsberettigetIdentKode (required)
//   11 Udbetalingsberettiget (required)
//
// =============================================================================

package g68

import (
	"strconv"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// InterfaceType is the constant Snitfladetype of every G68 line.
const InterfaceType = "G68"

// TransactionType is the Transaktionstype of a payment.
type TransactionType int64

const (
	AndenDestinationTilladt TransactionType = 1
	TvungenDestination      TransactionType = 10
)

// RecipientType identifies what kind of number Udbetalingsberettiget holds.
type RecipientType int64

const (
	KreditorKontonummer RecipientType = 1
	CPR                 RecipientType = 2
	SE                  RecipientType = 3
	CVR                 RecipientType = 11
)

// =============================================================================
// FIXED FIELDS
// =============================================================================

var (
	siteSpec            = field.Spec{Name: "Registreringssted", Kind: field.ZeroPaddedNumeric, Length: 3}
	interfaceTypeSpec   = field.Spec{Name: "Snitfladetype", Kind: field.String, Length: 3}
	lineNoSpec          = field.Spec{Name: "Linjeløbenummer", Kind: field.ZeroPaddedNumeric, Length: 5}
	transactionTypeSpec = field.Spec{
		Name:     "Transaktionstype",
		Kind:     field.Enum,
		Length:   2,
		Ordinals: []int64{int64(AndenDestinationTilladt), int64(TvungenDestination)},
	}
	floatingMarkerSpec = field.Spec{Name: "FlydendeEllerFast", Kind: field.Numeric, Length: 1}

	// Components of Posteringshenvisning.
	postingDateSpec = field.Spec{Name: "Posteringsdato", Kind: field.Date, Length: 8}
	machineNoSpec   = field.Spec{Name: "Maskinnummer", Kind: field.ZeroPaddedNumeric, Length: 5}
)

// fixedLayout locates the fixed section for parsing.
var fixedLayout = field.Layout{
	field.Col(siteSpec.Name, siteSpec.Length),
	field.Col(interfaceTypeSpec.Name, interfaceTypeSpec.Length),
	field.Col(lineNoSpec.Name, lineNoSpec.Length),
	field.Col(transactionTypeSpec.Name, transactionTypeSpec.Length),
	field.Col(floatingMarkerSpec.Name, floatingMarkerSpec.Length),
}

// =============================================================================
// FLOATING FIELDS
// =============================================================================

var (
	OrgUnit = field.FloatingSpec{
		Spec: field.Spec{Name: "Organisationsenhed", Kind: field.ZeroPaddedNumeric, Length: 4},
		ID:   2,
	}
	OrgType = field.FloatingSpec{
		Spec: field.Spec{Name: "Organisationstype", Kind: field.ZeroPaddedNumeric, Length: 2},
		ID:   3,
	}
	OutIdent = field.FloatingSpec{
		Spec:     field.Spec{Name: "UdIdent", Kind: field.ZeroPaddedNumeric, Length: 18},
		ID:       7,
		Required: true,
	}
	Amount = field.FloatingSpec{
		Spec:     field.Spec{Name: "Udbetalingsbeløb", Kind: field.ZeroPaddedNumeric, Length: 11},
		ID:       8,
		Required: true,
	}
	Sign = field.FloatingSpec{
		Spec:     field.Spec{Name: "Fortegnsmarkering", Kind: field.String, Length: 1},
		ID:       9,
		Required: true,
	}
	RecipientKind = field.FloatingSpec{
		Spec: field.Spec{
			Name:     "UdbetalingsberettigetIdentKode",
			Kind:     field.Enum,
			Length:   2,
			Ordinals: []int64{int64(KreditorKontonummer), int64(CPR), int64(SE), int64(CVR)},
		},
		ID:       10,
		Required: true,
	}
	// Recipient is 14 wide; a CPR number uses 10 of them.
	Recipient = field.FloatingSpec{
		Spec:     field.Spec{Name: "Udbetalingsberettiget", Kind: field.ZeroPaddedNumeric, Length: 14},
		ID:       11,
		Required: true,
	}
	PaymentDate = field.FloatingSpec{
		Spec: field.Spec{Name: "Udbetalingsdato", Kind: field.Date, Length: 8},
		ID:   12,
	}
	PostingReference = field.FloatingSpec{
		Spec:     field.Spec{Name: "Posteringshenvisning", Kind: field.String, Length: 20},
		ID:       16,
		Required: true,
	}
	TextLine = field.FloatingSpec{
		Spec:  field.Spec{Name: "BetalingstekstLinje", Kind: field.String, Length: 81},
		ID:    40,
		MaxID: 75,
	}
)

// registry holds every G68 floating-field type. Building it panics on an id
// conflict, so a bad declaration stops the program before any serialization.
var registry = field.MustRegistry(
	OrgUnit,
	OrgType,
	OutIdent,
	Amount,
	Sign,
	RecipientKind,
	Recipient,
	PaymentDate,
	PostingReference,
	TextLine,
)

// Registry exposes the G68 floating-field table.
func Registry() *field.Registry { return registry }

// =============================================================================
// DOMAIN CONSTRUCTORS
// =============================================================================

// NewAmount encodes an amount in kroner as unsigned øre. The sign goes into
// a separate Fortegnsmarkering field, see NewSign.
func NewAmount(kr int64) (field.Floating, error) {
	ore, err := field.KronerToOre(Amount.Name, kr)
	if err != nil {
		return field.Floating{}, err
	}
	if ore < 0 {
		ore = -ore
	}
	f, err := Amount.Int(ore)
	if err != nil {
		return field.Floating{}, err
	}
	return Amount.Float(f), nil
}

// SignOf is "+" for amounts >= 0 and "-" otherwise.
func SignOf(kr int64) string {
	if kr < 0 {
		return "-"
	}
	return "+"
}

// NewSign builds Fortegnsmarkering, which must be "+" or "-".
func NewSign(sign string) (field.Floating, error) {
	f, err := Sign.Text(sign)
	if err != nil {
		return field.Floating{}, err
	}
	if sign != "+" && sign != "-" {
		return field.Floating{}, field.Errorf(field.ErrOutOfRange, Sign.Name, sign, "must be either '-' or '+'")
	}
	return Sign.Float(f), nil
}

// NewPostingReference concatenates posting date, machine number and line
// number into Posteringshenvisning.
func NewPostingReference(postingDate, machineNo, lineNo field.Field) (field.Floating, error) {
	f, err := PostingReference.Text(postingDate.Serialized() + machineNo.Serialized() + lineNo.Serialized())
	if err != nil {
		return field.Floating{}, err
	}
	return PostingReference.Float(f), nil
}

// NewRecipient parses a recipient identifier such as a CPR number.
func NewRecipient(id string) (field.Floating, error) {
	n, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return field.Floating{}, field.Errorf(field.ErrWrongType, Recipient.Name, id, "expected digits")
	}
	f, err := Recipient.Int(n)
	if err != nil {
		return field.Floating{}, err
	}
	return Recipient.Float(f), nil
}

// TextLines wraps text into BetalingstekstLinje fields with ids 40, 41, ...
// Text that does not fit in 36 lines is cut off.
func TextLines(text string) ([]field.Floating, error) {
	wrapped := Wrap(text, TextLine.Length, TextLine.MaxID-TextLine.ID+1)
	lines := make([]field.Floating, 0, len(wrapped))
	for i, line := range wrapped {
		f, err := TextLine.Text(line)
		if err != nil {
			return nil, err
		}
		fl, err := TextLine.FloatAt(TextLine.ID+i, f)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fl)
	}
	return lines, nil
}
