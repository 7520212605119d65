// =============================================================================
// Prisme Transactions - G68 Transaction
// =============================================================================

package g68

import (
	"strings"
	"time"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Payment is the input for one G68 line.
type Payment struct {
	Type          TransactionType
	RecipientType RecipientType

	// Recipient is the CPR, CVR, SE or creditor account number, digits only.
	Recipient string

	// AmountKr is the signed amount in whole kroner.
	AmountKr int64

	PaymentDate time.Time
	PostingDate time.Time

	// Text is the free-form payment text, wrapped into text lines.
	Text string
}

// Transaction is an assembled G68 line: the fixed section followed by the
// floating fields.
type Transaction struct {
	Fixed    []field.Field
	Floating []field.Floating
}

// newTransaction builds every field of a G68 line. Nothing is serialized
// yet; a field that fails its own validation aborts assembly.
func newTransaction(w *Writer, lineNo int64, p Payment) (*Transaction, error) {
	iface, err := interfaceTypeSpec.Text(InterfaceType)
	if err != nil {
		return nil, err
	}
	line, err := lineNoSpec.Int(lineNo)
	if err != nil {
		return nil, err
	}
	txType, err := transactionTypeSpec.Int(int64(p.Type))
	if err != nil {
		return nil, err
	}
	marker, err := floatingMarkerSpec.Int(1)
	if err != nil {
		return nil, err
	}

	t := &Transaction{Fixed: []field.Field{w.site, iface, line, txType, marker}}

	orgType, err := OrgType.Int(0)
	if err != nil {
		return nil, err
	}
	outIdent, err := OutIdent.Int(0)
	if err != nil {
		return nil, err
	}
	amount, err := NewAmount(p.AmountKr)
	if err != nil {
		return nil, err
	}
	sign, err := NewSign(SignOf(p.AmountKr))
	if err != nil {
		return nil, err
	}
	kind, err := RecipientKind.Int(int64(p.RecipientType))
	if err != nil {
		return nil, err
	}
	recipient, err := NewRecipient(p.Recipient)
	if err != nil {
		return nil, err
	}
	payDate, err := PaymentDate.Time(p.PaymentDate)
	if err != nil {
		return nil, err
	}
	postingDate, err := postingDateSpec.Time(p.PostingDate)
	if err != nil {
		return nil, err
	}
	ref, err := NewPostingReference(postingDate, w.machineNo, line)
	if err != nil {
		return nil, err
	}
	text, err := TextLines(p.Text)
	if err != nil {
		return nil, err
	}

	t.Floating = append(t.Floating,
		w.orgUnit,
		OrgType.Float(orgType),
		OutIdent.Float(outIdent),
		amount,
		sign,
		RecipientKind.Float(kind),
		recipient,
		PaymentDate.Float(payDate),
		ref,
	)
	t.Floating = append(t.Floating, text...)
	return t, nil
}

// Serialize validates that all required floating fields are present and
// renders the line: fixed fields concatenated, then floating fields in
// ascending id order.
func (t *Transaction) Serialize() (string, error) {
	if err := registry.ValidateRequired(t.Floating); err != nil {
		return "", err
	}
	floating := append([]field.Floating(nil), t.Floating...)
	field.SortByID(floating)

	var b strings.Builder
	for _, f := range t.Fixed {
		b.WriteString(f.Serialized())
	}
	for _, f := range floating {
		b.WriteString(f.Serialized())
	}
	return b.String(), nil
}
