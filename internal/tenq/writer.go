// =============================================================================
// Prisme Transactions - 10Q Writer
// =============================================================================
//
// A Writer holds the context shared by every line it produces: supplier,
// timestamp, tax year, area and the derived dates. SerializeTransaction adds
// the per-call values (debtor, amount, reconciliation key, text) and renders
// one type 10 line, one type 24 line and one type 26 line per text line,
// joined with CRLF.
//
// DATE DEFAULTS:
//   creation date      due date
//   period             Jan 1 - Dec 31 of the tax year
//   last payment date  derived from the due date (see LastPaymentDateFromDueDate)
//   collection date    last payment date
//   interest-free date last payment date
//
// The writer holds no counters, so it may be shared between goroutines.
//
// =============================================================================

package tenq

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

const timestampLayout = "200601021504"

// Options configures a Writer. DueDate, Year and SupplierIdent are
// required; zero values of the other fields select the defaults.
type Options struct {
	DueDate       time.Time
	Year          int
	SupplierIdent string

	// Timestamp defaults to the current time in UTC. It is written as is,
	// without time zone conversion.
	Timestamp time.Time

	PeriodFrom       time.Time
	PeriodTo         time.Time
	CreationDate     time.Time
	InvoiceNo        string
	UserNo           string
	PaymentKind      string
	LastPaymentDate  time.Time
	CollectionDate   time.Time
	InterestFreeDate time.Time

	// AreaNo defaults to the tax year; its last three digits are used.
	AreaNo int
}

// Writer serializes 10Q transaction groups.
type Writer struct {
	common map[string]string
}

// NewWriter applies defaults to opts and prepares the shared line values.
func NewWriter(opts Options) (*Writer, error) {
	switch {
	case opts.DueDate.IsZero():
		return nil, field.Errorf(field.ErrNullField, ColDueDate, "", "due date is required")
	case opts.Year <= 0:
		return nil, field.Errorf(field.ErrNullField, ColTaxYear, "", "year is required")
	case opts.SupplierIdent == "":
		return nil, field.Errorf(field.ErrNullField, ColSupplierIdent, "", "supplier ident is required")
	}

	if opts.Timestamp.IsZero() {
		opts.Timestamp = time.Now().UTC()
	}
	if opts.CreationDate.IsZero() {
		opts.CreationDate = opts.DueDate
	}
	if opts.PeriodFrom.IsZero() {
		opts.PeriodFrom = time.Date(opts.Year, time.January, 1, 0, 0, 0, 0, time.UTC)
	}
	if opts.PeriodTo.IsZero() {
		opts.PeriodTo = time.Date(opts.Year, time.December, 31, 0, 0, 0, 0, time.UTC)
	}
	if opts.UserNo == "" {
		opts.UserNo = defaultUserNo
	}
	if opts.PaymentKind == "" {
		opts.PaymentKind = defaultPaymentKind
	}
	if opts.AreaNo == 0 {
		opts.AreaNo = opts.Year
	}
	if opts.LastPaymentDate.IsZero() {
		opts.LastPaymentDate = LastPaymentDateFromDueDate(opts.DueDate)
	}
	if opts.CollectionDate.IsZero() {
		opts.CollectionDate = opts.LastPaymentDate
	}
	if opts.InterestFreeDate.IsZero() {
		opts.InterestFreeDate = opts.LastPaymentDate
	}

	return &Writer{common: map[string]string{
		ColSupplierIdent: opts.SupplierIdent,
		ColTimestamp:     "0" + opts.Timestamp.Format(timestampLayout),
		ColAreaNo:        FormatAreaNo(opts.AreaNo),
		ColTaxYear:       strconv.Itoa(opts.Year),
		ColUserNo:        opts.UserNo,
		ColPaymentKind:   opts.PaymentKind,
		ColInvoiceNo:     opts.InvoiceNo,

		// The 10Q names of these dates do not match their meaning in
		// Prisme; this assignment gives the right data in Prisme.
		ColCollectionDate: opts.CollectionDate.Format(field.DateLayout),
		ColDueDate:        opts.DueDate.Format(field.DateLayout),
		ColPaymentDate:    opts.LastPaymentDate.Format(field.DateLayout),
		ColInterestDate:   opts.InterestFreeDate.Format(field.DateLayout),
		ColCreationDate:   opts.CreationDate.Format(field.DateLayout),
		ColPeriodFrom:     opts.PeriodFrom.Format(field.DateLayout),
		ColPeriodTo:       opts.PeriodTo.Format(field.DateLayout),
	}}, nil
}

// Transaction holds the per-call values of one 10Q group. Use
// NewTransaction to get the defaults for the coded fields.
type Transaction struct {
	// DebtorID is the CPR or CVR number; it is zero-filled to 10 digits.
	DebtorID          string
	AmountKr          int64
	ReconciliationKey string

	// RateText is split into lines; each line becomes one type 26 line.
	RateText string

	CaseNo          int
	IndividType     int
	RateNo          int
	AmountType      int
	InterestFreeOre int64
	CollectionCode  int
}

// NewTransaction returns a transaction with the default coded fields:
// case 0, individ type 20, rate 999, amount type 1, no interest-free amount
// and collection code 1.
func NewTransaction(debtorID string, amountKr int64, reconciliationKey, rateText string) Transaction {
	return Transaction{
		DebtorID:          debtorID,
		AmountKr:          amountKr,
		ReconciliationKey: reconciliationKey,
		RateText:          rateText,
		IndividType:       20,
		RateNo:            999,
		AmountType:        1,
		CollectionCode:    1,
	}
}

// SerializeTransaction renders the line group of one transaction.
func (w *Writer) SerializeTransaction(t Transaction) (string, error) {
	amountOre, err := field.KronerToOre(ColRateAmount, t.AmountKr)
	if err != nil {
		return "", err
	}

	values := make(map[string]string, len(w.common)+12)
	for k, v := range w.common {
		values[k] = v
	}
	values[ColDebtorNo] = field.Zfill(t.DebtorID, 10)
	values[ColPersonNo] = field.Zfill(t.DebtorID, 10)
	values[ColRateAmount] = FormatAmount(amountOre)
	values[ColReconciliation] = t.ReconciliationKey
	values[ColCaseNo] = zeroPad(t.CaseNo, 2)
	values[ColIndividType] = zeroPad(t.IndividType, 2)
	values[ColRateNo] = zeroPad(t.RateNo, 3)
	values[ColAmountType] = strconv.Itoa(t.AmountType)
	values[ColInterestFree] = FormatAmount(t.InterestFreeOre)
	values[ColCollectionCode] = strconv.Itoa(t.CollectionCode)

	lines := make([]string, 0, 3)
	for _, tt := range []struct {
		code   string
		layout field.Layout
	}{
		{TypePerson, PersonLayout},
		{TypeTerms, TermsLayout},
	} {
		values[ColTransType] = tt.code
		line, err := tt.layout.Format(values)
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}

	values[ColTransType] = TypeText
	for i, text := range SplitLines(t.RateText) {
		if n := utf8.RuneCountInString(text); n > rateTextWidth {
			return "", field.Errorf(field.ErrTooLong, ColRateText, text, "wider than %d characters", rateTextWidth)
		}
		values[ColLineNumber] = zeroPad(i+1, 3)
		line, err := TextLayout.Format(values)
		if err != nil {
			return "", err
		}
		lines = append(lines, line+text)
	}

	return strings.Join(lines, "\r\n"), nil
}

// FormatAmount renders an amount in øre as ten zero-padded digits followed
// by a sign: 100000 -> "0000100000+".
func FormatAmount(ore int64) string {
	sign := "+"
	if ore < 0 {
		sign = "-"
		ore = -ore
	}
	return field.PadLeft(strconv.FormatInt(ore, 10), 10, '0') + sign
}

// FormatAreaNo keeps the last three digits of n, zero-filled.
func FormatAreaNo(n int) string {
	s := strconv.Itoa(n)
	if len(s) > 3 {
		s = s[len(s)-3:]
	}
	return field.Zfill(s, 3)
}

func zeroPad(n, width int) string {
	return field.PadLeft(strconv.Itoa(n), width, '0')
}

// SplitLines splits text at line boundaries (\n, \r, \r\n and the other
// Unicode line separators). A trailing line break does not start a new line.
func SplitLines(text string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !isLineBreak(r) {
			i += size
			continue
		}
		lines = append(lines, text[start:i])
		i += size
		if r == '\r' && i < len(text) && text[i] == '\n' {
			i++
		}
		start = i
	}
	if start < len(text) {
		lines = append(lines, text[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}
