package converter

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/tenq"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
)

// 10Q input columns.
const (
	TenQColDebtor          = "debitor"
	TenQColAmount          = "beloeb"
	TenQColReconciliation  = "afstemningsnoegle"
	TenQColText            = "tekst"
	TenQColCaseNo          = "sagsnummer"
	TenQColIndividType     = "individ_type"
	TenQColRateNo          = "rate_nummer"
	TenQColAmountType      = "beloeb_type"
	TenQColInterestFree    = "rentefri_beloeb"
	TenQColCollectionCode  = "opkraevnings_kode"
	tenqReconciliationSize = 35
)

var tenqSchema = validation.Schema{
	Fields: []validation.FieldRule{
		{Name: TenQColDebtor, DataType: validation.TypeDigits, MaxLength: 10, Required: true},
		{Name: TenQColAmount, DataType: validation.TypeInteger, Required: true},
		{Name: TenQColReconciliation, DataType: validation.TypeString, MaxLength: tenqReconciliationSize},
		{Name: TenQColText, DataType: validation.TypeString},
		{Name: TenQColCaseNo, DataType: validation.TypeInteger, MaxLength: 2},
		{Name: TenQColIndividType, DataType: validation.TypeInteger, MaxLength: 2},
		{Name: TenQColRateNo, DataType: validation.TypeInteger, MaxLength: 3},
		{Name: TenQColAmountType, DataType: validation.TypeInteger, MaxLength: 1},
		{Name: TenQColInterestFree, DataType: validation.TypeInteger},
		{Name: TenQColCollectionCode, DataType: validation.TypeInteger, MaxLength: 1},
	},
	WarnUnknown: true,
}

// TenQEncoder writes one 10Q line group per row.
type TenQEncoder struct {
	writer *tenq.Writer

	// newKey generates reconciliation keys for rows without one.
	newKey func() string
}

// NewTenQEncoder creates an encoder with a writer built from the profile
// settings. now is the run date: it is the file timestamp and the base of
// the default due date.
func NewTenQEncoder(settings config.TenQSettings, now time.Time) (*TenQEncoder, error) {
	opts, err := tenqOptions(settings, now)
	if err != nil {
		return nil, err
	}
	w, err := tenq.NewWriter(opts)
	if err != nil {
		return nil, err
	}
	return &TenQEncoder{writer: w, newKey: newReconciliationKey}, nil
}

// newReconciliationKey returns a random UUID as 32 hex digits.
func newReconciliationKey() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")
}

func tenqOptions(s config.TenQSettings, now time.Time) (tenq.Options, error) {
	opts := tenq.Options{
		Year:          s.Year,
		SupplierIdent: s.LeverandoerIdent,
		Timestamp:     now.UTC(),
		InvoiceNo:     s.FakturaNo,
		UserNo:        s.BrugerNummer,
		PaymentKind:   s.BetalArt,
		AreaNo:        s.OmraadeNummer,
	}

	for _, d := range []struct {
		name  string
		value string
		dst   *time.Time
	}{
		{"due_date", s.DueDate, &opts.DueDate},
		{"periode_fra", s.PeriodeFra, &opts.PeriodFrom},
		{"periode_til", s.PeriodeTil, &opts.PeriodTo},
		{"oprettelses_dato", s.OprettelsesDato, &opts.CreationDate},
		{"sidste_betalings_dato", s.SidsteBetalingsDato, &opts.LastPaymentDate},
		{"opkraevnings_dato", s.OpkraevningsDato, &opts.CollectionDate},
		{"rentefri_dato", s.RentefriDato, &opts.InterestFreeDate},
	} {
		t, err := config.ParseDate(d.value)
		if err != nil {
			return opts, fmt.Errorf("10q %s: %w", d.name, err)
		}
		*d.dst = t
	}

	if opts.DueDate.IsZero() {
		opts.DueDate = tenq.DueDate(now)
	}
	if opts.Year == 0 {
		opts.Year = opts.DueDate.Year()
	}
	return opts, nil
}

func (e *TenQEncoder) Format() string { return config.Format10Q }

func (e *TenQEncoder) Schema() validation.Schema { return tenqSchema }

// Encode serializes the row as a type 10, a type 24 and one type 26 line
// per text line.
func (e *TenQEncoder) Encode(row types.Row) (Record, error) {
	t, err := e.transaction(row)
	if err != nil {
		return Record{}, err
	}
	text, err := e.writer.SerializeTransaction(t)
	if err != nil {
		return Record{}, err
	}
	return Record{
		Text:      text,
		Lines:     2 + len(tenq.SplitLines(t.RateText)),
		AmountOre: t.AmountKr * 100,
	}, nil
}

func (e *TenQEncoder) transaction(row types.Row) (tenq.Transaction, error) {
	amount, err := parseInt(row, TenQColAmount)
	if err != nil {
		return tenq.Transaction{}, err
	}

	key := strings.TrimSpace(row.Get(TenQColReconciliation))
	if key == "" {
		key = e.newKey()
	}

	t := tenq.NewTransaction(strings.TrimSpace(row.Get(TenQColDebtor)), amount, key, row.Get(TenQColText))

	for _, c := range []struct {
		name string
		dst  *int
	}{
		{TenQColCaseNo, &t.CaseNo},
		{TenQColIndividType, &t.IndividType},
		{TenQColRateNo, &t.RateNo},
		{TenQColAmountType, &t.AmountType},
		{TenQColCollectionCode, &t.CollectionCode},
	} {
		if *c.dst, err = optionalInt(row, c.name, *c.dst); err != nil {
			return tenq.Transaction{}, err
		}
	}

	if row.Has(TenQColInterestFree) {
		if t.InterestFreeOre, err = parseInt(row, TenQColInterestFree); err != nil {
			return tenq.Transaction{}, err
		}
	}
	return t, nil
}
