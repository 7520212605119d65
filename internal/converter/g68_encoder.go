package converter

import (
	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/g68"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
)

// G68 input columns.
const (
	G68ColTransactionType = "transaktionstype"
	G68ColRecipientType   = "modtagertype"
	G68ColRecipient       = "modtager"
	G68ColAmount          = "beloeb"
	G68ColPaymentDate     = "betalingsdato"
	G68ColPostingDate     = "bogfoeringsdato"
	G68ColText            = "tekst"
)

var g68TransactionTypes = map[string]int64{
	"anden_destination_tilladt": int64(g68.AndenDestinationTilladt),
	"tvungen_destination":       int64(g68.TvungenDestination),
}

var g68RecipientTypes = map[string]int64{
	"kreditor": int64(g68.KreditorKontonummer),
	"cpr":      int64(g68.CPR),
	"se":       int64(g68.SE),
	"cvr":      int64(g68.CVR),
}

var g68Schema = validation.Schema{
	Fields: []validation.FieldRule{
		{Name: G68ColTransactionType, DataType: validation.TypeString, Required: true},
		{Name: G68ColRecipientType, DataType: validation.TypeString, Required: true},
		{Name: G68ColRecipient, DataType: validation.TypeDigits, MaxLength: 14, Required: true},
		{Name: G68ColAmount, DataType: validation.TypeInteger, Required: true},
		{Name: G68ColPaymentDate, DataType: validation.TypeDate, Required: true},
		{Name: G68ColPostingDate, DataType: validation.TypeDate, Required: true},
		{Name: G68ColText, DataType: validation.TypeString},
	},
	WarnUnknown: true,
}

// G68Encoder writes one G68 payment line per row.
type G68Encoder struct {
	writer *g68.Writer
}

// NewG68Encoder creates an encoder with a new G68 writer.
func NewG68Encoder(settings config.G68Settings) (*G68Encoder, error) {
	var opts []g68.Option
	if settings.Maskinnummer != 0 {
		opts = append(opts, g68.WithMachineNumber(settings.Maskinnummer))
	}
	w, err := g68.NewWriter(settings.Registreringssted, settings.Organisationsenhed, opts...)
	if err != nil {
		return nil, err
	}
	return &G68Encoder{writer: w}, nil
}

func (e *G68Encoder) Format() string { return config.FormatG68 }

func (e *G68Encoder) Schema() validation.Schema { return g68Schema }

// Encode builds a payment from the row and serializes it.
func (e *G68Encoder) Encode(row types.Row) (Record, error) {
	p, err := g68Payment(row)
	if err != nil {
		return Record{}, err
	}
	line, err := e.writer.SerializeTransaction(p)
	if err != nil {
		return Record{}, err
	}
	return Record{Text: line, Lines: 1, AmountOre: p.AmountKr * 100}, nil
}

func g68Payment(row types.Row) (g68.Payment, error) {
	var p g68.Payment

	tt, err := parseCode(row, G68ColTransactionType, g68TransactionTypes)
	if err != nil {
		return p, err
	}
	rt, err := parseCode(row, G68ColRecipientType, g68RecipientTypes)
	if err != nil {
		return p, err
	}
	amount, err := parseInt(row, G68ColAmount)
	if err != nil {
		return p, err
	}
	paymentDate, err := parseDate(row, G68ColPaymentDate)
	if err != nil {
		return p, err
	}
	postingDate, err := parseDate(row, G68ColPostingDate)
	if err != nil {
		return p, err
	}

	return g68.Payment{
		Type:          g68.TransactionType(tt),
		RecipientType: g68.RecipientType(rt),
		Recipient:     row.Get(G68ColRecipient),
		AmountKr:      amount,
		PaymentDate:   paymentDate,
		PostingDate:   postingDate,
		Text:          row.Get(G68ColText),
	}, nil
}
