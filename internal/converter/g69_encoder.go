package converter

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/g69"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
)

// G69ColPostType overrides the profile post type for one row.
const G69ColPostType = "post_type"

// g69Amount is the field summed into Record.AmountOre.
const g69Amount = "beløb"

var g69AliasNames = func() map[string]bool {
	m := make(map[string]bool, len(g69.Aliases))
	for _, a := range g69.Aliases {
		m[a.Name] = true
	}
	return m
}()

// g69Schema accepts every G69 field and alias as a column. deb_kred is not
// required here since the is_debet and is_kredit aliases can supply it.
var g69Schema = func() validation.Schema {
	s := validation.Schema{WarnUnknown: true}
	for _, d := range g69.Fields {
		rule := validation.FieldRule{
			Name:     d.Name,
			Required: d.Required && d.Name != "deb_kred",
		}
		switch d.Type {
		case g69.TypeInt:
			rule.DataType = validation.TypeInteger
		case g69.TypeDecimal:
			rule.DataType = validation.TypeDecimal
		case g69.TypeDate:
			rule.DataType = validation.TypeDate
		default:
			rule.DataType = validation.TypeString
			rule.MaxLength = d.Width
		}
		s.Fields = append(s.Fields, rule)
	}
	for _, a := range g69.Aliases {
		s.Fields = append(s.Fields, validation.FieldRule{Name: a.Name, DataType: validation.TypeBoolean})
	}
	s.Fields = append(s.Fields, validation.FieldRule{Name: G69ColPostType, DataType: validation.TypeString, MaxLength: 3})
	return s
}()

// G69Encoder writes one G69 record per row, or a debit/credit pair when the
// profile asks for pairs.
type G69Encoder struct {
	writer   *g69.Writer
	postType string
	pairs    bool
}

// NewG69Encoder creates an encoder with a new G69 writer.
func NewG69Encoder(settings config.G69Settings) (*G69Encoder, error) {
	postType := settings.PostType
	if postType == "" {
		postType = g69.PostNormal
	}
	postType, err := g69.NormalizePostType(postType)
	if err != nil {
		return nil, err
	}
	w, err := g69.NewWriter(settings.Registreringssted, settings.Organisationsenhed)
	if err != nil {
		return nil, err
	}
	return &G69Encoder{writer: w, postType: postType, pairs: settings.WritePairs}, nil
}

func (e *G69Encoder) Format() string { return config.FormatG69 }

func (e *G69Encoder) Schema() validation.Schema { return g69Schema }

// Encode converts the row cells to G69 values and serializes them.
func (e *G69Encoder) Encode(row types.Row) (Record, error) {
	values, err := g69Values(row)
	if err != nil {
		return Record{}, err
	}

	postType := e.postType
	if row.Has(G69ColPostType) {
		postType = row.Get(G69ColPostType)
	}

	var amount int64
	if v, ok := values[g69Amount]; ok {
		amount = v.DecValue().Mul(decimal.NewFromInt(100)).Truncate(0).IntPart()
	}

	if e.pairs {
		text, err := e.writer.SerializeTransactionPair(postType, values)
		if err != nil {
			return Record{}, err
		}
		return Record{Text: text, Lines: 2, AmountOre: amount}, nil
	}

	text, err := e.writer.SerializeTransaction(postType, values)
	if err != nil {
		return Record{}, err
	}
	return Record{Text: text, Lines: 1, AmountOre: amount}, nil
}

// g69Values converts the non-empty G69 cells of a row. Columns that are not
// G69 fields or aliases are skipped; the validator warns about them.
func g69Values(row types.Row) (g69.Values, error) {
	names := make([]string, 0, len(row.Fields))
	for name := range row.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	values := make(g69.Values, len(names))
	for _, name := range names {
		raw := row.Fields[name]
		if raw == "" || name == G69ColPostType {
			continue
		}

		decl, known := g69.Lookup(name)
		switch {
		case known && decl.Type == g69.TypeDate:
			t, err := parseDate(row, name)
			if err != nil {
				return nil, err
			}
			values[name] = g69.Date(t)
		case known || g69AliasNames[name]:
			v, err := g69.ParseValue(name, raw)
			if err != nil {
				return nil, err
			}
			values[name] = v
		}
	}
	return values, nil
}
