package tenq

import (
	"strings"
	"testing"

	"github.com/Rhymond/go-money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

func TestParse_RoundTrip(t *testing.T) {
	w := newTestWriter(t)
	out, err := w.SerializeTransaction(NewTransaction("1234567890", 1000, testKey, "Testing\r\nwith\r\nlines"))
	require.NoError(t, err)

	recs := Parse(out)
	require.Len(t, recs, 5)

	person := recs[0]
	assert.Equal(t, TypePerson, person.TransType)
	assert.Equal(t, " 10Q", person.Fields[ColSupplierIdent])
	assert.Equal(t, "1234567890", person.Value(ColPersonNo))
	assert.Equal(t, "022", person.Value(ColAreaNo))

	terms := recs[1]
	assert.Equal(t, TypeTerms, terms.TransType)
	assert.Equal(t, testKey, terms.Value(ColReconciliation))
	assert.Equal(t, "0000100000+", terms.Fields[ColRateAmount])
	assert.Equal(t, strings.Repeat(" ", 35), terms.Fields[ColInvoiceNo])

	amount, err := terms.Amount(ColRateAmount)
	require.NoError(t, err)
	assert.Equal(t, int64(100000), amount.Amount())
	assert.Equal(t, money.DKK, amount.Currency().Code)

	due, err := terms.Date(ColDueDate)
	require.NoError(t, err)
	assert.Equal(t, day(2022, 2, 18), due)

	paid, err := terms.Date(ColPaymentDate)
	require.NoError(t, err)
	assert.Equal(t, day(2022, 2, 21), paid)

	year, err := terms.Int(ColTaxYear)
	require.NoError(t, err)
	assert.Equal(t, int64(2022), year)

	for i, text := range []string{"Testing", "with", "lines"} {
		rec := recs[2+i]
		assert.Equal(t, TypeText, rec.TransType)
		assert.Equal(t, text, rec.Fields[ColRateText])
		n, err := rec.Int(ColLineNumber)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), n)
	}
}

func TestParse_SkipsUnknownLines(t *testing.T) {
	recs := Parse(" 10Q99garbage\r\n\r\n" + wantLines[0])
	require.Len(t, recs, 1)
	assert.Equal(t, TypePerson, recs[0].TransType)
}

func TestParseAmount(t *testing.T) {
	m, err := ParseAmount("x", "0000000500-")
	require.NoError(t, err)
	assert.Equal(t, int64(-500), m.Amount())

	for _, bad := range []string{"", "+", "00000005x0+", "0000000500*"} {
		_, err := ParseAmount("x", bad)
		assert.ErrorIs(t, err, field.ErrWrongType, "%q", bad)
	}
}

func TestTransTypeOf(t *testing.T) {
	assert.Equal(t, "24", TransTypeOf(" 10Q24..."))
	assert.Equal(t, "2", TransTypeOf(" 10Q2"))
	assert.Equal(t, "", TransTypeOf("abc"))
}
