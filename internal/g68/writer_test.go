package g68

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const paymentText = "Denne måneds udbetaling af beskæftigelsestilskud sker ud fra en forventet " +
	"samlet årsindkomst på 324.178 kr. og er baseret på din A- og B-indkomst i 2023."

func TestWriter_SerializeTransaction(t *testing.T) {
	w, err := NewWriter(0, 0)
	require.NoError(t, err)

	line, err := w.SerializeTransaction(Payment{
		Type:          AndenDestinationTilladt,
		RecipientType: CPR,
		Recipient:     "0101012222",
		AmountKr:      1234,
		PaymentDate:   date(2020, 1, 27),
		PostingDate:   date(2020, 2, 1),
		Text:          paymentText,
	})
	require.NoError(t, err)

	want := "000G6800001011" +
		"&020000&0300&07000000000000000000&0800000123400&09+&1002&1100000101012222" +
		"&1220200127&16202002010000000001" +
		"&40Denne måneds udbetaling af beskæftigelsestilskud sker ud fra en forventet samlet " +
		"&41årsindkomst på 324.178 kr. og er baseret på din A- og B-indkomst i 2023."
	assert.Equal(t, want, line)
	assert.Equal(t, int64(2), w.LineNumber(), "line number is the next one to be used")

	line, err = w.SerializeTransaction(Payment{
		Type:          TvungenDestination,
		RecipientType: CVR,
		Recipient:     "12345678",
		AmountKr:      50,
		PaymentDate:   date(2021, 5, 3),
		PostingDate:   date(2021, 5, 1),
		Text:          "kort",
	})
	require.NoError(t, err)
	assert.Equal(t,
		"000G6800002101&020000&0300&07000000000000000000&0800000005000&09+&1011&1100000012345678"+
			"&1220210503&16202105010000000002&40kort",
		line)
}

func TestWriter_NegativeAmount(t *testing.T) {
	w, err := NewWriter(1, 2, WithMachineNumber(7))
	require.NoError(t, err)

	line, err := w.SerializeTransaction(Payment{
		Type:          AndenDestinationTilladt,
		RecipientType: CPR,
		Recipient:     "0101012222",
		AmountKr:      -42,
		PaymentDate:   date(2020, 1, 27),
		PostingDate:   date(2020, 2, 1),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "001G6800001011&020002"))
	assert.Contains(t, line, "&0800000004200&09-&")
	assert.Contains(t, line, "&16202002010000700001")
	assert.NotContains(t, line, "&40", "empty text produces no text lines")
}

func TestWriter_FailureKeepsLineNumber(t *testing.T) {
	w, err := NewWriter(0, 0)
	require.NoError(t, err)

	valid := Payment{
		Type:          AndenDestinationTilladt,
		RecipientType: CPR,
		Recipient:     "0101012222",
		AmountKr:      1,
		PaymentDate:   date(2020, 1, 27),
		PostingDate:   date(2020, 2, 1),
	}

	tests := []struct {
		name    string
		mutate  func(p *Payment)
		wantErr error
	}{
		{"recipient not digits", func(p *Payment) { p.Recipient = "abc" }, field.ErrWrongType},
		{"recipient too long", func(p *Payment) { p.Recipient = "123456789012345" }, field.ErrTooLong},
		{"amount too large", func(p *Payment) { p.AmountKr = 1_000_000_000 }, field.ErrTooLong},
		{"amount overflows øre", func(p *Payment) { p.AmountKr = 184467440737095517 }, field.ErrTooLong},
		{"negative amount overflows øre", func(p *Payment) { p.AmountKr = math.MinInt64 }, field.ErrTooLong},
		{"illegal character in text", func(p *Payment) { p.Text = "pay & go" }, field.ErrIllegalCharacter},
		{"unknown transaction type", func(p *Payment) { p.Type = 5 }, field.ErrOutOfRange},
		{"unknown recipient type", func(p *Payment) { p.RecipientType = 4 }, field.ErrOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			_, err := w.SerializeTransaction(p)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, int64(1), w.LineNumber())
		})
	}

	line, err := w.SerializeTransaction(valid)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "000G6800001"), "first successful line is number 1")
}

func TestWriter_SerializeTransactions(t *testing.T) {
	w, err := NewWriter(0, 0)
	require.NoError(t, err)

	p := Payment{
		Type:          AndenDestinationTilladt,
		RecipientType: SE,
		Recipient:     "12345678",
		AmountKr:      10,
		PaymentDate:   date(2020, 1, 27),
		PostingDate:   date(2020, 2, 1),
	}
	bad := p
	bad.Recipient = "x"

	lines, failed, err := w.SerializeTransactions([]Payment{p, p, bad, p})
	assert.Error(t, err)
	assert.Equal(t, 2, failed)
	assert.Len(t, lines, 2)
	assert.Equal(t, int64(3), w.LineNumber())

	w.ResetLineNumber()
	line, err := w.SerializeTransaction(p)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(line, "000G6800001"))
}

func TestNewWriter_Validation(t *testing.T) {
	_, err := NewWriter(1000, 0)
	assert.ErrorIs(t, err, field.ErrTooLong)

	_, err = NewWriter(0, 10000)
	assert.ErrorIs(t, err, field.ErrTooLong)

	_, err = NewWriter(0, 0, WithMachineNumber(123456))
	assert.ErrorIs(t, err, field.ErrTooLong)
}

func TestTransaction_Idempotent(t *testing.T) {
	w, err := NewWriter(3, 4, WithMachineNumber(5))
	require.NoError(t, err)

	p := Payment{
		Type:          TvungenDestination,
		RecipientType: CVR,
		Recipient:     "12345678",
		AmountKr:      -77,
		PaymentDate:   date(2022, 3, 1),
		PostingDate:   date(2022, 2, 28),
		Text:          paymentText,
	}

	first, err := newTransaction(w, 1, p)
	require.NoError(t, err)
	second, err := newTransaction(w, 1, p)
	require.NoError(t, err)

	a, err := first.Serialize()
	require.NoError(t, err)
	b, err := second.Serialize()
	require.NoError(t, err)
	assert.Equal(t, a, b)

	again, err := first.Serialize()
	require.NoError(t, err)
	assert.Equal(t, a, again, "serializing twice gives the same line")
	assert.Equal(t, int64(1), w.LineNumber(), "building transactions does not advance the writer")
}

func TestTransaction_RequiredFields(t *testing.T) {
	w, err := NewWriter(0, 0)
	require.NoError(t, err)

	tx, err := newTransaction(w, 1, Payment{
		Type:          AndenDestinationTilladt,
		RecipientType: CPR,
		Recipient:     "1",
		PaymentDate:   date(2020, 1, 1),
		PostingDate:   date(2020, 1, 1),
	})
	require.NoError(t, err)

	// Drop Udbetalingsberettiget.
	kept := tx.Floating[:0]
	for _, f := range tx.Floating {
		if f.ID() != Recipient.ID {
			kept = append(kept, f)
		}
	}
	tx.Floating = kept

	_, err = tx.Serialize()
	assert.ErrorIs(t, err, field.ErrMissingRequired)
	assert.Contains(t, err.Error(), "Udbetalingsberettiget")
}

func TestTextLines(t *testing.T) {
	lines, err := TextLines(strings.Repeat("abc 123 foo", 1000))
	require.NoError(t, err)
	require.Len(t, lines, 36)

	assert.Equal(t, 40, lines[0].ID())
	assert.Equal(t, 75, lines[35].ID())
	assert.Equal(t, "abc 123 fooabc 123 fooabc 123 fooabc 123 fooabc 123 fooabc 123 fooabc 123 fooabc ", lines[0].TextValue())
	assert.True(t, strings.HasSuffix(lines[35].TextValue(), "fooabc [...]"))
	for _, l := range lines {
		assert.LessOrEqual(t, len([]rune(l.TextValue())), 81)
	}

	lines, err = TextLines("")
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, err = TextLines("a!b")
	assert.ErrorIs(t, err, field.ErrIllegalCharacter)
}

func TestRegistry(t *testing.T) {
	fs, ok := Registry().Lookup(57)
	require.True(t, ok)
	assert.Equal(t, TextLine.Name, fs.Name)

	_, ok = Registry().Lookup(4)
	assert.False(t, ok)
}
