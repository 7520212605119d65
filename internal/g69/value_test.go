package g69

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

func TestFormatAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"123.45", "12345 "},
		{"123.456", "12345 "},
		{"-123.45", "12345-"},
		{"-0.5", "50-"},
		{"-0.001", "0 "},
		{"0", "0 "},
		{"100", "10000 "},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatAmount(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		field string
		raw   string
		want  Value
	}{
		{"int", "maskinnr", " 123 ", Int(123)},
		{"string", "kaldenavn", "test", Str("test")},
		{"iso date", "post_dato", "2022-03-11", Date(time.Date(2022, 3, 11, 0, 0, 0, 0, time.UTC))},
		{"compact date", "post_dato", "20220311", Date(time.Date(2022, 3, 11, 0, 0, 0, 0, time.UTC))},
		{"alias", "is_cvr", "true", Bool(true)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.field, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("decimal with comma", func(t *testing.T) {
		got, err := ParseValue("beløb", "123,45")
		require.NoError(t, err)
		assert.True(t, decimal.RequireFromString("123.45").Equal(got.DecValue()))
	})

	errs := []struct {
		field   string
		raw     string
		wantErr error
	}{
		{"maskinnr", "12x", field.ErrWrongType},
		{"beløb", "abc", field.ErrWrongType},
		{"post_dato", "11/03/2022", field.ErrWrongType},
		{"is_debet", "maybe", field.ErrWrongType},
		{"unknown", "1", field.ErrUnknownField},
	}
	for _, tt := range errs {
		t.Run(tt.field+" "+tt.raw, func(t *testing.T) {
			_, err := ParseValue(tt.field, tt.raw)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLookup(t *testing.T) {
	d, ok := Lookup("beløb")
	require.True(t, ok)
	assert.Equal(t, 112, d.Code)
	assert.Equal(t, TypeDecimal, d.Type)

	_, ok = Lookup("is_cvr")
	assert.False(t, ok, "aliases are not fields")

	assert.Equal(t,
		[]string{"maskinnr", "eks_løbenr", "post_dato", "kontonr", "beløb", "deb_kred"},
		RequiredFields())
}
