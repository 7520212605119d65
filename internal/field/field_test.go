package field

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpec_Int(t *testing.T) {
	tests := []struct {
		name    string
		spec    Spec
		value   int64
		want    string
		wantErr error
	}{
		{"numeric", Spec{Name: "n", Kind: Numeric, Length: 100}, 42, "42", nil},
		{"numeric at length", Spec{Name: "n", Kind: Numeric, Length: 2}, 42, "42", nil},
		{"numeric too long", Spec{Name: "n", Kind: Numeric, Length: 1}, 42, "", ErrTooLong},
		{"zero padded", Spec{Name: "z", Kind: ZeroPaddedNumeric, Length: 4}, 42, "0042", nil},
		{"zero padded at length", Spec{Name: "z", Kind: ZeroPaddedNumeric, Length: 4}, 1234, "1234", nil},
		{"zero padded too long", Spec{Name: "z", Kind: ZeroPaddedNumeric, Length: 4}, 12345, "", ErrTooLong},
		{"zero padded negative", Spec{Name: "z", Kind: ZeroPaddedNumeric, Length: 5}, -42, "-0042", nil},
		{"enum", Spec{Name: "e", Kind: Enum, Length: 4, Ordinals: []int64{1, 2}}, 2, "0002", nil},
		{"enum not a member", Spec{Name: "e", Kind: Enum, Length: 4, Ordinals: []int64{1, 2}}, 3, "", ErrOutOfRange},
		{"string cannot hold int", Spec{Name: "s", Kind: String, Length: 4}, 1, "", ErrWrongType},
		{"date cannot hold int", Spec{Name: "d", Kind: Date, Length: 8}, 1, "", ErrWrongType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.spec.Int(tt.value)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, f.Serialized())
			assert.Equal(t, tt.value, f.IntValue())
		})
	}
}

func TestSpec_Text(t *testing.T) {
	spec := Spec{Name: "Tekst", Kind: String, Length: 5}

	f, err := spec.Text("abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", f.Serialized())
	assert.Equal(t, "<Tekst: abc>", f.String())

	_, err = spec.Text("æøåæø")
	assert.NoError(t, err, "length counts characters, not bytes")

	_, err = spec.Text("abcdef")
	assert.ErrorIs(t, err, ErrTooLong)

	for _, illegal := range []string{"&", "!", `\`} {
		t.Run("illegal "+illegal, func(t *testing.T) {
			_, err := spec.Text("a" + illegal)
			assert.ErrorIs(t, err, ErrIllegalCharacter)

			var fe *Error
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, []string{"Tekst"}, fe.Fields)
		})
	}
}

func TestSpec_Time(t *testing.T) {
	spec := Spec{Name: "Dato", Kind: Date, Length: 8}

	f, err := spec.Time(time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "20200229", f.Serialized())
	assert.Equal(t, "<Dato: 20200229>", f.String())

	_, err = Spec{Name: "n", Kind: Numeric, Length: 8}.Time(time.Now())
	assert.ErrorIs(t, err, ErrWrongType)
}

func TestSpec_Parse(t *testing.T) {
	date, err := Spec{Name: "d", Kind: Date, Length: 8}.Parse("20200229")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), date.DateValue())

	enum, err := Spec{Name: "e", Kind: Enum, Length: 4}.Parse("0002")
	require.NoError(t, err)
	assert.Equal(t, int64(2), enum.IntValue())

	padded, err := Spec{Name: "z", Kind: ZeroPaddedNumeric, Length: 5}.Parse("00001")
	require.NoError(t, err)
	assert.Equal(t, "00001", padded.Serialized())

	_, err = Spec{Name: "z", Kind: ZeroPaddedNumeric, Length: 5}.Parse("12a45")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = Spec{Name: "d", Kind: Date, Length: 8}.Parse("2020-02-")
	assert.ErrorIs(t, err, ErrWrongType)

	_, err = Spec{Name: "s", Kind: String, Length: 3}.Parse("G68!")
	assert.Error(t, err)
}

func TestKronerToOre(t *testing.T) {
	tests := []struct {
		name    string
		kr      int64
		want    int64
		wantErr bool
	}{
		{"zero", 0, 0, false},
		{"positive", 1234, 123400, false},
		{"negative", -42, -4200, false},
		{"largest", math.MaxInt64 / 100, math.MaxInt64 / 100 * 100, false},
		{"smallest", math.MinInt64 / 100, math.MinInt64 / 100 * 100, false},
		{"above largest", math.MaxInt64/100 + 1, 0, true},
		{"below smallest", math.MinInt64/100 - 1, 0, true},
		{"wraps to small value", 184467440737095517, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := KronerToOre("beloeb", tt.kr)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrTooLong)
				assert.Contains(t, err.Error(), "beloeb")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestError_Message(t *testing.T) {
	err := Errorf(ErrTooLong, "kaldenavn", "abcdefghijk", "may not exceed length %d", 10)
	assert.Equal(t, `value too long: kaldenavn (value "abcdefghijk"): may not exceed length 10`, err.Error())
	assert.True(t, strings.HasPrefix((&Error{Kind: ErrMissingRequired}).Error(), "missing required field"))
}
