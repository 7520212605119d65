package field

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	orgUnit = FloatingSpec{Spec: Spec{Name: "Organisationsenhed", Kind: ZeroPaddedNumeric, Length: 4}, ID: 2}
	amount  = FloatingSpec{Spec: Spec{Name: "Udbetalingsbeløb", Kind: ZeroPaddedNumeric, Length: 11}, ID: 8, Required: true}
	text    = FloatingSpec{Spec: Spec{Name: "BetalingstekstLinje", Kind: String, Length: 81}, ID: 40, MaxID: 75}
)

func TestFloating_Serialized(t *testing.T) {
	spec := FloatingSpec{Spec: Spec{Name: "Field", Kind: ZeroPaddedNumeric, Length: 4}, ID: 99}
	f, err := spec.Int(42)
	require.NoError(t, err)

	assert.Equal(t, "&990042", spec.Float(f).Serialized())
	assert.Equal(t, 99, spec.Float(f).ID())
}

func TestFloatingSpec_FloatAt(t *testing.T) {
	f, err := text.Text("val")
	require.NoError(t, err)

	for _, id := range []int{39, 76} {
		_, err := text.FloatAt(id, f)
		assert.ErrorIs(t, err, ErrOutOfRange, "id %d", id)
	}

	fl, err := text.FloatAt(41, f)
	require.NoError(t, err)
	assert.Equal(t, "&41val", fl.Serialized())
}

func TestNewRegistry(t *testing.T) {
	t.Run("duplicate id", func(t *testing.T) {
		a := FloatingSpec{Spec: Spec{Name: "FieldA", Kind: Numeric, Length: 1}, ID: 42}
		b := FloatingSpec{Spec: Spec{Name: "FieldB", Kind: Numeric, Length: 1}, ID: 42}

		_, err := NewRegistry(a, b)
		assert.ErrorIs(t, err, ErrDuplicateID)

		var fe *Error
		require.True(t, errors.As(err, &fe))
		assert.Equal(t, []string{"FieldB", "FieldA"}, fe.Fields)
	})

	t.Run("id inside another type's range", func(t *testing.T) {
		inside := FloatingSpec{Spec: Spec{Name: "Inside", Kind: Numeric, Length: 1}, ID: 50}
		_, err := NewRegistry(text, inside)
		assert.ErrorIs(t, err, ErrDuplicateID)
	})

	t.Run("missing id", func(t *testing.T) {
		_, err := NewRegistry(FloatingSpec{Spec: Spec{Name: "NoID", Kind: Numeric, Length: 1}})
		assert.ErrorIs(t, err, ErrMissingID)
	})

	t.Run("id wider than two digits", func(t *testing.T) {
		_, err := NewRegistry(FloatingSpec{Spec: Spec{Name: "Wide", Kind: Numeric, Length: 1}, ID: 100})
		assert.ErrorIs(t, err, ErrOutOfRange)
	})

	t.Run("must registry panics", func(t *testing.T) {
		assert.Panics(t, func() { MustRegistry(orgUnit, orgUnit) })
	})
}

func TestRegistry_Lookup(t *testing.T) {
	r := MustRegistry(text, amount, orgUnit)

	fs, ok := r.Lookup(57)
	require.True(t, ok)
	assert.Equal(t, "BetalingstekstLinje", fs.Name)

	_, ok = r.Lookup(3)
	assert.False(t, ok)

	ids := []int{}
	for _, s := range r.Specs() {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []int{2, 8, 40}, ids)
}

func TestRegistry_ValidateRequired(t *testing.T) {
	r := MustRegistry(orgUnit, amount, text)

	org, err := orgUnit.Int(0)
	require.NoError(t, err)

	err = r.ValidateRequired([]Floating{orgUnit.Float(org)})
	assert.ErrorIs(t, err, ErrMissingRequired)
	assert.Contains(t, err.Error(), "Udbetalingsbeløb")

	amt, err := amount.Int(4200)
	require.NoError(t, err)
	assert.NoError(t, r.ValidateRequired([]Floating{orgUnit.Float(org), amount.Float(amt)}))
}

func TestSortByID(t *testing.T) {
	a, _ := amount.Int(1)
	o, _ := orgUnit.Int(1)
	fields := []Floating{amount.Float(a), orgUnit.Float(o)}
	SortByID(fields)
	assert.Equal(t, 2, fields[0].ID())
	assert.Equal(t, 8, fields[1].ID())
}
