package g69

import (
	"strings"

	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Rule ties a field to a group of other fields.
type Rule struct {
	Name  string
	Group []string
}

// RequiredTogether: when Name is present, every field in Group must be too.
var RequiredTogether = []Rule{
	{"ydelse_modtager_nrkode", []string{"ydelse_modtager"}},
	{"ydelse_modtager", []string{"ydelse_modtager_nrkode"}},
	{"rekvisitionsnr", []string{"delleverance"}},
	{"delleverance", []string{"rekvisitionsnr"}},
	{"emne", []string{"notat_long"}},
	{"notat_long", []string{"emne"}},
	{"projekt_nr", []string{"projekt_art", "antal"}},
	{"projekt_art", []string{"projekt_nr", "antal"}},
	{"prisme_medarbejder", []string{"projekt_nr", "projekt_art", "antal"}},
	{"salgspris", []string{"projekt_nr", "projekt_art", "antal"}},
	{"antal", []string{"projekt_nr", "projekt_art"}},
	{"linje_egenskab", []string{"projekt_nr", "projekt_art", "antal"}},
	{"aktivitet_nr", []string{"projekt_nr", "projekt_art", "antal"}},
}

// MutuallyExclusive: when Name is present, no field in Group may be.
var MutuallyExclusive = []Rule{
	{"emne", []string{"bilag_arkiv_nr", "kontering_fakturapulje"}},
	{"notat_long", []string{"bilag_arkiv_nr", "kontering_fakturapulje"}},
}

// Alias is a boolean shorthand for a coded field, e.g. is_cvr=true instead
// of ydelse_modtager_nrkode=3.
type Alias struct {
	Name        string
	Field       string
	True, False Value
}

// Aliases are resolved in this order; a later alias overwrites an earlier
// one targeting the same field.
var Aliases = []Alias{
	{Name: "is_cvr", Field: "ydelse_modtager_nrkode", True: Int(3), False: Int(2)},
	{Name: "is_kontering_fakturapulje", Field: "kontering_fakturapulje", True: Str("J"), False: Str("N")},
	{Name: "is_debet", Field: "deb_kred", True: Str("D"), False: Str("K")},
	{Name: "is_kredit", Field: "deb_kred", True: Str("K"), False: Str("D")},
}

func lookupAlias(name string) (Alias, bool) {
	for _, a := range Aliases {
		if a.Name == name {
			return a, true
		}
	}
	return Alias{}, false
}

// resolveAliases returns a copy of values with every alias replaced by its
// target field. Unknown names and non-boolean alias values are rejected.
func resolveAliases(values Values) (Values, error) {
	out := make(Values, len(values))
	for name, v := range values {
		if _, ok := lookupAlias(name); ok {
			if v.Type() != TypeBool {
				return nil, field.Errorf(field.ErrWrongType, name, v.String(), "alias takes a boolean")
			}
			continue
		}
		if _, ok := Lookup(name); !ok {
			return nil, field.Errorf(field.ErrUnknownField, name, v.String(), "not a G69 field")
		}
		out[name] = v
	}
	for _, a := range Aliases {
		v, ok := values[a.Name]
		if !ok {
			continue
		}
		if v.BoolValue() {
			out[a.Field] = a.True
		} else {
			out[a.Field] = a.False
		}
	}
	return out, nil
}

// validateRules checks required fields, then required-together groups,
// then mutually exclusive groups. The first violation is returned.
func validateRules(values Values) error {
	for _, name := range RequiredFields() {
		if _, ok := values[name]; !ok {
			return field.Errorf(field.ErrMissingRequired, name, "", "field %s is required", name)
		}
	}
	for _, r := range RequiredTogether {
		if _, ok := values[r.Name]; !ok {
			continue
		}
		for _, companion := range r.Group {
			if _, ok := values[companion]; !ok {
				return &field.Error{
					Kind:   field.ErrRequiredTogether,
					Fields: append([]string{r.Name}, r.Group...),
					Detail: "when supplying " + r.Name + ", you must also supply " + strings.Join(r.Group, ", "),
				}
			}
		}
	}
	for _, r := range MutuallyExclusive {
		if _, ok := values[r.Name]; !ok {
			continue
		}
		for _, excluded := range r.Group {
			if _, ok := values[excluded]; ok {
				return &field.Error{
					Kind:   field.ErrMutuallyExclusive,
					Fields: []string{r.Name, excluded},
					Detail: "when supplying " + r.Name + ", you may not also supply " + strings.Join(r.Group, ", "),
				}
			}
		}
	}
	return nil
}
