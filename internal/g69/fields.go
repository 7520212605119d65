// =============================================================================
// Prisme Transactions - G69 Field Declarations
// =============================================================================
//
// G69 is the accounting-posting format: one "&"-delimited record per ledger
// entry. Each value is written as its 3-digit code followed by the value:
//
//   012G6900001003401NORFLYD&101test&10300123&1040000001&...
//   \_____________________/ \______/ \_______/
//           header          kaldenavn  maskinnr (zero-padded to 5)
//
// The declaration table below is the single source of field order, width,
// type and padding. Records are written in table order.
//
// =============================================================================

package g69

// ValueType is the declared type of a G69 field.
type ValueType int

const (
	TypeString ValueType = iota
	TypeInt
	TypeDecimal
	TypeDate
	TypeBool
)

func (t ValueType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeInt:
		return "int"
	case TypeDecimal:
		return "decimal"
	case TypeDate:
		return "date"
	case TypeBool:
		return "bool"
	}
	return "unknown"
}

// Decl declares one G69 field.
type Decl struct {
	Name     string
	Code     int
	Width    int
	Type     ValueType
	Required bool

	// Pad left-pads the formatted value with zeros to Width.
	Pad bool
}

// Fields lists every G69 field in output order.
var Fields = []Decl{
	{Name: "kaldenavn", Code: 101, Width: 10, Type: TypeString},
	{Name: "afstemningsenhed", Code: 102, Width: 5, Type: TypeString},
	{Name: "maskinnr", Code: 103, Width: 5, Type: TypeInt, Required: true, Pad: true},
	{Name: "eks_løbenr", Code: 104, Width: 7, Type: TypeInt, Required: true, Pad: true},
	{Name: "post_dato", Code: 110, Width: 8, Type: TypeDate, Required: true, Pad: true},
	{Name: "kontonr", Code: 111, Width: 15, Type: TypeInt, Required: true, Pad: true},
	{Name: "beløb", Code: 112, Width: 13, Type: TypeDecimal, Required: true, Pad: true},
	{Name: "deb_kred", Code: 113, Width: 1, Type: TypeString, Required: true},
	{Name: "regnskabsår", Code: 114, Width: 4, Type: TypeInt, Pad: true},
	{Name: "bilag_arkiv_nr", Code: 116, Width: 255, Type: TypeString},
	{Name: "udbet_henv_nr", Code: 117, Width: 20, Type: TypeInt},
	{Name: "valør_dato", Code: 118, Width: 8, Type: TypeDate},
	{Name: "betaling_modtager_nrkode", Code: 130, Width: 2, Type: TypeInt, Pad: true},
	{Name: "betaling_modtager", Code: 131, Width: 10, Type: TypeInt, Pad: true},
	{Name: "ydelse_modtager_nrkode", Code: 132, Width: 2, Type: TypeInt, Pad: true},
	{Name: "ydelse_modtager", Code: 133, Width: 10, Type: TypeString, Pad: true},
	{Name: "oplysningspligtig_nrkode", Code: 134, Width: 2, Type: TypeInt, Pad: true},
	{Name: "oplysningspligtig", Code: 135, Width: 10, Type: TypeInt, Pad: true},
	{Name: "oplysningspligt_kode", Code: 136, Width: 1, Type: TypeString},
	{Name: "postering_udtrækstekst_1", Code: 150, Width: 5, Type: TypeString},
	{Name: "postering_udtrækstekst_2", Code: 151, Width: 5, Type: TypeString},
	{Name: "postering_udtrækskode", Code: 152, Width: 5, Type: TypeString},
	{Name: "posteringstekst", Code: 153, Width: 35, Type: TypeString},
	{Name: "rekvisitionsnr", Code: 170, Width: 10, Type: TypeInt, Pad: true},
	{Name: "delleverance", Code: 171, Width: 1, Type: TypeString},
	{Name: "bærer", Code: 180, Width: 10, Type: TypeString},
	{Name: "afdeling", Code: 181, Width: 10, Type: TypeString},
	{Name: "formål", Code: 182, Width: 10, Type: TypeString},
	{Name: "omvendt_betalingspligt", Code: 185, Width: 2, Type: TypeInt, Pad: true},
	{Name: "kontering_fakturapulje", Code: 200, Width: 1, Type: TypeString},
	{Name: "konteret_af", Code: 201, Width: 5, Type: TypeString},
	{Name: "notat_short", Code: 202, Width: 200, Type: TypeString},
	{Name: "attesteret_af", Code: 203, Width: 5, Type: TypeString},
	{Name: "emne", Code: 210, Width: 60, Type: TypeString},
	{Name: "notat_long", Code: 211, Width: 1024, Type: TypeString},
	{Name: "ekstern_reference", Code: 250, Width: 20, Type: TypeString},
	{Name: "iris_nr", Code: 251, Width: 20, Type: TypeString},
	{Name: "projekt_nr", Code: 300, Width: 20, Type: TypeString},
	{Name: "projekt_art", Code: 301, Width: 10, Type: TypeString},
	{Name: "prisme_medarbejder", Code: 302, Width: 10, Type: TypeString},
	{Name: "salgspris", Code: 303, Width: 13, Type: TypeDecimal},
	{Name: "antal", Code: 304, Width: 10, Type: TypeDecimal},
	{Name: "linje_egenskab", Code: 305, Width: 10, Type: TypeString},
	{Name: "aktivitet_nr", Code: 306, Width: 10, Type: TypeString},
}

var declByName = func() map[string]Decl {
	m := make(map[string]Decl, len(Fields))
	for _, d := range Fields {
		m[d.Name] = d
	}
	return m
}()

// Lookup returns the declaration of a field.
func Lookup(name string) (Decl, bool) {
	d, ok := declByName[name]
	return d, ok
}

// RequiredFields lists the fields every record must carry, in table order.
func RequiredFields() []string {
	var names []string
	for _, d := range Fields {
		if d.Required {
			names = append(names, d.Name)
		}
	}
	return names
}
