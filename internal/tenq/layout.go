// =============================================================================
// Prisme Transactions - 10Q Line Layouts
// =============================================================================
//
// 10Q is a fixed-width format without delimiters. A logical transaction is a
// group of lines that share a common prefix:
//
//   type 10  person line: prefix + person number
//   type 24  terms line:  prefix + amounts, dates, reconciliation key
//   type 26  text line:   prefix + line number + up to 60 characters of
//                         text, appended without padding
//
// The transaction type sits at character offset 4-6 of every line.
//
// =============================================================================

package tenq

import (
	"github.com/ginjaninja78/prisme-transactions/internal/field"
)

// Transaction type codes.
const (
	TypePerson = "10"
	TypeTerms  = "24"
	TypeText   = "26"
)

// Column names shared between layouts, the writer and the reader.
const (
	ColSupplierIdent  = "leverandoer_ident"
	ColTransType      = "trans_type"
	ColTimestamp      = "time_stamp"
	ColUserNo         = "bruger_nummer"
	ColAreaNo         = "omraade_nummer"
	ColPaymentKind    = "betal_art"
	ColTaxYear        = "paalign_aar"
	ColDebtorNo       = "debitor_nummer"
	ColCaseNo         = "sag_nummer"
	ColPersonNo       = "person_nummer"
	ColIndividType    = "individ_type"
	ColRateNo         = "rate_nummer"
	ColRateAmount     = "rate_beloeb"
	ColAmountType     = "belob_type"
	ColInterestFree   = "rentefri_beloeb"
	ColCollectionCode = "opkraev_kode"
	ColCollectionDate = "opkraev_dato"
	ColDueDate        = "forfald_dato"
	ColPaymentDate    = "betal_dato"
	ColInterestDate   = "rentefri_dato"
	ColTextNo         = "tekst_nummer"
	ColRateSpec       = "rate_spec"
	ColDeleteMark     = "slet_mark"
	ColInvoiceNo      = "faktura_no"
	ColCreationDate   = "stiftelse_dato"
	ColPeriodFrom     = "fra_periode"
	ColPeriodTo       = "til_periode"
	ColChangeCode     = "aedring_aarsag_kode"
	ColChangeText     = "aedring_aarsag_tekst"
	ColReconciliation = "afstem_noegle"
	ColLineNumber     = "line_number"
	ColRateText       = "rate_text"
	ColSourceLineNos  = "10q_line_no"
)

const (
	rateTextWidth      = 60
	defaultUserNo      = "0900"
	defaultPaymentKind = "209"
)

var prefixLayout = field.Layout{
	field.Col(ColSupplierIdent, 4),
	field.Col(ColTransType, 2),
	field.Col(ColTimestamp, 13),
	field.ColDefault(ColUserNo, 4, defaultUserNo),
	field.Col(ColAreaNo, 3),
	field.ColDefault(ColPaymentKind, 3, defaultPaymentKind),
	field.Col(ColTaxYear, 4),
	field.Col(ColDebtorNo, 10),
	field.ColDefault(ColCaseNo, 2, "00"),
}

// PersonLayout is the type 10 layout.
var PersonLayout = prefixLayout.Extend(
	field.Col(ColPersonNo, 10),
)

// TermsLayout is the type 24 layout.
var TermsLayout = prefixLayout.Extend(
	field.ColDefault(ColIndividType, 2, "20"),
	field.ColDefault(ColRateNo, 3, "999"),
	field.Col(ColRateAmount, 11),
	field.ColDefault(ColAmountType, 1, "1"),
	field.ColDefault(ColInterestFree, 11, "0000000000+"),
	field.ColDefault(ColCollectionCode, 1, "1"),
	field.Col(ColCollectionDate, 8),
	field.Col(ColDueDate, 8),
	field.Col(ColPaymentDate, 8),
	field.Col(ColInterestDate, 8),
	field.ColDefault(ColTextNo, 3, "000"),
	field.ColDefault(ColRateSpec, 3, ""),
	field.ColDefault(ColDeleteMark, 1, ""),
	field.ColDefault(ColInvoiceNo, 35, ""),
	field.Col(ColCreationDate, 8),
	field.Col(ColPeriodFrom, 8),
	field.Col(ColPeriodTo, 8),
	field.ColDefault(ColChangeCode, 4, ""),
	field.ColDefault(ColChangeText, 100, ""),
	field.Col(ColReconciliation, 35),
)

// TextLayout is the positional part of the type 26 layout. The rate text
// follows it unpadded.
var TextLayout = prefixLayout.Extend(
	field.ColDefault(ColIndividType, 2, "20"),
	field.ColDefault(ColRateNo, 3, "999"),
	field.Col(ColLineNumber, 3),
)

// LayoutFor returns the layout of a transaction type.
func LayoutFor(transType string) (field.Layout, bool) {
	switch transType {
	case TypePerson:
		return PersonLayout, true
	case TypeTerms:
		return TermsLayout, true
	case TypeText:
		return TextLayout, true
	}
	return nil, false
}
