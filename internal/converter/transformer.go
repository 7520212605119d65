// =============================================================================
// Prisme Transactions - Transformation Engine
// =============================================================================
//
// This module cleans input cells before they are validated and encoded. Each
// profile lists, per field, a sequence of actions such as zero-padding a CPR
// number or rewriting a date column into YYYY-MM-DD.
//
// TRANSFORMATION TYPES:
//   - String manipulations (prepend, append, trim, case conversion)
//   - Numeric formatting (padding, fixed decimals)
//   - Date conversions
//   - Lookup table replacements
//   - Defaults taken from a constant or another field
//   - Regular expression replacements
//
// Rules run in configuration order, so a later rule sees the output of an
// earlier one. Lengths are counted in characters, not bytes.
//
// =============================================================================

package converter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ginjaninja78/prisme-transactions/internal/config"
	"github.com/ginjaninja78/prisme-transactions/internal/types"
	"github.com/ginjaninja78/prisme-transactions/internal/validation"
)

var (
	digitsPattern     = regexp.MustCompile(`\d+`)
	lettersPattern    = regexp.MustCompile(`\p{L}+`)
	specialPattern    = regexp.MustCompile(`[^\p{L}\p{N}]`)
	whitespacePattern = regexp.MustCompile(`\s+`)
	danishTitleCaser  = cases.Title(language.Danish)
	defaultTrimCutset = " \t\n\r"
)

// =============================================================================
// TRANSFORMER
// =============================================================================

// Transformer applies a profile's transformation rules to rows.
type Transformer struct {
	rules []config.TransformationRule
}

// NewTransformer creates a new Transformer with the given rules.
func NewTransformer(rules []config.TransformationRule) *Transformer {
	return &Transformer{rules: rules}
}

// TransformRow applies every rule to the row in place. A missing field is
// transformed as the empty string and only stored when the result is not
// empty, so defaults can fill absent columns.
func (t *Transformer) TransformRow(row *types.Row) error {
	if row.Fields == nil {
		row.Fields = make(map[string]string)
	}
	for _, rule := range t.rules {
		value, exists := row.Fields[rule.Field]
		result, err := t.apply(rule, value, row.Fields)
		if err != nil {
			return fmt.Errorf("row %d, field '%s': %w", row.Number, rule.Field, err)
		}
		if exists || result != "" {
			row.Fields[rule.Field] = result
		}
	}
	return nil
}

// Transform applies the rules for fieldName to value. allFields is the rest
// of the row, used by actions that read other fields.
func (t *Transformer) Transform(fieldName, value string, allFields map[string]string) (string, error) {
	result := value
	for _, rule := range t.rules {
		if rule.Field != fieldName {
			continue
		}
		var err error
		if result, err = t.apply(rule, result, allFields); err != nil {
			return "", err
		}
	}
	return result, nil
}

func (t *Transformer) apply(rule config.TransformationRule, value string, allFields map[string]string) (string, error) {
	result := value
	for _, action := range rule.Actions {
		var err error
		result, err = ApplyTransformation(result, action, allFields)
		if err != nil {
			return "", fmt.Errorf("transformation '%s' failed: %w", action.Type, err)
		}
	}
	return result, nil
}

// =============================================================================
// TRANSFORMATION FUNCTIONS
// =============================================================================

// ApplyTransformation applies a single transformation action. Actions whose
// parameter is missing or malformed return the value unchanged; an unknown
// action type is an error.
func ApplyTransformation(value string, action config.TransformationAction, allFields map[string]string) (string, error) {
	switch action.Type {

	// =========================================================================
	// STRING MANIPULATIONS
	// =========================================================================

	case "prepend_string":
		// "123456" with value "A" becomes "A123456".
		return action.Value + value, nil

	case "append_string":
		return value + action.Value, nil

	case "trim":
		return strings.TrimSpace(value), nil

	case "trim_left":
		// Removes leading whitespace, or the characters in Value.
		if action.Value != "" {
			return strings.TrimLeft(value, action.Value), nil
		}
		return strings.TrimLeft(value, defaultTrimCutset), nil

	case "trim_right":
		if action.Value != "" {
			return strings.TrimRight(value, action.Value), nil
		}
		return strings.TrimRight(value, defaultTrimCutset), nil

	case "uppercase":
		return strings.ToUpper(value), nil

	case "lowercase":
		return strings.ToLower(value), nil

	case "title_case":
		return danishTitleCaser.String(strings.ToLower(value)), nil

	case "replace":
		// "hello-world" with find "-" and value "_" becomes "hello_world".
		if action.Find == "" {
			return value, nil
		}
		return strings.ReplaceAll(value, action.Find, action.Value), nil

	case "regex_replace":
		// "ABC-123-DEF" with find "[A-Z]+" and value "X" becomes "X-123-X".
		if action.Find == "" {
			return value, nil
		}
		re, err := regexp.Compile(action.Find)
		if err != nil {
			return "", fmt.Errorf("invalid regex pattern: %w", err)
		}
		return re.ReplaceAllString(value, action.Value), nil

	case "substring":
		// Value is "start,end", 0-indexed with end exclusive:
		// "ABCDEFGH" with "2,5" becomes "CDE".
		parts := strings.Split(action.Value, ",")
		if len(parts) != 2 {
			return value, nil
		}
		start, _ := strconv.Atoi(strings.TrimSpace(parts[0]))
		end, _ := strconv.Atoi(strings.TrimSpace(parts[1]))

		runes := []rune(value)
		if start < 0 {
			start = 0
		}
		if end > len(runes) {
			end = len(runes)
		}
		if start >= end {
			return "", nil
		}
		return string(runes[start:end]), nil

	// =========================================================================
	// NUMERIC FORMATTING
	// =========================================================================

	case "pad_zeros_to_length":
		// "123" with value "8" becomes "00000123". Used for CPR numbers that
		// lost their leading zero in a spreadsheet.
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return value, nil
		}
		return PadLeft(value, targetLength, '0'), nil

	case "pad_spaces_to_length":
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return value, nil
		}
		return PadRight(value, targetLength, ' '), nil

	case "ensure_length":
		// Truncates from the right or zero-pads on the left.
		targetLength, err := strconv.Atoi(action.Value)
		if err != nil || targetLength <= 0 {
			return value, nil
		}
		if runes := []rune(value); len(runes) > targetLength {
			return string(runes[:targetLength]), nil
		}
		return PadLeft(value, targetLength, '0'), nil

	case "format_number":
		// Value is the number of decimals: "1234,5" with "2" becomes
		// "1234.50". Values that are not numbers are left alone.
		places, err := strconv.Atoi(action.Value)
		if err != nil || places < 0 {
			return value, nil
		}
		d, err := validation.ParseDecimal(value)
		if err != nil {
			return value, nil
		}
		return d.StringFixed(int32(places)), nil

	case "format_currency":
		d, err := validation.ParseDecimal(value)
		if err != nil {
			return value, nil
		}
		return d.StringFixed(2), nil

	case "remove_leading_zeros":
		result := strings.TrimLeft(value, "0")
		if result == "" {
			return "0", nil
		}
		return result, nil

	// =========================================================================
	// DATE CONVERSIONS
	// =========================================================================

	case "format_date":
		// Value is "input_layout|output_layout" in Go time layout syntax:
		// "15/01/2024" with "02/01/2006|2006-01-02" becomes "2024-01-15".
		// Values that do not match the input layout are left alone.
		parts := strings.Split(action.Value, "|")
		if len(parts) != 2 {
			return value, nil
		}
		t, err := time.Parse(strings.TrimSpace(parts[0]), strings.TrimSpace(value))
		if err != nil {
			return value, nil
		}
		return t.Format(strings.TrimSpace(parts[1])), nil

	// =========================================================================
	// LOOKUP TABLE REPLACEMENTS
	// =========================================================================

	case "lookup":
		// "01" with lookup_table {"01": "cpr"} becomes "cpr". Unknown values
		// are kept.
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return value, nil

	case "lookup_with_default":
		if replacement, exists := action.LookupTable[value]; exists {
			return replacement, nil
		}
		return action.Value, nil

	// =========================================================================
	// DEFAULTS
	// =========================================================================

	case "if_empty_use_default":
		if strings.TrimSpace(value) == "" {
			return action.Value, nil
		}
		return value, nil

	case "if_empty_use_field":
		// Value names the field to copy from.
		if strings.TrimSpace(value) == "" {
			if otherValue, exists := allFields[action.Value]; exists {
				return otherValue, nil
			}
		}
		return value, nil

	// =========================================================================
	// SPECIAL TRANSFORMATIONS
	// =========================================================================

	case "extract_digits":
		// "0101-01 2222" becomes "0101012222".
		return strings.Join(digitsPattern.FindAllString(value, -1), ""), nil

	case "extract_letters":
		return strings.Join(lettersPattern.FindAllString(value, -1), ""), nil

	case "remove_special_chars":
		return specialPattern.ReplaceAllString(value, ""), nil

	case "normalize_whitespace":
		return strings.TrimSpace(whitespacePattern.ReplaceAllString(value, " ")), nil

	default:
		return "", fmt.Errorf("unknown transformation type: %s", action.Type)
	}
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// PadLeft pads s on the left with padChar up to length characters.
func PadLeft(s string, length int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return strings.Repeat(string(padChar), length-n) + s
}

// PadRight pads s on the right with padChar up to length characters.
func PadRight(s string, length int, padChar rune) string {
	n := utf8.RuneCountInString(s)
	if n >= length {
		return s
	}
	return s + strings.Repeat(string(padChar), length-n)
}
