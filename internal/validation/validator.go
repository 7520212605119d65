// =============================================================================
// Prisme Transactions - Validation Engine
// =============================================================================
//
// This module runs a pre-flight check over batch input rows before they are
// encoded. It catches problems that are cheaper to report per cell than per
// encoder failure:
//   - Required fields that are empty
//   - Values longer than the target field
//   - Cells that do not parse as the expected type
//   - Columns the target format does not know (warnings)
//
// ERROR HANDLING:
//   - Errors are collected, not returned on the first failure
//   - Each error carries the source row, field and value
//   - Warnings do not make the input invalid unless configured to
//
// The encoders still enforce the full format rules; a row that passes here
// can fail encoding (for example a G69 mutually exclusive pair).
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/prisme-transactions/internal/types"
)

// Severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Data types understood by the validator.
const (
	TypeString  = "string"
	TypeInteger = "integer"
	TypeDigits  = "digits"
	TypeDecimal = "decimal"
	TypeDate    = "date"
	TypeBoolean = "boolean"
)

// =============================================================================
// VALIDATION ERROR TYPES
// =============================================================================

// ValidationError represents a single validation finding.
type ValidationError struct {
	// Severity is SeverityError or SeverityWarning.
	Severity string

	// Row is the 1-based source row number.
	Row int

	// Field is the name of the field that failed validation.
	Field string

	// Value is the actual value that failed validation.
	Value string

	// Rule is the validation rule that was violated.
	Rule string

	// Message is a human-readable error message.
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(e.Severity),
		e.Row,
		e.Field,
		e.Message,
		e.Value,
	)
}

// =============================================================================
// SCHEMA
// =============================================================================

// FieldRule describes the input expected for one field.
type FieldRule struct {
	Name     string
	DataType string

	// MaxLength is the maximum number of characters; 0 means no limit.
	MaxLength int

	Required bool
}

// Schema is the set of field rules for one output format.
type Schema struct {
	Fields []FieldRule

	// WarnUnknown reports non-empty fields that have no rule.
	WarnUnknown bool
}

// Rule returns the rule for name.
func (s Schema) Rule(name string) (FieldRule, bool) {
	for _, r := range s.Fields {
		if r.Name == name {
			return r, true
		}
	}
	return FieldRule{}, false
}

// =============================================================================
// VALIDATION RESULT
// =============================================================================

// ValidationResult contains the results of validation.
type ValidationResult struct {
	// IsValid is true if there are no fatal errors.
	IsValid bool

	// Errors contains all findings, warnings included, in row order.
	Errors []*ValidationError

	ErrorCount      int
	WarningCount    int
	RowsValidated   int
	FieldsValidated int
}

// InvalidRows returns the row numbers that have at least one fatal error.
func (r *ValidationResult) InvalidRows() map[int]bool {
	rows := make(map[int]bool)
	for _, e := range r.Errors {
		if e.Severity == SeverityError {
			rows[e.Row] = true
		}
	}
	return rows
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator validates rows against a schema.
type Validator struct {
	schema  Schema
	options ValidationOptions
}

// ValidationOptions contains options for validation.
type ValidationOptions struct {
	// StopOnFirstError stops validation after the first fatal error.
	StopOnFirstError bool

	// TreatWarningsAsErrors makes warnings invalidate the input.
	TreatWarningsAsErrors bool
}

// DefaultValidationOptions returns the default validation options.
func DefaultValidationOptions() ValidationOptions {
	return ValidationOptions{}
}

// NewValidator creates a new Validator instance.
func NewValidator(schema Schema) *Validator {
	return NewValidatorWithOptions(schema, DefaultValidationOptions())
}

// NewValidatorWithOptions creates a new Validator with custom options.
func NewValidatorWithOptions(schema Schema, options ValidationOptions) *Validator {
	return &Validator{schema: schema, options: options}
}

// =============================================================================
// MAIN VALIDATION FUNCTION
// =============================================================================

// Validate validates rows with default options and returns all findings.
func Validate(rows []types.Row, schema Schema) []*ValidationError {
	return NewValidator(schema).ValidateAll(rows).Errors
}

// ValidateAll validates every row and returns a detailed result.
func (v *Validator) ValidateAll(rows []types.Row) *ValidationResult {
	result := &ValidationResult{
		IsValid: true,
		Errors:  make([]*ValidationError, 0),
	}

	for _, row := range rows {
		result.RowsValidated++
		result.FieldsValidated += len(v.schema.Fields)

		for _, err := range v.ValidateRow(row) {
			result.Errors = append(result.Errors, err)

			if err.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
				if v.options.StopOnFirstError {
					return result
				}
				continue
			}

			result.WarningCount++
			if v.options.TreatWarningsAsErrors {
				result.IsValid = false
			}
		}
	}

	return result
}

// ValidateRow validates one row: every schema field, then unknown fields.
func (v *Validator) ValidateRow(row types.Row) []*ValidationError {
	var errs []*ValidationError

	for _, rule := range v.schema.Fields {
		errs = append(errs, v.ValidateField(row, rule)...)
	}

	if v.schema.WarnUnknown {
		var unknown []string
		for name, value := range row.Fields {
			if _, ok := v.schema.Rule(name); !ok && value != "" {
				unknown = append(unknown, name)
			}
		}
		sort.Strings(unknown)
		for _, name := range unknown {
			errs = append(errs, &ValidationError{
				Severity: SeverityWarning,
				Row:      row.Number,
				Field:    name,
				Value:    row.Fields[name],
				Rule:     "unknown_field",
				Message:  "Field is not used by the output format and is ignored",
			})
		}
	}

	return errs
}

// ValidateField validates the value of one field in a row.
func (v *Validator) ValidateField(row types.Row, rule FieldRule) []*ValidationError {
	value := row.Fields[rule.Name]
	newError := func(ruleName, message string) *ValidationError {
		return &ValidationError{
			Severity: SeverityError,
			Row:      row.Number,
			Field:    rule.Name,
			Value:    value,
			Rule:     ruleName,
			Message:  message,
		}
	}

	// =========================================================================
	// REQUIRED FIELD VALIDATION
	// =========================================================================

	if strings.TrimSpace(value) == "" {
		if rule.Required {
			return []*ValidationError{newError("required", fmt.Sprintf("Required field '%s' is empty", rule.Name))}
		}
		return nil
	}

	var errs []*ValidationError

	// =========================================================================
	// MAX LENGTH VALIDATION
	// =========================================================================

	if n := utf8.RuneCountInString(value); rule.MaxLength > 0 && n > rule.MaxLength {
		errs = append(errs, newError("max_length",
			fmt.Sprintf("Value exceeds maximum length of %d characters (actual: %d)", rule.MaxLength, n)))
	}

	// =========================================================================
	// DATA TYPE VALIDATION
	// =========================================================================

	if msg := validateDataType(value, rule.DataType); msg != "" {
		errs = append(errs, newError("data_type", msg))
	}

	return errs
}

// =============================================================================
// DATA TYPE VALIDATORS
// =============================================================================

// validateDataType returns an error message when value is not of dataType,
// or "" when it is. Unknown types accept anything.
func validateDataType(value, dataType string) string {
	switch dataType {
	case TypeInteger:
		return validateInteger(value)
	case TypeDigits:
		return validateDigits(value)
	case TypeDecimal:
		return validateDecimal(value)
	case TypeDate:
		return validateDate(value)
	case TypeBoolean:
		return validateBoolean(value)
	default:
		return ""
	}
}

// validateInteger validates a signed whole number.
func validateInteger(value string) string {
	if _, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid integer", value)
	}
	return ""
}

// validateDigits validates an unsigned digit string such as a CPR number.
func validateDigits(value string) string {
	for _, r := range strings.TrimSpace(value) {
		if r < '0' || r > '9' {
			return fmt.Sprintf("Value '%s' must contain digits only", value)
		}
	}
	return ""
}

// validateDecimal validates a decimal number. A comma is accepted as the
// decimal separator when there is no period.
func validateDecimal(value string) string {
	if _, err := ParseDecimal(value); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid decimal number", value)
	}
	return ""
}

// ParseDecimal parses an amount cell such as "1234.50" or "1234,50".
func ParseDecimal(value string) (decimal.Decimal, error) {
	value = strings.TrimSpace(value)
	if !strings.Contains(value, ".") {
		value = strings.Replace(value, ",", ".", 1)
	}
	return decimal.NewFromString(value)
}

// DateLayouts are the accepted date cell layouts, tried in order.
var DateLayouts = []string{time.DateOnly, "20060102", "02-01-2006", "02.01.2006"}

// ParseDate parses a date cell using DateLayouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

// validateDate validates a date in one of DateLayouts.
func validateDate(value string) string {
	if _, err := ParseDate(value); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid date", value)
	}
	return ""
}

// validateBoolean validates values accepted by strconv.ParseBool.
func validateBoolean(value string) string {
	if _, err := strconv.ParseBool(strings.TrimSpace(value)); err != nil {
		return fmt.Sprintf("Value '%s' is not a valid boolean", value)
	}
	return ""
}

// =============================================================================
// ERROR FORMATTING
// =============================================================================

// FormatErrors formats validation errors for display or logging.
func FormatErrors(errors []*ValidationError) string {
	if len(errors) == 0 {
		return "No validation errors."
	}

	var builder strings.Builder
	fmt.Fprintf(&builder, "Validation completed with %d error(s):\n\n", len(errors))
	for i, err := range errors {
		fmt.Fprintf(&builder, "%d. %s\n", i+1, err.Error())
	}
	return builder.String()
}
