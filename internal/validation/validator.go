// =============================================================================
// Invoice Ledger - Validation
// =============================================================================
//
// This module checks ledger rows for values a user most likely did not
// intend. It is advisory: nothing here mutates rows or blocks an edit, an
// import or an export. The ledger keeps every value as typed and the totals
// still treat non-numeric text as 0.
//
// RULES:
//   - orderDate / companyOrderDate: empty or YYYY-MM-DD
//   - finish: empty or one of the known statuses
//   - quantity / unitPrice / finalTotal: empty or a plain decimal number
//   - backgroundColor: #RRGGBB (or the #RGB shorthand)
//
// ISSUE HANDLING:
//   - Issues are collected, never returned early
//   - Each issue carries the 1-based row position, field and value
//   - Severity is "warning" unless the caller escalates warnings
//
// =============================================================================

package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/ginjaninja78/invoice-ledger/internal/amount"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
)

// Severity levels.
const (
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// =============================================================================
// ISSUE TYPES
// =============================================================================

// Issue represents a single questionable value.
type Issue struct {
	// Severity is "warning" or, when escalated, "error".
	Severity string `json:"severity"`

	// Row is the 1-based position of the row in the ledger.
	Row int `json:"row"`

	// RowID is the id of the row at the time of the check.
	RowID string `json:"rowId"`

	// Field is the column name.
	Field string `json:"field"`

	// Value is the text that triggered the issue.
	Value string `json:"value"`

	// Message is a human-readable description.
	Message string `json:"message"`
}

// Error implements the error interface.
func (i *Issue) Error() string {
	return fmt.Sprintf("[%s] Row %d, Field '%s': %s (value: '%s')",
		strings.ToUpper(i.Severity),
		i.Row,
		i.Field,
		i.Message,
		i.Value,
	)
}

// Result contains the outcome of a check.
type Result struct {
	// IsValid is true if there are no error-severity issues.
	IsValid bool `json:"isValid"`

	// Issues contains every issue in row order.
	Issues []*Issue `json:"issues"`

	// ErrorCount is the number of error-severity issues.
	ErrorCount int `json:"errorCount"`

	// WarningCount is the number of warnings.
	WarningCount int `json:"warningCount"`

	// RowsChecked is the number of rows inspected.
	RowsChecked int `json:"rowsChecked"`
}

// =============================================================================
// VALIDATOR
// =============================================================================

// FieldCheck inspects one value and returns a message, or "" if it is fine.
type FieldCheck func(value string, row ledger.Row) string

// Options contains options for validation.
type Options struct {
	// TreatWarningsAsErrors reports every issue with "error" severity.
	// Default: false
	TreatWarningsAsErrors bool

	// CustomChecks run after the built-in rules. Key is the column name.
	CustomChecks map[string]FieldCheck
}

// Validator checks rows against the built-in and custom rules.
type Validator struct {
	options Options
	checks  map[string][]FieldCheck
}

// DefaultOptions returns the default validation options.
func DefaultOptions() Options {
	return Options{
		CustomChecks: make(map[string]FieldCheck),
	}
}

// NewValidator creates a Validator with the default options.
func NewValidator() *Validator {
	return NewValidatorWithOptions(DefaultOptions())
}

// NewValidatorWithOptions creates a Validator with custom options.
func NewValidatorWithOptions(options Options) *Validator {
	checks := map[string][]FieldCheck{
		ledger.ColOrderDate:        {checkDate},
		ledger.ColCompanyOrderDate: {checkDate},
		ledger.ColFinish:           {checkStatus},
		ledger.ColQuantity:         {checkNumeric},
		ledger.ColUnitPrice:        {checkNumeric},
		ledger.ColFinalTotal:       {checkNumeric},
		ledger.ColBackgroundColor:  {checkColor},
	}
	for field, check := range options.CustomChecks {
		checks[field] = append(checks[field], check)
	}

	return &Validator{options: options, checks: checks}
}

// Check validates rows with the default options. This is the main entry
// point used by the CLI and the converter.
func Check(rows []ledger.Row) *Result {
	return NewValidator().CheckAll(rows)
}

// CheckAll validates every row and returns a detailed result.
func (v *Validator) CheckAll(rows []ledger.Row) *Result {
	result := &Result{
		IsValid:     true,
		Issues:      make([]*Issue, 0),
		RowsChecked: len(rows),
	}

	for i, row := range rows {
		for _, issue := range v.CheckRow(i+1, row) {
			result.Issues = append(result.Issues, issue)

			if issue.Severity == SeverityError {
				result.ErrorCount++
				result.IsValid = false
			} else {
				result.WarningCount++
			}
		}
	}

	return result
}

// CheckRow validates a single row at the 1-based position.
func (v *Validator) CheckRow(position int, row ledger.Row) []*Issue {
	var issues []*Issue

	severity := SeverityWarning
	if v.options.TreatWarningsAsErrors {
		severity = SeverityError
	}

	for _, column := range ledger.Columns {
		value := row.Field(column)
		for _, check := range v.checks[column] {
			if msg := check(value, row); msg != "" {
				issues = append(issues, &Issue{
					Severity: severity,
					Row:      position,
					RowID:    row.ID,
					Field:    column,
					Value:    value,
					Message:  msg,
				})
			}
		}
	}

	return issues
}

// =============================================================================
// FIELD RULES
// =============================================================================

// checkDate accepts an empty value or a calendar date in YYYY-MM-DD.
func checkDate(value string, _ ledger.Row) string {
	if value == "" {
		return ""
	}
	if _, err := time.Parse(ledger.DateLayout, value); err != nil {
		return fmt.Sprintf("Value '%s' is not a date in YYYY-MM-DD format", value)
	}
	return ""
}

// checkStatus accepts an empty value or a known status.
func checkStatus(value string, _ ledger.Row) string {
	if ledger.IsKnownStatus(value) {
		return ""
	}
	return fmt.Sprintf("Value '%s' is not one of %s", value, strings.Join(ledger.Statuses, ", "))
}

// checkNumeric flags text that is only partly numeric or not numeric at all.
// Such text still counts as its parsed value.
func checkNumeric(value string, _ ledger.Row) string {
	if strings.TrimSpace(value) == "" || amount.IsNumeric(value) {
		return ""
	}
	return fmt.Sprintf("Value '%s' is not a number; it counts as %s", value, amount.Fixed2(amount.Parse(value)))
}

// checkColor requires a hex color.
func checkColor(value string, _ ledger.Row) string {
	if _, ok := ledger.NormalizeColor(value); ok && value != "" {
		return ""
	}
	return fmt.Sprintf("Value '%s' is not a #RRGGBB color", value)
}

// =============================================================================
// ISSUE FORMATTING
// =============================================================================

// FormatIssues formats issues for display or logging.
//
// PARAMETERS:
//   - issues: The issues to format.
//
// RETURNS:
//   - A formatted string containing all issues.
func FormatIssues(issues []*Issue) string {
	if len(issues) == 0 {
		return "No validation issues."
	}

	var builder strings.Builder

	builder.WriteString(fmt.Sprintf("Validation completed with %d issue(s):\n\n", len(issues)))

	for i, issue := range issues {
		builder.WriteString(fmt.Sprintf("%d. %s\n", i+1, issue.Error()))
	}

	return builder.String()
}
