package validation

import (
	"testing"

	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cleanRow() ledger.Row {
	return ledger.Row{
		ID:               "r1",
		OrderDate:        "2026-01-02",
		Finish:           ledger.StatusUnpaid,
		CompanyName:      "Acme",
		Quantity:         "2",
		UnitPrice:        "3.00",
		Total:            6,
		CompanyOrderDate: "2026-01-03",
		FinalTotal:       "",
		BackgroundColor:  "#ffffff",
	}
}

func TestCheck_CleanRows(t *testing.T) {
	result := Check([]ledger.Row{cleanRow(), cleanRow()})

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Issues)
	assert.Equal(t, 2, result.RowsChecked)
}

func TestCheck_FlagsEachRule(t *testing.T) {
	cases := []struct {
		field  string
		mutate func(*ledger.Row)
	}{
		{ledger.ColOrderDate, func(r *ledger.Row) { r.OrderDate = "02/01/2026" }},
		{ledger.ColCompanyOrderDate, func(r *ledger.Row) { r.CompanyOrderDate = "2026-13-01" }},
		{ledger.ColFinish, func(r *ledger.Row) { r.Finish = "done" }},
		{ledger.ColQuantity, func(r *ledger.Row) { r.Quantity = "12abc" }},
		{ledger.ColUnitPrice, func(r *ledger.Row) { r.UnitPrice = "n/a" }},
		{ledger.ColFinalTotal, func(r *ledger.Row) { r.FinalTotal = "1,000" }},
		{ledger.ColBackgroundColor, func(r *ledger.Row) { r.BackgroundColor = "red" }},
	}

	for _, tc := range cases {
		t.Run(tc.field, func(t *testing.T) {
			row := cleanRow()
			tc.mutate(&row)

			result := Check([]ledger.Row{cleanRow(), row})

			require.Len(t, result.Issues, 1)
			issue := result.Issues[0]
			assert.Equal(t, SeverityWarning, issue.Severity)
			assert.Equal(t, 2, issue.Row)
			assert.Equal(t, "r1", issue.RowID)
			assert.Equal(t, tc.field, issue.Field)
			assert.Equal(t, row.Field(tc.field), issue.Value)
			assert.True(t, result.IsValid, "warnings do not invalidate")
			assert.Equal(t, 1, result.WarningCount)
		})
	}
}

func TestCheck_NonNumericMessageShowsParsedValue(t *testing.T) {
	row := cleanRow()
	row.Quantity = "12abc"

	result := Check([]ledger.Row{row})

	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0].Message, "counts as 12.00")
}

func TestCheck_DoesNotMutate(t *testing.T) {
	row := cleanRow()
	row.Quantity = "abc"
	rows := []ledger.Row{row}

	Check(rows)

	assert.Equal(t, "abc", rows[0].Quantity)
}

func TestValidatorOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.TreatWarningsAsErrors = true
	opts.CustomChecks[ledger.ColCompanyName] = func(value string, _ ledger.Row) string {
		if value == "" {
			return "Company name is empty"
		}
		return ""
	}

	row := cleanRow()
	row.CompanyName = ""

	result := NewValidatorWithOptions(opts).CheckAll([]ledger.Row{row})

	require.Len(t, result.Issues, 1)
	assert.False(t, result.IsValid)
	assert.Equal(t, 1, result.ErrorCount)
	assert.Equal(t, SeverityError, result.Issues[0].Severity)
	assert.Equal(t, "Company name is empty", result.Issues[0].Message)
}

func TestFormatIssues(t *testing.T) {
	assert.Equal(t, "No validation issues.", FormatIssues(nil))

	row := cleanRow()
	row.Finish = "done"
	out := FormatIssues(Check([]ledger.Row{row}).Issues)

	assert.Contains(t, out, "1 issue(s)")
	assert.Contains(t, out, "1. [WARNING] Row 1, Field 'finish'")
}
