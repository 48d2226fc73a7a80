// =============================================================================
// Invoice Ledger - Row Entity
// =============================================================================
//
// A Row is one invoice line. Text columns keep exactly what the user typed;
// Total is the only derived column and is recomputed from Quantity and
// UnitPrice whenever either of them is edited.
//
// =============================================================================

package ledger

import (
	"github.com/ginjaninja78/invoice-ledger/internal/amount"
)

// =============================================================================
// COLUMN NAMES
// =============================================================================

// Column names as they appear in CSV headers, JSON payloads and field edits.
const (
	ColOrderDate        = "orderDate"
	ColFinish           = "finish"
	ColCompanyName      = "companyName"
	ColQuantity         = "quantity"
	ColUnitPrice        = "unitPrice"
	ColTotal            = "total"
	ColCompanyOrderDate = "companyOrderDate"
	ColFinalTotal       = "finalTotal"
	ColBackgroundColor  = "backgroundColor"
)

// Columns is the fixed export order. The row id is an internal identity and
// is never part of it.
var Columns = []string{
	ColOrderDate,
	ColFinish,
	ColCompanyName,
	ColQuantity,
	ColUnitPrice,
	ColTotal,
	ColCompanyOrderDate,
	ColFinalTotal,
	ColBackgroundColor,
}

// DateLayout is the calendar date format used for the date columns.
const DateLayout = "2006-01-02"

// DefaultColor is the background color of a fresh row.
const DefaultColor = "#ffffff"

// =============================================================================
// STATUS
// =============================================================================

// Status values offered for the finish column. The ledger stores finish as
// free text; the set is only used for advisory checks and UI choices.
const (
	StatusPaid    = "paid"
	StatusUnpaid  = "unpaid"
	StatusPending = "pending"
)

// Statuses lists the known finish values in display order.
var Statuses = []string{StatusPaid, StatusUnpaid, StatusPending}

// IsKnownStatus reports whether s is empty or one of Statuses.
func IsKnownStatus(s string) bool {
	if s == "" {
		return true
	}
	for _, status := range Statuses {
		if s == status {
			return true
		}
	}
	return false
}

// =============================================================================
// ROW
// =============================================================================

// Row represents a single invoice line.
type Row struct {
	// ID is assigned at creation and never changes or gets reused.
	ID string `json:"id"`

	OrderDate   string `json:"orderDate"`
	Finish      string `json:"finish"`
	CompanyName string `json:"companyName"`

	// Quantity and UnitPrice keep the typed text; see amount.Parse.
	Quantity  string `json:"quantity"`
	UnitPrice string `json:"unitPrice"`

	// Total is Parse(Quantity) * Parse(UnitPrice). Read-only.
	Total float64 `json:"total"`

	CompanyOrderDate string `json:"companyOrderDate"`

	// FinalTotal is edited independently and may diverge from Total.
	FinalTotal string `json:"finalTotal"`

	BackgroundColor string `json:"backgroundColor"`
}

// recomputeTotal refreshes the derived Total column.
func (r *Row) recomputeTotal() {
	r.Total = amount.Product(r.Quantity, r.UnitPrice)
}

// Field returns the text of a column as it would be exported.
// Unknown column names return an empty string.
func (r Row) Field(column string) string {
	switch column {
	case ColOrderDate:
		return r.OrderDate
	case ColFinish:
		return r.Finish
	case ColCompanyName:
		return r.CompanyName
	case ColQuantity:
		return r.Quantity
	case ColUnitPrice:
		return r.UnitPrice
	case ColTotal:
		return amount.Fixed2(r.Total)
	case ColCompanyOrderDate:
		return r.CompanyOrderDate
	case ColFinalTotal:
		return r.FinalTotal
	case ColBackgroundColor:
		return r.BackgroundColor
	}
	return ""
}

// Record returns the row's values in Columns order.
func (r Row) Record() []string {
	record := make([]string, len(Columns))
	for i, column := range Columns {
		record[i] = r.Field(column)
	}
	return record
}

// TextColor is the black or white text color readable on the row's
// background.
func (r Row) TextColor() string {
	return ContrastTextColor(r.BackgroundColor)
}
