package ledger

import (
	"github.com/ginjaninja78/invoice-ledger/internal/amount"
)

// Totals holds the column sums shown in the table footer.
type Totals struct {
	Quantity   float64 `json:"quantity"`
	UnitPrice  float64 `json:"unitPrice"`
	Total      float64 `json:"total"`
	FinalTotal float64 `json:"finalTotal"`
}

// ComputeTotals sums the numeric columns of rows. Text columns go through
// amount.Sum, so anything non-numeric contributes zero; Total uses the
// stored value.
func ComputeTotals(rows []Row) Totals {
	quantities := make([]string, len(rows))
	unitPrices := make([]string, len(rows))
	finalTotals := make([]string, len(rows))

	var t Totals
	for i, row := range rows {
		quantities[i] = row.Quantity
		unitPrices[i] = row.UnitPrice
		finalTotals[i] = row.FinalTotal
		t.Total += row.Total
	}

	t.Quantity = amount.Sum(quantities...)
	t.UnitPrice = amount.Sum(unitPrices...)
	t.FinalTotal = amount.Sum(finalTotals...)
	return t
}

// Totals sums the ledger's numeric columns. An empty ledger yields zeros.
func (l *Ledger) Totals() Totals {
	return ComputeTotals(l.rows)
}
