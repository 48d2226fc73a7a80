package ledger

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROW FACTORY
// =============================================================================

// Factory creates rows with fresh identities and default values.
//
// Identities come from NewID and never from the clock, so rows created in
// the same instant (bulk import) cannot collide.
type Factory struct {
	// NewID returns a new unique row identifier.
	// Default: a random UUID.
	NewID func() string

	// Now returns the current time. The UTC calendar date of this time
	// fills the date columns of new rows.
	// Default: time.Now
	Now func() time.Time

	// DefaultColor is the background color of new and imported rows that
	// do not carry one.
	// Default: "#ffffff"
	DefaultColor string
}

// NewFactory returns a Factory with UUID identities and the wall clock.
func NewFactory() *Factory {
	return &Factory{
		NewID:        uuid.NewString,
		Now:          time.Now,
		DefaultColor: DefaultColor,
	}
}

// withDefaults fills unset hooks so a zero Factory is usable.
func (f *Factory) withDefaults() *Factory {
	if f == nil {
		return NewFactory()
	}
	if f.NewID != nil && f.Now != nil && f.DefaultColor != "" {
		return f
	}
	out := *f
	if out.NewID == nil {
		out.NewID = uuid.NewString
	}
	if out.Now == nil {
		out.Now = time.Now
	}
	if out.DefaultColor == "" {
		out.DefaultColor = DefaultColor
	}
	return &out
}

// Today returns the current UTC date in DateLayout.
func (f *Factory) Today() string {
	return f.withDefaults().Now().UTC().Format(DateLayout)
}

// NewRow returns a row with a fresh id, today's date in both date columns,
// empty text columns, a zero total and the default color.
func (f *Factory) NewRow() Row {
	f = f.withDefaults()
	today := f.Today()

	return Row{
		ID:               f.NewID(),
		OrderDate:        today,
		CompanyOrderDate: today,
		BackgroundColor:  f.DefaultColor,
	}
}

// FromFields builds a row from an imported record keyed by column name.
//
// RULES:
//   - The record is rejected (ok == false) unless at least one of
//     companyName, quantity or unitPrice is non-empty.
//   - Missing or empty dates default to today; a missing color defaults to
//     the factory color; other missing text columns are empty.
//   - Any total in the record is ignored and recomputed.
//   - The row always receives a fresh id.
func (f *Factory) FromFields(fields map[string]string) (row Row, ok bool) {
	if fields[ColCompanyName] == "" && fields[ColQuantity] == "" && fields[ColUnitPrice] == "" {
		return Row{}, false
	}

	f = f.withDefaults()
	today := f.Today()

	row = Row{
		ID:               f.NewID(),
		OrderDate:        orDefault(fields[ColOrderDate], today),
		Finish:           fields[ColFinish],
		CompanyName:      fields[ColCompanyName],
		Quantity:         fields[ColQuantity],
		UnitPrice:        fields[ColUnitPrice],
		CompanyOrderDate: orDefault(fields[ColCompanyOrderDate], today),
		FinalTotal:       fields[ColFinalTotal],
		BackgroundColor:  orDefault(fields[ColBackgroundColor], f.DefaultColor),
	}
	row.recomputeTotal()

	return row, true
}

// Restore rebuilds a row saved in a workbook. Unlike FromFields nothing is
// rejected and empty columns stay empty, so a blank row survives a save and
// reload. Only the id is fresh, the total is recomputed and a missing color
// gets the factory color.
func (f *Factory) Restore(fields map[string]string) Row {
	f = f.withDefaults()

	row := Row{
		ID:               f.NewID(),
		OrderDate:        fields[ColOrderDate],
		Finish:           fields[ColFinish],
		CompanyName:      fields[ColCompanyName],
		Quantity:         fields[ColQuantity],
		UnitPrice:        fields[ColUnitPrice],
		CompanyOrderDate: fields[ColCompanyOrderDate],
		FinalTotal:       fields[ColFinalTotal],
		BackgroundColor:  orDefault(fields[ColBackgroundColor], f.DefaultColor),
	}
	row.recomputeTotal()

	return row
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
