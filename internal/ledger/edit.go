package ledger

import (
	"errors"
	"fmt"
)

// =============================================================================
// EDIT COMMANDS
// =============================================================================
//
// Edits form a closed set of commands. Ledger.Apply dispatches on the
// concrete type; only EditQuantity and EditUnitPrice touch the derived total.

// Edit is a single field change on one row.
type Edit interface {
	// Column is the column name the edit writes.
	Column() string
	isEdit()
}

// DateField selects one of the two date columns.
type DateField int

const (
	OrderDate DateField = iota
	CompanyOrderDate
)

// TextField selects one of the free text columns.
type TextField int

const (
	Finish TextField = iota
	CompanyName
)

// EditDate sets orderDate or companyOrderDate.
type EditDate struct {
	Field DateField
	Value string
}

// EditText sets finish or companyName.
type EditText struct {
	Field TextField
	Value string
}

// EditQuantity sets quantity and recomputes total.
type EditQuantity struct{ Value string }

// EditUnitPrice sets unitPrice and recomputes total.
type EditUnitPrice struct{ Value string }

// EditFinalTotal sets finalTotal. Total is not affected.
type EditFinalTotal struct{ Value string }

// EditColor sets backgroundColor.
type EditColor struct{ Value string }

func (e EditDate) Column() string {
	if e.Field == CompanyOrderDate {
		return ColCompanyOrderDate
	}
	return ColOrderDate
}

func (e EditText) Column() string {
	if e.Field == CompanyName {
		return ColCompanyName
	}
	return ColFinish
}

func (EditQuantity) Column() string   { return ColQuantity }
func (EditUnitPrice) Column() string  { return ColUnitPrice }
func (EditFinalTotal) Column() string { return ColFinalTotal }
func (EditColor) Column() string      { return ColBackgroundColor }

func (EditDate) isEdit()       {}
func (EditText) isEdit()       {}
func (EditQuantity) isEdit()   {}
func (EditUnitPrice) isEdit()  {}
func (EditFinalTotal) isEdit() {}
func (EditColor) isEdit()      {}

// =============================================================================
// DECODING
// =============================================================================

var (
	// ErrUnknownField is returned for a column name that does not exist.
	ErrUnknownField = errors.New("unknown field")

	// ErrReadOnlyField is returned for the derived total column.
	ErrReadOnlyField = errors.New("field is read-only")
)

// ParseEdit maps a column name and value to an Edit. It is the bridge from
// string-keyed callers (CLI arguments, JSON payloads) to the typed commands.
func ParseEdit(column, value string) (Edit, error) {
	switch column {
	case ColOrderDate:
		return EditDate{Field: OrderDate, Value: value}, nil
	case ColCompanyOrderDate:
		return EditDate{Field: CompanyOrderDate, Value: value}, nil
	case ColFinish:
		return EditText{Field: Finish, Value: value}, nil
	case ColCompanyName:
		return EditText{Field: CompanyName, Value: value}, nil
	case ColQuantity:
		return EditQuantity{Value: value}, nil
	case ColUnitPrice:
		return EditUnitPrice{Value: value}, nil
	case ColFinalTotal:
		return EditFinalTotal{Value: value}, nil
	case ColBackgroundColor:
		return EditColor{Value: value}, nil
	case ColTotal:
		return nil, fmt.Errorf("%q: %w", column, ErrReadOnlyField)
	}
	return nil, fmt.Errorf("%q: %w", column, ErrUnknownField)
}
