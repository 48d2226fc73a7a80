// =============================================================================
// Invoice Ledger - Ledger
// =============================================================================
//
// The Ledger owns an ordered sequence of rows. Order is the display and
// export order and only changes through Move, MoveBefore, Reorder and
// ReorderIDs.
//
// OUTCOMES:
//   Commands that address a row by id return Applied or NoOp. A missing id
//   is never an error: stale references from a re-rendered UI are expected.
//
// CONCURRENCY:
//   A Ledger is not safe for concurrent use. It is meant to have exactly one
//   owner (see editor.Session) that serializes commands.
//
// =============================================================================

package ledger

// Outcome reports whether a command changed the ledger.
type Outcome int

const (
	// NoOp means the addressed row does not exist.
	NoOp Outcome = iota

	// Applied means the command ran against an existing row.
	Applied
)

// String implements fmt.Stringer.
func (o Outcome) String() string {
	if o == Applied {
		return "applied"
	}
	return "noop"
}

// MarshalText lets outcomes appear as strings in JSON.
func (o Outcome) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}

// Ledger is an ordered collection of rows.
type Ledger struct {
	rows    []Row
	factory *Factory
}

// New creates an empty ledger. A nil factory uses NewFactory().
func New(factory *Factory) *Ledger {
	if factory == nil {
		factory = NewFactory()
	}
	return &Ledger{factory: factory}
}

// Factory returns the row factory used by AddRow. Import paths use it so
// imported rows get identities from the same generator.
func (l *Ledger) Factory() *Factory {
	return l.factory
}

// =============================================================================
// QUERIES
// =============================================================================

// Rows returns a copy of the row sequence.
func (l *Ledger) Rows() []Row {
	out := make([]Row, len(l.rows))
	copy(out, l.rows)
	return out
}

// Len returns the number of rows.
func (l *Ledger) Len() int {
	return len(l.rows)
}

// Row returns the row with the given id.
func (l *Ledger) Row(id string) (Row, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Row{}, false
	}
	return l.rows[i], true
}

func (l *Ledger) indexOf(id string) int {
	for i := range l.rows {
		if l.rows[i].ID == id {
			return i
		}
	}
	return -1
}

// =============================================================================
// COMMANDS
// =============================================================================

// AddRow appends a defaulted row and returns it.
func (l *Ledger) AddRow() Row {
	row := l.factory.NewRow()
	l.rows = append(l.rows, row)
	return row
}

// Apply runs an edit against the row with the given id. Quantity and unit
// price edits recompute the row total from the new value of the edited
// column and the current value of the other one.
func (l *Ledger) Apply(id string, e Edit) Outcome {
	i := l.indexOf(id)
	if i < 0 || e == nil {
		return NoOp
	}
	row := &l.rows[i]

	switch e := e.(type) {
	case EditDate:
		if e.Field == CompanyOrderDate {
			row.CompanyOrderDate = e.Value
		} else {
			row.OrderDate = e.Value
		}
	case EditText:
		if e.Field == CompanyName {
			row.CompanyName = e.Value
		} else {
			row.Finish = e.Value
		}
	case EditQuantity:
		row.Quantity = e.Value
		row.recomputeTotal()
	case EditUnitPrice:
		row.UnitPrice = e.Value
		row.recomputeTotal()
	case EditFinalTotal:
		row.FinalTotal = e.Value
	case EditColor:
		row.BackgroundColor = e.Value
	default:
		return NoOp
	}

	return Applied
}

// UpdateField is the string-keyed form of Apply. Column decoding errors are
// returned before the ledger is looked at.
func (l *Ledger) UpdateField(id, column, value string) (Outcome, error) {
	e, err := ParseEdit(column, value)
	if err != nil {
		return NoOp, err
	}
	return l.Apply(id, e), nil
}

// SetRowColor sets the background color of a row.
func (l *Ledger) SetRowColor(id, color string) Outcome {
	return l.Apply(id, EditColor{Value: color})
}

// DeleteRow removes a row, keeping the order of the others.
func (l *Ledger) DeleteRow(id string) Outcome {
	i := l.indexOf(id)
	if i < 0 {
		return NoOp
	}
	l.rows = append(l.rows[:i], l.rows[i+1:]...)
	return Applied
}

// Move takes the row out of its position and inserts it at toIndex, which
// is clamped to the valid range.
func (l *Ledger) Move(id string, toIndex int) Outcome {
	from := l.indexOf(id)
	if from < 0 {
		return NoOp
	}
	l.rows = arrayMove(l.rows, from, toIndex)
	return Applied
}

// MoveBefore moves the row with id to the current position of targetID.
// Moving down lands after the target, moving up lands before it. Missing
// ids are a no-op.
func (l *Ledger) MoveBefore(id, targetID string) Outcome {
	from, to := l.indexOf(id), l.indexOf(targetID)
	if from < 0 || to < 0 {
		return NoOp
	}
	l.rows = arrayMove(l.rows, from, to)
	return Applied
}

// Reorder replaces the sequence with rows. The set is not checked against
// the current one.
func (l *Ledger) Reorder(rows []Row) {
	l.ReplaceAll(rows)
}

// ReorderIDs rebuilds the sequence from existing rows in the order of ids.
// Unknown or repeated ids are skipped; rows not named are dropped.
func (l *Ledger) ReorderIDs(ids []string) {
	byID := make(map[string]Row, len(l.rows))
	for _, row := range l.rows {
		byID[row.ID] = row
	}

	ordered := make([]Row, 0, len(ids))
	for _, id := range ids {
		row, ok := byID[id]
		if !ok {
			continue
		}
		delete(byID, id)
		ordered = append(ordered, row)
	}

	l.rows = ordered
}

// ReplaceAll discards the current sequence and installs rows.
func (l *Ledger) ReplaceAll(rows []Row) {
	next := make([]Row, len(rows))
	copy(next, rows)
	l.rows = next
}

// arrayMove returns rows with the element at from moved to to.
func arrayMove(rows []Row, from, to int) []Row {
	if to < 0 {
		to = 0
	}
	if to > len(rows)-1 {
		to = len(rows) - 1
	}
	if from == to {
		return rows
	}

	moved := rows[from]
	if from < to {
		copy(rows[from:to], rows[from+1:to+1])
	} else {
		copy(rows[to+1:from+1], rows[to:from])
	}
	rows[to] = moved

	return rows
}
