package ledger

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testFactory returns a factory with sequential ids and a fixed clock.
func testFactory() *Factory {
	n := 0
	return &Factory{
		NewID: func() string {
			n++
			return fmt.Sprintf("row-%d", n)
		},
		Now:          func() time.Time { return time.Date(2026, 3, 14, 23, 30, 0, 0, time.UTC) },
		DefaultColor: DefaultColor,
	}
}

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestAddRow_Defaults(t *testing.T) {
	l := New(testFactory())

	row := l.AddRow()

	assert.Equal(t, "row-1", row.ID)
	assert.Equal(t, "2026-03-14", row.OrderDate)
	assert.Equal(t, "2026-03-14", row.CompanyOrderDate)
	assert.Equal(t, "", row.Finish)
	assert.Equal(t, "", row.CompanyName)
	assert.Equal(t, "", row.Quantity)
	assert.Equal(t, "", row.UnitPrice)
	assert.Equal(t, "", row.FinalTotal)
	assert.Equal(t, 0.0, row.Total)
	assert.Equal(t, "#ffffff", row.BackgroundColor)
	assert.Equal(t, 1, l.Len())
}

func TestAddRow_DistinctIDsWithDefaultFactory(t *testing.T) {
	l := New(nil)

	a := l.AddRow()
	b := l.AddRow()

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, []string{a.ID, b.ID}, ids(l.Rows()), "rows are appended at the end")
}

func TestApply_RecomputesTotal(t *testing.T) {
	l := New(testFactory())
	row := l.AddRow()

	assert.Equal(t, Applied, l.Apply(row.ID, EditQuantity{Value: "2"}))
	got, _ := l.Row(row.ID)
	assert.Equal(t, 0.0, got.Total, "unit price still empty")

	assert.Equal(t, Applied, l.Apply(row.ID, EditUnitPrice{Value: "3.00"}))
	got, _ = l.Row(row.ID)
	assert.Equal(t, 6.0, got.Total)
	assert.Equal(t, "3.00", got.UnitPrice, "text is stored as typed")

	l.Apply(row.ID, EditQuantity{Value: "abc"})
	got, _ = l.Row(row.ID)
	assert.Equal(t, 0.0, got.Total)
	assert.Equal(t, "abc", got.Quantity)
}

func TestApply_OtherEditsLeaveTotalAlone(t *testing.T) {
	l := New(testFactory())
	row := l.AddRow()
	l.Apply(row.ID, EditQuantity{Value: "4"})
	l.Apply(row.ID, EditUnitPrice{Value: "2.5"})

	edits := []Edit{
		EditDate{Field: OrderDate, Value: "2025-01-01"},
		EditDate{Field: CompanyOrderDate, Value: "2025-02-02"},
		EditText{Field: Finish, Value: StatusPaid},
		EditText{Field: CompanyName, Value: "Acme"},
		EditFinalTotal{Value: "9.99"},
		EditColor{Value: "#ff0000"},
	}
	for _, e := range edits {
		assert.Equal(t, Applied, l.Apply(row.ID, e), e.Column())
	}

	got, _ := l.Row(row.ID)
	assert.Equal(t, 10.0, got.Total)
	assert.Equal(t, "2025-01-01", got.OrderDate)
	assert.Equal(t, "2025-02-02", got.CompanyOrderDate)
	assert.Equal(t, "paid", got.Finish)
	assert.Equal(t, "Acme", got.CompanyName)
	assert.Equal(t, "9.99", got.FinalTotal)
	assert.Equal(t, "#ff0000", got.BackgroundColor)
}

func TestUpdateField(t *testing.T) {
	l := New(testFactory())
	row := l.AddRow()

	outcome, err := l.UpdateField(row.ID, ColQuantity, "3")
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)

	outcome, err = l.UpdateField(row.ID, ColUnitPrice, "1.5")
	require.NoError(t, err)
	assert.Equal(t, Applied, outcome)

	got, _ := l.Row(row.ID)
	assert.Equal(t, 4.5, got.Total)

	_, err = l.UpdateField(row.ID, ColTotal, "100")
	assert.ErrorIs(t, err, ErrReadOnlyField)

	_, err = l.UpdateField(row.ID, "notes", "x")
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestUpdateField_MissingIDIsNoOp(t *testing.T) {
	l := New(testFactory())
	l.AddRow()
	before := l.Rows()

	outcome, err := l.UpdateField("missing", ColCompanyName, "Acme")

	require.NoError(t, err)
	assert.Equal(t, NoOp, outcome)
	assert.Equal(t, before, l.Rows())
}

func TestDeleteRow(t *testing.T) {
	l := New(testFactory())
	a, b, c := l.AddRow(), l.AddRow(), l.AddRow()

	assert.Equal(t, Applied, l.DeleteRow(b.ID))
	assert.Equal(t, []string{a.ID, c.ID}, ids(l.Rows()))

	assert.Equal(t, NoOp, l.DeleteRow(b.ID))
	assert.Equal(t, 2, l.Len())

	d := l.AddRow()
	assert.NotEqual(t, b.ID, d.ID, "ids are never reused")
}

func TestSetRowColor(t *testing.T) {
	l := New(testFactory())
	row := l.AddRow()

	assert.Equal(t, Applied, l.SetRowColor(row.ID, "#123456"))
	got, _ := l.Row(row.ID)
	assert.Equal(t, "#123456", got.BackgroundColor)

	assert.Equal(t, NoOp, l.SetRowColor("missing", "#000000"))
}

func TestMove(t *testing.T) {
	cases := []struct {
		name string
		id   string
		to   int
		want []string
	}{
		{"down", "row-1", 2, []string{"row-2", "row-3", "row-1", "row-4"}},
		{"up", "row-4", 1, []string{"row-1", "row-4", "row-2", "row-3"}},
		{"same", "row-2", 1, []string{"row-1", "row-2", "row-3", "row-4"}},
		{"clamped high", "row-1", 99, []string{"row-2", "row-3", "row-4", "row-1"}},
		{"clamped low", "row-3", -5, []string{"row-3", "row-1", "row-2", "row-4"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l := New(testFactory())
			for i := 0; i < 4; i++ {
				l.AddRow()
			}

			assert.Equal(t, Applied, l.Move(tc.id, tc.to))
			assert.Equal(t, tc.want, ids(l.Rows()))
		})
	}
}

func TestMove_IsPermutation(t *testing.T) {
	l := New(testFactory())
	for i := 0; i < 5; i++ {
		r := l.AddRow()
		l.Apply(r.ID, EditText{Field: CompanyName, Value: fmt.Sprintf("c%d", i)})
	}
	before := l.Rows()

	l.Move("row-2", 4)
	l.MoveBefore("row-5", "row-1")

	assert.ElementsMatch(t, before, l.Rows())
	assert.Equal(t, NoOp, l.Move("missing", 0))
	assert.Equal(t, NoOp, l.MoveBefore("row-1", "missing"))
}

func TestMoveBefore(t *testing.T) {
	l := New(testFactory())
	for i := 0; i < 4; i++ {
		l.AddRow()
	}

	assert.Equal(t, Applied, l.MoveBefore("row-4", "row-2"))
	assert.Equal(t, []string{"row-1", "row-4", "row-2", "row-3"}, ids(l.Rows()))

	assert.Equal(t, Applied, l.MoveBefore("row-1", "row-3"))
	assert.Equal(t, []string{"row-4", "row-2", "row-3", "row-1"}, ids(l.Rows()))
}

func TestReorderIDs(t *testing.T) {
	l := New(testFactory())
	for i := 0; i < 3; i++ {
		l.AddRow()
	}
	before := l.Rows()

	l.ReorderIDs([]string{"row-3", "row-1", "row-2"})
	assert.Equal(t, []string{"row-3", "row-1", "row-2"}, ids(l.Rows()))
	assert.ElementsMatch(t, before, l.Rows())

	l.ReorderIDs([]string{"row-2", "ghost", "row-2"})
	assert.Equal(t, []string{"row-2"}, ids(l.Rows()), "a different set replaces the displayed set")
}

func TestReorder_ReplacesSequence(t *testing.T) {
	l := New(testFactory())
	a, b := l.AddRow(), l.AddRow()

	l.Reorder([]Row{b, a})

	assert.Equal(t, []string{b.ID, a.ID}, ids(l.Rows()))
}

func TestRows_ReturnsCopy(t *testing.T) {
	l := New(testFactory())
	l.AddRow()

	rows := l.Rows()
	rows[0].CompanyName = "mutated"

	got, _ := l.Row("row-1")
	assert.Equal(t, "", got.CompanyName)
}

func TestReplaceAll(t *testing.T) {
	l := New(testFactory())
	l.AddRow()
	l.AddRow()

	l.ReplaceAll([]Row{{ID: "x"}})

	assert.Equal(t, []string{"x"}, ids(l.Rows()))
	assert.Equal(t, 0, l.indexOf("x"))
	assert.Equal(t, -1, l.indexOf("row-1"))
}

func TestTotals(t *testing.T) {
	t.Run("empty ledger", func(t *testing.T) {
		assert.Equal(t, Totals{}, New(testFactory()).Totals())
	})

	t.Run("mixed rows", func(t *testing.T) {
		l := New(testFactory())
		first := l.AddRow()
		l.UpdateField(first.ID, ColQuantity, "2")
		l.UpdateField(first.ID, ColUnitPrice, "3.00")
		l.UpdateField(first.ID, ColFinalTotal, "5.50")

		second := l.AddRow()
		l.UpdateField(second.ID, ColQuantity, "")
		l.UpdateField(second.ID, ColUnitPrice, "5")
		l.UpdateField(second.ID, ColFinalTotal, "n/a")

		rows := l.Rows()
		assert.Equal(t, "6.00", rows[0].Field(ColTotal))
		assert.Equal(t, "0.00", rows[1].Field(ColTotal))

		totals := l.Totals()
		assert.Equal(t, 2.0, totals.Quantity)
		assert.Equal(t, 8.0, totals.UnitPrice)
		assert.Equal(t, 6.0, totals.Total)
		assert.Equal(t, 5.5, totals.FinalTotal)
	})
}
