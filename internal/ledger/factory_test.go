package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromFields(t *testing.T) {
	f := testFactory()

	t.Run("blank rows are rejected", func(t *testing.T) {
		_, ok := f.FromFields(map[string]string{
			ColOrderDate:  "2025-01-01",
			ColFinish:     StatusPaid,
			ColFinalTotal: "10",
		})
		assert.False(t, ok)
	})

	t.Run("defaults fill missing columns", func(t *testing.T) {
		row, ok := f.FromFields(map[string]string{ColCompanyName: "Acme"})

		assert.True(t, ok)
		assert.NotEmpty(t, row.ID)
		assert.Equal(t, "2026-03-14", row.OrderDate)
		assert.Equal(t, "2026-03-14", row.CompanyOrderDate)
		assert.Equal(t, "#ffffff", row.BackgroundColor)
		assert.Equal(t, "", row.Finish)
		assert.Equal(t, 0.0, row.Total)
	})

	t.Run("total is recomputed", func(t *testing.T) {
		row, ok := f.FromFields(map[string]string{
			ColQuantity:  "3",
			ColUnitPrice: "2.5",
			ColTotal:     "999.00",
		})

		assert.True(t, ok)
		assert.Equal(t, 7.5, row.Total)
	})

	t.Run("fresh ids", func(t *testing.T) {
		a, _ := f.FromFields(map[string]string{ColQuantity: "1"})
		b, _ := f.FromFields(map[string]string{ColQuantity: "1"})
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestRestore(t *testing.T) {
	f := testFactory()

	row := f.Restore(map[string]string{
		ColFinish:     StatusPaid,
		ColFinalTotal: "10",
		ColTotal:      "999.00",
	})

	assert.NotEmpty(t, row.ID, "blank rows are kept")
	assert.Equal(t, "", row.OrderDate, "empty dates stay empty")
	assert.Equal(t, "", row.CompanyOrderDate)
	assert.Equal(t, StatusPaid, row.Finish)
	assert.Equal(t, "#ffffff", row.BackgroundColor)
	assert.Equal(t, 0.0, row.Total)

	row = f.Restore(map[string]string{ColQuantity: "2", ColUnitPrice: "4", ColBackgroundColor: "#000000"})
	assert.Equal(t, 8.0, row.Total)
	assert.Equal(t, "#000000", row.BackgroundColor)
}

func TestZeroFactoryIsUsable(t *testing.T) {
	var f Factory

	row := f.NewRow()

	assert.NotEmpty(t, row.ID)
	assert.Equal(t, DefaultColor, row.BackgroundColor)
	assert.Len(t, row.OrderDate, len(DateLayout))
}

func TestParseEdit(t *testing.T) {
	for _, column := range Columns {
		e, err := ParseEdit(column, "v")
		if column == ColTotal {
			assert.ErrorIs(t, err, ErrReadOnlyField)
			continue
		}
		if assert.NoError(t, err, column) {
			assert.Equal(t, column, e.Column())
		}
	}
}

func TestContrastTextColor(t *testing.T) {
	assert.Equal(t, "#000000", ContrastTextColor("#ffffff"))
	assert.Equal(t, "#000000", ContrastTextColor(""))
	assert.Equal(t, "#ffffff", ContrastTextColor("#000000"))
	assert.Equal(t, "#ffffff", ContrastTextColor("#1e293b"))
	assert.Equal(t, "#000000", ContrastTextColor("#ff0"))
	assert.Equal(t, "#ffffff", ContrastTextColor("#ff0000"))
}

func TestNormalizeColor(t *testing.T) {
	hex, ok := NormalizeColor("ABC")
	assert.True(t, ok)
	assert.Equal(t, "#aabbcc", hex)

	hex, ok = NormalizeColor("#12345G")
	assert.False(t, ok)
	assert.Equal(t, DefaultColor, hex)
}

func TestRowRecord(t *testing.T) {
	row := Row{
		ID:               "ignored",
		OrderDate:        "2025-01-01",
		Finish:           StatusPending,
		CompanyName:      "Acme",
		Quantity:         "2",
		UnitPrice:        "3.00",
		Total:            6,
		CompanyOrderDate: "2025-01-02",
		FinalTotal:       "5",
		BackgroundColor:  "#eeeeee",
	}

	assert.Equal(t, []string{
		"2025-01-01", "pending", "Acme", "2", "3.00", "6.00", "2025-01-02", "5", "#eeeeee",
	}, row.Record())
}
