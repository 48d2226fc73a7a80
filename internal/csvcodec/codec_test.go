package csvcodec

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFactory() *ledger.Factory {
	n := 0
	return &ledger.Factory{
		NewID: func() string {
			n++
			return fmt.Sprintf("id-%d", n)
		},
		Now: func() time.Time { return time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC) },
	}
}

// userFields strips the id so rows from different ledgers can be compared.
func userFields(rows []ledger.Row) [][]string {
	out := make([][]string, len(rows))
	for i, r := range rows {
		out[i] = r.Record()
	}
	return out
}

func TestEncode(t *testing.T) {
	rows := []ledger.Row{
		{
			ID:               "secret-id",
			OrderDate:        "2026-01-02",
			Finish:           "paid",
			CompanyName:      "Acme, Inc.",
			Quantity:         "2",
			UnitPrice:        "3.00",
			Total:            6,
			CompanyOrderDate: "2026-01-03",
			FinalTotal:       "5.50",
			BackgroundColor:  "#ffeeaa",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, rows, DefaultOptions()))

	want := "orderDate,finish,companyName,quantity,unitPrice,total,companyOrderDate,finalTotal,backgroundColor\n" +
		"2026-01-02,paid,\"Acme, Inc.\",2,3.00,6.00,2026-01-03,5.50,#ffeeaa\n"
	assert.Equal(t, want, buf.String())
	assert.NotContains(t, buf.String(), "secret-id")
}

func TestEncode_EmptyLedgerWritesHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, nil, DefaultOptions()))
	assert.Equal(t, strings.Join(ledger.Columns, ",")+"\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestEncode_WriterFailure(t *testing.T) {
	err := Encode(failingWriter{}, []ledger.Row{{CompanyName: "x"}}, DefaultOptions())
	assert.ErrorContains(t, err, "disk full")
}

func TestDecode_DefaultsAndRecompute(t *testing.T) {
	input := "orderDate,finish,companyName,quantity,unitPrice,total,companyOrderDate,finalTotal\n" +
		",unpaid,Acme,2,3.00,123.45,,7\n" +
		",,,,,,,\n" +
		"2026-02-01,,,,5,,2026-02-02,\n"

	rows, err := Decode(strings.NewReader(input), testFactory(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2, "the blank record is dropped")

	first := rows[0]
	assert.Equal(t, "id-1", first.ID)
	assert.Equal(t, "2026-10-19", first.OrderDate)
	assert.Equal(t, "2026-10-19", first.CompanyOrderDate)
	assert.Equal(t, "unpaid", first.Finish)
	assert.Equal(t, 6.0, first.Total, "the file's total column is ignored")
	assert.Equal(t, "#ffffff", first.BackgroundColor, "older files have no color column")

	second := rows[1]
	assert.Equal(t, "id-2", second.ID)
	assert.Equal(t, "2026-02-01", second.OrderDate)
	assert.Equal(t, "", second.Quantity)
	assert.Equal(t, "5", second.UnitPrice)
	assert.Equal(t, 0.0, second.Total)
}

func TestDecode_HeaderHandling(t *testing.T) {
	input := "\ufeff companyName , extra,quantity\n" +
		"Acme,ignored,4\n" +
		"Short\n"

	rows, err := Decode(strings.NewReader(input), testFactory(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Acme", rows[0].CompanyName)
	assert.Equal(t, "4", rows[0].Quantity)
	assert.Equal(t, "Short", rows[1].CompanyName)
	assert.Equal(t, "", rows[1].Quantity)
}

func TestDecode_HeaderOnly(t *testing.T) {
	rows, err := Decode(strings.NewReader(strings.Join(ledger.Columns, ",")+"\n"), testFactory(), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestDecode_Malformed(t *testing.T) {
	cases := map[string]string{
		"empty":         "",
		"unterminated":  "companyName,quantity\n\"Acme,2\n",
		"bare quote":    "companyName,quantity\nAc\"me,2\n",
		"only newlines": "\n\n",
	}

	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			rows, err := Decode(strings.NewReader(input), testFactory(), DefaultOptions())
			assert.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, rows)
		})
	}
}

func TestDecode_Delimiter(t *testing.T) {
	input := "companyName;quantity;unitPrice\nAcme;2;2.5\n"

	rows, err := Decode(strings.NewReader(input), testFactory(), Options{Delimiter: "semicolon"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 5.0, rows[0].Total)
}

func TestRoundTrip(t *testing.T) {
	l := ledger.New(testFactory())
	a := l.AddRow()
	l.UpdateField(a.ID, ledger.ColCompanyName, "  Spaced \"Quoted\" Co")
	l.UpdateField(a.ID, ledger.ColQuantity, "2")
	l.UpdateField(a.ID, ledger.ColUnitPrice, "3.00")
	l.UpdateField(a.ID, ledger.ColFinish, ledger.StatusPending)
	l.UpdateField(a.ID, ledger.ColFinalTotal, "5.75")
	l.SetRowColor(a.ID, "#abcdef")

	b := l.AddRow()
	l.UpdateField(b.ID, ledger.ColCompanyName, "Line\nBreak")
	l.UpdateField(b.ID, ledger.ColQuantity, "1.5")
	l.UpdateField(b.ID, ledger.ColUnitPrice, "abc")
	l.UpdateField(b.ID, ledger.ColOrderDate, "2024-12-31")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, l.Rows(), DefaultOptions()))

	imported, err := Decode(&buf, testFactory(), DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, userFields(l.Rows()), userFields(imported))
	for i, row := range imported {
		assert.Equal(t, l.Rows()[i].Total, row.Total)
	}
}

func TestDecode_KeepBlank(t *testing.T) {
	input := "orderDate,finish,companyName,quantity,unitPrice,total,companyOrderDate,finalTotal,backgroundColor\n" +
		"2026-01-05,,,,,0.00,2026-01-05,,#ffffff\n" +
		",paid,,,,0.00,,,#000000\n" +
		",,,,,,,,\n"

	rows, err := Decode(strings.NewReader(input), testFactory(), Options{Delimiter: ",", KeepBlank: true})
	require.NoError(t, err)
	require.Len(t, rows, 2, "rows without company, quantity and price are kept; empty records are not")

	assert.Equal(t, "2026-01-05", rows[0].OrderDate)
	assert.Equal(t, "", rows[0].CompanyName)
	assert.Equal(t, "", rows[1].OrderDate, "empty dates are not defaulted")
	assert.Equal(t, "paid", rows[1].Finish)
	assert.Equal(t, "#000000", rows[1].BackgroundColor)

	imported, err := Decode(strings.NewReader(input), testFactory(), DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, imported, "the import rules still drop blank rows")
}

func TestRoundTrip_KeepBlank(t *testing.T) {
	l := ledger.New(testFactory())
	l.AddRow()
	b := l.AddRow()
	l.UpdateField(b.ID, ledger.ColOrderDate, "")
	l.UpdateField(b.ID, ledger.ColQuantity, "4")

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, l.Rows(), DefaultOptions()))

	restored, err := Decode(&buf, testFactory(), Options{KeepBlank: true})
	require.NoError(t, err)
	assert.Equal(t, userFields(l.Rows()), userFields(restored))
}
