package xmlexport

import (
	"bytes"
	"encoding/xml"
	"testing"

	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRows() []ledger.Row {
	return []ledger.Row{
		{
			ID:               "not-exported",
			OrderDate:        "2026-01-02",
			Finish:           "paid",
			CompanyName:      "Acme",
			Quantity:         "2",
			UnitPrice:        "3.00",
			Total:            6,
			CompanyOrderDate: "2026-01-03",
			BackgroundColor:  "#ffffff",
		},
	}
}

func TestMarshal(t *testing.T) {
	rows := sampleRows()

	data, err := Marshal(rows, ledger.ComputeTotals(rows), DefaultOptions())
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>
<invoiceItems>
  <item n="1">
    <orderDate>2026-01-02</orderDate>
    <finish>paid</finish>
    <companyName>Acme</companyName>
    <quantity>2</quantity>
    <unitPrice>3.00</unitPrice>
    <total>6.00</total>
    <companyOrderDate>2026-01-03</companyOrderDate>
    <finalTotal/>
    <backgroundColor>#ffffff</backgroundColor>
  </item>
  <totals>
    <quantity>2.00</quantity>
    <unitPrice>3.00</unitPrice>
    <total>6.00</total>
    <finalTotal>0.00</finalTotal>
  </totals>
</invoiceItems>
`
	assert.Equal(t, want, string(data))
	assert.NotContains(t, string(data), "not-exported")
}

func TestMarshal_EmptyLedger(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeXMLDeclaration = false
	opts.IncludeTotals = false

	data, err := Marshal(nil, ledger.Totals{}, opts)
	require.NoError(t, err)
	assert.Equal(t, "<invoiceItems/>\n", string(data))
}

func TestWrite_EscapesText(t *testing.T) {
	rows := sampleRows()
	rows[0].CompanyName = `Smith & Sons <"Ltd">`

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows, DefaultOptions()))

	var doc struct {
		Items []struct {
			N           string `xml:"n,attr"`
			CompanyName string `xml:"companyName"`
		} `xml:"item"`
		Totals struct {
			Total string `xml:"total"`
		} `xml:"totals"`
	}
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &doc))

	require.Len(t, doc.Items, 1)
	assert.Equal(t, "1", doc.Items[0].N)
	assert.Equal(t, `Smith & Sons <"Ltd">`, doc.Items[0].CompanyName)
	assert.Equal(t, "6.00", doc.Totals.Total)
}
