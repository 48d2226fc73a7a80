// =============================================================================
// Invoice Ledger - XML Export
// =============================================================================
//
// This module renders the ledger as an XML document for systems that take
// XML rather than CSV. It is export-only.
//
// XML STRUCTURE:
//
//   <invoiceItems>                       <!-- Root element -->
//     <item n="1">                       <!-- One per row, in ledger order -->
//       <orderDate>2026-01-02</orderDate>
//       <finish>paid</finish>
//       <companyName>Acme</companyName>
//       <quantity>2</quantity>
//       <unitPrice>3.00</unitPrice>
//       <total>6.00</total>
//       <companyOrderDate>2026-01-03</companyOrderDate>
//       <finalTotal/>                    <!-- Empty values self-close -->
//       <backgroundColor>#ffffff</backgroundColor>
//     </item>
//     <totals>
//       <quantity>2.00</quantity>
//       <unitPrice>3.00</unitPrice>
//       <total>6.00</total>
//       <finalTotal>0.00</finalTotal>
//     </totals>
//   </invoiceItems>
//
// =============================================================================

package xmlexport

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/ginjaninja78/invoice-ledger/internal/amount"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
)

// =============================================================================
// OPTIONS
// =============================================================================

// Options contains options for XML generation.
type Options struct {
	// Indent is the string used for indentation.
	// Default: "  " (two spaces)
	Indent string

	// IncludeXMLDeclaration determines whether to include the XML declaration.
	// Default: true
	IncludeXMLDeclaration bool

	// RootElement is the name of the document element.
	// Default: "invoiceItems"
	RootElement string

	// ItemIndexAttribute is the attribute carrying the 1-based row position.
	// Empty disables it.
	// Default: "n"
	ItemIndexAttribute string

	// IncludeTotals appends the <totals> element.
	// Default: true
	IncludeTotals bool
}

// DefaultOptions returns the default generation options.
func DefaultOptions() Options {
	return Options{
		Indent:                "  ",
		IncludeXMLDeclaration: true,
		RootElement:           "invoiceItems",
		ItemIndexAttribute:    "n",
		IncludeTotals:         true,
	}
}

// =============================================================================
// XML GENERATION
// =============================================================================

// Marshal creates an XML document from rows and their totals.
//
// PARAMETERS:
//   - rows: The ledger rows in display order.
//   - totals: The column sums to render in <totals>.
//   - opts: Layout options.
//
// RETURNS:
//   - The XML document as a byte slice.
//   - An error if generation fails.
func Marshal(rows []ledger.Row, totals ledger.Totals, opts Options) ([]byte, error) {
	if opts.RootElement == "" {
		opts.RootElement = DefaultOptions().RootElement
	}

	var buffer bytes.Buffer
	if opts.IncludeXMLDeclaration {
		buffer.WriteString(xml.Header)
	}

	root := element{name: opts.RootElement}
	for i, row := range rows {
		root.children = append(root.children, buildItem(i+1, row, opts))
	}
	if opts.IncludeTotals {
		root.children = append(root.children, buildTotals(totals))
	}

	if err := writeElement(&buffer, root, opts.Indent, 0); err != nil {
		return nil, fmt.Errorf("failed to marshal XML: %w", err)
	}

	return buffer.Bytes(), nil
}

// Write renders rows and their computed totals to w.
func Write(w io.Writer, rows []ledger.Row, opts Options) error {
	data, err := Marshal(rows, ledger.ComputeTotals(rows), opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// =============================================================================
// DOCUMENT BUILDING
// =============================================================================

// element is a minimal XML node: either a text value or child elements.
type element struct {
	name     string
	attrs    []xml.Attr
	value    string
	children []element
}

func buildItem(position int, row ledger.Row, opts Options) element {
	item := element{name: "item"}
	if opts.ItemIndexAttribute != "" {
		item.attrs = append(item.attrs, xml.Attr{
			Name:  xml.Name{Local: opts.ItemIndexAttribute},
			Value: strconv.Itoa(position),
		})
	}

	for _, column := range ledger.Columns {
		item.children = append(item.children, element{name: column, value: row.Field(column)})
	}

	return item
}

func buildTotals(totals ledger.Totals) element {
	return element{
		name: "totals",
		children: []element{
			{name: ledger.ColQuantity, value: amount.Fixed2(totals.Quantity)},
			{name: ledger.ColUnitPrice, value: amount.Fixed2(totals.UnitPrice)},
			{name: ledger.ColTotal, value: amount.Fixed2(totals.Total)},
			{name: ledger.ColFinalTotal, value: amount.Fixed2(totals.FinalTotal)},
		},
	}
}

// =============================================================================
// SERIALIZATION
// =============================================================================

// writeElement writes e at the given depth.
func writeElement(buffer *bytes.Buffer, e element, indent string, level int) error {
	writeIndent(buffer, indent, level)

	buffer.WriteString("<")
	buffer.WriteString(e.name)
	for _, attr := range e.attrs {
		buffer.WriteString(" ")
		buffer.WriteString(attr.Name.Local)
		buffer.WriteString("=\"")
		if err := xml.EscapeText(buffer, []byte(attr.Value)); err != nil {
			return err
		}
		buffer.WriteString("\"")
	}

	if len(e.children) == 0 && e.value == "" {
		buffer.WriteString("/>\n")
		return nil
	}

	buffer.WriteString(">")

	if len(e.children) == 0 {
		if err := xml.EscapeText(buffer, []byte(e.value)); err != nil {
			return err
		}
	} else {
		buffer.WriteString("\n")
		for _, child := range e.children {
			if err := writeElement(buffer, child, indent, level+1); err != nil {
				return err
			}
		}
		writeIndent(buffer, indent, level)
	}

	buffer.WriteString("</")
	buffer.WriteString(e.name)
	buffer.WriteString(">\n")

	return nil
}

func writeIndent(buffer *bytes.Buffer, indent string, level int) {
	for i := 0; i < level; i++ {
		buffer.WriteString(indent)
	}
}
