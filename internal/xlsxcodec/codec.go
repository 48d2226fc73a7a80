// =============================================================================
// Invoice Ledger - XLSX Codec
// =============================================================================
//
// This module writes the ledger to an Excel workbook and reads it back. It
// follows the same column contract as the CSV codec so a sheet exported here
// can be re-imported without loss.
//
// SHEET LAYOUT:
//
//   | A         | B      | C           | D        | E         | F     | G                | H          | I               |
//   |-----------|--------|-------------|----------|-----------|-------|------------------|------------|-----------------|
//   | orderDate | finish | companyName | quantity | unitPrice | total | companyOrderDate | finalTotal | backgroundColor |
//   | ...one row per ledger row, filled with its background color...                                                |
//   |           |        |             |          |           |       |                  |            |                 |
//   | Totals:   |        |             | sum      | sum       | sum   |                  | sum        |                 |
//
//   - Text columns are written as strings so typed formatting survives.
//   - total is a number with the "0.00" format.
//   - Each data row uses its backgroundColor as fill and the contrast color
//     for its font.
//   - The totals footer is optional; the reader stops at it.
//
// =============================================================================

package xlsxcodec

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/invoice-ledger/internal/csvcodec"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/xuri/excelize/v2"
)

// ErrMalformed is wrapped by every import failure caused by the input file.
var ErrMalformed = errors.New("malformed XLSX")

// TotalsLabel marks the footer row.
const TotalsLabel = "Totals:"

// numFmtFixed2 is the built-in "0.00" number format.
const numFmtFixed2 = 2

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls the workbook layout.
type Options struct {
	// SheetName is the name of the sheet written on export and preferred on
	// import. Import falls back to the first sheet.
	// Default: "Invoice Items"
	SheetName string

	// IncludeTotals appends the totals footer on export.
	IncludeTotals bool

	// KeepBlank restores rows exactly as saved; see csvcodec.Options.
	KeepBlank bool
}

// DefaultOptions returns the standard layout with a totals footer.
func DefaultOptions() Options {
	return Options{
		SheetName:     "Invoice Items",
		IncludeTotals: true,
	}
}

func (o Options) sheetName() string {
	if strings.TrimSpace(o.SheetName) == "" {
		return DefaultOptions().SheetName
	}
	return o.SheetName
}

// =============================================================================
// EXPORT
// =============================================================================

// Encode writes rows as an XLSX workbook to w.
func Encode(w io.Writer, rows []ledger.Row, opts Options) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := opts.sheetName()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(ledger.Columns))
	for i, column := range ledger.Columns {
		header[i] = column
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	lastCol, _ := excelize.ColumnNumberToName(len(ledger.Columns))
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	styles := newStyleCache(f)
	for i, row := range rows {
		excelRow := i + 2
		if err := writeRow(f, sheet, excelRow, row, styles); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if opts.IncludeTotals {
		if err := writeTotals(f, sheet, len(rows)+3, ledger.ComputeTotals(rows)); err != nil {
			return fmt.Errorf("failed to write totals: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}

	return nil
}

// writeRow writes one ledger row at the 1-based excelRow.
func writeRow(f *excelize.File, sheet string, excelRow int, row ledger.Row, styles *styleCache) error {
	values := make([]interface{}, len(ledger.Columns))
	for i, column := range ledger.Columns {
		if column == ledger.ColTotal {
			values[i] = row.Total
			continue
		}
		values[i] = row.Field(column)
	}

	first, err := excelize.CoordinatesToCellName(1, excelRow)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, first, &values); err != nil {
		return err
	}

	textStyle, err := styles.get(row.BackgroundColor, false)
	if err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(ledger.Columns), excelRow)
	if err := f.SetCellStyle(sheet, first, last, textStyle); err != nil {
		return err
	}

	totalStyle, err := styles.get(row.BackgroundColor, true)
	if err != nil {
		return err
	}
	totalCell, _ := excelize.CoordinatesToCellName(columnIndex(ledger.ColTotal), excelRow)
	return f.SetCellStyle(sheet, totalCell, totalCell, totalStyle)
}

// writeTotals writes the footer at the 1-based excelRow.
func writeTotals(f *excelize.File, sheet string, excelRow int, totals ledger.Totals) error {
	cells := map[int]interface{}{
		1:                                TotalsLabel,
		columnIndex(ledger.ColQuantity):   totals.Quantity,
		columnIndex(ledger.ColUnitPrice):  totals.UnitPrice,
		columnIndex(ledger.ColTotal):      totals.Total,
		columnIndex(ledger.ColFinalTotal): totals.FinalTotal,
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, NumFmt: numFmtFixed2})
	if err != nil {
		return err
	}

	for col, value := range cells {
		cell, err := excelize.CoordinatesToCellName(col, excelRow)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return err
		}
	}

	return nil
}

// columnIndex returns the 1-based sheet column of a ledger column.
func columnIndex(column string) int {
	for i, c := range ledger.Columns {
		if c == column {
			return i + 1
		}
	}
	return 0
}

// styleCache reuses one style per background color and cell kind.
type styleCache struct {
	f      *excelize.File
	styles map[string]int
}

func newStyleCache(f *excelize.File) *styleCache {
	return &styleCache{f: f, styles: make(map[string]int)}
}

func (c *styleCache) get(background string, numeric bool) (int, error) {
	hex, _ := ledger.NormalizeColor(background)
	key := hex
	if numeric {
		key += "/num"
	}
	if id, ok := c.styles[key]; ok {
		return id, nil
	}

	style := &excelize.Style{
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{strings.TrimPrefix(hex, "#")},
		},
		Font: &excelize.Font{
			Color: strings.TrimPrefix(ledger.ContrastTextColor(hex), "#"),
		},
	}
	if numeric {
		style.NumFmt = numFmtFixed2
	}

	id, err := c.f.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("failed to create style for %s: %w", hex, err)
	}
	c.styles[key] = id
	return id, nil
}

// =============================================================================
// IMPORT
// =============================================================================

// Decode reads a workbook and builds rows with factory, applying the same
// rules as the CSV import. The returned slice is complete or nil.
func Decode(r io.Reader, factory *ledger.Factory, opts Options) ([]ledger.Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	defer f.Close()

	sheet := pickSheet(f, opts.sheetName())
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformed)
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read sheet %q: %v", ErrMalformed, sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: sheet %q is empty", ErrMalformed, sheet)
	}

	records := rows[1:]
	for i, record := range records {
		if len(record) > 0 && strings.TrimSpace(record[0]) == TotalsLabel {
			records = records[:i]
			break
		}
	}

	return csvcodec.DecodeRecords(rows[0], records, factory, csvcodec.Options{KeepBlank: opts.KeepBlank}), nil
}

// pickSheet returns the preferred sheet if present, otherwise the first one.
func pickSheet(f *excelize.File, preferred string) string {
	sheets := f.GetSheetList()
	for _, name := range sheets {
		if name == preferred {
			return name
		}
	}
	if len(sheets) == 0 {
		return ""
	}
	return sheets[0]
}
