// =============================================================================
// Invoice Ledger - CSV Codec
// =============================================================================
//
// This module translates between the ledger's row sequence and flat CSV
// text. It is only used at explicit import/export boundaries.
//
// EXPORT:
//   - One header row followed by one record per row, in ledger order.
//   - Columns: orderDate, finish, companyName, quantity, unitPrice, total,
//     companyOrderDate, finalTotal, backgroundColor.
//   - The row id is never written.
//   - total is written with two decimal places.
//
// IMPORT:
//   - The first record is the header; columns are matched by name, so
//     missing or extra columns are fine (older files lack backgroundColor).
//   - Records without companyName, quantity and unitPrice are dropped.
//   - Every row receives a fresh id and a recomputed total.
//   - Structural errors fail the whole import; no partial result is returned.
//
// RESTORE (Options.KeepBlank):
//   - Used to reload a saved workbook. Every record that has at least one
//     non-empty cell becomes a row, and empty columns stay empty.
//
// =============================================================================

package csvcodec

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
)

// ErrMalformed is wrapped by every import failure caused by the input text.
var ErrMalformed = errors.New("malformed CSV")

// utf8BOM is stripped from the first header cell.
const utf8BOM = "\ufeff"

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls the CSV dialect.
type Options struct {
	// Delimiter separates fields. Accepts a single character or one of the
	// aliases "tab", "pipe", "semicolon".
	// Default: ","
	Delimiter string

	// KeepBlank restores rows exactly as saved instead of applying the
	// import rules. Only records whose cells are all empty are skipped.
	// Default: false
	KeepBlank bool
}

// DefaultOptions returns comma-separated settings.
func DefaultOptions() Options {
	return Options{Delimiter: ","}
}

// comma resolves the delimiter setting to a rune.
func (o Options) comma() rune {
	switch o.Delimiter {
	case "\\t", "\t", "tab", "TAB":
		return '\t'
	case "|", "pipe", "PIPE":
		return '|'
	case ";", "semicolon":
		return ';'
	}
	if len(o.Delimiter) > 0 {
		return rune(o.Delimiter[0])
	}
	return ','
}

// =============================================================================
// EXPORT
// =============================================================================

// Encode writes rows as CSV. Errors from the writer are returned as-is
// wrapped with context; rows are only read.
func Encode(w io.Writer, rows []ledger.Row, opts Options) error {
	writer := csv.NewWriter(w)
	writer.Comma = opts.comma()

	if err := writer.Write(ledger.Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, row := range rows {
		if err := writer.Write(row.Record()); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}

	return nil
}

// =============================================================================
// IMPORT
// =============================================================================

// Decode reads CSV text and builds rows with factory. The returned slice is
// complete or nil.
func Decode(r io.Reader, factory *ledger.Factory, opts Options) ([]ledger.Row, error) {
	reader := csv.NewReader(bufio.NewReader(r))
	reader.Comma = opts.comma()

	// Ragged records are tolerated; cells beyond the header are ignored and
	// short records leave trailing columns empty.
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: input is empty", ErrMalformed)
	}

	return DecodeRecords(records[0], records[1:], factory, opts), nil
}

// DecodeRecords maps a header and raw records to rows. Shared with the XLSX
// codec, which produces the same header/record shape. Only opts.KeepBlank
// is consulted.
func DecodeRecords(header []string, records [][]string, factory *ledger.Factory, opts Options) []ledger.Row {
	headers := cleanHeaders(header)

	rows := make([]ledger.Row, 0, len(records))
	for _, record := range records {
		fields := make(map[string]string, len(headers))
		for col, name := range headers {
			if name == "" || col >= len(record) {
				continue
			}
			// First occurrence of a duplicated header wins.
			if _, seen := fields[name]; !seen {
				fields[name] = record[col]
			}
		}

		if opts.KeepBlank {
			if isBlankRecord(record) {
				continue
			}
			rows = append(rows, factory.Restore(fields))
			continue
		}

		row, ok := factory.FromFields(fields)
		if !ok {
			continue
		}
		rows = append(rows, row)
	}

	return rows
}

// isBlankRecord reports whether every cell of record is empty.
func isBlankRecord(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// cleanHeaders trims header names and strips a leading byte order mark.
func cleanHeaders(header []string) []string {
	cleaned := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, utf8BOM)
		}
		cleaned[i] = strings.TrimSpace(name)
	}
	return cleaned
}
