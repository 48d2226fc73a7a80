package cmd

import (
	"context"
	"fmt"
	"strconv"

	"github.com/ginjaninja78/invoice-ledger/internal/config"
	"github.com/ginjaninja78/invoice-ledger/internal/csvcodec"
	"github.com/ginjaninja78/invoice-ledger/internal/editor"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/ginjaninja78/invoice-ledger/internal/xlsxcodec"
	"github.com/ginjaninja78/invoice-ledger/internal/xmlexport"
)

// codecOptions builds the editor codec settings from the configuration.
func codecOptions(cfg *config.Config) editor.Options {
	opts := editor.Options{
		CSV:  csvcodec.DefaultOptions(),
		XLSX: xlsxcodec.DefaultOptions(),
		XML:  xmlexport.DefaultOptions(),
	}
	opts.CSV.Delimiter = cfg.CSV.Delimiter
	opts.XLSX.SheetName = cfg.XLSX.SheetName
	return opts
}

// rowFactory creates rows with the configured default color.
func rowFactory(cfg *config.Config) *ledger.Factory {
	factory := ledger.NewFactory()
	factory.DefaultColor = cfg.DefaultColor
	return factory
}

// openWorkbook loads the configured workbook into a new session. A missing
// workbook gives an empty session.
func openWorkbook(ctx context.Context) (*editor.Session, error) {
	session := editor.New(rowFactory(appConfig), codecOptions(appConfig))
	if _, err := session.OpenFile(ctx, appConfig.Workbook); err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", appConfig.Workbook, err)
	}
	return session, nil
}

// saveWorkbook writes the session back to the configured workbook.
func saveWorkbook(session *editor.Session) error {
	if err := session.SaveFile(appConfig.Workbook); err != nil {
		return fmt.Errorf("failed to save workbook %s: %w", appConfig.Workbook, err)
	}
	return nil
}

// rowAt resolves a 1-based position argument to a row.
func rowAt(session *editor.Session, arg string) (ledger.Row, error) {
	pos, err := parsePosition(arg)
	if err != nil {
		return ledger.Row{}, err
	}

	rows := session.Rows()
	if pos > len(rows) {
		return ledger.Row{}, fmt.Errorf("no row at position %d (the workbook has %d)", pos, len(rows))
	}
	return rows[pos-1], nil
}

// parsePosition parses a 1-based row position.
func parsePosition(arg string) (int, error) {
	pos, err := strconv.Atoi(arg)
	if err != nil || pos < 1 {
		return 0, fmt.Errorf("invalid row position %q: must be a number from 1", arg)
	}
	return pos, nil
}
