// =============================================================================
// Invoice Ledger - Editor Session
// =============================================================================
//
// The Session is the single controller that owns a ledger. Every front end
// (CLI, HTTP API, batch tools) goes through it.
//
// CONCURRENCY:
//   - A mutex serializes commands, so each command runs to completion
//     before the next one starts.
//   - Import decoding happens on its own goroutine. The ledger is replaced
//     only after a successful result arrives; a failed or canceled import
//     leaves it untouched.
//   - Export and save take a snapshot under the lock and encode outside it.
//
// =============================================================================

package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/ginjaninja78/invoice-ledger/internal/csvcodec"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"github.com/ginjaninja78/invoice-ledger/internal/xlsxcodec"
	"github.com/ginjaninja78/invoice-ledger/internal/xmlexport"
	"github.com/rs/zerolog"
)

// ErrImportCanceled is returned when the context ends before decoding
// finishes.
var ErrImportCanceled = errors.New("import canceled")

// =============================================================================
// OPTIONS
// =============================================================================

// Options holds the per-format codec settings.
type Options struct {
	CSV  csvcodec.Options
	XLSX xlsxcodec.Options
	XML  xmlexport.Options
}

// DefaultOptions returns the default settings of every codec.
func DefaultOptions() Options {
	return Options{
		CSV:  csvcodec.DefaultOptions(),
		XLSX: xlsxcodec.DefaultOptions(),
		XML:  xmlexport.DefaultOptions(),
	}
}

// =============================================================================
// SESSION
// =============================================================================

// Snapshot is a consistent view of the rows and their totals.
type Snapshot struct {
	Rows   []ledger.Row  `json:"rows"`
	Totals ledger.Totals `json:"totals"`
}

// ImportResult is the single value delivered by ImportAsync.
type ImportResult struct {
	Rows []ledger.Row
	Err  error
}

// Session owns a ledger and serializes access to it.
type Session struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
	opts   Options
	log    zerolog.Logger
}

// New creates a session with an empty ledger. A nil factory uses random ids
// and the wall clock.
func New(factory *ledger.Factory, opts Options) *Session {
	return &Session{
		ledger: ledger.New(factory),
		opts:   opts,
		log:    logger.WithComponent("editor"),
	}
}

// =============================================================================
// COMMANDS
// =============================================================================

// AddRow appends a fresh row and returns it.
func (s *Session) AddRow() ledger.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	row := s.ledger.AddRow()
	s.log.Debug().Str("id", row.ID).Int("rows", s.ledger.Len()).Msg("row added")
	return row
}

// UpdateField sets one column of a row from text.
func (s *Session) UpdateField(id, column, value string) (ledger.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome, err := s.ledger.UpdateField(id, column, value)
	if err != nil {
		s.log.Debug().Err(err).Str("id", id).Str("field", column).Msg("field rejected")
		return outcome, err
	}
	s.log.Debug().Str("id", id).Str("field", column).Stringer("outcome", outcome).Msg("field updated")
	return outcome, nil
}

// Apply applies a typed edit.
func (s *Session) Apply(id string, e ledger.Edit) ledger.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.ledger.Apply(id, e)
	if e == nil {
		return outcome
	}
	s.log.Debug().Str("id", id).Str("field", e.Column()).Stringer("outcome", outcome).Msg("edit applied")
	return outcome
}

// SetRowColor changes a row's background color.
func (s *Session) SetRowColor(id, color string) ledger.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.ledger.SetRowColor(id, color)
	s.log.Debug().Str("id", id).Str("color", color).Stringer("outcome", outcome).Msg("row color set")
	return outcome
}

// DeleteRow removes a row.
func (s *Session) DeleteRow(id string) ledger.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.ledger.DeleteRow(id)
	s.log.Debug().Str("id", id).Stringer("outcome", outcome).Msg("row deleted")
	return outcome
}

// Move moves a row to the 0-based index.
func (s *Session) Move(id string, toIndex int) ledger.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.ledger.Move(id, toIndex)
	s.log.Debug().Str("id", id).Int("to", toIndex).Stringer("outcome", outcome).Msg("row moved")
	return outcome
}

// MoveBefore moves a row to the position of another row.
func (s *Session) MoveBefore(id, targetID string) ledger.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcome := s.ledger.MoveBefore(id, targetID)
	s.log.Debug().Str("id", id).Str("target", targetID).Stringer("outcome", outcome).Msg("row moved")
	return outcome
}

// ReorderIDs installs the displayed order and returns the new rows.
func (s *Session) ReorderIDs(ids []string) []ledger.Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ledger.ReorderIDs(ids)
	s.log.Debug().Int("rows", s.ledger.Len()).Msg("rows reordered")
	return s.ledger.Rows()
}

// =============================================================================
// QUERIES
// =============================================================================

// Rows returns a copy of the rows in display order.
func (s *Session) Rows() []ledger.Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Rows()
}

// Row returns the row with id.
func (s *Session) Row(id string) (ledger.Row, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Row(id)
}

// Len returns the number of rows.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Len()
}

// Totals returns the column sums.
func (s *Session) Totals() ledger.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Totals()
}

// Snapshot returns rows and totals computed from the same state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.ledger.Rows()
	return Snapshot{Rows: rows, Totals: ledger.ComputeTotals(rows)}
}

// =============================================================================
// EXPORT / IMPORT
// =============================================================================

// Export writes the current rows to w. The ledger is not modified.
func (s *Session) Export(w io.Writer, format Format) error {
	rows := s.Rows()

	var err error
	switch format {
	case FormatCSV:
		err = csvcodec.Encode(w, rows, s.opts.CSV)
	case FormatXLSX:
		err = xlsxcodec.Encode(w, rows, s.opts.XLSX)
	case FormatXML:
		err = xmlexport.Write(w, rows, s.opts.XML)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		s.log.Error().Err(err).Str("format", string(format)).Msg("export failed")
		return fmt.Errorf("export %s: %w", format, err)
	}

	s.log.Info().Str("format", string(format)).Int("rows", len(rows)).Msg("exported")
	return nil
}

// ImportAsync decodes r on a separate goroutine. The returned channel
// yields exactly one result and is then closed. The ledger is not touched.
func (s *Session) ImportAsync(ctx context.Context, r io.Reader, format Format) <-chan ImportResult {
	return s.decodeAsync(ctx, r, format, false)
}

// decodeAsync runs the decoder for format off the caller's goroutine.
// keepBlank selects the lossless workbook rules over the import rules.
func (s *Session) decodeAsync(ctx context.Context, r io.Reader, format Format, keepBlank bool) <-chan ImportResult {
	results := make(chan ImportResult, 1)

	csvOpts, xlsxOpts := s.opts.CSV, s.opts.XLSX
	csvOpts.KeepBlank = keepBlank
	xlsxOpts.KeepBlank = keepBlank

	s.mu.Lock()
	factory := s.ledger.Factory()
	s.mu.Unlock()

	go func() {
		defer close(results)

		if err := ctx.Err(); err != nil {
			results <- ImportResult{Err: fmt.Errorf("%w: %v", ErrImportCanceled, err)}
			return
		}

		var rows []ledger.Row
		var err error
		switch format {
		case FormatCSV:
			rows, err = csvcodec.Decode(r, factory, csvOpts)
		case FormatXLSX:
			rows, err = xlsxcodec.Decode(r, factory, xlsxOpts)
		default:
			err = fmt.Errorf("%w: %q cannot be imported", ErrUnknownFormat, format)
		}

		results <- ImportResult{Rows: rows, Err: err}
	}()

	return results
}

// Import replaces the ledger with the rows decoded from r and returns
// their count. On any failure the ledger is left unchanged.
func (s *Session) Import(ctx context.Context, r io.Reader, format Format) (int, error) {
	return s.load(ctx, r, format, false)
}

// load waits for decodeAsync and installs the rows on success.
func (s *Session) load(ctx context.Context, r io.Reader, format Format, keepBlank bool) (int, error) {
	var result ImportResult
	select {
	case result = <-s.decodeAsync(ctx, r, format, keepBlank):
	case <-ctx.Done():
		s.log.Warn().Err(ctx.Err()).Msg("import canceled")
		return 0, fmt.Errorf("%w: %v", ErrImportCanceled, ctx.Err())
	}

	if result.Err != nil {
		s.log.Warn().Err(result.Err).Str("format", string(format)).Msg("import failed")
		return 0, fmt.Errorf("import %s: %w", format, result.Err)
	}

	s.mu.Lock()
	s.ledger.ReplaceAll(result.Rows)
	s.mu.Unlock()

	s.log.Info().Str("format", string(format)).Int("rows", len(result.Rows)).Msg("imported")
	return len(result.Rows), nil
}

// =============================================================================
// WORKBOOK FILES
// =============================================================================

// OpenFile loads a workbook (CSV or XLSX by extension) saved by SaveFile.
// Rows come back as they were saved, blank rows and empty dates included;
// only the ids are new. A missing file leaves the session empty and is not
// an error.
func (s *Session) OpenFile(ctx context.Context, path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		s.log.Debug().Str("path", path).Msg("workbook not found, starting empty")
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer file.Close()

	return s.load(ctx, file, format, true)
}

// ImportFile replaces the session with a CSV or XLSX file under the import
// rules of Import. Unlike OpenFile a missing file is an error.
func (s *Session) ImportFile(ctx context.Context, path string) (int, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return 0, err
	}

	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	return s.Import(ctx, file, format)
}

// SaveFile writes the session to path, replacing the file atomically.
func (s *Session) SaveFile(path string) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if !format.Importable() {
		return fmt.Errorf("%w: workbook cannot be %s", ErrUnknownFormat, format)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create workbook directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".ledger-*"+format.Extension())
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := s.Export(tmp, format); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace workbook: %w", err)
	}

	s.log.Debug().Str("path", path).Msg("workbook saved")
	return nil
}
