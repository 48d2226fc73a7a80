// =============================================================================
// Invoice Ledger - Converter Module
// =============================================================================
//
// This module converts a single invoice-items file (CSV or XLSX) into the
// configured output format. Each file is loaded into its own editor session,
// so a conversion applies exactly the same import rules as the interactive
// tools and never shares state with other files.
//
// CONVERSION PIPELINE:
//   1. Import the input file into a fresh session
//   2. Run the advisory checks and log their warnings
//   3. Export the session in the output format
//   4. Archive the input file
//
// =============================================================================

package converter

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ginjaninja78/invoice-ledger/internal/amount"
	"github.com/ginjaninja78/invoice-ledger/internal/editor"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"github.com/ginjaninja78/invoice-ledger/internal/validation"
	"github.com/ginjaninja78/invoice-ledger/pkg/utils"
	"github.com/rs/zerolog"
)

// Error types recorded in the error log.
const (
	ErrorTypeImport  = "IMPORT_ERROR"
	ErrorTypeExport  = "EXPORT_ERROR"
	ErrorTypeArchive = "ARCHIVE_ERROR"
	ErrorTypeWarning = "VALIDATION_WARNING"
)

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of converting a single file.
type Result struct {
	// FilePath is the path to the input file.
	FilePath string

	// OutputFile is the path to the generated file.
	// This is empty if conversion failed or in a dry run.
	OutputFile string

	// ArchivePath is where the input was moved, if it was archived.
	ArchivePath string

	// Success indicates whether the conversion succeeded.
	Success bool

	// Error contains the error if conversion failed.
	Error error

	// ErrorType classifies Error for the error log.
	ErrorType string

	// Issues are the advisory findings for the imported rows.
	Issues []*validation.Issue

	// Stats contains conversion statistics.
	Stats ProcessingStats
}

// ProcessingStats contains statistics about the conversion.
type ProcessingStats struct {
	// RowsProcessed is the number of rows imported.
	RowsProcessed int

	// Totals are the column sums of the imported rows.
	Totals ledger.Totals

	// ProcessingTime is the time taken to convert the file.
	ProcessingTime time.Duration
}

// =============================================================================
// CONVERTER STRUCTURE
// =============================================================================

// Settings controls how files are converted.
type Settings struct {
	// OutputFormat is the format written to the output directory.
	OutputFormat editor.Format

	// FileNameFormat builds output names; see utils.GenerateOutputFileName.
	FileNameFormat string

	// Codecs holds the CSV/XLSX/XML options.
	Codecs editor.Options

	// Factory creates rows for imported files. Nil uses random ids.
	Factory *ledger.Factory

	// DryRun imports and checks files without writing or archiving.
	DryRun bool
}

// Converter handles the conversion of a single file.
type Converter struct {
	filePath string
	settings Settings
	files    *utils.FileManager
	log      zerolog.Logger
}

// New creates a new Converter instance.
//
// PARAMETERS:
//   - filePath: The path to the input file.
//   - settings: Output format, naming and codec settings.
//   - files: The file manager providing the output and archive directories.
//
// RETURNS:
//   - A new Converter instance.
func New(filePath string, settings Settings, files *utils.FileManager) *Converter {
	return &Converter{
		filePath: filePath,
		settings: settings,
		files:    files,
		log:      logger.WithComponent("converter").With().Str("file", filepath.Base(filePath)).Logger(),
	}
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes the conversion pipeline for the file.
func (c *Converter) Run(ctx context.Context) Result {
	startTime := time.Now()
	result := Result{FilePath: c.filePath}

	c.log.Info().Msg("converting file")

	// =========================================================================
	// STEP 1: IMPORT
	// =========================================================================

	session := editor.New(c.settings.Factory, c.settings.Codecs)

	count, err := session.ImportFile(ctx, c.filePath)
	if err != nil {
		return c.fail(result, ErrorTypeImport, fmt.Errorf("failed to import: %w", err))
	}

	snap := session.Snapshot()
	result.Stats.RowsProcessed = count
	result.Stats.Totals = snap.Totals
	c.log.Debug().Int("rows", count).Msg("imported")

	// =========================================================================
	// STEP 2: ADVISORY CHECKS
	// =========================================================================
	// Warnings never stop a conversion; they are logged and reported.

	check := validation.Check(snap.Rows)
	result.Issues = check.Issues
	for _, issue := range check.Issues {
		c.log.Warn().
			Int("row", issue.Row).
			Str("field", issue.Field).
			Str("value", issue.Value).
			Msg(issue.Message)
	}

	if c.settings.DryRun {
		result.Success = true
		result.Stats.ProcessingTime = time.Since(startTime)
		return result
	}

	// =========================================================================
	// STEP 3: EXPORT
	// =========================================================================

	outputPath, err := c.writeOutput(session)
	if err != nil {
		return c.fail(result, ErrorTypeExport, fmt.Errorf("failed to write output: %w", err))
	}
	result.OutputFile = outputPath
	c.log.Info().Str("output", outputPath).Msg("wrote output")

	// =========================================================================
	// STEP 4: ARCHIVE
	// =========================================================================

	archivePath, err := c.files.ArchiveInputFile(c.filePath)
	if err != nil {
		// The output exists, so the conversion itself stands.
		c.log.Warn().Err(err).Msg("failed to archive input")
		result.Error = err
		result.ErrorType = ErrorTypeArchive
	} else {
		result.ArchivePath = archivePath
	}

	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// fail records a failed conversion.
func (c *Converter) fail(result Result, errorType string, err error) Result {
	c.log.Error().Err(err).Str("error_type", errorType).Msg("conversion failed")
	result.Success = false
	result.Error = err
	result.ErrorType = errorType
	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// writeOutput exports the session to a new file in the output directory.
func (c *Converter) writeOutput(session *editor.Session) (string, error) {
	file, outputPath, err := createOutput(c.files.OutputDir, c.outputName())
	if err != nil {
		return "", err
	}

	if err := session.Export(file, c.settings.OutputFormat); err != nil {
		file.Close()
		os.Remove(outputPath)
		return "", err
	}
	if err := file.Close(); err != nil {
		os.Remove(outputPath)
		return "", err
	}

	return outputPath, nil
}

// outputName generates the output file name from the input name.
func (c *Converter) outputName() string {
	original := strings.TrimSuffix(filepath.Base(c.filePath), filepath.Ext(c.filePath))

	return utils.GenerateOutputFileName(c.settings.FileNameFormat, c.settings.OutputFormat.Extension(), map[string]string{
		"original": original,
	})
}

// createOutput creates name in dir without replacing anything. When the name
// is taken, including by a file created after a previous attempt, it tries
// stem_2, stem_3 and so on.
//
// RETURNS:
//   - The open file and its path.
//   - An error for any failure other than an existing file.
func createOutput(dir, name string) (*os.File, string, error) {
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)

	path := filepath.Join(dir, name)
	for n := 2; ; n++ {
		file, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
		if err == nil {
			return file, path, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return nil, "", err
		}
		path = filepath.Join(dir, fmt.Sprintf("%s_%d%s", stem, n, ext))
	}
}

// totalText formats the grand total for the summary log.
func totalText(t ledger.Totals) string {
	return amount.Fixed2(t.Total)
}
