// =============================================================================
// Invoice Ledger - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, which converts every CSV and XLSX
// file in the input directory to the configured output format.
//
// COMMAND USAGE:
//   ledger convert [flags]
//
// FLAGS:
//   --dry-run     : Import and check files without writing or archiving
//   --format      : Output format (csv, xlsx, xml); overrides the config
//
// PROCESSING PIPELINE:
//   1. Discover CSV/XLSX files in the input directory
//   2. For each file (concurrently, bounded by max_concurrency):
//      a. Import the file into its own session
//      b. Run the advisory checks
//      c. Export in the output format
//      d. Archive the input file
//   3. Write the summary and error logs
//
// =============================================================================

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/ginjaninja78/invoice-ledger/internal/converter"
	"github.com/ginjaninja78/invoice-ledger/internal/editor"
	"github.com/ginjaninja78/invoice-ledger/pkg/utils"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// dryRun imports and checks files without writing output files.
var dryRun bool

// convertFormat overrides convert.output_format.
var convertFormat string

// =============================================================================
// CONVERT COMMAND DEFINITION
// =============================================================================

var convertCmd = &cobra.Command{
	Use:   "convert",
	Short: "Convert all CSV/XLSX files in the input directory",
	Long: `The convert command scans the input directory for CSV and XLSX files and
converts each one to the configured output format (csv, xlsx or xml).

Files are converted concurrently. Each file is converted independently, and
errors in one file do not affect the others.

On success:
  - The converted file is placed in the output directory
  - The original is moved to the input archive
  - A summary report is written to the output directory

On error:
  - An error log is written to the output directory
  - The original remains in the input directory`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd)
	},
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVar(
		&dryRun,
		"dry-run",
		false,
		"Import and check files without writing output files",
	)
	convertCmd.Flags().StringVar(
		&convertFormat,
		"format",
		"",
		"Output format: csv, xlsx or xml (default from config)",
	)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// runConvert runs the batch converter and prints a per-file report.
func runConvert(cmd *cobra.Command) error {
	cfg := appConfig.Convert
	out := cmd.OutOrStdout()

	name := cfg.OutputFormat
	if convertFormat != "" {
		name = convertFormat
	}
	format, err := editor.ParseFormat(name)
	if err != nil {
		return err
	}

	files := utils.NewFileManager(cfg.InputDir, cfg.OutputDir, cfg.InputArchiveDir)
	files.ArchiveOnSuccess = cfg.ShouldArchive()
	files.UseTimestampSubdirs = cfg.ArchiveByDate

	settings := converter.Settings{
		OutputFormat:   format,
		FileNameFormat: cfg.FileNameFormat,
		Codecs:         codecOptions(appConfig),
		Factory:        rowFactory(appConfig),
		DryRun:         dryRun,
	}

	fmt.Fprintln(out, "=== Invoice Ledger Converter ===")
	if dryRun {
		fmt.Fprintln(out, "Dry run: nothing will be written or archived.")
	}

	report, err := converter.RunBatch(cmd.Context(), settings, files, cfg.MaxConcurrency)
	if report == nil {
		return err
	}

	if len(report.Results) == 0 {
		fmt.Fprintf(out, "No CSV or XLSX files found in %s.\n", cfg.InputDir)
		return err
	}

	for _, result := range report.Results {
		name := filepath.Base(result.FilePath)
		switch {
		case !result.Success:
			fmt.Fprintf(out, "  ✗ %s: %v\n", name, result.Error)
		case result.OutputFile == "":
			fmt.Fprintf(out, "  ✓ %s: %d row(s), %d warning(s)\n", name, result.Stats.RowsProcessed, len(result.Issues))
		default:
			fmt.Fprintf(out, "  ✓ %s -> %s\n", name, result.OutputFile)
		}
	}

	summary := report.Summary
	fmt.Fprintln(out, "\n=== Conversion Complete ===")
	fmt.Fprintf(out, "Total files:     %d\n", summary.TotalFiles)
	fmt.Fprintf(out, "Successful:      %d\n", summary.SuccessfulFiles)
	fmt.Fprintf(out, "Errors:          %d\n", summary.FailedFiles)
	fmt.Fprintf(out, "Warnings:        %d\n", summary.Warnings)
	fmt.Fprintf(out, "Time elapsed:    %s\n", summary.EndTime.Sub(summary.StartTime))

	if report.ErrorLogPath != "" {
		fmt.Fprintf(out, "\nErrors and warnings have been logged to %s\n", report.ErrorLogPath)
	}

	return err
}
