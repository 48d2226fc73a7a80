package converter

import (
	"context"
	"fmt"
	"time"

	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"github.com/ginjaninja78/invoice-ledger/pkg/utils"
	"golang.org/x/sync/errgroup"
)

// InputExtensions are the file types picked up from the input directory.
var InputExtensions = []string{".csv", ".xlsx"}

// BatchReport is the outcome of a batch run.
type BatchReport struct {
	Summary utils.ProcessingSummary

	// Results are in input file order.
	Results []Result

	// SummaryPath and ErrorLogPath are empty in a dry run; ErrorLogPath is
	// also empty when nothing failed or warned.
	SummaryPath  string
	ErrorLogPath string
}

// RunBatch converts every input file, at most maxConcurrency at a time. A
// failing file never affects the others; the returned error covers only
// problems with the directories or the logs.
func RunBatch(ctx context.Context, settings Settings, files *utils.FileManager, maxConcurrency int) (*BatchReport, error) {
	log := logger.WithComponent("converter")
	start := time.Now()

	if !settings.DryRun {
		if err := files.EnsureDirectories(); err != nil {
			return nil, err
		}
	}

	inputs, err := files.DiscoverInputFiles(InputExtensions...)
	if err != nil {
		return nil, err
	}
	log.Info().Int("files", len(inputs)).Str("dir", files.InputDir).Msg("discovered input files")

	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	results := make([]Result, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)
	for i, input := range inputs {
		g.Go(func() error {
			results[i] = New(input, settings, files).Run(gctx)
			return nil
		})
	}
	// Workers never return errors.
	_ = g.Wait()

	report := &BatchReport{
		Summary: summarize(results, start),
		Results: results,
	}

	log.Info().
		Int("total", report.Summary.TotalFiles).
		Int("succeeded", report.Summary.SuccessfulFiles).
		Int("failed", report.Summary.FailedFiles).
		Int("warnings", report.Summary.Warnings).
		Dur("elapsed", report.Summary.EndTime.Sub(report.Summary.StartTime)).
		Msg("batch complete")

	if settings.DryRun || len(inputs) == 0 {
		return report, nil
	}

	report.SummaryPath, err = utils.WriteSummaryLog(report.Summary, files.OutputDir)
	if err != nil {
		return report, fmt.Errorf("failed to write summary log: %w", err)
	}
	report.ErrorLogPath, err = utils.WriteErrorLog(errorEntries(results), files.OutputDir)
	if err != nil {
		return report, fmt.Errorf("failed to write error log: %w", err)
	}

	return report, nil
}

// summarize aggregates per-file results.
func summarize(results []Result, start time.Time) utils.ProcessingSummary {
	summary := utils.ProcessingSummary{
		StartTime:  start,
		EndTime:    time.Now(),
		TotalFiles: len(results),
	}

	for _, r := range results {
		summary.Warnings += len(r.Issues)
		if !r.Success {
			summary.FailedFiles++
			summary.FailedFilesList = append(summary.FailedFilesList, utils.FailedFileInfo{
				InputFile:    r.FilePath,
				ErrorMessage: r.Error.Error(),
				ErrorType:    r.ErrorType,
			})
			continue
		}

		summary.SuccessfulFiles++
		summary.TotalRows += r.Stats.RowsProcessed
		summary.ProcessedFiles = append(summary.ProcessedFiles, utils.ProcessedFileInfo{
			InputFile:   r.FilePath,
			OutputFile:  r.OutputFile,
			ArchivePath: r.ArchivePath,
			Rows:        r.Stats.RowsProcessed,
			Warnings:    len(r.Issues),
			Total:       totalText(r.Stats.Totals),
			ProcessTime: r.Stats.ProcessingTime,
		})
	}

	return summary
}

// errorEntries turns failures, archive problems and warnings into error log
// entries.
func errorEntries(results []Result) []utils.ErrorLogEntry {
	now := time.Now()
	var entries []utils.ErrorLogEntry

	for _, r := range results {
		if r.Error != nil {
			entries = append(entries, utils.ErrorLogEntry{
				Timestamp:    now,
				FileName:     r.FilePath,
				ErrorType:    r.ErrorType,
				ErrorMessage: r.Error.Error(),
			})
		}
		for _, issue := range r.Issues {
			entries = append(entries, utils.ErrorLogEntry{
				Timestamp:    now,
				FileName:     r.FilePath,
				ErrorType:    ErrorTypeWarning,
				ErrorMessage: issue.Message,
				RowNumber:    issue.Row,
				FieldName:    issue.Field,
				FieldValue:   issue.Value,
			})
		}
	}

	return entries
}
