// =============================================================================
// Invoice Ledger - Import, Export and Check Commands
// =============================================================================
//
// COMMAND USAGE:
//   ledger import <file>              - Replace the workbook with a CSV/XLSX file
//   ledger export <file> [--format]   - Write the workbook as CSV, XLSX or XML
//   ledger check [--strict]           - Report suspicious cell values
//
// =============================================================================

package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/ginjaninja78/invoice-ledger/internal/editor"
	"github.com/ginjaninja78/invoice-ledger/internal/validation"
	"github.com/spf13/cobra"
)

// exportFormat overrides the format derived from the export file name.
var exportFormat string

// strictCheck turns check warnings into a failing exit status.
var strictCheck bool

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace the workbook contents with a CSV or XLSX file",
	Long: `Import every line item of a CSV or XLSX file into the workbook. The current
contents are replaced. Malformed files leave the workbook untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]

		session := editor.New(rowFactory(appConfig), codecOptions(appConfig))
		count, err := session.ImportFile(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("failed to import %s: %w", path, err)
		}
		if err := saveWorkbook(session); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d row(s) into %s\n", count, appConfig.Workbook)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the workbook as CSV, XLSX or XML",
	Long: `Write the workbook to <file>. The format follows the file extension unless
--format is given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		path := args[0]

		var format editor.Format
		if exportFormat != "" {
			format, err = editor.ParseFormat(exportFormat)
		} else {
			format, err = editor.FormatFromPath(path)
		}
		if err != nil {
			return err
		}

		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", path, err)
		}
		defer func() {
			if cerr := file.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("failed to write %s: %w", path, cerr)
			}
		}()

		if err := session.Export(file, format); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d row(s) to %s\n", session.Len(), path)
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report dates, statuses, numbers and colors that look wrong",
	Long: `Check every row of the workbook and list values that are not valid dates,
known statuses, numbers or colors. The workbook is never changed. With
--strict any finding makes the command fail.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		validator := validation.NewValidatorWithOptions(validation.Options{
			TreatWarningsAsErrors: strictCheck,
		})
		result := validator.CheckAll(session.Rows())

		fmt.Fprintf(cmd.OutOrStdout(), "Checked %d row(s).\n", result.RowsChecked)
		fmt.Fprintln(cmd.OutOrStdout(), validation.FormatIssues(result.Issues))

		if !result.IsValid {
			return errors.New("check failed")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd, exportCmd, checkCmd)

	exportCmd.Flags().StringVar(&exportFormat, "format", "", "Output format: csv, xlsx or xml")
	checkCmd.Flags().BoolVar(&strictCheck, "strict", false, "Fail when any value looks wrong")
}
