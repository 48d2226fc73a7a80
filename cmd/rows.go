// =============================================================================
// Invoice Ledger - Row Commands
// =============================================================================
//
// These commands load the workbook, run one ledger command and save the
// workbook again. Rows are addressed by their 1-based position as shown by
// 'ledger list'.
//
// COMMAND USAGE:
//   ledger list
//   ledger add [--company --quantity --unit-price --finish --final-total --color]
//   ledger set <pos> <field> <value>
//   ledger delete <pos>
//   ledger move <pos> <to-pos>
//   ledger color <pos> <#hex>
//   ledger totals
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/ginjaninja78/invoice-ledger/internal/amount"
	"github.com/ginjaninja78/invoice-ledger/internal/ledger"
	"github.com/spf13/cobra"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

// Flags of the 'add' command. Empty values keep the row defaults.
var (
	addCompany    string
	addQuantity   string
	addUnitPrice  string
	addFinish     string
	addFinalTotal string
	addColor      string
)

// =============================================================================
// COMMAND DEFINITIONS
// =============================================================================

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rows of the workbook with their totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		snap := session.Snapshot()
		out := cmd.OutOrStdout()
		if len(snap.Rows) == 0 {
			fmt.Fprintf(out, "%s is empty. Add a row with 'ledger add'.\n", appConfig.Workbook)
			return nil
		}

		writeTable(out, snap.Rows)
		writeTotals(out, snap.Totals)
		return nil
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Append a row to the workbook",
	Long: `Append a row dated today with the default color. Any flag that is given
fills the matching column; the line total is computed from quantity and
unit price.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		color := ""
		if addColor != "" {
			var ok bool
			if color, ok = ledger.NormalizeColor(addColor); !ok {
				return fmt.Errorf("invalid color %q: expected #RRGGBB", addColor)
			}
		}

		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		row := session.AddRow()
		fields := []struct{ column, value string }{
			{ledger.ColCompanyName, addCompany},
			{ledger.ColQuantity, addQuantity},
			{ledger.ColUnitPrice, addUnitPrice},
			{ledger.ColFinish, addFinish},
			{ledger.ColFinalTotal, addFinalTotal},
			{ledger.ColBackgroundColor, color},
		}
		for _, f := range fields {
			if f.value == "" {
				continue
			}
			if _, err := session.UpdateField(row.ID, f.column, f.value); err != nil {
				return err
			}
		}

		if err := saveWorkbook(session); err != nil {
			return err
		}

		row, _ = session.Row(row.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Added row %d: %s total %s\n",
			session.Len(), displayName(row), amount.Fixed2(row.Total))
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <pos> <field> <value>",
	Short: "Set one field of a row",
	Long: `Set one column of the row at the given position. Fields:
  orderDate, finish, companyName, quantity, unitPrice,
  companyOrderDate, finalTotal, backgroundColor

The total column is derived and cannot be set.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		row, err := rowAt(session, args[0])
		if err != nil {
			return err
		}
		if _, err := session.UpdateField(row.ID, args[1], args[2]); err != nil {
			return err
		}
		if err := saveWorkbook(session); err != nil {
			return err
		}

		row, _ = session.Row(row.ID)
		fmt.Fprintf(cmd.OutOrStdout(), "Row %s: %s = %s (total %s)\n",
			args[0], args[1], row.Field(args[1]), amount.Fixed2(row.Total))
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <pos>",
	Aliases: []string{"rm"},
	Short:   "Delete a row",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		row, err := rowAt(session, args[0])
		if err != nil {
			return err
		}
		session.DeleteRow(row.ID)
		if err := saveWorkbook(session); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted row %s (%s)\n", args[0], displayName(row))
		return nil
	},
}

var moveCmd = &cobra.Command{
	Use:   "move <pos> <to-pos>",
	Short: "Move a row to another position",
	Long: `Move the row at <pos> to <to-pos>. Positions past the end move the row
to the last place.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		to, err := parsePosition(args[1])
		if err != nil {
			return err
		}

		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		row, err := rowAt(session, args[0])
		if err != nil {
			return err
		}
		session.Move(row.ID, to-1)
		if err := saveWorkbook(session); err != nil {
			return err
		}

		writeTable(cmd.OutOrStdout(), session.Rows())
		return nil
	},
}

var colorCmd = &cobra.Command{
	Use:   "color <pos> <#hex>",
	Short: "Set the background color of a row",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		color, ok := ledger.NormalizeColor(args[1])
		if !ok {
			return fmt.Errorf("invalid color %q: expected #RRGGBB", args[1])
		}

		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		row, err := rowAt(session, args[0])
		if err != nil {
			return err
		}
		session.SetRowColor(row.ID, color)
		if err := saveWorkbook(session); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Row %s color %s (text %s)\n",
			args[0], color, ledger.ContrastTextColor(color))
		return nil
	},
}

var totalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Print the column totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		writeTotals(cmd.OutOrStdout(), session.Totals())
		return nil
	},
}

// =============================================================================
// OUTPUT
// =============================================================================

// writeTable prints rows with their 1-based positions.
func writeTable(out io.Writer, rows []ledger.Row) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tORDER DATE\tFINISH\tCOMPANY\tQTY\tUNIT PRICE\tTOTAL\tCOMPANY DATE\tFINAL TOTAL\tCOLOR")
	for i, row := range rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			row.OrderDate,
			row.Finish,
			row.CompanyName,
			row.Quantity,
			row.UnitPrice,
			amount.Fixed2(row.Total),
			row.CompanyOrderDate,
			row.FinalTotal,
			row.BackgroundColor,
		)
	}
	tw.Flush()
}

// writeTotals prints the column totals.
func writeTotals(out io.Writer, t ledger.Totals) {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Quantity:\t%s\n", amount.Fixed2(t.Quantity))
	fmt.Fprintf(tw, "Unit price:\t%s\n", amount.Fixed2(t.UnitPrice))
	fmt.Fprintf(tw, "Total:\t%s\n", amount.Fixed2(t.Total))
	fmt.Fprintf(tw, "Final total:\t%s\n", amount.Fixed2(t.FinalTotal))
	tw.Flush()
}

// displayName is the company name, or a placeholder for unnamed rows.
func displayName(row ledger.Row) string {
	if name := strings.TrimSpace(row.CompanyName); name != "" {
		return name
	}
	return "(no company)"
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(listCmd, addCmd, setCmd, deleteCmd, moveCmd, colorCmd, totalsCmd)

	addCmd.Flags().StringVar(&addCompany, "company", "", "Company name")
	addCmd.Flags().StringVar(&addQuantity, "quantity", "", "Quantity")
	addCmd.Flags().StringVar(&addUnitPrice, "unit-price", "", "Unit price")
	addCmd.Flags().StringVar(&addFinish, "finish", "", "Status (paid, unpaid, pending)")
	addCmd.Flags().StringVar(&addFinalTotal, "final-total", "", "Final total")
	addCmd.Flags().StringVar(&addColor, "color", "", "Background color (#RRGGBB)")
}
