// =============================================================================
// Invoice Ledger - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Every subcommand
// works on the workbook file named in the configuration (or --workbook).
//
// COBRA CLI STRUCTURE:
//   rootCmd (ledger)
//   ├── list / add / set / delete / move / color / totals
//   ├── import / export / check
//   ├── convert
//   ├── serve
//   └── version
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --workbook, --verbose)
//   2. Loading the configuration before any subcommand runs
//   3. Setting up logging
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/invoice-ledger/internal/config"
	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"github.com/spf13/cobra"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the main configuration file.
// Empty means config.yaml in the current directory, if present.
var cfgFile string

// workbookPath overrides the configured workbook.
var workbookPath string

// verbose enables debug logging when set to true.
var verbose bool

// appConfig is loaded in PersistentPreRunE and read by every subcommand.
var appConfig *config.Config

// logCloser releases the log file, if logging goes to one.
var logCloser io.Closer

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Invoice Ledger - Edit invoice line items stored in a CSV or XLSX workbook",
	Long: `Invoice Ledger keeps an ordered list of invoice line items in a workbook
file and lets you edit it from the command line or over an HTTP API.

Key Features:
  - Line totals recomputed from quantity and unit price on every edit
  - Column totals for quantity, unit price, total and final total
  - CSV and XLSX workbooks, XML export
  - Batch conversion of a whole input directory
  - Per-row background colors

Example Usage:
  ledger add --company Acme --quantity 2 --unit-price 3.00
  ledger list
  ledger set 1 finish paid
  ledger export items.xml
  ledger serve --addr :8080`,

	SilenceUsage:  true,
	SilenceErrors: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logCloser != nil {
			return logCloser.Close()
		}
		return nil
	},

	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the root command with a context canceled on SIGINT/SIGTERM.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		log := logger.WithComponent("cmd")
		log.Error().Err(err).Msg("command failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// initConfig loads the configuration, applies the global flags and sets up
// logging.
func initConfig() error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	if workbookPath != "" {
		cfg.Workbook = workbookPath
	}
	if verbose {
		cfg.Log.Level = "debug"
	}

	closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	appConfig = cfg
	logCloser = closer
	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// ==========================================================================
	// PERSISTENT FLAGS
	// ==========================================================================
	// Persistent flags are available to this command and all subcommands.

	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"Path to the configuration file (default is config.yaml if present)",
	)

	rootCmd.PersistentFlags().StringVar(
		&workbookPath,
		"workbook",
		"",
		"Workbook file to edit (overrides the configured workbook)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)
}
