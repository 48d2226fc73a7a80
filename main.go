// =============================================================================
// Invoice Ledger - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Invoice Ledger CLI. It loads an
// optional .env file and delegates to the cmd package.
//
// USAGE:
//   ledger list        - Show the workbook rows and totals
//   ledger add         - Append a row
//   ledger convert     - Convert every file in the input directory
//   ledger serve       - Serve the workbook over HTTP
//   ledger version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains the ledger, codecs, session and HTTP API
//   - pkg/           : Contains shared file utilities
//
// =============================================================================

package main

import (
	"errors"
	"io/fs"
	"log"

	"github.com/ginjaninja78/invoice-ledger/cmd"
	"github.com/joho/godotenv"
)

func main() {
	// LEDGER_* variables may come from a .env file next to the binary.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	cmd.Execute()
}
