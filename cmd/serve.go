package cmd

import (
	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"github.com/ginjaninja78/invoice-ledger/internal/server"
	"github.com/spf13/cobra"
)

// serveAddr overrides server.addr.
var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the workbook over an HTTP API",
	Long: `Load the workbook and serve it over a JSON API under /api. With
server.autosave every change is written back immediately; otherwise the
workbook is saved once when the server shuts down.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.WithComponent("serve")

		session, err := openWorkbook(cmd.Context())
		if err != nil {
			return err
		}

		addr := appConfig.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(session, server.Config{
			Addr:           addr,
			AllowedOrigins: appConfig.Server.AllowedOrigins,
			Workbook:       appConfig.Workbook,
			Autosave:       appConfig.Server.Autosave,
		})

		log.Info().
			Str("workbook", appConfig.Workbook).
			Int("rows", session.Len()).
			Bool("autosave", appConfig.Server.Autosave).
			Msg("serving workbook")

		runErr := srv.Run(cmd.Context())

		if err := saveWorkbook(session); err != nil {
			log.Error().Err(err).Msg("failed to save workbook on shutdown")
			if runErr == nil {
				runErr = err
			}
		}
		return runErr
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from config, :8080)")
}
