// =============================================================================
// Invoice Ledger - HTTP API
// =============================================================================
//
// The HTTP API is a presentation adapter over the editor session. It adds no
// ledger semantics of its own.
//
// CONVENTIONS:
//   - JSON in and out; errors are {"error": "..."}.
//   - Addressing a row that does not exist is not an error: the response is
//     200 with "outcome": "noop".
//   - Malformed commands are 400; failed imports are 422.
//
// =============================================================================

package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ginjaninja78/invoice-ledger/internal/editor"
	"github.com/ginjaninja78/invoice-ledger/internal/logger"
	"github.com/rs/zerolog"
)

// Config holds the server settings.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string

	// AllowedOrigins are the CORS origins allowed to call the API.
	AllowedOrigins []string

	// Workbook is saved after every change when Autosave is set.
	Workbook string
	Autosave bool
}

// Server wires the gin engine to a session.
type Server struct {
	config  Config
	session *editor.Session
	engine  *gin.Engine
	log     zerolog.Logger
}

// New builds the engine and registers all routes.
func New(session *editor.Session, config Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	log := logger.WithComponent("server")

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(RequestLogger(log))
	engine.Use(cors.New(corsConfig(config.AllowedOrigins)))

	var save func() error
	if config.Autosave && config.Workbook != "" {
		save = func() error { return session.SaveFile(config.Workbook) }
	}

	RegisterRoutes(engine, NewLedgerHandler(session, save, log))

	return &Server{
		config:  config,
		session: session,
		engine:  engine,
		log:     log,
	}
}

// corsConfig allows the given origins. No origins means any origin, without
// credentials.
func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:  []string{"Origin", "Content-Type", RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
		return config
	}
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}

// Handler exposes the engine for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", s.config.Addr).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

// RegisterRoutes mounts the API under /api.
func RegisterRoutes(r *gin.Engine, h *LedgerHandler) {
	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	rows := api.Group("/rows")
	{
		rows.GET("", h.ListRows)
		rows.POST("", h.CreateRow)
		rows.PUT("/order", h.ReorderRows)
		rows.PATCH("/:id", h.UpdateRow)
		rows.DELETE("/:id", h.DeleteRow)
		rows.PUT("/:id/color", h.SetRowColor)
		rows.POST("/:id/move", h.MoveRow)
	}

	api.GET("/totals", h.GetTotals)
	api.GET("/export", h.Export)
	api.POST("/import", h.Import)
}
