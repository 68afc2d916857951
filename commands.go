package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"discoveryfy/internal/cache"
	intconfig "discoveryfy/internal/config"
	router "discoveryfy/internal/http"
	"discoveryfy/internal/logging"
	"discoveryfy/internal/repositories"
)

var serveMigrate bool

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		if cfg.App.GinMode != "" {
			gin.SetMode(cfg.App.GinMode)
		}

		db, err := intconfig.OpenDB(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if serveMigrate {
			if err := repositories.Migrate(cmd.Context(), db); err != nil {
				return err
			}
		}

		store, err := cache.Open(cfg.Cache.Dir)
		if err != nil {
			return err
		}
		defer store.Close()

		srv := &http.Server{
			Addr:              cfg.App.Addr,
			Handler:           router.NewRouter(cfg, router.Deps{DB: db, Cache: store}),
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       20 * time.Second,
			WriteTimeout:      20 * time.Second,
			IdleTimeout:       60 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			logging.Info().Str("addr", cfg.App.Addr).Msg("server listening")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return err
		case <-quit:
		}

		logging.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
		logging.Info().Msg("server stopped")
		return nil
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create missing tables",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}
		db, err := intconfig.OpenDB(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := repositories.Migrate(cmd.Context(), db); err != nil {
			return err
		}
		logging.Info().Int("statements", len(repositories.Statements())).Msg("schema applied")
		return nil
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveMigrate, "migrate", false, "apply the schema before serving")
}

// setup loads configuration and initializes logging.
func setup() (*intconfig.Config, error) {
	cfg, err := intconfig.Load()
	if err != nil {
		return nil, err
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	return cfg, nil
}
