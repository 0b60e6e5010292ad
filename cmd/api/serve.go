package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crucial707/hrms/internal/config"
	"github.com/crucial707/hrms/internal/db"
	"github.com/crucial707/hrms/internal/repo"
	"github.com/crucial707/hrms/internal/scheduler"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func loadConfig() (config.Config, zerolog.Logger, error) {
	cfg := config.Load()
	logger := config.NewLogger(cfg.Logging)
	if err := cfg.Validate(); err != nil {
		return cfg, logger, fmt.Errorf("config: %w", err)
	}
	return cfg, logger, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		version, err := db.Migrate(cfg.DatabaseURL())
		if err != nil {
			return err
		}
		logger.Info().Uint("version", version).Msg("migrations applied")
	}

	database, err := db.Connect(ctx, cfg.DSN(), db.Options{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	})
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer database.Close()
	logger.Info().Str("host", cfg.DBHost).Str("db", cfg.DBName).Msg("connected to database")

	store := repo.NewStore(database)
	svc := newServices(store, cfg, logger)

	if cfg.LogRetentionDays > 0 {
		retention, err := scheduler.NewRetention(svc.Audit, cfg.LogRetentionDays, cfg.LogRetentionCron, logger)
		if err != nil {
			return err
		}
		retention.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			retention.Stop(stopCtx)
		}()
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           buildRouter(store, svc, cfg, logger),
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", server.Addr).Bool("tls", cfg.TLSCertFile != "").Msg("starting server")
		var err error
		if cfg.TLSCertFile != "" {
			err = server.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info().Msg("server stopped")
	return nil
}
