package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/lattermill/paperdex/api"
	"github.com/lattermill/paperdex/internal/config"
	"github.com/lattermill/paperdex/internal/logger"
	"github.com/lattermill/paperdex/query"
	"github.com/lattermill/paperdex/store"
	"github.com/lattermill/paperdex/store/dynamo"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP query API",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	log := logger.New("paperdex-api")

	cfg, err := config.LoadAPI()
	if err != nil {
		return err
	}
	resolveCommon(&cfg.Common)

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := newClient(ctx, cfg.Region)
	if err != nil {
		return err
	}
	storeCfg := store.DefaultConfig()
	storeCfg.DefaultLimit = cfg.DefaultLimit
	storeCfg.MaxLimit = cfg.MaxLimit
	s := store.NewWithLogger(dynamo.New(client, cfg.Table, log), storeCfg, log)
	router := query.NewRouter(s, log)

	srv := &http.Server{
		Addr:         cfg.BindAddr,
		Handler:      api.New(router, cfg, log).Handler(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("api listening", "addr", cfg.BindAddr, "table", cfg.Table)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
	}
	log.Info("api stopped")
	return nil
}
