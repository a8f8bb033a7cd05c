package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JamesS-M/ledger-dashboard/internal/analyze"
	"github.com/JamesS-M/ledger-dashboard/internal/config"
	"github.com/JamesS-M/ledger-dashboard/internal/history"
	"github.com/JamesS-M/ledger-dashboard/internal/runner"
	"github.com/JamesS-M/ledger-dashboard/internal/server"
)

func newServeCommand(verbose *bool) *cobra.Command {
	var (
		port       int
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the dashboard HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, configPath, port, *verbose)
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "listen port, overrides config")
	cmd.Flags().StringVar(&configPath, "config", config.FileName, "config file path")

	return cmd
}

func runServe(cmd *cobra.Command, configPath string, port int, verbose bool) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg.ApplyEnv()
	if port > 0 {
		cfg.Server.Port = port
	}
	if cfg.Server.ShutdownSeconds <= 0 {
		cfg.Server.ShutdownSeconds = 10
	}

	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	log := newLogger(cmd.ErrOrStderr(), level)

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		return fmt.Errorf("opening history store: %w", err)
	}
	defer store.Close()

	run := runner.New(runner.Options{
		Primary:   cfg.Tool.Primary,
		Secondary: cfg.Tool.Secondary,
		Timeout:   cfg.Tool.Timeout(),
	}, log)

	srv := server.New(server.Options{
		Analyzer:       analyze.New(run, log),
		History:        store,
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
		Log:            log,
	})

	httpSrv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.Server.Port).Str("history", cfg.History.Path).Msg("starting server")
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-quit:
	}

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
	defer cancel()
	return httpSrv.Shutdown(ctx)
}
