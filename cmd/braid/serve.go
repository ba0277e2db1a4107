package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/noahunallar/braid"
	"github.com/noahunallar/braid/internal/cli"
	httpAdapter "github.com/noahunallar/braid/pkg/adapters/http"
	"github.com/noahunallar/braid/pkg/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Hosts a todo store behind the JSON HTTP API, with optional Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}
		if metricsListen, _ := cmd.Flags().GetString("metrics-listen"); metricsListen != "" {
			cfg.MetricsListen = metricsListen
		}
		logger := cli.NewLogger(cfg)

		var extra []braid.Option
		if cfg.MetricsListen != "" {
			reg := prometheus.NewRegistry()
			metrics := middleware.NewMetrics(reg)
			extra = append(extra, braid.WithHooks(metrics.Hooks()))

			go func() {
				mux := http.NewServeMux()
				mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
				logger.Info("metrics server listening", "address", cfg.MetricsListen)
				if err := http.ListenAndServe(cfg.MetricsListen, mux); err != nil {
					logger.Error("metrics server stopped", "err", err)
				}
			}()
		}

		store, err := cli.NewTodoStore(logger, extra...)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: httpAdapter.NewHandler(store, logger),
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("braid server listening", "address", srv.Addr)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Warn("graceful shutdown did not complete", "err", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("could not stop server: %w", err)
				}
			}
			logger.Info("braid server stopped")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "HTTP bind address (overrides config)")
	serveCmd.Flags().String("metrics-listen", "", "Prometheus bind address (overrides config)")
}
