package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/AngelCh415/ads-driver/internal/config"
	"github.com/AngelCh415/ads-driver/internal/driver"
	"github.com/AngelCh415/ads-driver/internal/httpx"
	"github.com/AngelCh415/ads-driver/internal/obs"
	"github.com/AngelCh415/ads-driver/internal/upstream"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	root := &cobra.Command{
		Use:           "driver",
		Short:         "Ads data driver service",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to a YAML config file (env DRIVER_* overrides it)")
	root.AddCommand(newServeCmd(&cfgPath), newStubUpstreamCmd())
	return root
}

func newServeCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the driver HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Server)

			authn, err := driver.NewAuthenticator(cfg.Auth)
			if err != nil {
				return fmt.Errorf("auth: %w", err)
			}
			gw := newGateway(cfg, logger)
			r := httpx.NewRouter(logger, cfg, authn, gw, obs.NewMetrics())

			srv := &http.Server{
				Addr:              ":" + cfg.Server.Port,
				Handler:           r,
				ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
			}
			logger.Info("starting server",
				slog.String("port", cfg.Server.Port),
				slog.String("auth_mode", string(authn.Mode())),
				slog.String("gateway", cfg.Gateway.Kind))
			return run(cmd.Context(), srv, logger)
		},
	}
}

func newStubUpstreamCmd() *cobra.Command {
	var addr, level string
	cmd := &cobra.Command{
		Use:   "stub-upstream",
		Short: "Serve the fake ads API over HTTP for the http gateway",
		RunE: func(cmd *cobra.Command, _ []string) error {
			logger := newLogger(config.ServerConfig{LogLevel: level})
			srv := &http.Server{
				Addr:              addr,
				Handler:           upstream.NewStubServer(upstream.NewFake(upstream.DefaultCatalog())),
				ReadHeaderTimeout: 10 * time.Second,
			}
			logger.Info("starting stub upstream", slog.String("addr", addr))
			return run(cmd.Context(), srv, logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":9090", "Listen address")
	cmd.Flags().StringVar(&level, "log-level", "info", "debug, info, warn or error")
	return cmd
}

func newLogger(cfg config.ServerConfig) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	slog.SetDefault(logger)
	return logger
}

func newGateway(cfg config.Config, logger *slog.Logger) driver.Gateway {
	if cfg.Gateway.Kind == "http" {
		return upstream.NewHTTPGateway(upstream.NewHTTPClient(cfg.Gateway.Timeout), cfg.Gateway.BaseURL, logger)
	}
	return upstream.NewFake(upstream.DefaultCatalog())
}

// run serves until SIGINT/SIGTERM, then drains in-flight requests.
func run(parent context.Context, srv *http.Server, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Error("server error", slog.String("err", err.Error()))
		return err
	}
	return nil
}
