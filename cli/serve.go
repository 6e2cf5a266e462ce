// Package cli implements the salescast commands: serve, forecast, compare,
// and tools.
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otelapi "go.opentelemetry.io/otel"

	"github.com/petal-labs/salescast/config"
	"github.com/petal-labs/salescast/forecast"
	salesotel "github.com/petal-labs/salescast/otel"
	"github.com/petal-labs/salescast/server"
	"github.com/petal-labs/salescast/tool"
)

// Version is stamped by main from build info.
var Version = "dev"

// NewServeCmd creates the "serve" subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the forecasting tool server",
		RunE:  runServe,
	}

	cmd.Flags().IntP("port", "p", 8000, "Listen port")
	cmd.Flags().String("host", "0.0.0.0", "Listen host")
	cmd.Flags().String("cors-origin", "", "Allowed CORS origin (overrides config)")
	cmd.Flags().String("config", "", "Path to salescast.yaml")
	cmd.Flags().String("otel-endpoint", "", "OTLP/HTTP collector endpoint for traces")
	cmd.Flags().Duration("read-timeout", 0, "HTTP read timeout (overrides config)")
	cmd.Flags().Duration("write-timeout", 0, "HTTP write timeout (overrides config)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	host, _ := cmd.Flags().GetString("host")
	if cmd.Flags().Changed("port") || cfg.Server.Listen == "" {
		port, _ := cmd.Flags().GetInt("port")
		cfg.Server.Listen = net.JoinHostPort(host, fmt.Sprintf("%d", port))
	}
	if origin, _ := cmd.Flags().GetString("cors-origin"); origin != "" {
		cfg.Server.CORSOrigin = origin
	}
	if d, _ := cmd.Flags().GetDuration("read-timeout"); d > 0 {
		cfg.Server.ReadTimeout = d
	}
	if d, _ := cmd.Flags().GetDuration("write-timeout"); d > 0 {
		cfg.Server.WriteTimeout = d
	}

	if endpoint, _ := cmd.Flags().GetString("otel-endpoint"); endpoint != "" {
		shutdown, err := salesotel.InitTracing(cmd.Context(), endpoint, "salescast", Version)
		if err != nil {
			return exitError(exitRuntime, "initializing tracing: %v", err)
		}
		defer func() {
			_ = shutdown(context.Background())
		}()
	}

	observer, err := salesotel.NewCallObserver(
		otelapi.GetMeterProvider().Meter("salescast/tool"),
		otelapi.GetTracerProvider().Tracer("salescast/tool"),
	)
	if err != nil {
		return exitError(exitRuntime, "initializing observability: %v", err)
	}
	tool.SetObserver(observer)
	defer tool.SetObserver(nil)

	registry := tool.NewRegistry()
	svc := forecast.NewService(forecast.WithThresholds(cfg.Thresholds))
	if err := forecast.Register(registry, svc); err != nil {
		return exitError(exitRuntime, "registering operations: %v", err)
	}

	logger := slog.Default()
	dispatcher := tool.NewDispatcher(registry, logger)
	apiServer := server.NewServer(server.Config{
		Dispatcher: dispatcher,
		Logger:     logger,
		Name:       "Sales Forecasting Tool Server",
		Version:    Version,
	})

	handler := withCORS(apiServer.Handler(), cfg.Server.CORSOrigin)
	handler = maxBodyMiddleware(handler, cfg.Server.MaxBody)

	httpServer := &http.Server{
		Addr:         cfg.Server.Listen,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(cmd.OutOrStdout(), "salescast listening on %s\n", cfg.Server.Listen)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		fmt.Fprintln(cmd.OutOrStdout(), "Shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return exitError(exitRuntime, "shutdown error: %v", err)
		}
		return nil
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return exitError(exitRuntime, "server error: %v", err)
		}
		return nil
	}
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	explicitPath, _ := cmd.Flags().GetString("config")
	path, found, err := config.DiscoverPath(explicitPath)
	if err != nil {
		return config.Config{}, exitError(exitConfig, "%v", err)
	}
	if !found {
		return config.Default(), nil
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, exitError(exitConfig, "%v", err)
	}
	return cfg, nil
}

func withCORS(next http.Handler, allowedOrigin string) http.Handler {
	origin := strings.TrimSpace(allowedOrigin)
	if origin == "" {
		origin = "*"
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func maxBodyMiddleware(next http.Handler, maxBody int64) http.Handler {
	if maxBody <= 0 {
		maxBody = 1 << 20
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		next.ServeHTTP(w, r)
	})
}
