package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"inferdash/internal/config"
	"inferdash/internal/dashboard"
	"inferdash/internal/gateway"
	"inferdash/internal/httpapi"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath    string
		addr       string
		backendURL string
		logLevel   string
		timeoutSec int
		corsOn     bool
		corsOrigin string
	)
	root := &cobra.Command{
		Use:           "inferdash",
		Short:         "Inference-backend dashboard aggregator",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Config{
				Addr:              addr,
				BackendURL:        backendURL,
				RequestTimeoutSec: timeoutSec,
				LogLevel:          logLevel,
				CORS:              config.CORS{Enabled: corsOn, Origins: splitCSV(corsOrigin)},
			}
			if cfgPath != "" {
				fileCfg, err := config.Load(cfgPath)
				if err != nil {
					return err
				}
				cfg = mergeConfig(fileCfg, cfg, cmd)
			}
			return run(cfg)
		},
	}
	// Flags with environment variable defaults
	root.Flags().StringVar(&cfgPath, "config", os.Getenv("INFERDASH_CONFIG"), "Path to config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&addr, "addr", envOr("INFERDASH_ADDR", ":8090"), "HTTP listen address, e.g. :8090")
	root.Flags().StringVar(&backendURL, "backend-url", envOr("INFERDASH_BACKEND_URL", "http://127.0.0.1:8080"), "Base URL of the inference backend")
	root.Flags().StringVar(&logLevel, "log-level", envOr("INFERDASH_LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	root.Flags().IntVar(&timeoutSec, "request-timeout-sec", 15, "Per-request timeout for gateway calls in seconds")
	root.Flags().BoolVar(&corsOn, "cors", false, "Enable CORS on the HTTP surface")
	root.Flags().StringVar(&corsOrigin, "cors-origins", "", "Comma-separated allowed CORS origins")
	return root
}

// mergeConfig layers file values under explicitly set flags.
func mergeConfig(file, flags config.Config, cmd *cobra.Command) config.Config {
	out := file
	if cmd.Flags().Changed("addr") || out.Addr == "" {
		out.Addr = flags.Addr
	}
	if cmd.Flags().Changed("backend-url") || out.BackendURL == "" {
		out.BackendURL = flags.BackendURL
	}
	if cmd.Flags().Changed("log-level") || out.LogLevel == "" {
		out.LogLevel = flags.LogLevel
	}
	if cmd.Flags().Changed("request-timeout-sec") || out.RequestTimeoutSec == 0 {
		out.RequestTimeoutSec = flags.RequestTimeoutSec
	}
	if cmd.Flags().Changed("cors") {
		out.CORS.Enabled = flags.CORS.Enabled
	}
	if cmd.Flags().Changed("cors-origins") {
		out.CORS.Origins = flags.CORS.Origins
	}
	return out
}

func run(cfg config.Config) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()

	gw := gateway.NewHTTP(cfg.BackendURL,
		gateway.WithLogger(logger.With().Str("component", "gateway").Logger()),
		gateway.WithHTTPClient(&http.Client{Timeout: time.Duration(cfg.RequestTimeoutSec) * time.Second}),
	)
	ctrl := dashboard.New(gw,
		dashboard.WithLogger(logger.With().Str("component", "dashboard").Logger()),
	)
	defer ctrl.Close()

	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()
	httpapi.SetBaseContext(baseCtx)
	httpapi.SetLogger(logger.With().Str("component", "http").Logger())
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)

	srv := &http.Server{Addr: cfg.Addr, Handler: httpapi.NewMux(ctrl)}
	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", cfg.Addr).Str("backend", cfg.BackendURL).Msg("inferdash listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case <-stop:
	}
	cancelBase()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// splitCSV splits a comma-separated flag value, trimming blanks.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
