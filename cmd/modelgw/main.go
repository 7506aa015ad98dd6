package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"modelgw/internal/common/fsutil"
	"modelgw/internal/config"
	"modelgw/internal/engine"
	"modelgw/internal/gateway"
	"modelgw/internal/httpapi"
	"modelgw/internal/metrics"
	"modelgw/internal/transform"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	defaultAddr := ":8080"
	if v := os.Getenv("MODELGW_ADDR"); v != "" {
		defaultAddr = v
	}
	defaultConfig := os.Getenv("MODELGW_CONFIG")

	var (
		addr       string
		configPath string
		logLevel   string
	)
	root := &cobra.Command{
		Use:           "modelgw",
		Short:         "Multi-model inference serving gateway",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(addr, configPath, logLevel)
		},
	}
	root.Flags().StringVar(&addr, "addr", defaultAddr, "HTTP listen address, e.g. :8080")
	root.Flags().StringVar(&configPath, "config", defaultConfig, "Path to config file (.yaml/.json/.toml)")
	root.Flags().StringVar(&logLevel, "log-level", "info", "Log level: debug|info|warn|error")
	return root
}

func run(addr, configPath, logLevel string) error {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	log := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Logger()

	configPath, err = fsutil.ExpandHome(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to resolve config path")
	}
	if !fsutil.PathExists(configPath) {
		log.Fatal().Str("path", configPath).Msg("config file not found")
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.Addr != "" {
		addr = cfg.Addr
	}

	m := metrics.New(prometheus.DefaultRegisterer)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	factory := func(ctx context.Context, name string) (engine.Engine, error) {
		mc, _ := cfg.ModelByName(name)
		return engine.NewServer(ctx, engine.ServerConfig{
			Name:               mc.Name,
			BaseURL:            mc.BaseURL,
			APIKey:             mc.APIKey,
			RequestTimeout:     time.Duration(mc.RequestTimeoutSec) * time.Second,
			TensorParallelSize: mc.TensorParallelSize,
		})
	}
	gw, err := gateway.New(ctx, gateway.Config{
		Models:       cfg.ModelNames(),
		DefaultModel: cfg.DefaultModel,
		ResponseRole: cfg.ResponseRole,
		Factory:      factory,
		Metrics:      m,
		Logger:       log.With().Str("component", "gateway").Logger(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build model registry")
	}
	defer gw.Close()

	xf := transform.NewService(gw, cfg.Translator.Language, cfg.Summarizer.MinLength, cfg.Summarizer.MaxLength)

	httpapi.SetLogger(log.With().Str("component", "http").Logger())
	httpapi.SetMetrics(m)
	httpapi.SetBaseContext(ctx)
	httpapi.SetMaxBodyBytes(cfg.HTTP.MaxBodyBytes)
	if cfg.HTTP.CORS.Enabled {
		httpapi.SetCORSOptions(true,
			cfg.HTTP.CORS.AllowedOrigins,
			cfg.HTTP.CORS.AllowedMethods,
			cfg.HTTP.CORS.AllowedHeaders)
	}
	mux := httpapi.NewMux(gw, xf)
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info().Str("addr", addr).Str("default_model", cfg.DefaultModel).Msg("modelgw listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown (Ctrl+C / SIGTERM)
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	cancel() // unblocks in-flight generations via the base context
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown error")
	}
	return nil
}
