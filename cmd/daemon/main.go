package main

import (
	"context"
	"flag"
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/emeprobe/emeprobe/internal/api"
	"github.com/emeprobe/emeprobe/internal/bridge"
	"github.com/emeprobe/emeprobe/internal/config"
	"github.com/emeprobe/emeprobe/internal/history"
	eplog "github.com/emeprobe/emeprobe/internal/log"
	"github.com/emeprobe/emeprobe/internal/probe"
	"github.com/emeprobe/emeprobe/internal/telemetry"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// maskURL strips user info from a URL string for safe logging.
func maskURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url-redacted"
	}
	parsed.User = nil
	return parsed.String()
}

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// Safe logger defaults until the config is loaded.
	eplog.Configure(eplog.Config{
		Level:   "info",
		Service: "emeprobe",
		Version: version,
	})
	logger := eplog.WithComponent("daemon")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Config path: explicit via --config, otherwise auto-load
	// ${EMEPROBE_DATA}/config.yaml when it exists.
	effectiveConfigPath := strings.TrimSpace(*configPath)
	if effectiveConfigPath == "" {
		dataDir := strings.TrimSpace(config.ParseString("EMEPROBE_DATA", "/tmp/emeprobe"))
		autoPath := filepath.Join(dataDir, "config.yaml")
		if _, err := os.Stat(autoPath); err == nil {
			effectiveConfigPath = autoPath
		}
	}

	loader := config.NewLoader(effectiveConfigPath, version)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "config.load_failed").
			Str("config_path", effectiveConfigPath).
			Msg("failed to load configuration")
	}

	// Re-configure logger with the loaded configuration.
	eplog.Configure(eplog.Config{
		Level:   cfg.LogLevel,
		Service: cfg.LogService,
		Version: cfg.Version,
	})

	if effectiveConfigPath != "" {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "file").
			Str(eplog.FieldPath, effectiveConfigPath).
			Msg("loaded configuration from file")
	} else {
		logger.Info().
			Str("event", "config.loaded").
			Str("source", "env+defaults").
			Msg("loaded configuration from environment and defaults")
	}

	if err := os.MkdirAll(cfg.DataDir, 0o750); err != nil {
		logger.Fatal().
			Err(err).
			Str(eplog.FieldPath, cfg.DataDir).
			Msg("failed to create data directory")
	}

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TracingEnabled,
		ServiceName:    cfg.LogService,
		ServiceVersion: cfg.Version,
		ExporterType:   cfg.TracingExporter,
		Endpoint:       cfg.TracingEndpoint,
		SamplingRate:   cfg.SamplingRate,
	})
	if err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "telemetry.init_failed").
			Msg("failed to initialize tracing")
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("tracer shutdown failed")
		}
	}()

	logger.Info().
		Str("event", "startup").
		Str("version", version).
		Str("commit", commit).
		Str("build_date", buildDate).
		Str("addr", cfg.ListenAddr).
		Msg("starting emeprobe")
	logger.Info().Msgf("→ Bridge: %s (timeout: %s)", maskURL(cfg.BridgeURL), cfg.BridgeTimeout)
	logger.Info().Msgf("→ Data dir: %s", cfg.DataDir)
	if cfg.APIToken != "" {
		logger.Info().Msg("→ API token: configured")
	} else {
		logger.Warn().
			Str("security", "weak").
			Msg("→ API token: NOT configured (Auth Disabled). Set EMEPROBE_API_TOKEN for security.")
	}

	controller := bridge.New(cfg.BridgeURL, bridge.WithTimeout(cfg.BridgeTimeout))

	var probeOpts []probe.Option
	var store *history.Store
	if cfg.HistoryEnabled {
		store, err = history.Open(cfg.HistoryPath)
		if err != nil {
			logger.Fatal().
				Err(err).
				Str(eplog.FieldPath, cfg.HistoryPath).
				Msg("failed to open probe history store")
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn().Err(err).Msg("history store close failed")
			}
		}()
		probeOpts = append(probeOpts, probe.WithRecorder(store))
		logger.Info().Msgf("→ History: %s", cfg.HistoryPath)
	} else {
		logger.Info().Msg("→ History: disabled")
	}

	prober := probe.New(controller, probeOpts...)

	var serverOpts []api.Option
	if store != nil {
		serverOpts = append(serverOpts, api.WithHistory(store))
	}
	server := api.New(cfg, prober, serverOpts...)

	holder := config.NewHolder(cfg, loader, effectiveConfigPath)
	if err := holder.StartWatcher(ctx); err != nil {
		logger.Warn().
			Err(err).
			Str(eplog.FieldPath, effectiveConfigPath).
			Msg("config hot reload unavailable")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Start(gctx)
	})
	g.Go(func() error {
		reloads := make(chan config.AppConfig, 1)
		holder.Subscribe(reloads)
		for {
			select {
			case <-gctx.Done():
				return nil
			case next := <-reloads:
				// Listen address and storage wiring need a restart; the log
				// level takes effect immediately.
				if level, err := zerolog.ParseLevel(next.LogLevel); err == nil {
					zerolog.SetGlobalLevel(level)
				}
				logger.Info().
					Str("event", "config.reloaded").
					Str("log_level", next.LogLevel).
					Msg("configuration reloaded")
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Fatal().
			Err(err).
			Str("event", "server.failed").
			Msg("daemon failed")
	}

	logger.Info().Msg("server exiting")
}
