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

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/Garsondee/Galaxy-Pad/internal/config"
	"github.com/Garsondee/Galaxy-Pad/internal/pad"
	"github.com/Garsondee/Galaxy-Pad/internal/ripple"
	"github.com/Garsondee/Galaxy-Pad/internal/viewer"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfgPath     string
		logLevel    string
		metricsAddr string
		scale       float64
	)
	cmd := &cobra.Command{
		Use:   "pad",
		Short: "Open the galaxy pad viewer",
		Long:  `Opens a 512x512 pad window. Clicks are relayed to the engine running on a background worker; every frame it renders is painted back onto the pad.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("log-level") {
				cfg.Log.Level = logLevel
			}
			if cmd.Flags().Changed("metrics-addr") {
				cfg.Metrics.Addr = metricsAddr
			}
			if cmd.Flags().Changed("scale") {
				cfg.Window.Scale = scale
			}
			return run(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "pad.yaml", "path to the YAML config file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :2112)")
	cmd.Flags().Float64Var(&scale, "scale", 1.5, "initial window size as a multiple of the pad raster")
	return cmd
}

func run(ctx context.Context, cfg config.Config) error {
	logger, err := config.NewLogger(os.Stderr, cfg.Log)
	if err != nil {
		return err
	}
	palette, err := cfg.LayerPalette()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	metrics := pad.NewMetrics(reg)
	if cfg.Metrics.Addr != "" {
		go serveMetrics(cfg.Metrics.Addr, reg, logger)
	}

	engine := ripple.New(ripple.Options{
		Frames: cfg.Ripple.Frames,
		Radius: cfg.Ripple.Radius,
		Step:   cfg.Ripple.Step,
	}, logger.With("component", "engine"))

	worker := pad.NewWorker(engine,
		pad.WithLogger(logger.With("component", "worker")),
		pad.WithMetrics(metrics),
		pad.WithInboxSize(cfg.Protocol.Inbox),
		pad.WithOutboxSize(cfg.Protocol.Outbox),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("worker stopped", "error", err)
		}
	}()

	v := viewer.New(worker, palette, logger.With("component", "viewer"))

	w := int(float64(pad.Width) * cfg.Window.Scale)
	h := int(float64(pad.Height) * cfg.Window.Scale)
	if w <= 0 || h <= 0 {
		w, h = pad.Width, pad.Height
	}
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	logger.Info("pad starting", "window", fmt.Sprintf("%dx%d", w, h))
	if err := ebiten.RunGame(v); err != nil {
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	logger.Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logger.Error("metrics server stopped", "error", err)
	}
}
