package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/helios-engine/helios/internal/telemetry"
	"github.com/helios-engine/helios/pkg/config"
	"github.com/helios-engine/helios/pkg/server"
)

// ServeCmd exposes a Forest over HTTP, in the style of the teacher's own
// `hector serve` (cmd/hector/main.go's ServeCmd).
type ServeCmd struct {
	Addr string `help:"Address to listen on." default:":8080"`
}

func (c *ServeCmd) Run(cli *CLI) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		slog.Info("shutting down...")
		cancel()
	}()

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tp, err := telemetry.InitTracerProvider(ctx, "helios", 1.0)
	if err != nil {
		return fmt.Errorf("initializing tracer: %w", err)
	}
	defer tp.Shutdown(context.Background())

	metrics := telemetry.NewMetrics("helios")

	f, err := buildForest(cfg, metrics)
	if err != nil {
		return fmt.Errorf("building forest: %w", err)
	}

	srv := server.New(metrics, f)
	slog.Info("helios server listening", "addr", c.Addr)
	return server.ListenAndServe(ctx, c.Addr, srv)
}
