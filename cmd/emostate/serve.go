package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/danielpatrickdp/emostate/internal/app"
	"github.com/danielpatrickdp/emostate/internal/server"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd(c *cli) *cobra.Command {
	var port string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if port != "" {
				c.cfg.Port = port
			}
			return c.serve(cmd.Context())
		},
	}
	cmd.Flags().StringVarP(&port, "port", "p", "", "listen port (overrides PORT)")
	return cmd
}

func (c *cli) serve(parent context.Context) error {
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		reg  prometheus.Registerer
		prom *fiberprometheus.FiberPrometheus
	)
	if c.cfg.MetricsEnabled {
		reg = prometheus.DefaultRegisterer
		prom = fiberprometheus.New("emostate")
	}

	a, err := app.Build(ctx, c.cfg, c.logger, reg)
	if err != nil {
		return fmt.Errorf("build service: %w", err)
	}
	a.Start()

	httpApp := server.New(a.Orchestrator, a.Classifier, server.Options{
		Prometheus: prom,
		Logger:     c.logger,
	})

	errCh := make(chan error, 1)
	go func() {
		addr := ":" + c.cfg.Port
		c.logger.Info("listening", zap.String("addr", addr), zap.Bool("metrics", prom != nil))
		errCh <- httpApp.Listen(addr)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
		c.logger.Info("shutting down")
	case serveErr = <-errCh:
		c.logger.Error("server stopped", zap.Error(serveErr))
	}

	if err := httpApp.ShutdownWithTimeout(shutdownTimeout); err != nil {
		c.logger.Warn("http shutdown", zap.Error(err))
	}

	closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.Close(closeCtx); err != nil {
		c.logger.Warn("pending writes not drained", zap.Error(err))
	}
	return serveErr
}
