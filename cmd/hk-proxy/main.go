package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/celerix-dev/celerix-hk/internal/config"
	"github.com/celerix-dev/celerix-hk/internal/logger"
	"github.com/celerix-dev/celerix-hk/internal/metrics"
	"github.com/celerix-dev/celerix-hk/internal/proxy"
)

func main() {
	cfg := config.Load()

	l, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "hk-proxy")
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer l.Sync()

	if err := run(cfg, l); err != nil {
		l.Fatal("Proxy stopped", zap.Error(err))
	}
}

func run(cfg *config.Config, l *zap.Logger) error {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	p, err := proxy.New(proxy.Options{
		Target:   cfg.ProxyTarget,
		Insecure: cfg.ProxyInsecure,
		Logger:   l,
		Metrics:  metrics.NewProxyMetrics("hk", reg),
	})
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)
	srv := &http.Server{
		Addr:              ":" + cfg.ProxyPort,
		Handler:           proxy.NewRouter(p, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info("Proxy listening",
			zap.String("addr", srv.Addr),
			zap.String("target", p.Target()),
			zap.Bool("insecure", cfg.ProxyInsecure))
		errCh <- srv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		l.Info("Shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
