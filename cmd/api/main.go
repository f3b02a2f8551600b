package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/hamed0406/geocheck/internal/check"
	"github.com/hamed0406/geocheck/internal/config"
	"github.com/hamed0406/geocheck/internal/httpapi"
	"github.com/hamed0406/geocheck/internal/location"
	"github.com/hamed0406/geocheck/internal/logging"
	"github.com/hamed0406/geocheck/internal/metrics"
	"github.com/hamed0406/geocheck/internal/notify"
	"github.com/hamed0406/geocheck/internal/probe"
	"github.com/hamed0406/geocheck/internal/repo/memory"
	"github.com/hamed0406/geocheck/internal/scheduler"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	logger, err := logging.NewLogger(logging.Options{
		Dir:    cfg.LogDir,
		Level:  cfg.LogLevel,
		Stderr: cfg.LogStderr,
	})
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	dir := location.Default()
	if cfg.LocationsFile != "" {
		if dir, err = location.LoadFile(cfg.LocationsFile); err != nil {
			logger.Fatal("locations_load_failed", zap.String("file", cfg.LocationsFile), zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(reg)

	orch := check.New(logger, dir, memory.New(), probe.NewRandomResolver(cfg.RandomSeed), check.Options{
		Delay:   cfg.CheckDelay(),
		Metrics: m,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	alerter := scheduler.NewAlerter(logger, memory.NewAlerts(), buildNotifier(cfg, logger), scheduler.AlerterConfig{
		AlertOnRecovery: cfg.AlertOnRecovery,
		Cooldown:        cfg.AlertCooldown(),
	})
	events, unsubscribe := orch.Subscribe(64)
	defer unsubscribe()
	go func() {
		if err := alerter.Run(ctx, events); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn("alerter_stopped", zap.Error(err))
		}
	}()

	api := httpapi.NewServer(logger, orch, m, reg)
	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: api.Router(httpapi.RouterOptions{
			AllowedOrigins: cfg.AllowedOrigins,
			PublicRPM:      cfg.PublicRPM,
			PublicBurst:    cfg.PublicBurst,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("api_listen",
			zap.String("addr", cfg.Addr),
			zap.Int("countries", dir.Len()),
			zap.Duration("check_delay", cfg.CheckDelay()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("api_listen_failed", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown_start")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http_shutdown", zap.Error(err))
	}
	if err := orch.Shutdown(shutdownCtx); err != nil {
		logger.Warn("orchestrator_shutdown", zap.Error(err))
	}
	logger.Info("shutdown_done")
}

// buildNotifier combines every configured alert channel, falling back to
// the log when none is set.
func buildNotifier(cfg config.Config, logger *zap.Logger) notify.Notifier {
	var out notify.Multi
	if s := notify.NewSlack(cfg.SlackWebhookURL); s != nil {
		out = append(out, s)
	}
	if e := notify.NewEmail(cfg.ResendAPIKey, cfg.AlertEmailFrom, cfg.AlertEmailTo); e != nil {
		out = append(out, e)
	}
	if len(out) == 0 {
		logger.Info("alerts_to_log_only")
		return notify.Log{Logger: logger}
	}
	return out
}
