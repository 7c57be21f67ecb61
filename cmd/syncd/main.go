package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mariiahub/internal/config"
	"mariiahub/internal/connectivity"
	"mariiahub/internal/domain"
	"mariiahub/internal/events"
	"mariiahub/internal/logging"
	"mariiahub/internal/metrics"
	"mariiahub/internal/models"
	"mariiahub/internal/notify"
	"mariiahub/internal/queue"
	"mariiahub/internal/remote"
	"mariiahub/internal/store"
	"mariiahub/internal/sync"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "configs/config.yaml"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer (func(c io.Closer) { _ = c.Close() })(closer)
	}
	logger := baseLogger.With().Str("component", "syncd").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, cleanup, err := buildStore(cfg, &logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	q, err := queue.New(ctx, st, &logger)
	if err != nil {
		return err
	}

	metrics.Register()
	if pending, err := q.Pending(ctx); err == nil {
		metrics.SetQueueDepth(len(pending))
	}
	if cfg.Monitoring.PrometheusEnabled {
		startMetricsServer(cfg.Monitoring.PrometheusPort, &logger)
	}

	notifier, err := buildNotifier(cfg, &logger)
	if err != nil {
		return err
	}
	alerts := notify.NewAlerts(notifier)
	bus := events.NewEventBus()

	submitter := remote.NewHTTPSubmitter(cfg.Sync, &logger)
	engine := sync.NewEngine(q, submitter, alerts, bus,
		time.Duration(cfg.Sync.SubmitTimeoutSeconds)*time.Second,
		time.Duration(cfg.Sync.RetentionSeconds)*time.Second,
		&logger)
	engine.SetProgress(func(done, total int) {
		logger.Info().
			Int("done", done).
			Int("total", total).
			Int("percent", done*100/total).
			Msg("Sync progress")
	})

	provider := connectivity.NewHTTPProvider(cfg.Connectivity)
	monitor := connectivity.NewMonitor(provider,
		time.Duration(cfg.Connectivity.IntervalSeconds)*time.Second,
		time.Duration(cfg.Connectivity.SettleSeconds)*time.Second,
		&logger)

	monitor.OnOnline(func() {
		metrics.SetOnline(true)
		pending, _ := q.Pending(ctx)
		alerts.ConnectionRestored(len(pending))
		_ = bus.PublishJSON(events.EventConnectivityChanged, events.ConnectivityPayload{Online: true})
		engine.Trigger(ctx)
	})
	monitor.OnOffline(func() {
		metrics.SetOnline(false)
		pending, _ := q.Pending(ctx)
		alerts.ConnectionLost(len(pending), q.OldestPendingAge())
		_ = bus.PublishJSON(events.EventConnectivityChanged, events.ConnectivityPayload{Online: false})
	})

	go monitor.Start(ctx)

	// Drain whatever survived the previous session if we start online.
	if provider.Check(ctx) {
		metrics.SetOnline(true)
		engine.Trigger(ctx)
	}

	logger.Info().Str("endpoint", cfg.Sync.Endpoint).Msg("Offline booking sync daemon started")
	<-ctx.Done()
	logger.Info().Msg("Shutting down")
	return nil
}

func buildStore(cfg *config.Config, logger *zerolog.Logger) (domain.DurableStore, func(), error) {
	var primary domain.DurableStore
	var cleanup func()

	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Storage.SQLitePath, models.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		primary = s
		cleanup = func() { _ = s.Close() }
	case "redis":
		client := store.NewRedisClient(cfg.Storage.Redis)
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(pingCtx, client); err != nil {
			return nil, nil, err
		}
		primary = store.NewRedisStore(client, models.StorageKey)
		cleanup = func() { _ = store.Close(client) }
	default:
		s, err := store.NewFileStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		primary = s
	}

	if cfg.Storage.FailoverToMemory {
		primary = store.NewFailoverStore(primary, store.NewMemoryStore(), logger)
	}
	return primary, cleanup, nil
}

func buildNotifier(cfg *config.Config, logger *zerolog.Logger) (domain.Notifier, error) {
	notifiers := []domain.Notifier{notify.NewLogNotifier(logger)}

	if cfg.Notify.Telegram.Enabled {
		tg, err := notify.NewTelegramNotifier(cfg.Notify.Telegram, logger)
		if err != nil {
			return nil, err
		}
		notifiers = append(notifiers, tg)
	}

	if len(notifiers) == 1 {
		return notifiers[0], nil
	}
	return notify.NewMultiNotifier(notifiers...), nil
}

func startMetricsServer(port int, logger *zerolog.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("Metrics server error")
		}
	}()
	logger.Info().Int("port", port).Msg("Prometheus metrics exposed")
}
