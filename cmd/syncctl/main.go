// syncctl is the operator CLI over the offline booking queue: inspect it,
// re-queue failed bookings, export a spreadsheet report, or force a drain.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"
	"time"

	"github.com/rs/zerolog"

	"mariiahub/internal/config"
	"mariiahub/internal/domain"
	"mariiahub/internal/events"
	"mariiahub/internal/export"
	"mariiahub/internal/logging"
	"mariiahub/internal/models"
	"mariiahub/internal/notify"
	"mariiahub/internal/queue"
	"mariiahub/internal/remote"
	"mariiahub/internal/store"
	"mariiahub/internal/sync"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "configs/config.yaml", "path to config file")
	id := flag.String("id", "", "booking record id (for retry)")
	dir := flag.String("dir", "exports", "output directory (for export)")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		return fmt.Errorf("usage: syncctl [flags] list|retry|export|sync")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	baseLogger, closer, err := logging.New(cfg.Logging, cfg.App)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}
	logger := baseLogger.With().Str("component", "syncctl").Logger()

	ctx := context.Background()
	q, cleanup, err := openQueue(ctx, cfg, &logger)
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	switch command {
	case "list":
		return listRecords(ctx, q)
	case "retry":
		if *id == "" {
			return fmt.Errorf("retry requires -id")
		}
		if err := q.Retry(ctx, *id); err != nil {
			return err
		}
		fmt.Printf("booking %s re-queued for sync\n", *id)
		return nil
	case "export":
		records, err := q.List(ctx)
		if err != nil {
			return err
		}
		path, err := export.QueueReport(records, *dir, &logger)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	case "sync":
		return drainOnce(ctx, cfg, q, &logger)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

func openQueue(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*queue.Queue, func(), error) {
	var st domain.DurableStore
	var cleanup func()

	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := store.NewSQLiteStore(cfg.Storage.SQLitePath, models.StorageKey)
		if err != nil {
			return nil, nil, err
		}
		st = s
		cleanup = func() { _ = s.Close() }
	case "redis":
		client := store.NewRedisClient(cfg.Storage.Redis)
		st = store.NewRedisStore(client, models.StorageKey)
		cleanup = func() { _ = store.Close(client) }
	default:
		s, err := store.NewFileStore(cfg.Storage.FilePath)
		if err != nil {
			return nil, nil, err
		}
		st = s
	}

	q, err := queue.New(ctx, st, logger)
	if err != nil {
		if cleanup != nil {
			cleanup()
		}
		return nil, nil, err
	}
	return q, cleanup, nil
}

func listRecords(ctx context.Context, q *queue.Queue) error {
	records, err := q.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tSERVICE\tSCHEDULED\tCREATED")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			rec.ID,
			rec.Status,
			rec.ServiceName,
			rec.ScheduledAt.Format("2006-01-02 15:04"),
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
		)
	}
	return w.Flush()
}

func drainOnce(ctx context.Context, cfg *config.Config, q *queue.Queue, logger *zerolog.Logger) error {
	alerts := notify.NewAlerts(notify.NewLogNotifier(logger))
	submitter := remote.NewHTTPSubmitter(cfg.Sync, logger)
	engine := sync.NewEngine(q, submitter, alerts, events.NewEventBus(),
		time.Duration(cfg.Sync.SubmitTimeoutSeconds)*time.Second,
		time.Duration(cfg.Sync.RetentionSeconds)*time.Second,
		logger)

	summary, err := engine.Sync(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("synced %d, failed %d of %d pending\n", summary.Synced, summary.Failed, summary.Total)
	return nil
}
