// cmd/status-sync/main.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"doctrack/internal/applog"
	"doctrack/internal/common/alert"
	"doctrack/internal/common/config"
	"doctrack/internal/common/database"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/observability"
	"doctrack/internal/status"
	"doctrack/internal/sync"
	"doctrack/internal/tracking"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting status synchronization...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("status-sync")
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry (unknown-code reporting only) ---
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 5, 2*time.Second, zapLog, "Redis connection")

	reporter := status.NewReporter(nil, log)
	if err != nil {
		zapLog.Warn("redis unavailable, unknown workflow codes logged only", zap.Error(err))
	} else {
		defer redis.Close()
		reporter = status.NewReporter(redis, log)
		zapLog.Info("Redis connected successfully")
	}

	// --- Init Elasticsearch when the activity log mirror is enabled ---
	var esClient *database.ElasticsearchClient
	if cfg.ActivityLog.ESEnabled {
		err = retryWithBackoff(func() error {
			var err error
			esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
			if err != nil {
				return err
			}
			return esClient.Ping()
		}, 5, 2*time.Second, zapLog, "Elasticsearch connection")

		if err != nil {
			zapLog.Warn("elasticsearch unavailable, activity log kept on disk only", zap.Error(err))
			esClient = nil
		}
	}

	alerter, err := alert.NewMailer(ctx, cfg.Alerts, log)
	if err != nil {
		zapLog.Fatal("alert mailer init failed", zap.Error(err))
	}

	fetcher := tracking.NewSnapshotFetcher(cfg.Tracking, log)
	loader := sync.NewLoader(pg, reporter, log)
	swapper := sync.NewSwapper(pg, log)
	activity := applog.New(cfg.ActivityLog.Dir, "sync_activity.log", esClient, cfg.ActivityLog.ESIndex, log)

	service := sync.NewService(fetcher, loader, swapper, activity, alerter, log)

	start := time.Now()
	entry, err := service.Run(ctx)
	if err != nil {
		obs.RecordRunDuration(ctx, time.Since(start), "failed")
		zapLog.Fatal("synchronization cycle failed", zap.Error(err))
	}
	obs.RecordRunDuration(ctx, time.Since(start), entry.Result)

	zapLog.Info("synchronization cycle finished",
		zap.String("result", entry.Result),
		zap.Int("fetched", entry.Fetched),
		zap.Int("staged", entry.Staged),
		zap.Int("errors", entry.Errors),
		zap.Duration("took", time.Since(start)),
	)
}
