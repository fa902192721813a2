// cmd/resend-sms/main.go
package main

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"doctrack/internal/applog"
	"doctrack/internal/common/config"
	"doctrack/internal/common/database"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/observability"
	"doctrack/internal/notify"
	"doctrack/internal/sms"
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

	zapLog.Info("Starting failed-SMS resend sweep...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	obs := observability.New("resend-sms")
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

	sender := sms.NewClient(cfg.SMS, log)
	activity := applog.New(cfg.ActivityLog.Dir, "sms_activity.log", esClient, cfg.ActivityLog.ESIndex, log)
	sweeper := notify.NewSweeper(pg, sender, activity, cfg.SMS, log)

	start := time.Now()
	stats, err := sweeper.Sweep(ctx)
	if err != nil {
		obs.RecordRunDuration(ctx, time.Since(start), "failed")
		zapLog.Fatal("resend sweep failed", zap.Error(err))
	}
	obs.RecordRunDuration(ctx, time.Since(start), "completed")

	zapLog.Info("resend sweep finished",
		zap.Int("scanned", stats.Scanned),
		zap.Int("resent", stats.Resent),
		zap.Int("failed", stats.Failed),
		zap.Duration("took", time.Since(start)),
	)
}
