// internal/notify/dispatcher.go

// Package notify sends registration SMS messages for newly submitted
// applications and retries the ones that failed on earlier runs. The
// dispatcher and the sweep share the provider client and the failed_sms
// ledger but run as separate batch jobs.
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"doctrack/internal/applog"
	"doctrack/internal/common/config"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
	"doctrack/internal/common/validation"
	"doctrack/internal/models"
	"doctrack/internal/sms"
)

// FeedSource produces the records to notify about.
type FeedSource interface {
	Fetch(ctx context.Context) ([]models.SnapshotRecord, error)
}

// SMSSender is the provider client surface the dispatcher and sweep need.
type SMSSender interface {
	Send(ctx context.Context, phone, text string) sms.SendResult
}

// FailureRecorder persists one failed send.
type FailureRecorder interface {
	RecordFailure(ctx context.Context, formNumber, phone string, result sms.SendResult) error
}

type Dispatcher struct {
	source   FeedSource
	sender   SMSSender
	ledger   FailureRecorder
	activity *applog.Writer
	cfg      config.SMSConfig
	logger   logger.Logger
}

func NewDispatcher(source FeedSource, sender SMSSender, ledger FailureRecorder, activity *applog.Writer, cfg config.SMSConfig, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		source:   source,
		sender:   sender,
		ledger:   ledger,
		activity: activity,
		cfg:      cfg,
		logger:   log,
	}
}

// Run fetches the new-application feed and sends one SMS per usable record.
// A record failure is logged and recorded, never fatal to the batch: the
// external scheduler reruns the whole job, and the sweep picks up failures.
func (d *Dispatcher) Run(ctx context.Context) (DispatchStats, error) {
	stats := DispatchStats{}
	batchID := uuid.New().String()

	records, err := d.source.Fetch(ctx)
	if err != nil {
		return stats, err
	}
	stats.Fetched = len(records)

	d.logger.Info("dispatching registration notifications", map[string]interface{}{
		"batchId": batchID,
		"records": len(records),
	})

	for _, record := range records {
		formNumber := strings.TrimSpace(record.FormNumber)
		if formNumber == "" {
			stats.SkippedNoForm++
			metrics.SMSMessagesTotal.WithLabelValues("skipped").Inc()
			continue
		}

		// Sanitizing is only for the validity check. The provider receives
		// the phone as the source system stored it.
		phone := strings.TrimSpace(record.MobilePhone)
		if !validation.ValidPhone(phone) {
			stats.SkippedBadPhone++
			metrics.SMSMessagesTotal.WithLabelValues("skipped").Inc()
			d.logger.Warn("skipping record with unusable phone", map[string]interface{}{
				"formNumber": formNumber,
			})
			continue
		}

		result := d.sender.Send(ctx, phone, d.buildMessage(formNumber))
		if result.Success {
			stats.Sent++
			metrics.SMSMessagesTotal.WithLabelValues("sent").Inc()
			d.logActivity(ctx, phone, result, batchID)
		} else {
			stats.Failed++
			metrics.SMSMessagesTotal.WithLabelValues("failed").Inc()
			d.logger.Error("sms dispatch failed", map[string]interface{}{
				"formNumber": formNumber,
				"httpCode":   result.HTTPCode,
				"error":      result.ErrorMessage,
			})
			if err := d.ledger.RecordFailure(ctx, formNumber, phone, result); err != nil {
				d.logger.Error("failure not recorded, resend will miss it", map[string]interface{}{
					"formNumber": formNumber,
					"error":      err.Error(),
				})
			}
		}

		time.Sleep(config.GetDuration(d.cfg.SendDelay))
	}

	d.logger.Info("dispatch finished", map[string]interface{}{
		"batchId": batchID,
		"sent":    stats.Sent,
		"failed":  stats.Failed,
		"skipped": stats.SkippedNoForm + stats.SkippedBadPhone,
	})

	return stats, nil
}

func (d *Dispatcher) buildMessage(formNumber string) string {
	link := TrackingLink(d.cfg.TrackingBaseURL, formNumber)
	return fmt.Sprintf(d.cfg.TextTemplate, link)
}

func (d *Dispatcher) logActivity(ctx context.Context, phone string, result sms.SendResult, batchID string) {
	if d.activity == nil {
		return
	}
	entry := sms.ActivityEntry{
		Timestamp:     time.Now().UTC(),
		Phone:         phone,
		MessageID:     result.MessageID,
		OmniMessageID: result.OmniMessageID,
		BatchID:       batchID,
	}
	if err := d.activity.Append(ctx, entry); err != nil {
		d.logger.Warn("activity log write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

// TrackingLink builds the per-application status page URL put into messages.
func TrackingLink(baseURL, formNumber string) string {
	return strings.TrimRight(baseURL, "/") + "/?id=" + formNumber
}
