// internal/notify/sweep.go
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"doctrack/internal/applog"
	"doctrack/internal/common/config"
	"doctrack/internal/common/database"
	"doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
	"doctrack/internal/models"
	"doctrack/internal/sms"
)

const (
	selectPendingSQL = `
	SELECT id, form_number, mobile_phone, retry_count
	FROM failed_sms
	WHERE resent_successfully = false
	ORDER BY failed_at ASC`

	selectPendingCappedSQL = `
	SELECT id, form_number, mobile_phone, retry_count
	FROM failed_sms
	WHERE resent_successfully = false AND retry_count < $1
	ORDER BY failed_at ASC`

	markResentSQL = `
	UPDATE failed_sms
	SET resent_successfully = true, resent_at = NOW(), retry_count = retry_count + 1
	WHERE id = $1`

	bumpRetrySQL = `
	UPDATE failed_sms
	SET retry_count = retry_count + 1
	WHERE id = $1`
)

// Sweeper retries every pending row of the failure ledger, oldest first.
// Rows already marked resent are never revisited. Successful resends join
// the same SMS activity log as first sends, marked as resends.
type Sweeper struct {
	db       *database.PostgresClient
	sender   SMSSender
	activity *applog.Writer
	cfg      config.SMSConfig
	logger   logger.Logger
}

func NewSweeper(db *database.PostgresClient, sender SMSSender, activity *applog.Writer, cfg config.SMSConfig, log logger.Logger) *Sweeper {
	return &Sweeper{db: db, sender: sender, activity: activity, cfg: cfg, logger: log}
}

func (s *Sweeper) Sweep(ctx context.Context) (SweepStats, error) {
	stats := SweepStats{}
	batchID := uuid.New().String()

	pending, err := s.selectPending(ctx)
	if err != nil {
		return stats, err
	}
	stats.Scanned = len(pending)

	if len(pending) == 0 {
		s.logger.Info("no failed messages pending resend", nil)
		return stats, nil
	}

	s.logger.Info("resending failed messages", map[string]interface{}{
		"batchId": batchID,
		"pending": len(pending),
	})

	for _, row := range pending {
		text := fmt.Sprintf(s.cfg.TextTemplate, TrackingLink(s.cfg.TrackingBaseURL, row.FormNumber))
		result := s.sender.Send(ctx, row.MobilePhone, text)

		if result.Success {
			stats.Resent++
			metrics.SMSResendTotal.WithLabelValues("sent").Inc()
			s.logActivity(ctx, row.MobilePhone, result, batchID)
			if err := s.update(ctx, markResentSQL, row.ID); err != nil {
				s.logger.Error("resent message not marked, duplicate send possible", map[string]interface{}{
					"id":    row.ID,
					"error": err.Error(),
				})
			}
		} else {
			stats.Failed++
			metrics.SMSResendTotal.WithLabelValues("failed").Inc()
			s.logger.Warn("resend attempt failed", map[string]interface{}{
				"id":         row.ID,
				"formNumber": row.FormNumber,
				"httpCode":   result.HTTPCode,
				"error":      result.ErrorMessage,
			})
			if err := s.update(ctx, bumpRetrySQL, row.ID); err != nil {
				s.logger.Error("retry count not bumped", map[string]interface{}{
					"id":    row.ID,
					"error": err.Error(),
				})
			}
		}

		time.Sleep(config.GetDuration(s.cfg.SendDelay))
	}

	return stats, nil
}

func (s *Sweeper) selectPending(ctx context.Context) ([]models.FailedSMS, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if s.cfg.MaxRetries > 0 {
		rows, err = s.db.Query(ctx, selectPendingCappedSQL, s.cfg.MaxRetries)
	} else {
		rows, err = s.db.Query(ctx, selectPendingSQL)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("select pending failed_sms", err)
	}
	defer rows.Close()

	var pending []models.FailedSMS
	for rows.Next() {
		var row models.FailedSMS
		if err := rows.Scan(&row.ID, &row.FormNumber, &row.MobilePhone, &row.RetryCount); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan failed_sms row", err)
		}
		pending = append(pending, row)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate failed_sms rows", err)
	}

	return pending, nil
}

func (s *Sweeper) logActivity(ctx context.Context, phone string, result sms.SendResult, batchID string) {
	if s.activity == nil {
		return
	}
	entry := sms.ActivityEntry{
		Timestamp:     time.Now().UTC(),
		Type:          sms.ActivityTypeResend,
		Phone:         phone,
		MessageID:     result.MessageID,
		OmniMessageID: result.OmniMessageID,
		BatchID:       batchID,
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (s *Sweeper) update(ctx context.Context, query string, id int64) error {
	if _, err := s.db.Exec(ctx, query, id); err != nil {
		return errors.NewQueryExecutionFailedError("update failed_sms", err)
	}
	return nil
}
