// internal/notify/ledger.go
package notify

import (
	"context"

	"doctrack/internal/common/database"
	"doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
	"doctrack/internal/sms"
)

const insertFailureSQL = `
	INSERT INTO failed_sms (form_number, mobile_phone, error_message, http_code, failed_at, resent_successfully, retry_count)
	VALUES ($1, $2, $3, $4, NOW(), false, 0)`

// Ledger persists failed sends for the retry sweep. Every failure is a new
// row; repeated failures for the same number accumulate instead of deduping.
type Ledger struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewLedger(db *database.PostgresClient, log logger.Logger) *Ledger {
	return &Ledger{db: db, logger: log}
}

func (l *Ledger) RecordFailure(ctx context.Context, formNumber, phone string, result sms.SendResult) error {
	_, err := l.db.Exec(ctx, insertFailureSQL, formNumber, phone, result.ErrorMessage, result.HTTPCode)
	if err != nil {
		l.logger.Error("failed to record sms failure", map[string]interface{}{
			"formNumber": formNumber,
			"error":      err.Error(),
		})
		return errors.NewLedgerWriteFailedError(err)
	}
	return nil
}
