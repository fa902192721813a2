// internal/notify/ledger_test.go
package notify

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	commonerrors "doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
	"doctrack/internal/sms"
)

func TestRecordFailureInsertsRow(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO failed_sms")).
		WithArgs("240115123456789012", "5550001", "HTTP 503", 503).
		WillReturnResult(sqlmock.NewResult(1, 1))

	l := NewLedger(db, logger.NewNoOpLogger())
	err := l.RecordFailure(context.Background(), "240115123456789012", "5550001",
		sms.SendResult{HTTPCode: 503, ErrorMessage: "HTTP 503"})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRecordFailureInsertError(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO failed_sms")).
		WillReturnError(assert.AnError)

	l := NewLedger(db, logger.NewNoOpLogger())
	err := l.RecordFailure(context.Background(), "240115123456789012", "5550001",
		sms.SendResult{ErrorMessage: "connection reset"})

	assert.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeLedgerWriteFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
