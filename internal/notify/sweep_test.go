// internal/notify/sweep_test.go
package notify

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"

	"doctrack/internal/applog"
	"doctrack/internal/common/database"
	commonerrors "doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
	"doctrack/internal/sms"
)

// ==========================
// Test Helpers
// ==========================

func pendingColumns() []string {
	return []string{"id", "form_number", "mobile_phone", "retry_count"}
}

func setupSweepDB(t *testing.T) (*database.PostgresClient, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &database.PostgresClient{DB: db}, mock
}

// ==========================
// Sweep Tests
// ==========================

func TestSweepResendsPendingRows(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, form_number, mobile_phone, retry_count")).
		WillReturnRows(sqlmock.NewRows(pendingColumns()).
			AddRow(int64(1), "240115123456789012", "5550001", 0).
			AddRow(int64(2), "240116123456789013", "5550002", 2))

	mock.ExpectExec(regexp.QuoteMeta("SET resent_successfully = true, resent_at = NOW(), retry_count = retry_count + 1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("SET resent_successfully = true, resent_at = NOW(), retry_count = retry_count + 1")).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	sender := &mockSender{result: sms.SendResult{Success: true, MessageID: "msg-1", HTTPCode: 200}}
	s := NewSweeper(db, sender, nil, testSMSConfig(), logger.NewNoOpLogger())

	stats, err := s.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 2, stats.Scanned)
	assert.Equal(t, 2, stats.Resent)
	assert.Equal(t, 0, stats.Failed)
	if assert.Len(t, sender.calls, 2) {
		assert.Equal(t, "5550001", sender.calls[0].phone)
		assert.Contains(t, sender.calls[0].text, "?id=240115123456789012")
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepWritesResendActivity(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, form_number, mobile_phone, retry_count")).
		WillReturnRows(sqlmock.NewRows(pendingColumns()).
			AddRow(int64(9), "240115123456789012", "5550001", 1))

	mock.ExpectExec(regexp.QuoteMeta("SET resent_successfully = true, resent_at = NOW(), retry_count = retry_count + 1")).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dir := t.TempDir()
	activity := applog.New(dir, "sms_activity.log", nil, "", logger.NewNoOpLogger())

	sender := &mockSender{result: sms.SendResult{Success: true, MessageID: "msg-9", OmniMessageID: "omni-9", HTTPCode: 200}}
	s := NewSweeper(db, sender, activity, testSMSConfig(), logger.NewNoOpLogger())

	stats, err := s.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Resent)
	assert.NoError(t, mock.ExpectationsWereMet())

	data, err := os.ReadFile(filepath.Join(dir, "sms_activity.log"))
	assert.NoError(t, err)

	var entry sms.ActivityEntry
	assert.NoError(t, json.Unmarshal(data, &entry))
	assert.Equal(t, sms.ActivityTypeResend, entry.Type)
	assert.Equal(t, "5550001", entry.Phone)
	assert.Equal(t, "msg-9", entry.MessageID)
	assert.Equal(t, "omni-9", entry.OmniMessageID)
	assert.NotEmpty(t, entry.BatchID)
	assert.False(t, entry.Timestamp.IsZero())
}

func TestSweepBumpsRetryCountOnFailure(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, form_number, mobile_phone, retry_count")).
		WillReturnRows(sqlmock.NewRows(pendingColumns()).
			AddRow(int64(7), "240115123456789012", "5550001", 1))

	mock.ExpectExec(regexp.QuoteMeta("SET retry_count = retry_count + 1")).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	dir := t.TempDir()
	activity := applog.New(dir, "sms_activity.log", nil, "", logger.NewNoOpLogger())

	sender := &mockSender{result: sms.SendResult{Success: false, HTTPCode: 502, ErrorMessage: "HTTP 502"}}
	s := NewSweeper(db, sender, activity, testSMSConfig(), logger.NewNoOpLogger())

	stats, err := s.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Resent)
	assert.NoError(t, mock.ExpectationsWereMet())

	// Failed resends stay out of the activity log.
	_, err = os.Stat(filepath.Join(dir, "sms_activity.log"))
	assert.True(t, os.IsNotExist(err))
}

func TestSweepAppliesRetryCeiling(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("retry_count < $1")).
		WithArgs(5).
		WillReturnRows(sqlmock.NewRows(pendingColumns()))

	cfg := testSMSConfig()
	cfg.MaxRetries = 5
	s := NewSweeper(db, &mockSender{}, nil, cfg, logger.NewNoOpLogger())

	stats, err := s.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Scanned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepNothingPending(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, form_number, mobile_phone, retry_count")).
		WillReturnRows(sqlmock.NewRows(pendingColumns()))

	sender := &mockSender{}
	s := NewSweeper(db, sender, nil, testSMSConfig(), logger.NewNoOpLogger())

	stats, err := s.Sweep(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 0, stats.Scanned)
	assert.Empty(t, sender.calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepSelectFailure(t *testing.T) {
	db, mock := setupSweepDB(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, form_number, mobile_phone, retry_count")).
		WillReturnError(assert.AnError)

	s := NewSweeper(db, &mockSender{}, nil, testSMSConfig(), logger.NewNoOpLogger())

	_, err := s.Sweep(context.Background())

	assert.Error(t, err)
	assert.True(t, commonerrors.IsCode(err, commonerrors.ErrCodeQueryExecutionFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
