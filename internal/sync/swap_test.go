// internal/sync/swap_test.go
package sync

import (
	"context"
	"fmt"
	"regexp"
	"testing"

	stderrors "doctrack/internal/common/errors"
	"doctrack/internal/common/logger"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
)

// ==========================
// Promotion Policy Tests
// ==========================

func TestSwapper_VetoWhenErrorsPresent(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_import")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapper := NewSwapper(db, logger.NewTestLogger(t))
	result, err := swapper.Promote(context.Background(), 100, 1)

	assert.NoError(t, err)
	assert.Equal(t, ResultVetoed, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapper_VetoWhenNothingStaged(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_import")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapper := NewSwapper(db, logger.NewTestLogger(t))
	result, err := swapper.Promote(context.Background(), 0, 0)

	assert.NoError(t, err)
	assert.Equal(t, ResultVetoed, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// ==========================
// Rename Sequence Tests
// ==========================

func TestSwapper_PromoteRunsRenameSequenceInOneTransaction(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_old")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE documents RENAME TO documents_old")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE documents_import RENAME TO documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_old")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapper := NewSwapper(db, logger.NewTestLogger(t))
	result, err := swapper.Promote(context.Background(), 42, 0)

	assert.NoError(t, err)
	assert.Equal(t, ResultPromoted, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapper_OldTableDropFailureIsNonFatal(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_old")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE documents RENAME TO documents_old")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE documents_import RENAME TO documents")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_old")).
		WillReturnError(fmt.Errorf("lock timeout"))

	swapper := NewSwapper(db, logger.NewTestLogger(t))
	result, err := swapper.Promote(context.Background(), 42, 0)

	assert.NoError(t, err)
	assert.Equal(t, ResultPromoted, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSwapper_RenameFailureQuarantinesStaging(t *testing.T) {
	db, mock := setupMockDB(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_old")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE documents RENAME TO documents_old")).
		WillReturnError(fmt.Errorf("deadlock detected"))
	mock.ExpectRollback()
	mock.ExpectExec(regexp.QuoteMeta("DROP TABLE IF EXISTS documents_import_failed")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("ALTER TABLE documents_import RENAME TO documents_import_failed")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapper := NewSwapper(db, logger.NewTestLogger(t))
	result, err := swapper.Promote(context.Background(), 42, 0)

	assert.Equal(t, ResultFailed, result)
	assert.True(t, stderrors.IsCode(err, stderrors.ErrCodeSwapFailed))
	assert.NoError(t, mock.ExpectationsWereMet())
}
