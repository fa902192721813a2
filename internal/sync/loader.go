// internal/sync/loader.go
package sync

import (
	"context"
	"database/sql"
	"strings"

	"doctrack/internal/common/database"
	stderrors "doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
	"doctrack/internal/models"
	"doctrack/internal/status"
)

const (
	liveTable       = "documents"
	stagingTable    = "documents_import"
	oldTable        = "documents_old"
	quarantineTable = "documents_import_failed"
)

const insertStagedSQL = `INSERT INTO documents_import
	(form_number, status, document_type_id, mobile_phone, client, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, NOW(), NOW())`

// Loader writes fetched records into a freshly recreated staging table. It is
// a best-effort bulk writer: per-record failures are counted, never fatal.
type Loader struct {
	db       *database.PostgresClient
	reporter *status.Reporter
	logger   logger.Logger
}

func NewLoader(db *database.PostgresClient, reporter *status.Reporter, log logger.Logger) *Loader {
	return &Loader{db: db, reporter: reporter, logger: log}
}

// Load recreates the staging table and inserts each record, deriving the
// public status per record. Returns the staged and error counts; the error
// return is non-nil only when the staging area itself could not be prepared.
func (l *Loader) Load(ctx context.Context, records []models.SnapshotRecord) (int, int, error) {
	if err := l.recreateStaging(ctx); err != nil {
		return 0, 0, err
	}

	staged := 0
	errorCount := 0

	for _, rec := range records {
		formNumber := strings.TrimSpace(rec.FormNumber)
		if formNumber == "" {
			errorCount++
			l.logger.Warn("record skipped: missing form number", map[string]interface{}{
				"client": rec.Client,
			})
			continue
		}

		client := strings.TrimSpace(rec.Client)
		if l.reporter != nil {
			l.reporter.Report(ctx, client)
		}

		docType := rec.DocumentTypeID
		if docType == 0 {
			docType = models.DocumentTypeJoint
		}

		_, err := l.db.Exec(ctx, insertStagedSQL,
			formNumber,
			string(status.Map(client)),
			docType,
			strings.TrimSpace(rec.MobilePhone),
			sql.NullString{String: client, Valid: client != ""},
		)
		if err != nil {
			errorCount++
			loadErr := stderrors.NewRecordLoadFailedError(formNumber, err)
			l.logger.Error("record staging failed", map[string]interface{}{
				"formNumber": formNumber,
				"error":      loadErr.Details,
			})
			continue
		}
		staged++
	}

	metrics.SnapshotRecordsTotal.WithLabelValues("staged").Add(float64(staged))
	metrics.SnapshotRecordsTotal.WithLabelValues("error").Add(float64(errorCount))

	l.logger.Info("staging complete", map[string]interface{}{
		"staged": staged,
		"errors": errorCount,
	})
	return staged, errorCount, nil
}

// recreateStaging always drops and rebuilds the staging table so no rows smear
// across runs.
func (l *Loader) recreateStaging(ctx context.Context) error {
	if _, err := l.db.Exec(ctx, "DROP TABLE IF EXISTS "+stagingTable); err != nil {
		return stderrors.NewStagingCreateFailedError(err)
	}
	if _, err := l.db.Exec(ctx, "CREATE TABLE "+stagingTable+" (LIKE "+liveTable+" INCLUDING ALL)"); err != nil {
		return stderrors.NewStagingCreateFailedError(err)
	}
	return nil
}
