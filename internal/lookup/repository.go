// internal/lookup/repository.go

// Package lookup exposes the read-side query contract over the live dataset
// for the public status page: rows by form number plus the derived delivery
// estimates and a not-found classification.
package lookup

import (
	"context"
	"database/sql"

	"doctrack/internal/common/database"
	"doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
	"doctrack/internal/models"
)

const findByFormNumberSQL = `
	SELECT form_number, status, document_type_id, client, created_at, updated_at
	FROM documents
	WHERE form_number = $1 AND document_type_id IN (2, 3)
	ORDER BY document_type_id ASC`

type Repository struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewRepository(db *database.PostgresClient, log logger.Logger) *Repository {
	return &Repository{db: db, logger: log}
}

// FindByFormNumber returns the trackable rows for a form number, ordered by
// document type. Phone numbers are deliberately not selected: the lookup
// page never sees them. The query does not validate its input; classification
// of malformed identifiers happens at the handler.
func (r *Repository) FindByFormNumber(ctx context.Context, formNumber string) ([]models.Document, error) {
	rows, err := r.db.Query(ctx, findByFormNumberSQL, formNumber)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("find documents by form number", err)
	}
	defer rows.Close()

	var docs []models.Document
	for rows.Next() {
		var (
			doc    models.Document
			client sql.NullString
		)
		if err := rows.Scan(&doc.FormNumber, &doc.Status, &doc.DocumentTypeID, &client, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scan document row", err)
		}
		doc.Client = client.String
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("iterate document rows", err)
	}

	return docs, nil
}
