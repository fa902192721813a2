// internal/applog/applog.go

// Package applog implements the append-only activity logs kept for human
// diagnostics. Entries are written as one JSON object per line and are never
// read back by the pipeline; when configured they are mirrored to an
// Elasticsearch index on a best-effort basis.
package applog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"doctrack/internal/common/database"
	"doctrack/internal/common/logger"
)

type Writer struct {
	path   string
	es     *database.ElasticsearchClient
	index  string
	logger logger.Logger
}

// New creates a writer appending to <dir>/<filename>. es may be nil to
// disable the mirror.
func New(dir, filename string, es *database.ElasticsearchClient, index string, log logger.Logger) *Writer {
	return &Writer{
		path:   filepath.Join(dir, filename),
		es:     es,
		index:  index,
		logger: log,
	}
}

// Append serializes entry and appends it as a single line. The file is
// opened O_APPEND per write so concurrent batch jobs interleave whole lines.
func (w *Writer) Append(ctx context.Context, entry interface{}) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal activity entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("create activity log dir: %w", err)
	}

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open activity log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write activity entry: %w", err)
	}

	if w.es != nil {
		if err := w.es.Index(ctx, w.index, data); err != nil {
			w.logger.Warn("activity log mirror failed", map[string]interface{}{
				"error": err.Error(),
				"index": w.index,
			})
		}
	}

	return nil
}
