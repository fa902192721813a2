// internal/sync/swap.go
package sync

import (
	"context"

	"doctrack/internal/common/database"
	stderrors "doctrack/internal/common/errors"
	"doctrack/internal/common/logger"
)

// SwapResult classifies the outcome of one promotion decision.
type SwapResult string

const (
	ResultPromoted SwapResult = "promoted"
	ResultVetoed   SwapResult = "vetoed"
	ResultFailed   SwapResult = "failed"
)

// Swapper promotes a fully loaded staging table to the live name in one
// indivisible rename sequence. Postgres runs DDL transactionally, so readers
// observe either the complete old table or the complete new one.
type Swapper struct {
	db     *database.PostgresClient
	logger logger.Logger
}

func NewSwapper(db *database.PostgresClient, log logger.Logger) *Swapper {
	return &Swapper{db: db, logger: log}
}

// Promote applies the fail-closed policy: promotion happens only when
// staged > 0 and errorCount == 0. Any error anywhere in the batch means
// serving yesterday's data is preferred over a partially wrong dataset.
func (s *Swapper) Promote(ctx context.Context, staged, errorCount int) (SwapResult, error) {
	if staged == 0 || errorCount > 0 {
		s.logger.Warn("promotion vetoed, discarding staging table", map[string]interface{}{
			"staged": staged,
			"errors": errorCount,
		})
		if _, err := s.db.Exec(ctx, "DROP TABLE IF EXISTS "+stagingTable); err != nil {
			s.logger.Error("failed to discard staging table", map[string]interface{}{
				"error": err,
			})
		}
		return ResultVetoed, nil
	}

	if err := s.swap(ctx); err != nil {
		s.quarantine(ctx)
		return ResultFailed, stderrors.NewSwapFailedError(err)
	}

	// The displaced table is dead weight now. A failed drop leaks one table
	// until the next cycle overwrites it, so it is logged and ignored.
	if _, err := s.db.Exec(ctx, "DROP TABLE IF EXISTS "+oldTable); err != nil {
		s.logger.Warn("failed to drop displaced table", map[string]interface{}{
			"error": err,
		})
	}

	s.logger.Info("snapshot promoted", map[string]interface{}{
		"staged": staged,
	})
	return ResultPromoted, nil
}

// swap runs the rename sequence in a single transaction: there is never a
// window where the serving name does not exist.
func (s *Swapper) swap(ctx context.Context) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}

	steps := []string{
		"DROP TABLE IF EXISTS " + oldTable,
		"ALTER TABLE " + liveTable + " RENAME TO " + oldTable,
		"ALTER TABLE " + stagingTable + " RENAME TO " + liveTable,
	}
	for _, q := range steps {
		if _, err := tx.ExecContext(ctx, q); err != nil {
			_ = tx.Rollback()
			return err
		}
	}

	return tx.Commit()
}

// quarantine preserves the staging data under a forensic name after a failed
// swap. Data being promoted must never be silently dropped.
func (s *Swapper) quarantine(ctx context.Context) {
	if _, err := s.db.Exec(ctx, "DROP TABLE IF EXISTS "+quarantineTable); err != nil {
		s.logger.Error("failed to clear quarantine table", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err := s.db.Exec(ctx, "ALTER TABLE "+stagingTable+" RENAME TO "+quarantineTable); err != nil {
		s.logger.Error("failed to quarantine staging table", map[string]interface{}{
			"error": err,
		})
		return
	}
	s.logger.Warn("staging data quarantined for inspection", map[string]interface{}{
		"table": quarantineTable,
	})
}
