// internal/sync/service.go
package sync

import (
	"context"
	"fmt"
	"time"

	"doctrack/internal/applog"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
	"doctrack/internal/models"
)

// SnapshotSource yields the full current dataset, defined for mocking.
type SnapshotSource interface {
	Fetch(ctx context.Context) ([]models.SnapshotRecord, error)
}

// Alerter raises operator attention for failures the next cycle cannot heal.
type Alerter interface {
	Notify(ctx context.Context, subject, body string) error
}

// RunEntry is the activity log record of one synchronization cycle.
type RunEntry struct {
	StartedAt  time.Time `json:"startedAt"`
	FinishedAt time.Time `json:"finishedAt"`
	Fetched    int       `json:"fetched"`
	Staged     int       `json:"staged"`
	Errors     int       `json:"errors"`
	Result     string    `json:"result"`
	Detail     string    `json:"detail,omitempty"`
}

// Service orchestrates one full cycle: fetch, stage, promote. Whole-cycle
// failures are returned to the caller, which exits non-zero so the external
// scheduler sees them; the next scheduled run is the retry mechanism.
type Service struct {
	source   SnapshotSource
	loader   *Loader
	swapper  *Swapper
	activity *applog.Writer
	alerter  Alerter
	logger   logger.Logger
}

func NewService(source SnapshotSource, loader *Loader, swapper *Swapper, activity *applog.Writer, alerter Alerter, log logger.Logger) *Service {
	return &Service{
		source:   source,
		loader:   loader,
		swapper:  swapper,
		activity: activity,
		alerter:  alerter,
		logger:   log,
	}
}

func (s *Service) Run(ctx context.Context) (*RunEntry, error) {
	entry := &RunEntry{StartedAt: time.Now().UTC()}

	records, err := s.source.Fetch(ctx)
	if err != nil {
		entry.Result = string(ResultFailed)
		entry.Detail = err.Error()
		s.finish(ctx, entry)
		metrics.SyncCyclesTotal.WithLabelValues(string(ResultFailed)).Inc()
		return entry, err
	}
	entry.Fetched = len(records)

	staged, errorCount, err := s.loader.Load(ctx, records)
	entry.Staged = staged
	entry.Errors = errorCount
	if err != nil {
		entry.Result = string(ResultFailed)
		entry.Detail = err.Error()
		s.finish(ctx, entry)
		metrics.SyncCyclesTotal.WithLabelValues(string(ResultFailed)).Inc()
		return entry, err
	}

	result, err := s.swapper.Promote(ctx, staged, errorCount)
	entry.Result = string(result)
	metrics.SyncCyclesTotal.WithLabelValues(string(result)).Inc()

	if err != nil {
		entry.Detail = err.Error()
		s.finish(ctx, entry)
		s.alertSwapFailure(ctx, err)
		return entry, err
	}

	s.finish(ctx, entry)
	return entry, nil
}

func (s *Service) finish(ctx context.Context, entry *RunEntry) {
	entry.FinishedAt = time.Now().UTC()

	s.logger.Info("sync cycle finished", map[string]interface{}{
		"fetched": entry.Fetched,
		"staged":  entry.Staged,
		"errors":  entry.Errors,
		"result":  entry.Result,
	})

	if s.activity == nil {
		return
	}
	if err := s.activity.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append sync activity entry", map[string]interface{}{
			"error": err,
		})
	}
}

func (s *Service) alertSwapFailure(ctx context.Context, swapErr error) {
	if s.alerter == nil {
		return
	}
	body := fmt.Sprintf(
		"The snapshot table swap failed and the staging data was quarantined under %q.\n\nError: %v\n\nManual inspection is required before the next cycle.",
		quarantineTable, swapErr,
	)
	_ = s.alerter.Notify(ctx, "doctrack: snapshot table swap failed", body)
}
