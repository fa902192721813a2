// internal/status/reporter.go
package status

import (
	"context"

	"doctrack/internal/common/database"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
)

// UnknownCodesKey is the Redis set collecting workflow codes observed outside
// the mapping table, so the table can be extended deliberately instead of
// silently misclassifying.
const UnknownCodesKey = "doctrack:unknown_workflow_codes"

// Reporter flags newly observed unmapped workflow codes.
type Reporter struct {
	redis  *database.RedisClient
	logger logger.Logger
}

func NewReporter(rdb *database.RedisClient, log logger.Logger) *Reporter {
	return &Reporter{redis: rdb, logger: log}
}

// Report records one sighting of an unmapped code. Best-effort: a Redis
// failure is logged and swallowed, the sync cycle must not depend on it.
func (r *Reporter) Report(ctx context.Context, rawCode string) {
	if rawCode == "" || Known(rawCode) {
		return
	}

	metrics.UnknownWorkflowCodesTotal.Inc()
	r.logger.Warn("unmapped workflow code observed", map[string]interface{}{
		"code": rawCode,
	})

	if r.redis == nil {
		return
	}
	if err := r.redis.SAdd(ctx, UnknownCodesKey, rawCode); err != nil {
		r.logger.Error("failed to record unknown workflow code", map[string]interface{}{
			"error": err,
			"code":  rawCode,
		})
	}
}
