// internal/tracking/feed.go
package tracking

import (
	"context"

	"doctrack/internal/common/config"
	"doctrack/internal/common/logger"
	"doctrack/internal/models"
)

// FeedClient polls the new-application feed. The feed shares the snapshot
// payload shape but has no local fallback: when the endpoint is down there is
// simply nothing to dispatch this run.
type FeedClient struct {
	fetcher *Fetcher
}

func NewFeedClient(cfg config.TrackingConfig, log logger.Logger) *FeedClient {
	timeout := config.GetDuration(cfg.Timeout)
	return &FeedClient{
		fetcher: NewFetcher(log,
			NewPrimaryStrategy(cfg.NewApplicationURL, timeout),
			NewStreamStrategy(cfg.NewApplicationURL, timeout),
		),
	}
}

// Fetch returns the current batch of new-application events.
func (c *FeedClient) Fetch(ctx context.Context) ([]models.SnapshotRecord, error) {
	return c.fetcher.Fetch(ctx)
}
