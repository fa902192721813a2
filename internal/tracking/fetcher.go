// internal/tracking/fetcher.go
package tracking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"doctrack/internal/common/config"
	stderrors "doctrack/internal/common/errors"
	httpclient "doctrack/internal/common/http"
	"doctrack/internal/common/logger"
	"doctrack/internal/models"
)

// Strategy is one way of obtaining the raw snapshot payload. Strategies are
// tried in order until one yields a non-empty payload.
type Strategy interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// PrimaryStrategy is the full-featured HTTP client with JSON content
// negotiation. It requires a 2xx response.
type PrimaryStrategy struct {
	client *httpclient.Client
	url    string
}

func NewPrimaryStrategy(url string, timeout time.Duration) *PrimaryStrategy {
	return &PrimaryStrategy{
		client: httpclient.NewClient(timeout),
		url:    url,
	}
}

func (s *PrimaryStrategy) Name() string { return "primary-http" }

func (s *PrimaryStrategy) Fetch(ctx context.Context) ([]byte, error) {
	resp, err := s.client.Get(ctx, s.url, map[string]string{
		"Accept":       "application/json",
		"Content-Type": "application/json",
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// StreamStrategy is the minimal secondary transport: a bare GET without
// negotiation headers, mirroring a plain stream read of the endpoint.
type StreamStrategy struct {
	url     string
	timeout time.Duration
}

func NewStreamStrategy(url string, timeout time.Duration) *StreamStrategy {
	return &StreamStrategy{url: url, timeout: timeout}
}

func (s *StreamStrategy) Name() string { return "stream-http" }

func (s *StreamStrategy) Fetch(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: s.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// LocalStrategy reads the provider's locally exported snapshot file. Used
// only when both network strategies fail, so the sync can still run when the
// endpoint is unreachable but the underlying data source is local.
type LocalStrategy struct {
	path string
}

func NewLocalStrategy(path string) *LocalStrategy {
	return &LocalStrategy{path: path}
}

func (s *LocalStrategy) Name() string { return "local-snapshot" }

func (s *LocalStrategy) Fetch(_ context.Context) ([]byte, error) {
	if s.path == "" {
		return nil, fmt.Errorf("no local snapshot path configured")
	}
	return os.ReadFile(s.path)
}

// Fetcher retrieves the full snapshot through the ordered strategy chain.
type Fetcher struct {
	strategies []Strategy
	logger     logger.Logger
}

func NewFetcher(log logger.Logger, strategies ...Strategy) *Fetcher {
	return &Fetcher{strategies: strategies, logger: log}
}

// NewSnapshotFetcher assembles the default chain from configuration:
// primary HTTP, stream HTTP, local snapshot file.
func NewSnapshotFetcher(cfg config.TrackingConfig, log logger.Logger) *Fetcher {
	timeout := config.GetDuration(cfg.Timeout)
	return NewFetcher(log,
		NewPrimaryStrategy(cfg.SnapshotURL, timeout),
		NewStreamStrategy(cfg.SnapshotURL, timeout),
		NewLocalStrategy(cfg.LocalSnapshotPath),
	)
}

// Fetch tries each strategy until one yields a non-empty payload, then
// decodes it. An empty JSON array is a valid "nothing to sync" outcome; an
// unparseable payload is an error regardless of which strategy produced it.
func (f *Fetcher) Fetch(ctx context.Context) ([]models.SnapshotRecord, error) {
	var lastErr error
	lastName := "none"

	for _, s := range f.strategies {
		payload, err := s.Fetch(ctx)
		if err != nil {
			f.logger.Warn("fetch strategy failed", map[string]interface{}{
				"strategy": s.Name(),
				"error":    err.Error(),
			})
			lastErr = err
			lastName = s.Name()
			continue
		}
		if len(bytes.TrimSpace(payload)) == 0 {
			f.logger.Warn("fetch strategy returned empty payload", map[string]interface{}{
				"strategy": s.Name(),
			})
			lastErr = fmt.Errorf("empty payload")
			lastName = s.Name()
			continue
		}

		f.logger.Info("snapshot payload fetched", map[string]interface{}{
			"strategy": s.Name(),
			"bytes":    len(payload),
		})
		return decodeSnapshot(payload)
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("no strategies configured")
	}
	return nil, stderrors.NewFetchExhaustedError(lastName, lastErr)
}

// decodeSnapshot validates the payload against the snapshot schema and
// unmarshals it. Record-level content problems (such as a missing form
// number) are left for the staging loader to count.
func decodeSnapshot(payload []byte) ([]models.SnapshotRecord, error) {
	if err := ValidateSnapshotPayload(payload); err != nil {
		return nil, err
	}

	var records []models.SnapshotRecord
	if err := json.Unmarshal(payload, &records); err != nil {
		return nil, stderrors.NewSnapshotDecodeFailedError(err)
	}
	return records, nil
}
