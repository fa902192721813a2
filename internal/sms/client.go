// internal/sms/client.go
package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"doctrack/internal/common/config"
	httpclient "doctrack/internal/common/http"
	"doctrack/internal/common/logger"
	"doctrack/internal/common/metrics"
)

// Client talks to the external messaging provider over basic-auth HTTP.
type Client struct {
	httpClient *httpclient.Client
	cfg        config.SMSConfig
	logger     logger.Logger
}

func NewClient(cfg config.SMSConfig, log logger.Logger) *Client {
	return &Client{
		httpClient: httpclient.NewClient(config.GetDuration(cfg.Timeout)),
		cfg:        cfg,
		logger:     log,
	}
}

// Send dispatches one single-recipient message. Any 2xx response carrying
// messages[0].message_id is a success; everything else is a failure with the
// best available diagnostic. Send never returns an error: the result struct
// is the whole outcome, so a single failure cannot abort a batch.
func (c *Client) Send(ctx context.Context, phone, text string) SendResult {
	body, err := json.Marshal(sendRequest{
		To: phone,
		Messages: []sendMessage{
			{Channel: channelSMS, Sender: c.cfg.Sender, Text: text},
		},
	})
	if err != nil {
		return SendResult{ErrorMessage: fmt.Sprintf("encode request: %v", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.APIURL, bytes.NewReader(body))
	if err != nil {
		return SendResult{ErrorMessage: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.cfg.Username, c.cfg.Password)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.SMSSendDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		c.logger.Error("sms transport failure", map[string]interface{}{
			"error": err,
		})
		return SendResult{ErrorMessage: err.Error()}
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return SendResult{
			HTTPCode:     resp.StatusCode,
			ErrorMessage: fmt.Sprintf("HTTP %d", resp.StatusCode),
		}
	}

	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil || len(parsed.Messages) == 0 || parsed.Messages[0].MessageID == "" {
		return SendResult{
			HTTPCode:     resp.StatusCode,
			ErrorMessage: "response missing message_id",
		}
	}

	return SendResult{
		Success:       true,
		MessageID:     parsed.Messages[0].MessageID,
		OmniMessageID: parsed.OmniMessageID,
		HTTPCode:      resp.StatusCode,
	}
}
