// internal/sms/client_test.go
package sms

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"doctrack/internal/common/config"
	"doctrack/internal/common/logger"
)

// ==========================
// Test Helpers
// ==========================

func newTestClient(url string) *Client {
	return NewClient(config.SMSConfig{
		APIURL:   url,
		Username: "svc-user",
		Password: "svc-pass",
		Sender:   "DocTrack",
		Timeout:  5000,
	}, logger.NewNoOpLogger())
}

// ==========================
// Send Tests
// ==========================

func TestSendSuccess(t *testing.T) {
	var captured sendRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "svc-user", user)
		assert.Equal(t, "svc-pass", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"messages":[{"message_id":"msg-123"}],"omnimessage_id":"omni-456"}`))
	}))
	defer server.Close()

	result := newTestClient(server.URL).Send(context.Background(), "37255512345", "hello")

	assert.True(t, result.Success)
	assert.Equal(t, "msg-123", result.MessageID)
	assert.Equal(t, "omni-456", result.OmniMessageID)
	assert.Equal(t, http.StatusOK, result.HTTPCode)
	assert.Empty(t, result.ErrorMessage)

	assert.Equal(t, "37255512345", captured.To)
	if assert.Len(t, captured.Messages, 1) {
		assert.Equal(t, "sms", captured.Messages[0].Channel)
		assert.Equal(t, "DocTrack", captured.Messages[0].Sender)
		assert.Equal(t, "hello", captured.Messages[0].Text)
	}
}

func TestSendServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	result := newTestClient(server.URL).Send(context.Background(), "37255512345", "hello")

	assert.False(t, result.Success)
	assert.Equal(t, http.StatusServiceUnavailable, result.HTTPCode)
	assert.Equal(t, "HTTP 503", result.ErrorMessage)
}

func TestSendMissingMessageID(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "empty messages array", body: `{"messages":[]}`},
		{name: "blank message id", body: `{"messages":[{"message_id":""}]}`},
		{name: "not json", body: `oops`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			result := newTestClient(server.URL).Send(context.Background(), "37255512345", "hello")

			assert.False(t, result.Success)
			assert.Equal(t, http.StatusOK, result.HTTPCode)
			assert.Equal(t, "response missing message_id", result.ErrorMessage)
		})
	}
}

func TestSendTransportFailure(t *testing.T) {
	result := newTestClient("http://127.0.0.1:1").Send(context.Background(), "37255512345", "hello")

	assert.False(t, result.Success)
	assert.Equal(t, 0, result.HTTPCode)
	assert.NotEmpty(t, result.ErrorMessage)
}
