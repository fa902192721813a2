// internal/sms/models.go
package sms

import "time"

// sendRequest is the messaging provider's wire format.
type sendRequest struct {
	To       string        `json:"to"`
	Messages []sendMessage `json:"messages"`
}

type sendMessage struct {
	Channel string `json:"channel"`
	Sender  string `json:"sender"`
	Text    string `json:"text"`
}

// sendResponse carries the provider's identifiers. The HTTP status code is
// authoritative for success/failure; the payload check confirms an id exists.
type sendResponse struct {
	Messages []struct {
		MessageID string `json:"message_id"`
	} `json:"messages"`
	OmniMessageID string `json:"omnimessage_id"`
}

// SendResult is the outcome of one dispatch attempt.
type SendResult struct {
	Success       bool
	MessageID     string
	OmniMessageID string
	HTTPCode      int
	ErrorMessage  string
}

// ActivityTypeResend marks activity entries produced by the retry sweep, so
// first sends and resends share one audit trail.
const ActivityTypeResend = "resend"

// ActivityEntry is one line of the append-only SMS activity log. Type is
// empty for first sends.
type ActivityEntry struct {
	Timestamp     time.Time `json:"timestamp"`
	Type          string    `json:"type,omitempty"`
	Phone         string    `json:"phone"`
	MessageID     string    `json:"messageId"`
	OmniMessageID string    `json:"omnimessageId,omitempty"`
	BatchID       string    `json:"batchId"`
}

const channelSMS = "sms"
