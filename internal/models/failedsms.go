// internal/models/failedsms.go
package models

import "time"

// FailedSMS is one durable failure record in the notification retry queue.
// Created by the dispatcher on first failure, mutated only by the resend
// sweep, never deleted by the pipeline.
type FailedSMS struct {
	ID                 int64      `json:"id"`
	FormNumber         string     `json:"formNumber"`
	MobilePhone        string     `json:"mobilePhone"`
	ErrorMessage       string     `json:"errorMessage"`
	HTTPCode           int        `json:"httpCode"`
	FailedAt           time.Time  `json:"failedAt"`
	ResentSuccessfully bool       `json:"resentSuccessfully"`
	ResentAt           *time.Time `json:"resentAt,omitempty"`
	RetryCount         int        `json:"retryCount"`
}
