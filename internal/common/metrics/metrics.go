// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SyncCyclesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sync_cycles_total",
			Help: "Total number of synchronization cycles by result",
		},
		[]string{"result"}, // promoted, vetoed, failed
	)

	SnapshotRecordsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "snapshot_records_total",
			Help: "Total number of snapshot records processed by staging outcome",
		},
		[]string{"outcome"}, // staged, error
	)

	SMSMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_messages_total",
			Help: "Total number of SMS dispatch attempts by outcome",
		},
		[]string{"outcome"}, // sent, failed, skipped
	)

	SMSResendTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sms_resend_total",
			Help: "Total number of failed-SMS resend attempts by outcome",
		},
		[]string{"outcome"}, // sent, failed
	)

	SMSSendDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "sms_send_duration_seconds",
			Help: "Duration of SMS provider calls in seconds",
		},
	)

	UnknownWorkflowCodesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "unknown_workflow_codes_total",
			Help: "Total number of workflow codes observed outside the known mapping table",
		},
	)

	LookupRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lookup_requests_total",
			Help: "Total number of lookup API requests by result classification",
		},
		[]string{"result"}, // found, malformed, not_yet_registered, presumed_withdrawn
	)
)
