// internal/notify/models.go
package notify

// DispatchStats summarizes one dispatcher run.
type DispatchStats struct {
	Fetched         int `json:"fetched"`
	Sent            int `json:"sent"`
	Failed          int `json:"failed"`
	SkippedNoForm   int `json:"skippedNoForm"`
	SkippedBadPhone int `json:"skippedBadPhone"`
}

// SweepStats summarizes one retry sweep run.
type SweepStats struct {
	Scanned int `json:"scanned"`
	Resent  int `json:"resent"`
	Failed  int `json:"failed"`
}
