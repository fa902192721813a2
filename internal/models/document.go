// internal/models/document.go
package models

import "time"

// Status is the public status vocabulary derived from raw workflow codes.
type Status string

const (
	StatusReceived Status = "received"
	StatusApproved Status = "approved"
	StatusShipped  Status = "shipped"
)

// Document type identifiers. Type 1 is a logical joint-application grouping;
// only types 2 and 3 are persisted as trackable rows in the lookup path.
const (
	DocumentTypeJoint    = 1
	DocumentTypeIDCard   = 2
	DocumentTypePassport = 3
)

// Document is one row of the live dataset. The whole table is the byproduct
// of exactly one snapshot cycle; created_at/updated_at are sync timestamps,
// not business timestamps.
type Document struct {
	FormNumber     string    `json:"formNumber"`
	Status         Status    `json:"status"`
	DocumentTypeID int       `json:"documentTypeId"`
	MobilePhone    string    `json:"mobilePhone,omitempty"`
	Client         string    `json:"client,omitempty"` // raw workflow code, empty when the source sent null
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// SnapshotRecord is the raw shape delivered by the tracking provider, for
// both the full snapshot and the new-application feed.
type SnapshotRecord struct {
	FormNumber     string `json:"formNumber"`
	Client         string `json:"client"`
	DocumentTypeID int    `json:"documentTypeId"`
	MobilePhone    string `json:"mobilePhone"`
}
