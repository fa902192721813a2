// internal/lookup/result.go
package lookup

import (
	"time"

	"doctrack/internal/common/validation"
	"doctrack/internal/models"
)

// Result classification for a lookup.
const (
	ResultFound             = "found"
	ResultMalformed         = "malformed"
	ResultNotYetRegistered  = "not_yet_registered"
	ResultPresumedWithdrawn = "presumed_withdrawn"
)

const (
	normalDeliveryDays = 14
	fastDeliveryDays   = 3
)

// Result is the JSON body returned for one lookup.
type Result struct {
	Result                   string            `json:"result"`
	FormNumber               string            `json:"formNumber"`
	Documents                []models.Document `json:"documents,omitempty"`
	ExpectedDeliveryDate     string            `json:"expectedDeliveryDate,omitempty"`
	ExpectedFastDeliveryDate string            `json:"expectedFastDeliveryDate,omitempty"`
	BarcodeEligible          bool              `json:"barcodeEligible"`
}

// Classify builds the response for a form number and the rows found for it.
// An untrackable identifier is malformed; a valid identifier with no rows is
// either submitted today and not yet synced, or old enough that it should
// have appeared by now and is presumed withdrawn.
func Classify(formNumber string, docs []models.Document, now time.Time) Result {
	res := Result{FormNumber: formNumber}

	if !validation.ValidFormNumber(formNumber) {
		res.Result = ResultMalformed
		return res
	}

	submitted, _ := validation.SubmissionDate(formNumber)

	if len(docs) == 0 {
		if submitted.Format("060102") == now.Format("060102") {
			res.Result = ResultNotYetRegistered
		} else {
			res.Result = ResultPresumedWithdrawn
		}
		return res
	}

	res.Result = ResultFound
	res.Documents = docs
	res.ExpectedDeliveryDate = submitted.AddDate(0, 0, normalDeliveryDays).Format("2006-01-02")
	res.ExpectedFastDeliveryDate = submitted.AddDate(0, 0, fastDeliveryDays).Format("2006-01-02")
	for _, doc := range docs {
		if doc.Status == models.StatusShipped {
			res.BarcodeEligible = true
			break
		}
	}

	return res
}
