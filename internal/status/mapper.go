// internal/status/mapper.go
package status

import "doctrack/internal/models"

// statusByCode is the closed mapping from raw workflow codes to the public
// status vocabulary. Codes arrive as opaque strings from the tracking
// provider; extend the table deliberately, never inline.
var statusByCode = map[string]models.Status{
	"PPPIS":      models.StatusApproved,
	"PCPIS":      models.StatusApproved,
	"MP_CMS_SVR": models.StatusApproved,
	"MPERSO_P":   models.StatusApproved,
	"MPERSO_C":   models.StatusApproved,

	"VERIF":  models.StatusReceived,
	"IQC":    models.StatusReceived,
	"INV":    models.StatusReceived,
	"REQ":    models.StatusReceived,
	"CHECK":  models.StatusReceived,
	"EXM":    models.StatusReceived,
	"INVAPP": models.StatusReceived,
}

// Map derives the public status for a raw workflow code. Total and pure:
// an empty code means the document left production and entered delivery,
// an unrecognized code is conservatively treated as early-stage.
func Map(rawCode string) models.Status {
	if rawCode == "" {
		return models.StatusShipped
	}
	if s, ok := statusByCode[rawCode]; ok {
		return s
	}
	return models.StatusReceived
}

// Known reports whether a non-empty code is part of the mapping table.
func Known(rawCode string) bool {
	_, ok := statusByCode[rawCode]
	return ok
}
