// internal/tracking/schema.go
package tracking

import (
	"strings"

	stderrors "doctrack/internal/common/errors"

	"github.com/xeipuuv/gojsonschema"
)

// snapshotSchema describes the structural contract of the provider payload:
// an array of objects with typed optional fields. Presence of formNumber is
// deliberately not required here; a record without one is a per-record
// staging error, not a whole-payload rejection.
var snapshotSchema = map[string]interface{}{
	"type": "array",
	"items": map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"formNumber": map[string]interface{}{
				"type": "string",
			},
			"client": map[string]interface{}{
				"type": []string{"string", "null"},
			},
			"documentTypeId": map[string]interface{}{
				"type": "integer",
			},
			"mobilePhone": map[string]interface{}{
				"type": []string{"string", "null"},
			},
		},
	},
}

// ValidateSnapshotPayload checks a raw payload against the snapshot schema.
func ValidateSnapshotPayload(payload []byte) error {
	schemaLoader := gojsonschema.NewGoLoader(snapshotSchema)
	documentLoader := gojsonschema.NewBytesLoader(payload)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return stderrors.NewSnapshotDecodeFailedError(err)
	}

	if !result.Valid() {
		details := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			details = append(details, e.String())
		}
		return stderrors.NewSnapshotSchemaInvalidError(strings.Join(details, "; "))
	}

	return nil
}
