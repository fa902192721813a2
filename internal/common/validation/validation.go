// internal/common/validation/validation.go
package validation

import (
	"regexp"
	"time"
)

var (
	nonDigit        = regexp.MustCompile(`\D`)
	formNumberShape = regexp.MustCompile(`^\d{17,18}$`)
)

// SanitizePhone strips every non-digit character from a phone value.
func SanitizePhone(phone string) string {
	return nonDigit.ReplaceAllString(phone, "")
}

// ValidPhone reports whether a phone value is usable for SMS dispatch: at
// least 4 digits remain after stripping non-digits. The source system has
// already constrained who appears in the feed, so the filter is deliberately
// loose.
func ValidPhone(phone string) bool {
	return len(SanitizePhone(phone)) >= 4
}

// ValidFormNumber reports whether a form number is well-formed: 17 or 18
// digits, with the leading 2 digits encoding a year no earlier than 2024.
func ValidFormNumber(formNumber string) bool {
	if !formNumberShape.MatchString(formNumber) {
		return false
	}
	_, ok := SubmissionDate(formNumber)
	return ok
}

// SubmissionDate parses the yymmdd prefix of a form number into the
// submission date. Returns false for prefixes that do not encode a calendar
// date in 2024 or later.
func SubmissionDate(formNumber string) (time.Time, bool) {
	if len(formNumber) < 6 {
		return time.Time{}, false
	}
	d, err := time.Parse("060102", formNumber[:6])
	if err != nil {
		return time.Time{}, false
	}
	if d.Year() < 2024 {
		return time.Time{}, false
	}
	return d, true
}
