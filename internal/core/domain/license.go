package domain

import "strings"

// validLicenseKeys is the static allow-list granting full access. Keys are
// pre-shared strings; there is no expiry or per-seat tracking.
var validLicenseKeys = map[string]struct{}{
	"BASELINE-FULL-2024": {},
	"BASELINE-PRO-2024":  {},
	"BASELINE-UNLIMITED": {},
}

// ValidLicenseKey reports whether the trimmed key is on the allow-list.
// An empty key is simply not valid; it is not an error at signup time.
func ValidLicenseKey(key string) bool {
	_, ok := validLicenseKeys[strings.TrimSpace(key)]
	return ok
}
