package reference

import (
	"regexp"
	"strings"
)

var (
	gstinPattern = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)
	panPattern   = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)
)

// NormalizeGSTIN upper-cases and trims a GSTIN.
func NormalizeGSTIN(value string) string {
	return strings.ToUpper(strings.TrimSpace(value))
}

// ValidGSTIN reports whether value is a structurally valid GSTIN with a known state code.
func ValidGSTIN(value string) bool {
	value = NormalizeGSTIN(value)
	if !gstinPattern.MatchString(value) {
		return false
	}
	_, ok := stateCodes[value[:2]]
	return ok
}

func ValidPAN(value string) bool {
	return panPattern.MatchString(strings.ToUpper(strings.TrimSpace(value)))
}
