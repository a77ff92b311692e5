package validation

import "strings"

// NormalizeCode folds a discount code to its canonical stored form.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// ValidCode checks the shape of a vendor-supplied discount code.
func ValidCode(code string) bool {
	code = NormalizeCode(code)
	if len(code) < 3 || len(code) > 32 {
		return false
	}
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' && r != '_' {
			return false
		}
	}
	return true
}
