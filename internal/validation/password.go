package validation

import "strings"

const specialChars = "!@#$%^&*()-_=+[]{};:'\",.<>/?\\|`~"

// HasSpecialChar reports whether the password contains at least one special
// character.
func HasSpecialChar(password string) bool {
	return strings.ContainsAny(password, specialChars)
}

// ValidPassword enforces the minimum password policy for vendor accounts.
func ValidPassword(password string) bool {
	return len(password) >= 8 && HasSpecialChar(password)
}
