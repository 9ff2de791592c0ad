package util

import (
	"regexp"
	"strings"
)

var emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

func IsValidEmail(s string) bool {
	if s == "" {
		return false
	}
	return emailRegex.MatchString(s)
}

// NormalizeEmail lowercases and trims an address so (event, email)
// uniqueness does not depend on caller formatting.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
