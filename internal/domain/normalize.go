package domain

import (
	"strings"
	"unicode"
)

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), b)
}

// IsMaskedID reports whether an identifier value is masked on the device ("****1234").
func IsMaskedID(id string) bool {
	return strings.Contains(id, "*")
}

// NormalizeTenant converts a dotted tenant id into an identifier-safe form ("pb.amritsar" -> "pb_amritsar").
func NormalizeTenant(tenantID string) string {
	return strings.ReplaceAll(tenantID, ".", "_")
}

// IsBlank reports whether s has no visible characters.
func IsBlank(s string) bool {
	return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) < 0
}
