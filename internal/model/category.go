package model

import (
	"strings"
	"unicode"
)

// Canonical maintenance categories. Stored values may drift in
// formatting ("Locks/Security" vs "locks-security"), so every
// ticket-to-worker comparison goes through NormalizeCategory.
const (
	CategoryPlumbing   = "Plumbing"
	CategoryElectrical = "Electrical"
	CategoryHVAC       = "HVAC"
	CategoryAppliances = "Appliances"
	CategoryLocks      = "Locks/Security"
	CategoryPainting   = "Painting"
	CategoryGeneral    = "General"
)

// NormalizeCategory lowercases a category and strips slashes, dashes
// and whitespace, so "Locks/Security", "locks-security" and
// "LOCKS SECURITY" all compare equal.
func NormalizeCategory(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '-':
			return -1
		case unicode.IsSpace(r):
			return -1
		default:
			return unicode.ToLower(r)
		}
	}, s)
}

// CategoriesMatch reports whether two category strings refer to the
// same trade despite formatting drift.
func CategoriesMatch(a, b string) bool {
	return NormalizeCategory(a) == NormalizeCategory(b)
}
