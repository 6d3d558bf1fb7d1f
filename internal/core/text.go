package core

import (
	"strings"
	"unicode"
)

// Capitalize trims the string, upper-cases the first rune and lower-cases
// the rest. Imported name and owner fields are normalized this way so the
// name-based expense link matches regardless of input casing.
func Capitalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r := []rune(strings.ToLower(s))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

// NormalizeTag trims and lower-cases a category, income type, or repeat
// type value.
func NormalizeTag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
