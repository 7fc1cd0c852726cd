package main

import "strings"

var placeholderValues = map[string]bool{
	"":     true,
	"None": true,
	"null": true,
	"()":   true,
	"( )":  true,
}

// cleanMetadataString strips literal decoration from an info-dictionary
// value. An empty result means the field is absent.
func cleanMetadataString(value string) string {
	if value == "" {
		return ""
	}

	s := strings.TrimSpace(value)
	if len(s) >= 2 && strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		s = s[1 : len(s)-1]
	}

	if placeholderValues[s] || parenOnly(s) {
		return ""
	}
	return s
}

// parenOnly reports whether s holds nothing but parentheses and spaces.
func parenOnly(s string) bool {
	return strings.Trim(s, "() \t\r\n") == ""
}
