// Package urlmatch decides whether a page location falls inside an
// engagement action's URL targeting rules.
package urlmatch

import (
	"regexp"
	"strings"
)

// Match types shared with the server-side action records.
const (
	TypeExact      = "exact"
	TypeContains   = "contains"
	TypeStartsWith = "startsWith"
	TypeRegex      = "regex"
)

// Matches reports whether a single pattern matches the current location.
// Non-regex types are checked against both the full URL and the path-only
// form; regex patterns are evaluated against the full URL. An invalid regex
// never matches.
func Matches(pattern, matchType, fullURL, path string) bool {
	switch matchType {
	case TypeExact:
		return fullURL == pattern || path == pattern
	case TypeContains:
		return strings.Contains(fullURL, pattern) || strings.Contains(path, pattern)
	case TypeStartsWith:
		return strings.HasPrefix(fullURL, pattern) || strings.HasPrefix(path, pattern)
	case TypeRegex:
		re, err := regexp.Compile(pattern)
		if err != nil {
			return false
		}
		return re.MatchString(fullURL)
	default:
		return false
	}
}

// MatchesAny reports whether any pattern in the list matches. An empty or nil
// pattern list targets every page.
func MatchesAny(patterns []string, matchType, fullURL, path string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if Matches(pattern, matchType, fullURL, path) {
			return true
		}
	}
	return false
}
