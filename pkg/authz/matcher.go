package authz

import "strings"

// MatchPattern checks if a permission pattern matches a required
// permission. Supports "resource:action" format with wildcards:
//
//   - "*:*"          matches everything
//   - "reports:*"    matches "reports:read", "reports:write", etc.
//   - "*:read"       matches "reports:read", "users:read", etc.
//   - "reports:read" matches only "reports:read"
//
// Both pattern and required use ":" as the separator. If either side
// has no separator they are compared as plain strings with wildcard
// support.
func MatchPattern(pattern, required string) bool {
	if pattern == required || pattern == "*" || pattern == "*:*" {
		return true
	}

	patParts := strings.SplitN(pattern, ":", 2)
	reqParts := strings.SplitN(required, ":", 2)

	if len(patParts) != len(reqParts) {
		return matchWildcard(pattern, required)
	}

	if len(patParts) == 1 {
		return matchWildcard(pattern, required)
	}

	return matchWildcard(patParts[0], reqParts[0]) && matchWildcard(patParts[1], reqParts[1])
}

// MatchAny returns true if any of the patterns match the required
// permission.
func MatchAny(patterns []string, required string) bool {
	for _, p := range patterns {
		if MatchPattern(p, required) {
			return true
		}
	}
	return false
}

// matchWildcard compares two strings where "*" matches anything.
func matchWildcard(pattern, value string) bool {
	return pattern == "*" || pattern == value
}
