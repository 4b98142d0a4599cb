package observability

import "strings"

// Length caps applied to attacker-influenced values before they reach the
// log encoder.
const (
	maxFieldLen  = 256
	maxRouteLen  = 180
	maxMethodLen = 10
	maxUserIDLen = 64
)

// sanitizeString strips control characters (common whitespace excepted) and
// caps the rune length so request data cannot inject or flood log lines.
func sanitizeString(value string, limit int) string {
	if limit <= 0 {
		limit = maxFieldLen
	}

	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t':
			return r
		}
		if r < 0x20 || r == 0x7f || (r >= 0x80 && r <= 0x9f) {
			return -1
		}
		return r
	}, value)

	if runes := []rune(cleaned); len(runes) > limit {
		return string(runes[:limit])
	}
	return cleaned
}

// SanitizeRoute prepares a route pattern for logging. An empty route logs as "/".
func SanitizeRoute(route string) string {
	if route == "" {
		return "/"
	}
	return sanitizeString(route, maxRouteLen)
}

// SanitizeMethod prepares an HTTP method for logging.
func SanitizeMethod(method string) string {
	return sanitizeString(method, maxMethodLen)
}

// SanitizeUserID caps account identifiers logged as fields.
func SanitizeUserID(uid string) string {
	if uid == "" {
		return ""
	}
	return sanitizeString(uid, maxUserIDLen)
}
