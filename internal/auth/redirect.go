package auth

import "strings"

// DefaultRedirectPath is where the browser lands after login when no valid
// redirect was requested.
const DefaultRedirectPath = "/home"

// SanitizeRedirectPath validates a client-supplied post-login path.
//
// Requests carry the desired path as a query parameter, and it round-trips
// through the session, so it must be treated as attacker-controlled at
// every read. Only same-origin absolute paths survive:
//
//   - empty → "/home"
//   - not starting with "/" → "/home" (rejects absolute URLs and schemes
//     like "javascript:")
//   - starting with "//" → "/home" (browsers treat protocol-relative URLs
//     such as "//evil.com" as absolute)
func SanitizeRedirectPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return DefaultRedirectPath
	}
	if !strings.HasPrefix(trimmed, "/") || strings.HasPrefix(trimmed, "//") {
		return DefaultRedirectPath
	}
	return trimmed
}
