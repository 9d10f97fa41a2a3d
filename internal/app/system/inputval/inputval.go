// internal/app/system/inputval/inputval.go
package inputval

import "strings"

// IsValidEmail reports whether s looks like a deliverable email address.
// The check is structural, not a full RFC 5322 parse: exactly one "@",
// non-empty local and domain parts, no whitespace, and no leading,
// trailing, or consecutive dots on either side. Single-label domains
// (user@localhost) are accepted for dev and test environments.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	if strings.ContainsAny(s, " \t<>") {
		return false
	}
	at := strings.IndexByte(s, '@')
	if at <= 0 || at != strings.LastIndexByte(s, '@') {
		return false
	}
	local, domain := s[:at], s[at+1:]
	if !validDotted(local) || !validDotted(domain) {
		return false
	}
	return true
}

// validDotted rejects empty parts and leading/trailing/consecutive dots.
func validDotted(part string) bool {
	if part == "" {
		return false
	}
	if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") {
		return false
	}
	return !strings.Contains(part, "..")
}
