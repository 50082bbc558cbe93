package util

import "strings"

// Slugify turns a category display name into a WordPress-safe slug.
// Whitespace and underscores collapse into single hyphens, everything
// outside [a-z0-9-] is dropped, and leading/trailing hyphens are trimmed.
// Degenerate input yields an empty slug; callers decide what to do then.
func Slugify(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == '\f' || r == '\v' || r == '_' || r == '-':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastHyphen = false
		}
	}

	return strings.Trim(b.String(), "-")
}
