package sanitize

import (
	"strings"

	"ListingForge/internal/textnorm"
)

var terminalPunct = map[byte]struct{}{'.': {}, '!': {}, '?': {}}

func (s *Sanitizer) sanitizeBullets(bullets []string) []string {
	count := capOr(s.bullets.rules.Count, defaultBulletCount)
	charCap := capOr(s.bullets.rules.CharCap, defaultBulletCharCap)

	out := make([]string, 0, count)
	for _, raw := range bullets {
		if len(out) == count {
			break
		}
		b := s.sanitizeBullet(raw, charCap)
		if b == "" {
			continue
		}
		out = append(out, b)
	}
	for len(out) < count {
		out = append(out, FillerBullet)
	}
	return out
}

func (s *Sanitizer) sanitizeBullet(raw string, charCap int) string {
	b := textnorm.NFKC(raw)
	b = textnorm.StripMarkup(b)
	b = textnorm.RemoveSymbols(b, s.bullets.rules.ForbiddenSymbols)
	b = s.bullets.phrases.Remove(b)
	b = textnorm.CollapseSeparators(b)
	b = textnorm.CollapseWhitespace(b)
	if b == "" || !hasWordChar(b) {
		return ""
	}
	b = capitalizeFirst(b)
	b = ensureTerminalPunct(b)
	if countChars(b) > charCap {
		// Leave room for the closing period so truncation stays idempotent.
		b = textnorm.TruncateChars(b, charCap-1)
		b = strings.TrimRight(b, " .,;:!?-")
		b += "."
	}
	return b
}

func ensureTerminalPunct(b string) string {
	if b == "" {
		return b
	}
	if _, ok := terminalPunct[b[len(b)-1]]; ok {
		return b
	}
	return b + "."
}

func hasWordChar(s string) bool {
	for _, r := range s {
		if r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' {
			return true
		}
		if r > 127 {
			return true
		}
	}
	return false
}

func countChars(s string) int {
	n := 0
	for range s {
		n++
	}
	return n
}
