package sanitize

import (
	"strings"
	"unicode"

	"ListingForge/internal/domain"
	"ListingForge/internal/textnorm"
)

// smallWords stay lower-case in title case unless they open the title.
var smallWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "as": {}, "at": {}, "but": {}, "by": {},
	"for": {}, "if": {}, "in": {}, "nor": {}, "of": {}, "on": {}, "or": {},
	"per": {}, "the": {}, "to": {}, "via": {}, "with": {},
}

func (s *Sanitizer) sanitizeTitles(titles []domain.TitleVariant) []domain.TitleVariant {
	out := make([]domain.TitleVariant, 0, len(titles))
	for _, t := range titles {
		clean := domain.TitleVariant{
			VariationLabel: textnorm.CollapseWhitespace(t.VariationLabel),
			Desktop:        s.sanitizeTitleText(t.Desktop, false),
			Mobile:         s.sanitizeTitleText(t.Mobile, true),
		}
		if clean.Mobile == "" {
			clean.Mobile = textnorm.TrimEdgePunct(textnorm.TruncateChars(clean.Desktop, capOr(s.title.rules.MobileMaxChars, defaultMobileCharCap)))
		}
		if clean.Desktop == "" && clean.Mobile == "" {
			continue
		}
		out = append(out, clean)
	}
	return out
}

// sanitizeTitleText applies the title normalizer chain in order: markup,
// symbols, phrases, separators, casing, truncation.
func (s *Sanitizer) sanitizeTitleText(raw string, mobile bool) string {
	t := textnorm.NFKC(raw)
	t = textnorm.StripMarkup(t)
	t = textnorm.CollapseWhitespace(t)
	t = textnorm.RemoveSymbols(t, s.title.rules.ForbiddenSymbols)
	t = s.title.phrases.Remove(t)
	t = textnorm.CollapseSeparators(t)
	t = textnorm.CollapseWhitespace(t)
	t = textnorm.TrimEdgePunct(t)
	t = titleCase(t)
	// Trimming again after the cut keeps a second sanitize pass a no-op.
	if mobile {
		t = textnorm.TruncateChars(t, capOr(s.title.rules.MobileMaxChars, defaultMobileCharCap))
	} else {
		t = textnorm.TruncateBytes(t, capOr(s.title.rules.ByteCap, defaultTitleByteCap))
	}
	return textnorm.TrimEdgePunct(t)
}

// titleCase converts shouting titles to title case and always capitalizes
// the first character. Mixed-case input keeps its casing.
func titleCase(s string) string {
	if s == "" {
		return s
	}
	if uniformlyUpper(s) {
		words := strings.Fields(strings.ToLower(s))
		for i, w := range words {
			if i > 0 {
				if _, small := smallWords[w]; small {
					continue
				}
			}
			words[i] = capitalizeFirst(w)
		}
		return strings.Join(words, " ")
	}
	return capitalizeFirst(s)
}

// uniformlyUpper reports whether every letter in s is upper-case and at
// least one letter exists.
func uniformlyUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			hasLetter = true
			if !unicode.IsUpper(r) {
				return false
			}
		}
	}
	return hasLetter
}

func capitalizeFirst(s string) string {
	for i, r := range s {
		if unicode.IsLetter(r) {
			return s[:i] + string(unicode.ToUpper(r)) + s[i+len(string(r)):]
		}
		// Leading digits or punctuation keep the first letter search going
		// only across the first word.
		if unicode.IsSpace(r) {
			break
		}
	}
	return s
}
