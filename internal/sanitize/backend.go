package sanitize

import (
	"regexp"
	"strings"

	"ListingForge/internal/domain"
	"ListingForge/internal/textnorm"
)

var tokenSplit = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// usedWords collects the lowercased alphanumeric words of the sanitized
// parent title, bullets and description. Backend tokens already in this set
// buy no additional search coverage and are dropped. Child titles are
// excluded on purpose: variation synonyms are legitimate search terms.
func usedWords(f domain.Final) map[string]struct{} {
	set := map[string]struct{}{}
	collect := func(s string) {
		for _, tok := range tokenSplit.Split(strings.ToLower(s), -1) {
			if tok != "" {
				set[tok] = struct{}{}
			}
		}
	}
	collect(f.Title())
	for _, t := range f.Titles {
		if t.VariationLabel == "" {
			collect(t.Mobile)
		}
	}
	for _, b := range f.Bullets {
		collect(b)
	}
	collect(f.Description)
	return set
}

// sanitizeBackend normalizes the search-term line: plain lowercase tokens,
// single spaces, no duplicates, nothing the visible copy already says, and
// at most the backend byte cap. Tokens are kept whole; a token that does not
// fit ends the line.
func (s *Sanitizer) sanitizeBackend(raw string, used map[string]struct{}) string {
	t := textnorm.NFKC(raw)
	t = textnorm.StripMarkup(t)
	t = s.backend.phrases.Remove(t)
	t = strings.ToLower(t)

	byteCap := capOr(s.backend.rules.ByteCap, defaultBackendByteCap)
	seen := map[string]struct{}{}
	var kept []string
	total := 0
	for _, tok := range tokenSplit.Split(t, -1) {
		if tok == "" {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		if _, u := used[tok]; u {
			continue
		}
		cost := len(tok)
		if len(kept) > 0 {
			cost++
		}
		if total+cost > byteCap {
			break
		}
		seen[tok] = struct{}{}
		kept = append(kept, tok)
		total += cost
	}
	return strings.Join(kept, " ")
}
