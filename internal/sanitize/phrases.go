package sanitize

import (
	"sort"
	"strings"
	"unicode"

	ahocorasick "github.com/cloudflare/ahocorasick"
)

// PhraseSet matches forbidden phrases as whole words, case-insensitively.
// An Aho-Corasick automaton over the lowercased text screens for candidate
// hits in one pass; the token scan then confirms word boundaries, so "vs"
// never fires inside "versus".
type PhraseSet struct {
	matcher  *ahocorasick.Matcher
	patterns [][]string // normalized word sequences, longest first
	labels   []string   // original pattern text, parallel to patterns
}

// NewPhraseSet compiles the pattern list. Empty patterns are dropped.
func NewPhraseSet(patterns []string) *PhraseSet {
	ps := &PhraseSet{}
	var screened []string
	for _, p := range patterns {
		words := normalizeWords(p)
		if len(words) == 0 {
			continue
		}
		ps.patterns = append(ps.patterns, words)
		ps.labels = append(ps.labels, p)
		// Screen on the first word only: substring hits may be false
		// positives (confirmed by the token scan) but never false negatives.
		screened = append(screened, words[0])
	}
	order := make([]int, len(ps.patterns))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool {
		return len(ps.patterns[order[i]]) > len(ps.patterns[order[j]])
	})
	sorted := make([][]string, len(order))
	labels := make([]string, len(order))
	for i, idx := range order {
		sorted[i] = ps.patterns[idx]
		labels[i] = ps.labels[idx]
	}
	ps.patterns = sorted
	ps.labels = labels
	if len(screened) > 0 {
		ps.matcher = ahocorasick.NewStringMatcher(screened)
	}
	return ps
}

// screen reports whether any pattern may occur in s. False means s is
// certainly clean; true still needs word-boundary confirmation.
func (ps *PhraseSet) screen(s string) bool {
	if ps == nil || ps.matcher == nil {
		return false
	}
	return len(ps.matcher.Match([]byte(strings.ToLower(s)))) > 0
}

// Remove deletes every whole-word occurrence of every pattern, longest
// pattern first, and collapses the surrounding whitespace.
func (ps *PhraseSet) Remove(s string) string {
	if !ps.screen(s) {
		return s
	}
	words := strings.Fields(s)
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = normalizeWord(w)
	}

	var kept []string
	i := 0
	for i < len(words) {
		if n := ps.matchAt(normalized, i); n > 0 {
			i += n
			continue
		}
		kept = append(kept, words[i])
		i++
	}
	return strings.Join(kept, " ")
}

// Find returns the original pattern text for every pattern present as whole
// words in s. Used by the compliance checker.
func (ps *PhraseSet) Find(s string) []string {
	if !ps.screen(s) {
		return nil
	}
	words := strings.Fields(s)
	normalized := make([]string, len(words))
	for i, w := range words {
		normalized[i] = normalizeWord(w)
	}

	found := map[string]struct{}{}
	var out []string
	for idx, pattern := range ps.patterns {
		for i := 0; i+len(pattern) <= len(normalized); i++ {
			if matchesAt(normalized, i, pattern) {
				if _, dup := found[ps.labels[idx]]; !dup {
					found[ps.labels[idx]] = struct{}{}
					out = append(out, ps.labels[idx])
				}
				break
			}
		}
	}
	return out
}

func (ps *PhraseSet) matchAt(normalized []string, i int) int {
	for _, pattern := range ps.patterns {
		if matchesAt(normalized, i, pattern) {
			return len(pattern)
		}
	}
	return 0
}

func matchesAt(normalized []string, i int, pattern []string) bool {
	if i+len(pattern) > len(normalized) {
		return false
	}
	for j, pw := range pattern {
		if normalized[i+j] != pw {
			return false
		}
	}
	return true
}

func normalizeWords(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if n := normalizeWord(w); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// normalizeWord lowercases and trims edge punctuation, keeping '#' so that
// "#1" only ever matches a literal "#1".
func normalizeWord(w string) string {
	w = strings.ToLower(w)
	return strings.TrimFunc(w, func(r rune) bool {
		if r == '#' {
			return false
		}
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
