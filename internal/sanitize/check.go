package sanitize

import (
	"fmt"
	"strings"
	"unicode"

	"ListingForge/internal/domain"
)

// Check re-validates a sanitized artifact against the registry and returns
// every residual violation. A healthy pipeline returns an empty list; the
// report never silently rewrites anything.
func (s *Sanitizer) Check(f domain.Final) []domain.Issue {
	var issues []domain.Issue
	add := func(stage, ruleID, format string, args ...any) {
		issues = append(issues, domain.Issue{
			Stage:  stage,
			RuleID: ruleID,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	title := f.Title()
	titleByteCap := capOr(s.title.rules.ByteCap, defaultTitleByteCap)
	if len(title) > titleByteCap {
		add(domain.StageTitle, "byte_cap", "title is %d bytes, cap %d", len(title), titleByteCap)
	}
	mobileCap := capOr(s.title.rules.MobileMaxChars, defaultMobileCharCap)
	for _, t := range f.Titles {
		if n := countChars(t.Mobile); n > mobileCap {
			add(domain.StageTitle, "mobile_char_cap", "mobile title %q is %d chars, cap %d", t.VariationLabel, n, mobileCap)
		}
	}
	s.checkVocabulary(&issues, domain.StageTitle, s.title, title)

	bulletCount := capOr(s.bullets.rules.Count, defaultBulletCount)
	if len(f.Bullets) != bulletCount {
		add(domain.StageBullets, "count", "expected %d bullets, got %d", bulletCount, len(f.Bullets))
	}
	bulletCap := capOr(s.bullets.rules.CharCap, defaultBulletCharCap)
	for i, b := range f.Bullets {
		if n := countChars(b); n > bulletCap {
			add(domain.StageBullets, "char_cap", "bullet %d is %d chars, cap %d", i+1, n, bulletCap)
		}
		if b == "" {
			add(domain.StageBullets, "empty", "bullet %d is empty", i+1)
			continue
		}
		if _, ok := terminalPunct[b[len(b)-1]]; !ok {
			add(domain.StageBullets, "terminal_punct", "bullet %d does not end with . ! or ?", i+1)
		}
		s.checkVocabulary(&issues, domain.StageBullets, s.bullets, b)
	}

	descByteCap := capOr(s.description.rules.ByteCap, defaultDescriptionByteCap)
	if len(f.Description) > descByteCap {
		add(domain.StageDescription, "byte_cap", "description is %d bytes, cap %d", len(f.Description), descByteCap)
	}
	if wordCap := s.description.rules.MaxWords; wordCap > 0 {
		if n := len(strings.Fields(f.Description)); n > wordCap {
			add(domain.StageDescription, "max_words", "description has %d words, cap %d", n, wordCap)
		}
	}
	s.checkVocabulary(&issues, domain.StageDescription, s.description, f.Description)

	issues = append(issues, s.checkBackend(f)...)
	return issues
}

func (s *Sanitizer) checkVocabulary(issues *[]domain.Issue, stage string, tools stageTools, text string) {
	for _, sym := range tools.rules.ForbiddenSymbols {
		if sym != "" && strings.Contains(text, sym) {
			*issues = append(*issues, domain.Issue{
				Stage:  stage,
				RuleID: "symbol",
				Detail: fmt.Sprintf("forbidden symbol %q present", sym),
			})
		}
	}
	for _, pattern := range tools.phrases.Find(text) {
		*issues = append(*issues, domain.Issue{
			Stage:  stage,
			RuleID: "phrase",
			Detail: fmt.Sprintf("forbidden phrase %q present", pattern),
		})
	}
}

func (s *Sanitizer) checkBackend(f domain.Final) []domain.Issue {
	var issues []domain.Issue
	add := func(ruleID, format string, args ...any) {
		issues = append(issues, domain.Issue{
			Stage:  domain.StageBackend,
			RuleID: ruleID,
			Detail: fmt.Sprintf(format, args...),
		})
	}

	terms := f.SearchTerms
	byteCap := capOr(s.backend.rules.ByteCap, defaultBackendByteCap)
	if len(terms) > byteCap {
		add("byte_cap", "search terms are %d bytes, cap %d", len(terms), byteCap)
	}
	for _, r := range terms {
		if unicode.IsUpper(r) {
			add("lowercase", "upper-case letter %q present", r)
			break
		}
	}
	if strings.Contains(terms, "  ") {
		add("single_spaces", "consecutive spaces present")
	}
	for _, r := range terms {
		if r != ' ' && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			add("charset", "non-alphanumeric character %q present", r)
			break
		}
	}

	used := usedWords(f)
	seen := map[string]struct{}{}
	for _, tok := range strings.Fields(terms) {
		if _, dup := seen[tok]; dup {
			add("dup_token", "token %q repeated", tok)
			continue
		}
		seen[tok] = struct{}{}
		if _, u := used[tok]; u {
			add("overlap", "token %q already used in visible copy", tok)
		}
	}
	return issues
}
