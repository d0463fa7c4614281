package stage

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
)

const (
	fallbackCoreTokens = 40
	fallbackVariations = 20
)

// BackendStage produces the backend search-term line.
type BackendStage struct {
	rules    rules.StageRules
	patterns []string
}

// NewBackend binds the stage to the registry.
func NewBackend(reg *rules.Registry) *BackendStage {
	return &BackendStage{
		rules:    reg.Stage(domain.StageBackend),
		patterns: reg.StagePatterns(domain.StageBackend),
	}
}

func (s *BackendStage) Name() string { return domain.StageBackend }
func (s *BackendStage) Key() string  { return "search_terms" }

func (s *BackendStage) Prompt(b domain.Buckets) (string, string) {
	var p promptBuilder
	p.material(b)
	p.stageRules(s.Name(), s.rules, s.patterns)
	p.line("Target %d to %d characters counted without spaces.",
		s.rules.TargetNoSpaceMin, s.rules.TargetNoSpaceMax)
	p.schema(`{"search_terms": "token token token"}`)
	p.nonInvention()
	return systemPrompt, p.String()
}

func (s *BackendStage) Parse(raw string, d *domain.Draft) error {
	res, err := stageKey(raw, s.Key())
	if err != nil {
		return err
	}
	var text string
	switch {
	case res.Type == gjson.String:
		text = res.String()
	case res.IsArray():
		var tokens []string
		for _, item := range res.Array() {
			if t := strings.TrimSpace(item.String()); t != "" {
				tokens = append(tokens, t)
			}
		}
		text = strings.Join(tokens, " ")
	default:
		return fmt.Errorf("search_terms key has unsupported shape")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("search_terms response is empty")
	}
	d.SearchTerms = text
	return nil
}

// Fallback concatenates core tokens and variations, lowercased and deduped.
func (s *BackendStage) Fallback(b domain.Buckets, d *domain.Draft) {
	seen := map[string]struct{}{}
	var tokens []string
	push := func(raw string) {
		for _, tok := range strings.Fields(strings.ToLower(raw)) {
			if _, dup := seen[tok]; dup {
				continue
			}
			seen[tok] = struct{}{}
			tokens = append(tokens, tok)
		}
	}
	for i, core := range b.CoreTokens {
		if i == fallbackCoreTokens {
			break
		}
		push(core)
	}
	for i, v := range b.Variations {
		if i == fallbackVariations {
			break
		}
		push(v)
	}
	d.SearchTerms = strings.Join(tokens, " ")
}
