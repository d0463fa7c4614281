package stage

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
	"ListingForge/internal/sanitize"
)

// DescriptionStage produces the long-form description.
type DescriptionStage struct {
	rules    rules.StageRules
	patterns []string
}

// NewDescription binds the stage to the registry.
func NewDescription(reg *rules.Registry) *DescriptionStage {
	return &DescriptionStage{
		rules:    reg.Stage(domain.StageDescription),
		patterns: reg.StagePatterns(domain.StageDescription),
	}
}

func (s *DescriptionStage) Name() string { return domain.StageDescription }
func (s *DescriptionStage) Key() string  { return "description" }

func (s *DescriptionStage) Prompt(b domain.Buckets) (string, string) {
	var p promptBuilder
	p.material(b)
	p.stageRules(s.Name(), s.rules, s.patterns)
	p.line("Write %d to %d words in two paragraphs separated by a blank line.",
		s.rules.TargetMinWords, s.rules.TargetMaxWords)
	p.schema(`{"description": "paragraph one\n\nparagraph two"}`)
	p.nonInvention()
	return systemPrompt, p.String()
}

func (s *DescriptionStage) Parse(raw string, d *domain.Draft) error {
	res, err := stageKey(raw, s.Key())
	if err != nil {
		return err
	}
	var text string
	switch {
	case res.Type == gjson.String:
		text = res.String()
	case res.IsArray():
		var paragraphs []string
		for _, item := range res.Array() {
			if p := strings.TrimSpace(item.String()); p != "" {
				paragraphs = append(paragraphs, p)
			}
		}
		text = strings.Join(paragraphs, sanitize.ParagraphSeparator)
	default:
		return fmt.Errorf("description key has unsupported shape")
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("description response is empty")
	}
	d.Description = text
	return nil
}

// Fallback assembles two paragraphs from head phrases, persona, benefits and
// attributes.
func (s *DescriptionStage) Fallback(b domain.Buckets, d *domain.Draft) {
	var first strings.Builder
	if b.ShortDescription != "" {
		first.WriteString(ensureSentence(b.ShortDescription))
	} else if len(b.HeadPhrases) > 0 {
		fmt.Fprintf(&first, "%s brings together %s.", b.Brand, joinNatural(b.HeadPhrases, 3))
	}
	if b.BuyerPersona != "" {
		if first.Len() > 0 {
			first.WriteString(" ")
		}
		fmt.Fprintf(&first, "Made for %s.", strings.TrimRight(b.BuyerPersona, "."))
	}

	var second strings.Builder
	if len(b.Benefits) > 0 {
		fmt.Fprintf(&second, "You get %s.", joinNatural(b.Benefits, 3))
	}
	if len(b.Attributes) > 0 {
		if second.Len() > 0 {
			second.WriteString(" ")
		}
		fmt.Fprintf(&second, "Built around %s.", joinNatural(b.Attributes, 3))
	}

	var paragraphs []string
	if first.Len() > 0 {
		paragraphs = append(paragraphs, first.String())
	}
	if second.Len() > 0 {
		paragraphs = append(paragraphs, second.String())
	}
	d.Description = strings.Join(paragraphs, sanitize.ParagraphSeparator)
}

func ensureSentence(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}
	switch s[len(s)-1] {
	case '.', '!', '?':
		return s
	}
	return s + "."
}

// joinNatural renders up to n items as "a, b and c", lower-casing nothing.
func joinNatural(items []string, n int) string {
	if len(items) > n {
		items = items[:n]
	}
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
