package stage

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
	"ListingForge/internal/textnorm"
)

const fallbackTitleCharCap = 200

// TitleStage produces the parent title plus one child per variation.
type TitleStage struct {
	rules    rules.StageRules
	patterns []string
}

// NewTitle binds the stage to the registry.
func NewTitle(reg *rules.Registry) *TitleStage {
	return &TitleStage{
		rules:    reg.Stage(domain.StageTitle),
		patterns: reg.StagePatterns(domain.StageTitle),
	}
}

func (s *TitleStage) Name() string { return domain.StageTitle }
func (s *TitleStage) Key() string  { return "title" }

func (s *TitleStage) Prompt(b domain.Buckets) (string, string) {
	var p promptBuilder
	p.material(b)
	p.stageRules(s.Name(), s.rules, s.patterns)
	p.line("Desktop rendition: %d to %d characters. Mobile rendition: %d to %d characters.",
		s.rules.TargetMinChars, s.rules.TargetMaxChars,
		s.rules.TargetMobileMinChars, s.rules.TargetMobileMaxChars)
	p.schema(`{"title": {"desktop": "...", "mobile": "...", "children": [{"variation": "...", "desktop": "...", "mobile": "..."}]}}`)
	p.nonInvention()
	return systemPrompt, p.String()
}

func (s *TitleStage) Parse(raw string, d *domain.Draft) error {
	res, err := stageKey(raw, s.Key())
	if err != nil {
		return err
	}

	var titles []domain.TitleVariant
	switch {
	case res.Type == gjson.String:
		titles = append(titles, domain.TitleVariant{Desktop: res.String()})
	case res.IsObject():
		titles = append(titles, domain.TitleVariant{
			Desktop: res.Get("desktop").String(),
			Mobile:  res.Get("mobile").String(),
		})
		for _, child := range res.Get("children").Array() {
			label := child.Get("variation").String()
			if label == "" {
				label = child.Get("variation_label").String()
			}
			titles = append(titles, domain.TitleVariant{
				VariationLabel: label,
				Desktop:        child.Get("desktop").String(),
				Mobile:         child.Get("mobile").String(),
			})
		}
	case res.IsArray():
		for _, item := range res.Array() {
			titles = append(titles, domain.TitleVariant{
				VariationLabel: item.Get("variation_label").String(),
				Desktop:        item.Get("desktop").String(),
				Mobile:         item.Get("mobile").String(),
			})
		}
	default:
		return fmt.Errorf("title key has unsupported shape")
	}

	if len(titles) == 0 || strings.TrimSpace(titles[0].Desktop) == "" {
		return fmt.Errorf("title response is empty")
	}
	d.Titles = titles
	return nil
}

// Fallback composes Brand | Head Phrase | Attribute for the parent and adds
// the variation for each child. No invented tokens.
func (s *TitleStage) Fallback(b domain.Buckets, d *domain.Draft) {
	parent := joinTitleParts(b, "")
	titles := []domain.TitleVariant{{Desktop: parent}}
	for _, v := range b.Variations {
		titles = append(titles, domain.TitleVariant{
			VariationLabel: v,
			Desktop:        joinTitleParts(b, v),
		})
	}
	d.Titles = titles
}

func joinTitleParts(b domain.Buckets, variation string) string {
	var parts []string
	seen := map[string]struct{}{}
	push := func(p string) {
		p = textnorm.CollapseWhitespace(p)
		if p == "" {
			return
		}
		key := strings.ToLower(p)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		parts = append(parts, p)
	}

	push(b.Brand)
	for _, h := range b.HeadPhrases {
		if strings.EqualFold(h, b.Brand) {
			continue
		}
		push(h)
		break
	}
	if len(b.Attributes) > 0 {
		push(b.Attributes[0])
	}
	push(variation)

	return textnorm.TruncateChars(strings.Join(parts, " | "), fallbackTitleCharCap)
}
