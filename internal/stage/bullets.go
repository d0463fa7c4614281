package stage

import (
	"fmt"
	"strings"

	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
)

// fixedTopics pad the bullet fallback when the attribute bucket runs short.
// They never repeat because the fallback dedupes on attribute text.
var fixedTopics = []string{
	"Quality materials",
	"Comfortable everyday use",
	"Easy care and cleaning",
	"Practical design details",
	"Reliable performance",
}

// BulletsStage produces the five key feature fragments.
type BulletsStage struct {
	rules    rules.StageRules
	patterns []string
}

// NewBullets binds the stage to the registry.
func NewBullets(reg *rules.Registry) *BulletsStage {
	return &BulletsStage{
		rules:    reg.Stage(domain.StageBullets),
		patterns: reg.StagePatterns(domain.StageBullets),
	}
}

func (s *BulletsStage) Name() string { return domain.StageBullets }
func (s *BulletsStage) Key() string  { return "bullets" }

func (s *BulletsStage) Prompt(b domain.Buckets) (string, string) {
	var p promptBuilder
	p.material(b)
	p.stageRules(s.Name(), s.rules, s.patterns)
	p.line("Write exactly %d bullets of %d to %d characters each.",
		s.rules.Count, s.rules.TargetMinChars, s.rules.TargetMaxChars)
	p.list("Attribute priority", s.rules.Priority)
	p.schema(`{"bullets": ["...", "...", "...", "...", "..."]}`)
	p.nonInvention()
	return systemPrompt, p.String()
}

func (s *BulletsStage) Parse(raw string, d *domain.Draft) error {
	res, err := stageKey(raw, s.Key())
	if err != nil {
		return err
	}
	if !res.IsArray() {
		return fmt.Errorf("bullets key is not an array")
	}
	var bullets []string
	for _, item := range res.Array() {
		if b := strings.TrimSpace(item.String()); b != "" {
			bullets = append(bullets, b)
		}
	}
	if len(bullets) == 0 {
		return fmt.Errorf("bullets response is empty")
	}
	d.Bullets = bullets
	return nil
}

// Fallback pairs attribute i with benefit i as "attr: benefit", topping up
// from the fixed topics, and always emits five distinct entries.
func (s *BulletsStage) Fallback(b domain.Buckets, d *domain.Draft) {
	count := s.rules.Count
	if count <= 0 {
		count = 5
	}

	attrs := make([]string, 0, count)
	seen := map[string]struct{}{}
	push := func(a string) {
		key := strings.ToLower(a)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		attrs = append(attrs, a)
	}
	for _, a := range b.Attributes {
		if len(attrs) == count {
			break
		}
		push(a)
	}
	for _, topic := range fixedTopics {
		if len(attrs) == count {
			break
		}
		push(topic)
	}

	bullets := make([]string, 0, count)
	for i, attr := range attrs {
		if i < len(b.Benefits) {
			bullets = append(bullets, fmt.Sprintf("%s: %s", attr, b.Benefits[i]))
			continue
		}
		bullets = append(bullets, attr)
	}
	d.Bullets = bullets
}
