// Package sanitize is the compliance engine and the trust boundary of the
// generator: whatever the model returns, the sanitized artifact satisfies
// the marketplace limits and vocabulary rules.
package sanitize

import (
	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
)

// FillerBullet pads the bullet list to exactly five entries.
const FillerBullet = "Thoughtful design focused on real-world use."

// ParagraphSeparator is the literal separator between description
// paragraphs.
const ParagraphSeparator = "\n\n"

// Hard caps used when a rules override zeroes them out. The marketplace
// enforces these regardless of registry content.
const (
	defaultTitleByteCap       = 200
	defaultMobileCharCap      = 90
	defaultBulletCharCap      = 150
	defaultBulletCount        = 5
	defaultDescriptionByteCap = 2000
	defaultBackendByteCap     = 249
)

type stageTools struct {
	rules   rules.StageRules
	phrases *PhraseSet
}

// Sanitizer applies the per-stage normalizers. It is deterministic and
// idempotent; construct once and share freely.
type Sanitizer struct {
	title       stageTools
	bullets     stageTools
	description stageTools
	backend     stageTools
}

// New compiles the stage normalizers from the registry.
func New(reg *rules.Registry) *Sanitizer {
	tools := func(stage string) stageTools {
		return stageTools{
			rules:   reg.Stage(stage),
			phrases: NewPhraseSet(reg.StagePatterns(stage)),
		}
	}
	return &Sanitizer{
		title:       tools(domain.StageTitle),
		bullets:     tools(domain.StageBullets),
		description: tools(domain.StageDescription),
		backend:     tools(domain.StageBackend),
	}
}

// Sanitize runs the complete draft through every stage normalizer in one
// pass. Title, bullets and description come first; the backend dedup then
// reads their sanitized forms.
func (s *Sanitizer) Sanitize(d domain.Draft) domain.Final {
	f := domain.Final{
		Titles:      s.sanitizeTitles(d.Titles),
		Bullets:     s.sanitizeBullets(d.Bullets),
		Description: s.sanitizeDescription(d.Description),
	}
	f.SearchTerms = s.sanitizeBackend(d.SearchTerms, usedWords(f))
	return f
}

func capOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
