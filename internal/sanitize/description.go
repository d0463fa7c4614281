package sanitize

import (
	"strings"

	"ListingForge/internal/textnorm"
)

func (s *Sanitizer) sanitizeDescription(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}

	var paragraphs []string
	for _, para := range strings.Split(raw, ParagraphSeparator) {
		p := textnorm.NFKC(para)
		p = textnorm.FlattenMarkdown(p)
		p = textnorm.RemoveSymbols(p, s.description.rules.ForbiddenSymbols)
		p = s.description.phrases.Remove(p)
		p = textnorm.CollapseSeparators(p)
		p = textnorm.CollapseWhitespace(p)
		if p == "" {
			continue
		}
		paragraphs = append(paragraphs, p)
	}

	d := strings.Join(paragraphs, ParagraphSeparator)
	d = textnorm.TruncateBytes(d, capOr(s.description.rules.ByteCap, defaultDescriptionByteCap))
	return strings.TrimSpace(d)
}
