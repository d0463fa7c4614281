package stage

import (
	"fmt"
	"strings"

	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
)

// systemPrompt is shared by all stages; each user prompt names the single
// top-level key the response must carry.
const systemPrompt = "You write product listing copy for a marketplace. " +
	"Respond with one JSON object matching the requested schema exactly: " +
	"no prose, no markdown fences, no extra keys."

// promptBuilder accumulates the user prompt in sections: material first,
// then rules, then schema, then the grounding clause.
type promptBuilder struct {
	sb strings.Builder
}

func (p *promptBuilder) section(title string) {
	if p.sb.Len() > 0 {
		p.sb.WriteString("\n")
	}
	p.sb.WriteString(title)
	p.sb.WriteString("\n")
}

func (p *promptBuilder) line(format string, args ...any) {
	fmt.Fprintf(&p.sb, format, args...)
	p.sb.WriteString("\n")
}

func (p *promptBuilder) list(label string, items []string) {
	if len(items) == 0 {
		return
	}
	p.line("%s: %s", label, strings.Join(items, "; "))
}

func (p *promptBuilder) value(label, v string) {
	if v == "" {
		return
	}
	p.line("%s: %s", label, v)
}

func (p *promptBuilder) material(b domain.Buckets) {
	p.section("PRODUCT MATERIAL")
	p.value("Brand", b.Brand)
	p.value("Short description", b.ShortDescription)
	p.value("Buyer persona", b.BuyerPersona)
	p.value("Editorial lexicon", b.EditorialLexicon)
	p.list("Head phrases", b.HeadPhrases)
	p.list("Attributes", b.Attributes)
	p.list("Variations", b.Variations)
	p.list("Benefits", b.Benefits)
	p.list("Valued benefits", b.ValuedBenefits)
	p.list("Advantages", b.Advantages)
	p.list("Resolved obstacles", b.Obstacles)
	p.list("Positive emotions", b.PositiveEmotions)
	p.list("Negative emotions to counter", b.NegativeEmotions)
	p.list("Core keywords", b.CoreTokens)
	p.list("Cluster keywords", b.ClusterTokens)
	p.list("Keyword phrases", b.KeywordPhrases)
}

func (p *promptBuilder) stageRules(name string, r rules.StageRules, patterns []string) {
	p.section("RULES")
	p.value("Artifact", name)
	p.value("Scope", r.Scope)
	for _, pol := range r.Policy {
		p.line("- %s", pol)
	}
	for _, sop := range r.SOP {
		p.line("- %s", sop)
	}
	for _, tpl := range r.Templates {
		p.line("- Template: %s", tpl)
	}
	p.list("Allowed separators", r.Separators)
	p.list("Never use these words or phrases", patterns)
	p.list("Never use these symbols", r.ForbiddenSymbols)
}

func (p *promptBuilder) schema(schema string) {
	p.section("OUTPUT SCHEMA")
	p.line("%s", schema)
}

func (p *promptBuilder) nonInvention() {
	p.section("GROUNDING")
	p.line("Use only tokens traceable to the product material above. Do not invent features, materials, figures or claims.")
}

func (p *promptBuilder) String() string {
	return p.sb.String()
}
