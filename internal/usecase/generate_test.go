package usecase

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"ListingForge/internal/domain"
)

// scriptedChat replies with the queued responses in call order and records
// the prompts it saw.
type scriptedChat struct {
	responses []string
	err       error
	calls     int
	users     []string
}

func (c *scriptedChat) Complete(_ context.Context, _ string, user string) (string, error) {
	c.calls++
	c.users = append(c.users, user)
	if c.err != nil {
		return "", c.err
	}
	if len(c.responses) == 0 {
		return "", nil
	}
	out := c.responses[0]
	c.responses = c.responses[1:]
	return out, nil
}

func sampleRows() []domain.InputRow {
	return []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "attribute", Content: "Durable"},
		{Type: "attribute", Content: "Steel"},
		{Type: "variation", Content: "Red"},
		{Type: "benefit", Content: "lasts for years"},
		{Type: "semantic seo", Label: "core", Content: "bottle"},
	}
}

func TestGenerateEmptyInput(t *testing.T) {
	t.Parallel()

	g := NewGenerator(GeneratorDeps{})
	if _, _, err := g.Generate(context.Background(), nil); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestGenerateMissingBrand(t *testing.T) {
	t.Parallel()

	g := NewGenerator(GeneratorDeps{})
	rows := []domain.InputRow{{Type: "attribute", Content: "Steel"}}
	if _, _, err := g.Generate(context.Background(), rows); !errors.Is(err, domain.ErrMissingBrand) {
		t.Fatalf("expected ErrMissingBrand, got %v", err)
	}
}

func TestGenerateFallbackOnly(t *testing.T) {
	t.Parallel()

	g := NewGenerator(GeneratorDeps{})
	final, report, err := g.Generate(context.Background(), sampleRows())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	if final.Title() == "" {
		t.Fatalf("empty title")
	}
	if !strings.HasPrefix(final.Title(), "Acme") {
		t.Fatalf("title does not open with the brand: %q", final.Title())
	}
	if len(final.Titles) != 2 {
		t.Fatalf("expected parent plus one child, got %d", len(final.Titles))
	}
	if final.Titles[1].VariationLabel != "Red" {
		t.Fatalf("child variation lost: %+v", final.Titles[1])
	}
	if len(final.Bullets) != 5 {
		t.Fatalf("expected 5 bullets, got %d", len(final.Bullets))
	}
	if final.Description == "" {
		t.Fatalf("empty description")
	}
	if !strings.Contains(final.SearchTerms, "red") {
		t.Fatalf("variation missing from search terms: %q", final.SearchTerms)
	}

	if len(report.Issues) != 0 {
		t.Fatalf("fallback output is non-compliant: %v", report.Issues)
	}
	if len(report.Traces) != len(domain.StageOrder) {
		t.Fatalf("expected %d traces, got %d", len(domain.StageOrder), len(report.Traces))
	}
	for _, tr := range report.Traces {
		if !tr.UsedFallback {
			t.Fatalf("stage %s did not record the fallback", tr.Stage)
		}
		if tr.State != domain.StateSanitized {
			t.Fatalf("stage %s ended in state %s", tr.Stage, tr.State)
		}
	}
}

func TestGenerateMinimalTable(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "Brand", Content: "Acme"},
		{Type: "Variation", Content: "Red"},
		{Type: "Attribute", Content: "Steel"},
		{Type: "Benefit", Content: "Durable"},
	}
	g := NewGenerator(GeneratorDeps{})
	final, report, err := g.Generate(context.Background(), rows)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	for _, want := range []string{"Acme", "Steel"} {
		if !strings.Contains(final.Title(), want) {
			t.Fatalf("title misses %q: %q", want, final.Title())
		}
	}
	if !strings.Contains(final.Titles[1].Desktop, "Red") {
		t.Fatalf("child title misses the variation: %q", final.Titles[1].Desktop)
	}
	if !strings.Contains(final.Bullets[0], "Steel") || !strings.Contains(final.Bullets[0], "Durable") {
		t.Fatalf("first bullet misses the attribute pairing: %q", final.Bullets[0])
	}
	if final.Description == "" {
		t.Fatalf("empty description")
	}
	if !strings.Contains(final.SearchTerms, "red") {
		t.Fatalf("variation missing from search terms: %q", final.SearchTerms)
	}
	if len(report.Issues) != 0 {
		t.Fatalf("unexpected issues: %v", report.Issues)
	}
}

func TestGenerateDeterministicWithoutAI(t *testing.T) {
	t.Parallel()

	g := NewGenerator(GeneratorDeps{})
	first, _, err := g.Generate(context.Background(), sampleRows())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	second, _, err := g.Generate(context.Background(), sampleRows())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("fallback generation is not deterministic:\n%+v\n%+v", first, second)
	}
}

func TestGenerateWithScriptedModel(t *testing.T) {
	t.Parallel()

	chat := &scriptedChat{responses: []string{
		`{"title": {"desktop": "Acme Durable Steel Bottle for Daily Use", "children": [{"variation": "Red", "desktop": "Acme Durable Steel Bottle for Daily Use Red"}]}}`,
		`{"bullets": ["Durable steel body built to last.", "Keeps drinks at temperature.", "Fits standard cup holders.", "Easy to clean by hand.", "Backed by a sturdy lid."]}`,
		`{"description": "A dependable companion for long days.\n\nBuilt from steel that lasts for years."}`,
		`{"search_terms": "flask tumbler canteen hiking"}`,
	}}
	g := NewGenerator(GeneratorDeps{Chat: chat})

	final, report, err := g.Generate(context.Background(), sampleRows())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if chat.calls != len(domain.StageOrder) {
		t.Fatalf("expected %d model calls, got %d", len(domain.StageOrder), chat.calls)
	}

	if final.Title() != "Acme Durable Steel Bottle for Daily Use" {
		t.Fatalf("unexpected title: %q", final.Title())
	}
	if len(final.Bullets) != 5 || final.Bullets[0] != "Durable steel body built to last." {
		t.Fatalf("unexpected bullets: %v", final.Bullets)
	}
	if !strings.Contains(final.Description, "dependable companion") {
		t.Fatalf("unexpected description: %q", final.Description)
	}
	if final.SearchTerms != "flask tumbler canteen hiking" {
		t.Fatalf("unexpected search terms: %q", final.SearchTerms)
	}

	for _, tr := range report.Traces {
		if tr.UsedFallback {
			t.Fatalf("stage %s fell back despite a valid response", tr.Stage)
		}
	}

	// Every user prompt carries the product material.
	for i, user := range chat.users {
		if !strings.Contains(user, "Brand: Acme") {
			t.Fatalf("prompt %d misses the brand:\n%s", i, user)
		}
	}
}

func TestGenerateMalformedResponsesFallBack(t *testing.T) {
	t.Parallel()

	chat := &scriptedChat{responses: []string{
		"I cannot help with that.",
		`{"title": "wrong key for this stage"}`,
		`{"description": 42}`,
		"",
	}}
	g := NewGenerator(GeneratorDeps{Chat: chat})

	final, report, err := g.Generate(context.Background(), sampleRows())
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if final.Title() == "" || len(final.Bullets) != 5 || final.SearchTerms == "" {
		t.Fatalf("fallbacks did not fill the artifact: %+v", final)
	}
	for _, tr := range report.Traces {
		if !tr.UsedFallback {
			t.Fatalf("stage %s accepted a malformed response", tr.Stage)
		}
	}
}

func TestGenerateModelErrorsFallBack(t *testing.T) {
	t.Parallel()

	chat := &scriptedChat{err: errors.New("rate limited")}
	g := NewGenerator(GeneratorDeps{Chat: chat})

	final, report, err := g.Generate(context.Background(), sampleRows())
	if err != nil {
		t.Fatalf("transport errors must not surface: %v", err)
	}
	if final.Title() == "" {
		t.Fatalf("fallback title missing")
	}
	for _, tr := range report.Traces {
		if !tr.UsedFallback {
			t.Fatalf("stage %s did not fall back on error", tr.Stage)
		}
	}
}

func TestGenerateCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	g := NewGenerator(GeneratorDeps{})
	if _, _, err := g.Generate(ctx, sampleRows()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
