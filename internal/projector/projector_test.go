package projector

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"ListingForge/internal/domain"
)

func TestResolveTypeSynonyms(t *testing.T) {
	t.Parallel()

	cases := []struct {
		raw  string
		want domain.RowType
	}{
		{"Brand", domain.RowBrand},
		{"MARCA", domain.RowBrand},
		{"Short Description", domain.RowShortDescription},
		{"Descripción   Corta", domain.RowShortDescription},
		{"Beneficio Valorado", domain.RowValuedBenefit},
		{"ventaja", domain.RowAdvantage},
		{"Semantic SEO", domain.RowSemanticSEO},
		{"frase clave", domain.RowKeywordPhrase},
	}
	for _, c := range cases {
		got, ok := ResolveType(c.raw)
		if !ok || got != c.want {
			t.Fatalf("ResolveType(%q) = %q, %v; want %q", c.raw, got, ok, c.want)
		}
	}
	if _, ok := ResolveType("price history"); ok {
		t.Fatalf("unknown type resolved")
	}
}

func TestProjectEmptyTable(t *testing.T) {
	t.Parallel()

	if _, err := Project(nil, true); !errors.Is(err, domain.ErrEmptyInput) {
		t.Fatalf("expected ErrEmptyInput, got %v", err)
	}
}

func TestProjectMissingBrand(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{{Type: "attribute", Content: "steel body"}}
	if _, err := Project(rows, true); !errors.Is(err, domain.ErrMissingBrand) {
		t.Fatalf("expected ErrMissingBrand, got %v", err)
	}
}

func TestProjectDedupesPreservingOrder(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "attribute", Content: "Steel body"},
		{Type: "attribute", Content: "steel  body"},
		{Type: "attribute", Content: "Wide mouth"},
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	want := []string{"Steel body", "Wide mouth"}
	if !reflect.DeepEqual(b.Attributes, want) {
		t.Fatalf("unexpected attributes: %v", b.Attributes)
	}
}

func TestProjectSkipsUnknownTypesAndEmptyContent(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "mystery", Content: "ignored"},
		{Type: "benefit", Content: "   "},
		{Type: "benefit", Content: "keeps drinks cold"},
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(b.Benefits) != 1 || b.Benefits[0] != "keeps drinks cold" {
		t.Fatalf("unexpected benefits: %v", b.Benefits)
	}
}

func TestProjectSingletonsFirstWins(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "brand", Content: "OtherCo"},
		{Type: "short description", Content: "Insulated steel bottle"},
		{Type: "short description", Content: "second"},
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if b.Brand != "Acme" {
		t.Fatalf("unexpected brand: %q", b.Brand)
	}
	if b.ShortDescription != "Insulated steel bottle" {
		t.Fatalf("unexpected short description: %q", b.ShortDescription)
	}
}

func TestProjectEmotionPolarity(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "emotion", Content: "confidence", Label: "Positive"},
		{Type: "emotion", Content: "frustration", Label: "negativa"},
		{Type: "emotion", Content: "curiosity"},
		{Type: "emotion", Content: "Confidence", Label: "positive"},
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !reflect.DeepEqual(b.Emotions, []string{"confidence", "frustration", "curiosity"}) {
		t.Fatalf("unexpected emotions: %v", b.Emotions)
	}
	if !reflect.DeepEqual(b.PositiveEmotions, []string{"confidence"}) {
		t.Fatalf("unexpected positive emotions: %v", b.PositiveEmotions)
	}
	if !reflect.DeepEqual(b.NegativeEmotions, []string{"frustration"}) {
		t.Fatalf("unexpected negative emotions: %v", b.NegativeEmotions)
	}
}

func TestProjectSemanticSEOLabels(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "semantic seo", Content: "bottle", Label: "Core"},
		{Type: "semantic seo", Content: "hiking", Label: "Cluster 1"},
		{Type: "semantic seo", Content: "camping", Label: "Cluster 1"},
		{Type: "semantic seo", Content: "office", Label: "Cluster 2"},
		{Type: "semantic seo", Content: "stray", Label: ""},
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if !reflect.DeepEqual(b.CoreTokens, []string{"bottle"}) {
		t.Fatalf("unexpected core tokens: %v", b.CoreTokens)
	}
	if !reflect.DeepEqual(b.ClusterTokens, []string{"hiking", "camping", "office"}) {
		t.Fatalf("unexpected cluster tokens: %v", b.ClusterTokens)
	}
	if !reflect.DeepEqual(b.Clusters["Cluster 1"], []string{"hiking", "camping"}) {
		t.Fatalf("unexpected cluster 1: %v", b.Clusters["Cluster 1"])
	}
	if !reflect.DeepEqual(b.Clusters["Cluster 2"], []string{"office"}) {
		t.Fatalf("unexpected cluster 2: %v", b.Clusters["Cluster 2"])
	}
}

func TestProjectCostSaverCaps(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{{Type: "brand", Content: "Acme"}}
	for i := 0; i < 60; i++ {
		rows = append(rows, domain.InputRow{
			Type: "semantic seo", Label: "core", Content: fmt.Sprintf("token%d", i),
		})
	}
	for i := 0; i < 30; i++ {
		rows = append(rows, domain.InputRow{Type: "attribute", Content: fmt.Sprintf("attr%d", i)})
	}

	capped, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(capped.CoreTokens) != capCoreTokens {
		t.Fatalf("core tokens not capped: %d", len(capped.CoreTokens))
	}
	if len(capped.Attributes) != capAttributes {
		t.Fatalf("attributes not capped: %d", len(capped.Attributes))
	}

	full, err := Project(rows, false)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(full.CoreTokens) != 60 || len(full.Attributes) != 30 {
		t.Fatalf("caps applied without cost saver: %d core, %d attrs",
			len(full.CoreTokens), len(full.Attributes))
	}
}

func TestProjectCostSaverCapsEmotionSplits(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{{Type: "brand", Content: "Acme"}}
	for i := 0; i < capEmotions+2; i++ {
		rows = append(rows, domain.InputRow{
			Type: "emotion", Label: "positive", Content: fmt.Sprintf("emotion%d", i),
		})
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(b.Emotions) != capEmotions {
		t.Fatalf("emotions not capped: %d", len(b.Emotions))
	}
	if !reflect.DeepEqual(b.PositiveEmotions, b.Emotions) {
		t.Fatalf("polarity view out of sync with the capped list: %v vs %v",
			b.PositiveEmotions, b.Emotions)
	}
}

func TestProjectHeadPhrases(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{
		{Type: "brand", Content: "Acme"},
		{Type: "semantic seo", Label: "core", Content: "steel bottle"},
		{Type: "semantic seo", Label: "core", Content: "acme"},
		{Type: "benefit", Content: "keeps drinks cold"},
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}

	// Brand leads, duplicates against the brand fold away.
	want := []string{"Acme", "steel bottle", "keeps drinks cold"}
	if !reflect.DeepEqual(b.HeadPhrases, want) {
		t.Fatalf("unexpected head phrases: %v", b.HeadPhrases)
	}
}

func TestProjectHeadPhrasesCapped(t *testing.T) {
	t.Parallel()

	rows := []domain.InputRow{{Type: "brand", Content: "Acme"}}
	for i := 0; i < headSliceLen; i++ {
		rows = append(rows, domain.InputRow{
			Type: "semantic seo", Label: "core", Content: fmt.Sprintf("core%d", i),
		})
		rows = append(rows, domain.InputRow{Type: "benefit", Content: fmt.Sprintf("benefit%d", i)})
	}
	b, err := Project(rows, true)
	if err != nil {
		t.Fatalf("Project: %v", err)
	}
	if len(b.HeadPhrases) != capHeadPhrases {
		t.Fatalf("expected %d head phrases, got %d", capHeadPhrases, len(b.HeadPhrases))
	}
	if b.HeadPhrases[0] != "Acme" {
		t.Fatalf("brand not first: %v", b.HeadPhrases)
	}
}
