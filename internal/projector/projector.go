// Package projector turns the heterogeneous input table into the typed
// buckets of editorial material the stages consume.
package projector

import (
	"strings"

	"ListingForge/internal/domain"
	"ListingForge/internal/textnorm"
)

// Cost-saver caps per bucket. Head phrases are always capped.
const (
	capHeadPhrases = 10
	capCoreTokens  = 40
	capAttributes  = 20
	capVariations  = 20
	capBenefits    = 20
	capEmotions    = 10
)

const headSliceLen = 6

// typeSynonyms resolves folded row-type spellings to canonical types. Keys
// are lowercased, accent-folded, whitespace-collapsed.
var typeSynonyms = map[string]domain.RowType{
	"brand":              domain.RowBrand,
	"marca":              domain.RowBrand,
	"short description":  domain.RowShortDescription,
	"shortdescription":   domain.RowShortDescription,
	"descripcion corta":  domain.RowShortDescription,
	"buyer persona":      domain.RowBuyerPersona,
	"buyerpersona":       domain.RowBuyerPersona,
	"persona":            domain.RowBuyerPersona,
	"editorial lexicon":  domain.RowEditorialLexicon,
	"editoriallexicon":   domain.RowEditorialLexicon,
	"lexicon":            domain.RowEditorialLexicon,
	"lexico editorial":   domain.RowEditorialLexicon,
	"attribute":          domain.RowAttribute,
	"attributes":         domain.RowAttribute,
	"atributo":           domain.RowAttribute,
	"variation":          domain.RowVariation,
	"variations":         domain.RowVariation,
	"variante":           domain.RowVariation,
	"benefit":            domain.RowBenefit,
	"benefits":           domain.RowBenefit,
	"beneficio":          domain.RowBenefit,
	"valued benefit":     domain.RowValuedBenefit,
	"valuedbenefit":      domain.RowValuedBenefit,
	"beneficio valorado": domain.RowValuedBenefit,
	"advantage":          domain.RowAdvantage,
	"ventaja":            domain.RowAdvantage,
	"obstacle":           domain.RowObstacle,
	"obstaculo":          domain.RowObstacle,
	"emotion":            domain.RowEmotion,
	"emocion":            domain.RowEmotion,
	"semantic seo":       domain.RowSemanticSEO,
	"semanticseo":        domain.RowSemanticSEO,
	"seo semantico":      domain.RowSemanticSEO,
	"keyword phrase":     domain.RowKeywordPhrase,
	"keywordphrase":      domain.RowKeywordPhrase,
	"keyword":            domain.RowKeywordPhrase,
	"frase clave":        domain.RowKeywordPhrase,
}

// ResolveType maps a raw row type to its canonical form; ok is false for
// unknown types, which the projection skips.
func ResolveType(raw string) (domain.RowType, bool) {
	t, ok := typeSynonyms[textnorm.FoldKey(raw)]
	return t, ok
}

// Project derives the buckets from the input table. Deduplication is by
// lowercased, whitespace-collapsed content; first appearance wins and order
// is preserved. Returns ErrEmptyInput for an empty table and ErrMissingBrand
// when no brand row exists.
func Project(rows []domain.InputRow, costSaver bool) (domain.Buckets, error) {
	if len(rows) == 0 {
		return domain.Buckets{}, domain.ErrEmptyInput
	}

	b := domain.Buckets{Clusters: map[string][]string{}}
	seen := map[domain.RowType]map[string]struct{}{}

	add := func(t domain.RowType, list *[]string, content string) bool {
		content = textnorm.CollapseWhitespace(content)
		if content == "" {
			return false
		}
		key := strings.ToLower(content)
		if seen[t] == nil {
			seen[t] = map[string]struct{}{}
		}
		if _, dup := seen[t][key]; dup {
			return false
		}
		seen[t][key] = struct{}{}
		*list = append(*list, content)
		return true
	}

	for _, row := range rows {
		t, ok := ResolveType(row.Type)
		if !ok {
			continue
		}
		content := textnorm.CollapseWhitespace(row.Content)
		if content == "" {
			continue
		}
		switch t {
		case domain.RowBrand:
			if b.Brand == "" {
				b.Brand = content
			}
		case domain.RowShortDescription:
			if b.ShortDescription == "" {
				b.ShortDescription = content
			}
		case domain.RowBuyerPersona:
			if b.BuyerPersona == "" {
				b.BuyerPersona = content
			}
		case domain.RowEditorialLexicon:
			if b.EditorialLexicon == "" {
				b.EditorialLexicon = content
			}
		case domain.RowAttribute:
			add(t, &b.Attributes, content)
		case domain.RowVariation:
			add(t, &b.Variations, content)
		case domain.RowBenefit:
			add(t, &b.Benefits, content)
		case domain.RowValuedBenefit:
			add(t, &b.ValuedBenefits, content)
		case domain.RowAdvantage:
			add(t, &b.Advantages, content)
		case domain.RowObstacle:
			add(t, &b.Obstacles, content)
		case domain.RowEmotion:
			if add(t, &b.Emotions, content) {
				// Rows without a polarity label stay in the combined view
				// only.
				switch textnorm.FoldKey(row.Label) {
				case "positive", "positiva":
					b.PositiveEmotions = append(b.PositiveEmotions, content)
				case "negative", "negativa":
					b.NegativeEmotions = append(b.NegativeEmotions, content)
				}
			}
		case domain.RowSemanticSEO:
			label := textnorm.FoldKey(row.Label)
			switch {
			case label == "core":
				add(t, &b.CoreTokens, content)
			case strings.HasPrefix(label, "cluster"):
				if add(t, &b.ClusterTokens, content) {
					b.Clusters[row.Label] = append(b.Clusters[row.Label], content)
				}
			}
		case domain.RowKeywordPhrase:
			add(t, &b.KeywordPhrases, content)
		}
	}

	if b.Brand == "" {
		return domain.Buckets{}, domain.ErrMissingBrand
	}

	if costSaver {
		b.CoreTokens = capList(b.CoreTokens, capCoreTokens)
		b.Attributes = capList(b.Attributes, capAttributes)
		b.Variations = capList(b.Variations, capVariations)
		b.Benefits = capList(b.Benefits, capBenefits)
		b.Emotions = capList(b.Emotions, capEmotions)
		// The polarity views stay subsets of the capped combined list.
		kept := map[string]struct{}{}
		for _, e := range b.Emotions {
			kept[strings.ToLower(e)] = struct{}{}
		}
		b.PositiveEmotions = filterKept(b.PositiveEmotions, kept)
		b.NegativeEmotions = filterKept(b.NegativeEmotions, kept)
	}

	b.HeadPhrases = headPhrases(b)
	return b, nil
}

// headPhrases concatenates brand, the top core tokens and the top benefits,
// dedupes and caps the result.
func headPhrases(b domain.Buckets) []string {
	var candidates []string
	candidates = append(candidates, b.Brand)
	candidates = append(candidates, firstN(b.CoreTokens, headSliceLen)...)
	candidates = append(candidates, firstN(b.Benefits, headSliceLen)...)

	seen := map[string]struct{}{}
	var out []string
	for _, c := range candidates {
		key := strings.ToLower(textnorm.CollapseWhitespace(c))
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
		if len(out) == capHeadPhrases {
			break
		}
	}
	return out
}

func firstN(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func capList(list []string, n int) []string {
	if len(list) <= n {
		return list
	}
	return list[:n]
}

func filterKept(list []string, kept map[string]struct{}) []string {
	var out []string
	for _, e := range list {
		if _, ok := kept[strings.ToLower(e)]; ok {
			out = append(out, e)
		}
	}
	return out
}
