package domain

import (
	"errors"
	"fmt"
)

// Stage names, in pipeline order.
const (
	StageTitle       = "title"
	StageBullets     = "bullets"
	StageDescription = "description"
	StageBackend     = "backend"
)

// StageOrder is the fixed execution order. Backend runs last because its
// dedup reads the sanitized forms of the other three artifacts.
var StageOrder = []string{StageTitle, StageBullets, StageDescription, StageBackend}

// RowType is the canonical classification of an input row.
type RowType string

const (
	RowBrand            RowType = "Brand"
	RowShortDescription RowType = "ShortDescription"
	RowBuyerPersona     RowType = "BuyerPersona"
	RowEditorialLexicon RowType = "EditorialLexicon"
	RowAttribute        RowType = "Attribute"
	RowVariation        RowType = "Variation"
	RowBenefit          RowType = "Benefit"
	RowValuedBenefit    RowType = "ValuedBenefit"
	RowAdvantage        RowType = "Advantage"
	RowObstacle         RowType = "Obstacle"
	RowEmotion          RowType = "Emotion"
	RowSemanticSEO      RowType = "SemanticSEO"
	RowKeywordPhrase    RowType = "KeywordPhrase"
)

// InputRow is one record of editorial material from the research table. Type
// is matched case- and accent-insensitively against a synonym table, so rows
// exported from spreadsheets in other languages still project.
type InputRow struct {
	Type    string `yaml:"type" json:"type"`
	Content string `yaml:"content" json:"content"`
	Label   string `yaml:"label,omitempty" json:"label,omitempty"`
	Source  string `yaml:"source,omitempty" json:"source,omitempty"`
}

// Buckets are the named, deduped, order-preserving projections of the input
// table that every stage consumes.
type Buckets struct {
	Brand            string
	ShortDescription string
	BuyerPersona     string
	EditorialLexicon string
	Attributes       []string
	Variations       []string
	Benefits         []string
	ValuedBenefits   []string
	Advantages       []string
	Obstacles        []string
	Emotions         []string
	PositiveEmotions []string
	NegativeEmotions []string
	CoreTokens       []string
	ClusterTokens    []string
	Clusters         map[string][]string
	KeywordPhrases   []string
	HeadPhrases      []string
}

// TitleVariant holds the desktop and mobile renditions of one title. The
// parent variant carries an empty VariationLabel and omits variation-specific
// values; each child includes exactly one variation.
type TitleVariant struct {
	VariationLabel string `json:"variation_label"`
	Desktop        string `json:"desktop"`
	Mobile         string `json:"mobile"`
}

// Draft is the unsanitized stage output, assembled stage by stage.
type Draft struct {
	Titles      []TitleVariant
	Bullets     []string
	Description string
	SearchTerms string
}

// Final is the sanitized artifact. Same shape as Draft; every field satisfies
// the hard limits and vocabulary rules.
type Final struct {
	Titles      []TitleVariant
	Bullets     []string
	Description string
	SearchTerms string
}

// Title returns the parent desktop rendition, the value exposed as "title" in
// the output record.
func (f Final) Title() string {
	for _, t := range f.Titles {
		if t.VariationLabel == "" {
			return t.Desktop
		}
	}
	if len(f.Titles) > 0 {
		return f.Titles[0].Desktop
	}
	return ""
}

// Issue is one residual rule violation found after sanitization.
type Issue struct {
	Stage  string `json:"stage"`
	RuleID string `json:"rule_id"`
	Detail string `json:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s/%s: %s", i.Stage, i.RuleID, i.Detail)
}

// StageState tracks a stage through the pipeline.
type StageState string

const (
	StatePending   StageState = "pending"
	StatePrompted  StageState = "prompted"
	StateResponded StageState = "responded"
	StateEmpty     StageState = "empty"
	StateParsed    StageState = "parsed"
	StateMalformed StageState = "malformed"
	StateAIOK      StageState = "ai_ok"
	StateFallback  StageState = "using_fallback"
	StateSanitized StageState = "sanitized"
)

// StageTrace records how one stage terminated.
type StageTrace struct {
	Stage        string     `json:"stage"`
	State        StageState `json:"state"`
	UsedFallback bool       `json:"used_fallback"`
}

// Report is the compliance report returned with every artifact. A fully
// compliant artifact has an empty Issues list.
type Report struct {
	Issues []Issue      `json:"issues"`
	Traces []StageTrace `json:"traces,omitempty"`
}

// IssueStrings flattens the issues for the JSON output contract.
func (r Report) IssueStrings() []string {
	out := make([]string, 0, len(r.Issues))
	for _, issue := range r.Issues {
		out = append(out, issue.String())
	}
	return out
}

// Typed failures surfaced to the caller. Everything else recoverable is
// handled inside the pipeline.
var (
	ErrEmptyInput   = errors.New("input table is empty")
	ErrMissingBrand = errors.New("input table has no brand row")
)
