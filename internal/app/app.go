package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"ListingForge/internal/config"
	"ListingForge/internal/domain"
	"ListingForge/internal/infrastructure/llm"
	"ListingForge/internal/logging"
	"ListingForge/internal/ports"
	"ListingForge/internal/rules"
	"ListingForge/internal/usecase"
)

// Application wires configs to the generation use case.
type Application struct {
	cfg       config.Config
	generator *usecase.Generator
	logger    *slog.Logger
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	registry := rules.Default().Apply(cfg.Rules)

	var chat ports.ChatClient
	if cfg.Generation.AIEnabled() {
		if cfg.LLM.APIKey == "" {
			baseLogger.Info("no api key configured, using deterministic fallbacks")
		} else if client, err := llm.NewOpenAIClient(cfg.LLM); err != nil {
			baseLogger.Warn("llm client unavailable, using deterministic fallbacks", "error", err)
		} else {
			chat = client
		}
	}

	generator := usecase.NewGenerator(usecase.GeneratorDeps{
		Rules:     registry,
		Chat:      chat,
		CostSaver: cfg.Generation.CostSaverEnabled(),
		Logger:    baseLogger.With("component", "generator"),
	})

	return &Application{cfg: cfg, generator: generator, logger: baseLogger}
}

// Output is the JSON record produced for one generation.
type Output struct {
	Title            string                `json:"title"`
	TitleVariants    []domain.TitleVariant `json:"title_variants,omitempty"`
	Bullets          []string              `json:"bullets"`
	Description      string                `json:"description"`
	SearchTerms      string                `json:"search_terms"`
	ComplianceReport ComplianceReport      `json:"compliance_report"`
}

// ComplianceReport lists residual rule violations as flat strings.
type ComplianceReport struct {
	Issues []string `json:"issues"`
}

// Generate runs one generation over an in-memory input table.
func (a *Application) Generate(ctx context.Context, rows []domain.InputRow) (Output, error) {
	final, report, err := a.generator.Generate(ctx, rows)
	if err != nil {
		return Output{}, err
	}

	issues := report.IssueStrings()
	if issues == nil {
		issues = []string{}
	}
	return Output{
		Title:            final.Title(),
		TitleVariants:    final.Titles,
		Bullets:          final.Bullets,
		Description:      final.Description,
		SearchTerms:      final.SearchTerms,
		ComplianceReport: ComplianceReport{Issues: issues},
	}, nil
}

// GenerateFromFile reads an input table (YAML or JSON) and runs one
// generation over it.
func (a *Application) GenerateFromFile(ctx context.Context, path string) (Output, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Output{}, fmt.Errorf("read input table: %w", err)
	}
	rows, err := ParseRows(raw)
	if err != nil {
		return Output{}, err
	}
	return a.Generate(ctx, rows)
}

// ParseRows accepts either a bare row list or a document with a top-level
// "rows" key. YAML parsing covers JSON input as well.
func ParseRows(raw []byte) ([]domain.InputRow, error) {
	var direct []domain.InputRow
	if err := yaml.Unmarshal(raw, &direct); err == nil && len(direct) > 0 {
		return direct, nil
	}

	var wrapped struct {
		Rows []domain.InputRow `yaml:"rows"`
	}
	if err := yaml.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("parse input table: %w", err)
	}
	return wrapped.Rows, nil
}
