package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"ListingForge/internal/domain"
	"ListingForge/internal/ports"
	"ListingForge/internal/projector"
	"ListingForge/internal/rules"
	"ListingForge/internal/sanitize"
	"ListingForge/internal/stage"
)

// GeneratorDeps wires all collaborators into the orchestration pipeline.
type GeneratorDeps struct {
	Rules     *rules.Registry
	Chat      ports.ChatClient // nil disables the AI path entirely
	CostSaver bool
	Logger    *slog.Logger
}

// Generator implements the listing-generation workflow: project the table
// once, run the stages in fixed order, sanitize the complete draft in one
// pass, then re-validate for the compliance report.
type Generator struct {
	chat      ports.ChatClient
	stages    *stage.Registry
	sanitizer *sanitize.Sanitizer
	costSaver bool
	logger    *slog.Logger
}

// NewGenerator constructs the orchestration component.
func NewGenerator(deps GeneratorDeps) *Generator {
	reg := deps.Rules
	if reg == nil {
		reg = rules.Default()
	}
	registry := stage.NewRegistry()
	for _, st := range stage.All(reg) {
		registry.Register(st)
	}
	return &Generator{
		chat:      deps.Chat,
		stages:    registry,
		sanitizer: sanitize.New(reg),
		costSaver: deps.CostSaver,
		logger:    deps.Logger,
	}
}

// Generate produces a sanitized artifact and its compliance report. It
// returns ErrEmptyInput or ErrMissingBrand for caller faults; model and
// parse failures degrade silently to the deterministic fallbacks.
func (g *Generator) Generate(ctx context.Context, rows []domain.InputRow) (domain.Final, domain.Report, error) {
	buckets, err := projector.Project(rows, g.costSaver)
	if err != nil {
		return domain.Final{}, domain.Report{}, err
	}

	var draft domain.Draft
	traces := make([]domain.StageTrace, 0, len(domain.StageOrder))
	for _, name := range domain.StageOrder {
		if err := ctx.Err(); err != nil {
			return domain.Final{}, domain.Report{}, fmt.Errorf("generation cancelled: %w", err)
		}
		st, err := g.stages.Resolve(name)
		if err != nil {
			return domain.Final{}, domain.Report{}, fmt.Errorf("stage pipeline misconfigured: %w", err)
		}
		traces = append(traces, g.runStage(ctx, st, buckets, &draft))
	}

	final := g.sanitizer.Sanitize(draft)
	for i := range traces {
		traces[i].State = domain.StateSanitized
	}

	report := domain.Report{
		Issues: g.sanitizer.Check(final),
		Traces: traces,
	}
	if len(report.Issues) > 0 {
		g.warn("compliance residuals after sanitize", "issues", len(report.Issues))
	}
	return final, report, nil
}

func (g *Generator) runStage(ctx context.Context, st stage.Stage, buckets domain.Buckets, draft *domain.Draft) domain.StageTrace {
	trace := domain.StageTrace{Stage: st.Name(), State: domain.StatePending}

	if g.chat == nil {
		st.Fallback(buckets, draft)
		trace.State = domain.StateFallback
		trace.UsedFallback = true
		return trace
	}

	system, user := st.Prompt(buckets)
	trace.State = domain.StatePrompted

	raw := g.invoke(ctx, st.Name(), system, user)
	if raw == "" {
		trace.State = domain.StateEmpty
	} else {
		trace.State = domain.StateResponded
		if err := st.Parse(raw, draft); err != nil {
			g.warn("malformed llm response", "stage", st.Name(), "error", err)
			trace.State = domain.StateMalformed
		} else {
			trace.State = domain.StateAIOK
			return trace
		}
	}

	st.Fallback(buckets, draft)
	trace.State = domain.StateFallback
	trace.UsedFallback = true
	return trace
}

// invoke calls the chat client and swallows any transport or remote error;
// an empty return signals "use the fallback".
func (g *Generator) invoke(ctx context.Context, stageName, system, user string) string {
	out, err := g.chat.Complete(ctx, system, user)
	if err != nil {
		g.warn("llm call failed", "stage", stageName, "error", err)
		return ""
	}
	return out
}

func (g *Generator) warn(msg string, args ...interface{}) {
	if g.logger != nil {
		g.logger.Warn(msg, args...)
	}
}
