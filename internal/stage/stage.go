// Package stage models each artifact pipeline step as a value: prompt
// composition, response parsing and the deterministic fallback live together
// per stage, and the orchestrator iterates a fixed ordered list.
package stage

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"ListingForge/internal/domain"
	"ListingForge/internal/rules"
)

// Stage is one artifact generator. Parse and Fallback both write into the
// shared draft; Parse returns an error when the model output is unusable so
// the orchestrator can degrade to Fallback.
type Stage interface {
	Name() string
	Key() string
	Prompt(b domain.Buckets) (system, user string)
	Parse(raw string, d *domain.Draft) error
	Fallback(b domain.Buckets, d *domain.Draft)
}

// Registry keeps a mapping from stage names to their implementations.
type Registry struct {
	stages map[string]Stage
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{stages: map[string]Stage{}}
}

// Register adds or replaces a stage implementation.
func (r *Registry) Register(st Stage) {
	if r.stages == nil {
		r.stages = map[string]Stage{}
	}
	r.stages[st.Name()] = st
}

// Resolve returns a stage by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Stage, error) {
	if st, ok := r.stages[name]; ok {
		return st, nil
	}
	return nil, fmt.Errorf("stage %s is not registered", name)
}

// All wires the four stages against the rule registry, in pipeline order.
func All(reg *rules.Registry) []Stage {
	return []Stage{
		NewTitle(reg),
		NewBullets(reg),
		NewDescription(reg),
		NewBackend(reg),
	}
}

// extractJSON isolates the JSON object inside a model response, tolerating
// fences and prose around it.
func extractJSON(raw string) (string, bool) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end <= start {
		return "", false
	}
	block := raw[start : end+1]
	if !gjson.Valid(block) {
		return "", false
	}
	return block, true
}

// stageKey fetches the single top-level key a stage owns.
func stageKey(raw, key string) (gjson.Result, error) {
	block, ok := extractJSON(raw)
	if !ok {
		return gjson.Result{}, fmt.Errorf("response carries no JSON object")
	}
	res := gjson.Get(block, key)
	if !res.Exists() {
		return gjson.Result{}, fmt.Errorf("response JSON has no %q key", key)
	}
	return res, nil
}
