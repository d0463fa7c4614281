// Package rules holds the read-only compliance registry: marketplace policy
// and internal SOP directives for every stage, encoded as data. New forbidden
// patterns are data edits; the sanitizer code does not change.
package rules

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRules []byte

// StageRules collects every rule that applies to one stage. Fields prefixed
// with Target are editorial goals surfaced in prompts; the remaining numeric
// fields are hard limits the sanitizer enforces.
type StageRules struct {
	Scope                string   `yaml:"scope"`
	ByteCap              int      `yaml:"byteCap"`
	CharCap              int      `yaml:"charCap"`
	Count                int      `yaml:"count"`
	MaxWords             int      `yaml:"maxWords"`
	MobileMaxChars       int      `yaml:"mobileMaxChars"`
	TargetMinChars       int      `yaml:"targetMinChars"`
	TargetMaxChars       int      `yaml:"targetMaxChars"`
	TargetMobileMinChars int      `yaml:"targetMobileMinChars"`
	TargetMobileMaxChars int      `yaml:"targetMobileMaxChars"`
	TargetMinWords       int      `yaml:"targetMinWords"`
	TargetMaxWords       int      `yaml:"targetMaxWords"`
	TargetNoSpaceMin     int      `yaml:"targetNoSpaceMin"`
	TargetNoSpaceMax     int      `yaml:"targetNoSpaceMax"`
	ForbiddenSymbols     []string `yaml:"forbiddenSymbols"`
	Families             []string `yaml:"families"`
	Separators           []string `yaml:"separators"`
	Templates            []string `yaml:"templates"`
	Priority             []string `yaml:"priority"`
	Policy               []string `yaml:"policy"`
	SOP                  []string `yaml:"sop"`
}

// Registry is the versioned rule repository shared read-only across
// generations.
type Registry struct {
	Version  int                   `yaml:"version"`
	Families map[string][]string   `yaml:"families"`
	Stages   map[string]StageRules `yaml:"stages"`
}

// Default parses the embedded registry. The embedded data ships with the
// binary, so a parse failure is a build defect.
func Default() *Registry {
	reg, err := Parse(defaultRules)
	if err != nil {
		panic(fmt.Sprintf("rules: embedded registry invalid: %v", err))
	}
	return reg
}

// Parse decodes a registry from YAML.
func Parse(raw []byte) (*Registry, error) {
	var reg Registry
	if err := yaml.Unmarshal(raw, &reg); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}
	if reg.Stages == nil {
		reg.Stages = map[string]StageRules{}
	}
	if reg.Families == nil {
		reg.Families = map[string][]string{}
	}
	return &reg, nil
}

// Stage returns the rules for a stage name, or a zero value if unknown.
func (r *Registry) Stage(name string) StageRules {
	return r.Stages[name]
}

// Patterns flattens the named families into one ordered, deduped pattern
// list.
func (r *Registry) Patterns(families ...string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, fam := range families {
		for _, p := range r.Families[fam] {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}

// StagePatterns returns the forbidden patterns bound to one stage.
func (r *Registry) StagePatterns(stage string) []string {
	return r.Patterns(r.Stage(stage).Families...)
}

// Overrides carries caller-supplied rule edits; absent keys keep defaults.
type Overrides struct {
	Families map[string][]string   `yaml:"families"`
	Stages   map[string]StageRules `yaml:"stages"`
}

// Apply merges overrides into a copy of the registry and returns it. Family
// lists replace wholesale; stage overrides replace only non-zero fields.
func (r *Registry) Apply(o Overrides) *Registry {
	merged := Registry{
		Version:  r.Version,
		Families: map[string][]string{},
		Stages:   map[string]StageRules{},
	}
	for name, patterns := range r.Families {
		merged.Families[name] = append([]string(nil), patterns...)
	}
	for name, patterns := range o.Families {
		merged.Families[name] = append([]string(nil), patterns...)
	}
	for name, st := range r.Stages {
		merged.Stages[name] = st
	}
	for name, over := range o.Stages {
		merged.Stages[name] = mergeStage(merged.Stages[name], over)
	}
	return &merged
}

func mergeStage(base, over StageRules) StageRules {
	if over.Scope != "" {
		base.Scope = over.Scope
	}
	if over.ByteCap > 0 {
		base.ByteCap = over.ByteCap
	}
	if over.CharCap > 0 {
		base.CharCap = over.CharCap
	}
	if over.Count > 0 {
		base.Count = over.Count
	}
	if over.MaxWords > 0 {
		base.MaxWords = over.MaxWords
	}
	if over.MobileMaxChars > 0 {
		base.MobileMaxChars = over.MobileMaxChars
	}
	if over.TargetMinChars > 0 {
		base.TargetMinChars = over.TargetMinChars
	}
	if over.TargetMaxChars > 0 {
		base.TargetMaxChars = over.TargetMaxChars
	}
	if over.TargetMobileMinChars > 0 {
		base.TargetMobileMinChars = over.TargetMobileMinChars
	}
	if over.TargetMobileMaxChars > 0 {
		base.TargetMobileMaxChars = over.TargetMobileMaxChars
	}
	if over.TargetMinWords > 0 {
		base.TargetMinWords = over.TargetMinWords
	}
	if over.TargetMaxWords > 0 {
		base.TargetMaxWords = over.TargetMaxWords
	}
	if over.TargetNoSpaceMin > 0 {
		base.TargetNoSpaceMin = over.TargetNoSpaceMin
	}
	if over.TargetNoSpaceMax > 0 {
		base.TargetNoSpaceMax = over.TargetNoSpaceMax
	}
	if len(over.ForbiddenSymbols) > 0 {
		base.ForbiddenSymbols = append([]string(nil), over.ForbiddenSymbols...)
	}
	if len(over.Families) > 0 {
		base.Families = append([]string(nil), over.Families...)
	}
	if len(over.Separators) > 0 {
		base.Separators = append([]string(nil), over.Separators...)
	}
	if len(over.Templates) > 0 {
		base.Templates = append([]string(nil), over.Templates...)
	}
	if len(over.Priority) > 0 {
		base.Priority = append([]string(nil), over.Priority...)
	}
	if len(over.Policy) > 0 {
		base.Policy = append([]string(nil), over.Policy...)
	}
	if len(over.SOP) > 0 {
		base.SOP = append([]string(nil), over.SOP...)
	}
	return base
}
