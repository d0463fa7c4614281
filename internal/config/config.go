package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"ListingForge/internal/rules"
)

const (
	configPathEnv = "LISTINGFORGE_CONFIG"
	apiKeyEnv     = "OPENAI_API_KEY"
	modelEnv      = "LISTINGFORGE_MODEL"
	baseURLEnv    = "LISTINGFORGE_BASE_URL"
)

// Config holds high-level settings required across the application.
type Config struct {
	Logging    LoggingConfig    `yaml:"logging"`
	Generation GenerationConfig `yaml:"generation"`
	LLM        LLMConfig        `yaml:"llm"`
	Rules      rules.Overrides  `yaml:"rules"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// GenerationConfig toggles the AI path and the bucket cost-saver caps.
// Both default to enabled; nil means "not set".
type GenerationConfig struct {
	UseAI     *bool `yaml:"useAi"`
	CostSaver *bool `yaml:"costSaver"`
}

// AIEnabled reports whether generation may call the model at all.
func (g GenerationConfig) AIEnabled() bool {
	return g.UseAI == nil || *g.UseAI
}

// CostSaverEnabled reports whether bucket caps apply.
func (g GenerationConfig) CostSaverEnabled() bool {
	return g.CostSaver == nil || *g.CostSaver
}

// LLMConfig defines how to contact the chat-completion API.
type LLMConfig struct {
	Model          string   `yaml:"model"`
	APIKey         string   `yaml:"apiKey"`
	BaseURL        string   `yaml:"baseUrl"`
	MaxTokens      int      `yaml:"maxTokens"`
	Temperature    *float64 `yaml:"temperature"`
	TimeoutSeconds int      `yaml:"timeoutSeconds"`
}

// TemperatureValue resolves the configured temperature, clamped to [0, 1].
func (l LLMConfig) TemperatureValue() float64 {
	if l.Temperature == nil {
		return defaultTemperature
	}
	t := *l.Temperature
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

const (
	defaultModel       = "gpt-4o-mini"
	defaultMaxTokens   = 1400
	defaultTemperature = 0.3
	defaultTimeoutSecs = 60
)

// Load reads YAML configuration (if present) and applies environment
// overrides. An empty path falls back to the LISTINGFORGE_CONFIG environment
// variable.
func Load(path string) Config {
	cfg := defaultConfig()

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(apiKeyEnv); v != "" {
		c.LLM.APIKey = v
	}
	if v := os.Getenv(modelEnv); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv(baseURLEnv); v != "" {
		c.LLM.BaseURL = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	if override.Generation.UseAI != nil {
		base.Generation.UseAI = override.Generation.UseAI
	}
	if override.Generation.CostSaver != nil {
		base.Generation.CostSaver = override.Generation.CostSaver
	}

	if override.LLM.Model != "" {
		base.LLM.Model = override.LLM.Model
	}
	if override.LLM.APIKey != "" {
		base.LLM.APIKey = override.LLM.APIKey
	}
	if override.LLM.BaseURL != "" {
		base.LLM.BaseURL = override.LLM.BaseURL
	}
	if override.LLM.MaxTokens > 0 {
		base.LLM.MaxTokens = override.LLM.MaxTokens
	}
	if override.LLM.Temperature != nil {
		base.LLM.Temperature = override.LLM.Temperature
	}
	if override.LLM.TimeoutSeconds > 0 {
		base.LLM.TimeoutSeconds = override.LLM.TimeoutSeconds
	}

	if len(override.Rules.Families) > 0 {
		base.Rules.Families = override.Rules.Families
	}
	if len(override.Rules.Stages) > 0 {
		base.Rules.Stages = override.Rules.Stages
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Logging: LoggingConfig{Level: "info"},
		LLM: LLMConfig{
			Model:          defaultModel,
			MaxTokens:      defaultMaxTokens,
			TimeoutSeconds: defaultTimeoutSecs,
		},
	}
}
