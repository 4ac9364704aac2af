// Package config loads and validates the analyzer configuration.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"cqa/internal/engine"
	"cqa/internal/rules"
	"cqa/internal/scoring"
)

// Config is the complete analyzer configuration.
type Config struct {
	// Thresholds tune the structural rules.
	Thresholds rules.Thresholds `json:"thresholds" mapstructure:"thresholds"`

	// Rules holds per-rule overrides keyed by rule identifier.
	Rules map[string]RuleOverride `json:"rules" mapstructure:"rules"`

	// Weights overrides category weights; when present it must cover the
	// categories it names and the resulting table must still sum to 1.0.
	Weights map[string]float64 `json:"weights" mapstructure:"weights"`

	// Logging configures CLI log output.
	Logging LoggingConfig `json:"logging" mapstructure:"logging"`

	// History configures the report archive.
	History HistoryConfig `json:"history" mapstructure:"history"`
}

// RuleOverride enables, disables, or reclassifies a single rule.
type RuleOverride struct {
	// Enabled disables the rule when set to false; nil keeps the default.
	Enabled *bool `json:"enabled,omitempty" mapstructure:"enabled"`

	// Severity reassigns the rule's severity when non-empty.
	Severity string `json:"severity,omitempty" mapstructure:"severity"`
}

// LoggingConfig controls CLI logging.
type LoggingConfig struct {
	Level string `json:"level" mapstructure:"level"`
}

// HistoryConfig controls the report archive store.
type HistoryConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Thresholds: rules.DefaultThresholds(),
		Rules:      map[string]RuleOverride{},
		Logging:    LoggingConfig{Level: "info"},
		History:    HistoryConfig{Path: ".cqa/history.db"},
	}
}

// Load reads a configuration file (yaml, json, or toml by extension)
// over the defaults. An empty path returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// EngineOptions validates the configuration against a catalog and turns
// it into engine options. Invalid configuration rejects the run before
// any unit is analyzed.
func (c *Config) EngineOptions(cat *rules.Catalog, policy *scoring.Policy) (*engine.Options, error) {
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}
	if len(c.Weights) > 0 {
		policy = overlayWeights(policy, c.Weights)
	}
	if err := policy.Validate(); err != nil {
		return nil, err
	}

	opts := &engine.Options{
		Policy:     policy,
		Thresholds: &c.Thresholds,
	}
	for id, ov := range c.Rules {
		if _, ok := cat.Get(id); !ok {
			return nil, fmt.Errorf("configuration references unknown rule %q", id)
		}
		key := strings.ToUpper(strings.TrimSpace(id))
		if ov.Enabled != nil && !*ov.Enabled {
			if opts.Disabled == nil {
				opts.Disabled = map[string]bool{}
			}
			opts.Disabled[key] = true
		}
		if ov.Severity != "" {
			sev := rules.Severity(strings.ToLower(ov.Severity))
			if !sev.Valid() {
				return nil, fmt.Errorf("rule %q: unknown severity %q", id, ov.Severity)
			}
			if opts.SeverityOverrides == nil {
				opts.SeverityOverrides = map[string]rules.Severity{}
			}
			opts.SeverityOverrides[key] = sev
		}
	}
	return opts, nil
}

// overlayWeights copies the policy and applies weight overrides; the
// result is validated by the caller.
func overlayWeights(p *scoring.Policy, overrides map[string]float64) *scoring.Policy {
	out := *p
	out.Weights = make(map[rules.Category]float64, len(p.Weights))
	for cat, w := range p.Weights {
		out.Weights[cat] = w
	}
	for name, w := range overrides {
		out.Weights[rules.Category(strings.ToLower(name))] = w
	}
	return &out
}
