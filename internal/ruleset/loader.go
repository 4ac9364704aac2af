// Package ruleset loads custom pattern rules from YAML packs and
// registers them into a catalog alongside the builtin rules.
package ruleset

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"cqa/internal/rules"
)

// pack is the YAML shape of a rule pack file.
type pack struct {
	Rules []packRule `yaml:"rules"`
}

// packRule is one custom rule: a line regex bound to a category and
// severity. Matches report the configured message at each matching line.
type packRule struct {
	ID         string `yaml:"id"`
	Category   string `yaml:"category"`
	Severity   string `yaml:"severity"`
	Summary    string `yaml:"summary"`
	Message    string `yaml:"message"`
	Pattern    string `yaml:"pattern"`
	Suggestion string `yaml:"suggestion"`

	// SkipComments skips lines starting with '#' when true.
	SkipComments bool `yaml:"skip_comments"`
}

// LoadAndRegister reads a YAML pack and registers its rules into the
// catalog. It returns the number of rules registered. Pack rules obey
// the same purity contract as builtin rules: the compiled regex is the
// whole predicate.
func LoadAndRegister(path string, cat *rules.Catalog) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read rule pack: %w", err)
	}
	var p pack
	if err := yaml.Unmarshal(data, &p); err != nil {
		return 0, fmt.Errorf("parse rule pack: %w", err)
	}

	n := 0
	for _, pr := range p.Rules {
		rule, err := compile(pr)
		if err != nil {
			return n, fmt.Errorf("rule pack %s: %w", path, err)
		}
		if err := cat.Register(rule); err != nil {
			return n, fmt.Errorf("rule pack %s: %w", path, err)
		}
		n++
	}
	return n, nil
}

func compile(pr packRule) (rules.Rule, error) {
	if pr.ID == "" {
		return rules.Rule{}, fmt.Errorf("pack rule has no id")
	}
	if pr.Pattern == "" {
		return rules.Rule{}, fmt.Errorf("rule %q: empty pattern", pr.ID)
	}
	re, err := regexp.Compile(pr.Pattern)
	if err != nil {
		return rules.Rule{}, fmt.Errorf("rule %q: invalid pattern: %w", pr.ID, err)
	}

	category := rules.Category(strings.ToLower(pr.Category))
	if !category.Valid() {
		return rules.Rule{}, fmt.Errorf("rule %q: unknown category %q", pr.ID, pr.Category)
	}
	severity := rules.Severity(strings.ToLower(pr.Severity))
	if !severity.Valid() {
		return rules.Rule{}, fmt.Errorf("rule %q: unknown severity %q", pr.ID, pr.Severity)
	}

	message := pr.Message
	if message == "" {
		message = pr.Summary
	}
	skipComments := pr.SkipComments
	suggestion := pr.Suggestion

	return rules.Rule{
		ID:       pr.ID,
		Category: category,
		Severity: severity,
		Summary:  pr.Summary,
		Check: func(rc *rules.Context) []rules.Match {
			var out []rules.Match
			for i, raw := range rc.Unit.Lines() {
				trimmed := strings.TrimSpace(raw)
				if skipComments && strings.HasPrefix(trimmed, "#") {
					continue
				}
				if re.MatchString(raw) {
					out = append(out, rules.Match{
						Line:       i + 1,
						Message:    message,
						Evidence:   trimmed,
						Suggestion: suggestion,
					})
				}
			}
			return out
		},
	}, nil
}
