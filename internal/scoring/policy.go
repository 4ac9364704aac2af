// Package scoring turns an issue list into category scores, an overall
// score, and a deployment verdict under an explicit scoring policy.
package scoring

import (
	"fmt"
	"math"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"cqa/internal/rules"
)

// WeightTolerance is the accepted floating error when validating that
// category weights sum to 1.0.
const WeightTolerance = 1e-9

// Policy holds every scoring constant as configuration: category
// weights, the severity deduction table, and optional per-category
// deduction overrides. The engine never reads scoring literals from
// anywhere else.
type Policy struct {
	// Weights maps each category to its share of the overall score.
	// All six categories must be present and the values must sum to 1.0.
	Weights map[rules.Category]float64 `toml:"weights"`

	// Deductions maps severity to the points removed per issue.
	Deductions map[rules.Severity]float64 `toml:"deductions"`

	// CategoryDeductions overrides Deductions for individual categories.
	CategoryDeductions map[rules.Category]map[rules.Severity]float64 `toml:"category_deductions"`
}

// DefaultPolicy returns the default scoring policy.
func DefaultPolicy() *Policy {
	return &Policy{
		Weights: map[rules.Category]float64{
			rules.CategoryStructure:       0.20,
			rules.CategoryErrorHandling:   0.20,
			rules.CategoryPerformance:     0.15,
			rules.CategorySecurity:        0.15,
			rules.CategoryMaintainability: 0.15,
			rules.CategoryBestPractices:   0.15,
		},
		Deductions: map[rules.Severity]float64{
			rules.SeverityCritical: 4.0,
			rules.SeverityHigh:     2.0,
			rules.SeverityMedium:   1.0,
			rules.SeverityLow:      0.3,
		},
	}
}

// Validate rejects a malformed policy before any analysis runs. A policy
// that silently mis-weighted categories would make every score
// misleading, so this is a hard configuration error.
func (p *Policy) Validate() error {
	if len(p.Weights) != len(rules.Categories) {
		return fmt.Errorf("policy defines %d category weights, want %d", len(p.Weights), len(rules.Categories))
	}
	sum := 0.0
	for _, cat := range rules.Categories {
		w, ok := p.Weights[cat]
		if !ok {
			return fmt.Errorf("policy missing weight for category %q", cat)
		}
		if w <= 0 || w > 1 {
			return fmt.Errorf("weight for category %q is %v, want (0, 1]", cat, w)
		}
		sum += w
	}
	if math.Abs(sum-1.0) > WeightTolerance {
		return fmt.Errorf("category weights sum to %v, want 1.0", sum)
	}

	for _, sev := range rules.Severities {
		d, ok := p.Deductions[sev]
		if !ok {
			return fmt.Errorf("policy missing deduction for severity %q", sev)
		}
		if d < 0 {
			return fmt.Errorf("deduction for severity %q is negative", sev)
		}
	}
	for cat, table := range p.CategoryDeductions {
		if !cat.Valid() {
			return fmt.Errorf("category deduction override for unknown category %q", cat)
		}
		for sev, d := range table {
			if !sev.Valid() {
				return fmt.Errorf("category %q: deduction override for unknown severity %q", cat, sev)
			}
			if d < 0 {
				return fmt.Errorf("category %q: deduction for severity %q is negative", cat, sev)
			}
		}
	}
	return nil
}

// Deduction returns the points removed for one issue of the given
// severity in the given category, honoring per-category overrides.
func (p *Policy) Deduction(cat rules.Category, sev rules.Severity) float64 {
	if table, ok := p.CategoryDeductions[cat]; ok {
		if d, ok := table[sev]; ok {
			return d
		}
	}
	return p.Deductions[sev]
}

// policyFile is the TOML shape of a policy override file. Absent
// sections keep their defaults.
type policyFile struct {
	Weights            map[string]float64            `toml:"weights"`
	Deductions         map[string]float64            `toml:"deductions"`
	CategoryDeductions map[string]map[string]float64 `toml:"category_deductions"`
}

// LoadPolicy reads a TOML policy file, overlays it on the defaults, and
// validates the result.
func LoadPolicy(path string) (*Policy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}

	var pf policyFile
	if err := toml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse policy file: %w", err)
	}

	p := DefaultPolicy()
	for k, v := range pf.Weights {
		cat := rules.Category(k)
		if !cat.Valid() {
			return nil, fmt.Errorf("policy file: unknown category %q", k)
		}
		p.Weights[cat] = v
	}
	for k, v := range pf.Deductions {
		sev := rules.Severity(k)
		if !sev.Valid() {
			return nil, fmt.Errorf("policy file: unknown severity %q", k)
		}
		p.Deductions[sev] = v
	}
	for ck, table := range pf.CategoryDeductions {
		cat := rules.Category(ck)
		if !cat.Valid() {
			return nil, fmt.Errorf("policy file: unknown category %q", ck)
		}
		if p.CategoryDeductions == nil {
			p.CategoryDeductions = map[rules.Category]map[rules.Severity]float64{}
		}
		for sk, v := range table {
			sev := rules.Severity(sk)
			if !sev.Valid() {
				return nil, fmt.Errorf("policy file: unknown severity %q", sk)
			}
			if p.CategoryDeductions[cat] == nil {
				p.CategoryDeductions[cat] = map[rules.Severity]float64{}
			}
			p.CategoryDeductions[cat][sev] = v
		}
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}
