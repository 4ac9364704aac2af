package scoring

import (
	"os"
	"path/filepath"
	"testing"

	"cqa/internal/rules"
)

func TestDefaultPolicyValid(t *testing.T) {
	if err := DefaultPolicy().Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil", err)
	}
}

func TestValidateWeightSum(t *testing.T) {
	p := DefaultPolicy()
	p.Weights[rules.CategoryStructure] = 0.5
	if err := p.Validate(); err == nil {
		t.Error("Validate() error = nil for weights not summing to 1.0, want error")
	}
}

func TestValidateMissingWeight(t *testing.T) {
	p := DefaultPolicy()
	delete(p.Weights, rules.CategorySecurity)
	if err := p.Validate(); err == nil {
		t.Error("Validate() error = nil for missing category weight, want error")
	}
}

func TestValidateWeightRange(t *testing.T) {
	p := DefaultPolicy()
	p.Weights[rules.CategoryStructure] = 0
	p.Weights[rules.CategoryErrorHandling] = 0.40
	if err := p.Validate(); err == nil {
		t.Error("Validate() error = nil for zero weight, want error")
	}
}

func TestValidateDeductions(t *testing.T) {
	p := DefaultPolicy()
	delete(p.Deductions, rules.SeverityLow)
	if err := p.Validate(); err == nil {
		t.Error("Validate() error = nil for missing severity deduction, want error")
	}

	p = DefaultPolicy()
	p.Deductions[rules.SeverityMedium] = -1
	if err := p.Validate(); err == nil {
		t.Error("Validate() error = nil for negative deduction, want error")
	}

	p = DefaultPolicy()
	p.CategoryDeductions = map[rules.Category]map[rules.Severity]float64{
		"bogus": {rules.SeverityLow: 0.1},
	}
	if err := p.Validate(); err == nil {
		t.Error("Validate() error = nil for override on unknown category, want error")
	}
}

func TestDeductionOverride(t *testing.T) {
	p := DefaultPolicy()
	p.CategoryDeductions = map[rules.Category]map[rules.Severity]float64{
		rules.CategorySecurity: {rules.SeverityCritical: 5.0},
	}
	if got := p.Deduction(rules.CategorySecurity, rules.SeverityCritical); got != 5.0 {
		t.Errorf("Deduction(security, critical) = %v, want 5.0", got)
	}
	// Other severities in the overridden category fall through to the base table.
	if got := p.Deduction(rules.CategorySecurity, rules.SeverityHigh); got != 2.0 {
		t.Errorf("Deduction(security, high) = %v, want 2.0", got)
	}
	if got := p.Deduction(rules.CategoryStructure, rules.SeverityCritical); got != 4.0 {
		t.Errorf("Deduction(structure, critical) = %v, want 4.0", got)
	}
}

func writePolicyFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadPolicy(t *testing.T) {
	path := writePolicyFile(t, `
[weights]
structure = 0.30
error_handling = 0.10

[deductions]
low = 0.5

[category_deductions.security]
critical = 6.0
`)
	p, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy() error = %v", err)
	}
	if got := p.Weights[rules.CategoryStructure]; got != 0.30 {
		t.Errorf("Weights[structure] = %v, want 0.30", got)
	}
	// Untouched sections keep their defaults.
	if got := p.Weights[rules.CategoryPerformance]; got != 0.15 {
		t.Errorf("Weights[performance] = %v, want 0.15", got)
	}
	if got := p.Deductions[rules.SeverityLow]; got != 0.5 {
		t.Errorf("Deductions[low] = %v, want 0.5", got)
	}
	if got := p.Deduction(rules.CategorySecurity, rules.SeverityCritical); got != 6.0 {
		t.Errorf("Deduction(security, critical) = %v, want 6.0", got)
	}
}

func TestLoadPolicyRejectsBadWeights(t *testing.T) {
	path := writePolicyFile(t, "[weights]\nstructure = 0.90\n")
	if _, err := LoadPolicy(path); err == nil {
		t.Error("LoadPolicy() error = nil for weights not summing to 1.0, want error")
	}
}

func TestLoadPolicyRejectsUnknownNames(t *testing.T) {
	path := writePolicyFile(t, "[weights]\nstyle = 0.20\n")
	if _, err := LoadPolicy(path); err == nil {
		t.Error("LoadPolicy() error = nil for unknown category, want error")
	}

	path = writePolicyFile(t, "[deductions]\nfatal = 9.0\n")
	if _, err := LoadPolicy(path); err == nil {
		t.Error("LoadPolicy() error = nil for unknown severity, want error")
	}
}

func TestLoadPolicyMissingFile(t *testing.T) {
	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("LoadPolicy() error = nil for missing file, want error")
	}
}
