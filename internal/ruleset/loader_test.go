package ruleset

import (
	"os"
	"path/filepath"
	"testing"

	"cqa/internal/rules"
	"cqa/internal/source"
	"cqa/internal/structure"
)

func writePack(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pack.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func packContext(t *testing.T, src string) *rules.Context {
	t.Helper()
	u := source.NewUnit("test.py", src)
	x, err := structure.NewHeuristicExtractor().Extract(u)
	if err != nil {
		t.Fatal(err)
	}
	return &rules.Context{Unit: u, Extraction: x, Thresholds: rules.DefaultThresholds()}
}

func TestLoadAndRegister(t *testing.T) {
	path := writePack(t, `
rules:
  - id: TEAM-NO-GLOBAL
    category: best_practices
    severity: medium
    summary: Module-level global statement.
    message: global rebinding makes state flow invisible
    pattern: '^\s*global\s'
    suggestion: Pass state explicitly
    skip_comments: true
`)
	cat := rules.NewCatalog()
	n, err := LoadAndRegister(path, cat)
	if err != nil {
		t.Fatalf("LoadAndRegister() error = %v", err)
	}
	if n != 1 {
		t.Errorf("n = %d, want 1", n)
	}

	rule, ok := cat.Get("team-no-global")
	if !ok {
		t.Fatal("registered rule not found in catalog")
	}
	if rule.Category != rules.CategoryBestPractices || rule.Severity != rules.SeverityMedium {
		t.Errorf("rule = %q/%q, want best_practices/medium", rule.Category, rule.Severity)
	}

	matches := rule.Check(packContext(t, "def f():\n    global counter\n    counter += 1"))
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Line != 2 {
		t.Errorf("Line = %d, want 2", matches[0].Line)
	}
	if matches[0].Message != "global rebinding makes state flow invisible" {
		t.Errorf("Message = %q, want the configured message", matches[0].Message)
	}

	// skip_comments suppresses matches on comment lines.
	if matches := rule.Check(packContext(t, "# global counter")); len(matches) != 0 {
		t.Errorf("comment line: len(matches) = %d, want 0", len(matches))
	}
}

func TestLoadAndRegisterMessageDefaultsToSummary(t *testing.T) {
	path := writePack(t, `
rules:
  - id: TEAM-TAB
    category: best_practices
    severity: low
    summary: Tab indentation.
    pattern: "^\t"
`)
	cat := rules.NewCatalog()
	if _, err := LoadAndRegister(path, cat); err != nil {
		t.Fatalf("LoadAndRegister() error = %v", err)
	}
	rule, _ := cat.Get("TEAM-TAB")
	matches := rule.Check(packContext(t, "\tx = 1"))
	if len(matches) != 1 {
		t.Fatalf("len(matches) = %d, want 1", len(matches))
	}
	if matches[0].Message != "Tab indentation." {
		t.Errorf("Message = %q, want the summary fallback", matches[0].Message)
	}
}

func TestLoadAndRegisterValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"missing id", "rules:\n  - category: security\n    severity: low\n    pattern: x\n"},
		{"empty pattern", "rules:\n  - id: T-A\n    category: security\n    severity: low\n"},
		{"bad regex", "rules:\n  - id: T-B\n    category: security\n    severity: low\n    pattern: '['\n"},
		{"unknown category", "rules:\n  - id: T-C\n    category: style\n    severity: low\n    pattern: x\n"},
		{"unknown severity", "rules:\n  - id: T-D\n    category: security\n    severity: blocker\n    pattern: x\n"},
	}
	for _, tc := range cases {
		path := writePack(t, tc.body)
		if _, err := LoadAndRegister(path, rules.NewCatalog()); err == nil {
			t.Errorf("%s: LoadAndRegister() error = nil, want error", tc.name)
		}
	}
}

func TestLoadAndRegisterDuplicateAgainstCatalog(t *testing.T) {
	path := writePack(t, `
rules:
  - id: BP-PRINT-CALL
    category: best_practices
    severity: low
    summary: Duplicate of a builtin.
    pattern: 'print\('
`)
	if _, err := LoadAndRegister(path, rules.DefaultCatalog()); err == nil {
		t.Error("LoadAndRegister() error = nil for duplicate identifier, want error")
	}
}

func TestLoadAndRegisterMissingFile(t *testing.T) {
	if _, err := LoadAndRegister(filepath.Join(t.TempDir(), "absent.yaml"), rules.NewCatalog()); err == nil {
		t.Error("LoadAndRegister() error = nil for missing file, want error")
	}
}
