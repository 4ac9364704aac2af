package engine

import (
	"bytes"
	"math"
	"testing"

	"cqa/internal/report"
	"cqa/internal/rules"
	"cqa/internal/scoring"
	"cqa/internal/source"
	"cqa/internal/structure"
)

// analyze runs the pipeline with the heuristic extractor so results do
// not depend on the build's CGO setting.
func analyze(t *testing.T, src string, opts *Options) *report.QualityReport {
	t.Helper()
	if opts == nil {
		opts = &Options{}
	}
	if opts.Extractor == nil {
		opts.Extractor = structure.NewHeuristicExtractor()
	}
	r, err := Analyze(source.NewUnit("test.py", src), rules.DefaultCatalog(), opts)
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	return r
}

const riskySrc = `def fetchData(url: str) -> dict:
    """Fetch JSON from a service endpoint."""
    api_key = "q7PzX2vR9kLmW4tYbN8s"
    try:
        print("fetching", url)
        return request(url)
    except:
        return {}`

func TestAnalyzeRiskySource(t *testing.T) {
	r := analyze(t, riskySrc, nil)

	if got := r.CriticalCount(); got != 1 {
		t.Errorf("CriticalCount() = %d, want 1", got)
	}
	if got := r.IssueCount(rules.SeverityHigh); got != 1 {
		t.Errorf("high count = %d, want 1", got)
	}
	if got := r.IssueCount(rules.SeverityLow); got != 2 {
		t.Errorf("low count = %d, want 2", got)
	}
	if got := len(r.Issues); got != 4 {
		t.Fatalf("len(Issues) = %d, want 4", got)
	}

	// Ordering: severity desc, then line asc.
	wantIDs := []string{"SEC-HARDCODED-SECRET", "EH-BARE-EXCEPT", "MAINT-NAMING", "BP-PRINT-CALL"}
	for i, id := range wantIDs {
		if r.Issues[i].RuleID != id {
			t.Errorf("Issues[%d].RuleID = %q, want %q", i, r.Issues[i].RuleID, id)
		}
	}

	// One critical always forces the verdict, whatever the score.
	if r.Verdict != scoring.VerdictNotProductionReady {
		t.Errorf("Verdict = %q, want %q", r.Verdict, scoring.VerdictNotProductionReady)
	}

	sec, _ := r.CategoryScore(rules.CategorySecurity)
	if sec.Score != 6.0 {
		t.Errorf("security score = %v, want 6.0", sec.Score)
	}
	eh, _ := r.CategoryScore(rules.CategoryErrorHandling)
	if eh.Score != 8.0 {
		t.Errorf("error_handling score = %v, want 8.0", eh.Score)
	}
	maint, _ := r.CategoryScore(rules.CategoryMaintainability)
	if maint.Score != 9.7 {
		t.Errorf("maintainability score = %v, want 9.7", maint.Score)
	}
	bp, _ := r.CategoryScore(rules.CategoryBestPractices)
	if bp.Score != 9.7 {
		t.Errorf("best_practices score = %v, want 9.7", bp.Score)
	}
	if math.Abs(r.Overall-8.9) > 1e-9 {
		t.Errorf("Overall = %v, want 8.9", r.Overall)
	}
}

const cleanSrc = `"""Arithmetic helpers."""


def add(a: int, b: int) -> int:
    """Add two integers."""
    return a + b`

func TestAnalyzeCleanSource(t *testing.T) {
	r := analyze(t, cleanSrc, nil)

	if got := len(r.Issues); got != 0 {
		t.Fatalf("len(Issues) = %d, want 0: %+v", got, r.Issues)
	}
	if r.Overall != 10.0 {
		t.Errorf("Overall = %v, want 10.0", r.Overall)
	}
	if r.Verdict != scoring.VerdictExcellent {
		t.Errorf("Verdict = %q, want %q", r.Verdict, scoring.VerdictExcellent)
	}
	for _, cs := range r.Categories {
		if cs.Score != 10.0 {
			t.Errorf("category %q score = %v, want 10.0", cs.Category, cs.Score)
		}
	}
}

func TestAnalyzeEmptySource(t *testing.T) {
	r := analyze(t, "", nil)
	if got := len(r.Issues); got != 0 {
		t.Errorf("len(Issues) = %d, want 0", got)
	}
	if r.Overall != 10.0 {
		t.Errorf("Overall = %v, want 10.0", r.Overall)
	}
	if len(r.Categories) != len(rules.Categories) {
		t.Errorf("len(Categories) = %d, want %d (all categories, even perfect)", len(r.Categories), len(rules.Categories))
	}
	if r.Degraded {
		t.Error("Degraded = true for empty source, want false")
	}
}

func TestAnalyzeUnparsableSource(t *testing.T) {
	r := analyze(t, "\x00\x01binary", nil)

	if !r.Degraded {
		t.Error("Degraded = false, want true")
	}
	if got := len(r.Issues); got != 1 {
		t.Fatalf("len(Issues) = %d, want 1", got)
	}
	issue := r.Issues[0]
	if issue.RuleID != RuleIDUnparsable {
		t.Errorf("RuleID = %q, want %q", issue.RuleID, RuleIDUnparsable)
	}
	if issue.Severity != rules.SeverityCritical {
		t.Errorf("Severity = %q, want critical", issue.Severity)
	}
	if issue.Category != rules.CategoryStructure {
		t.Errorf("Category = %q, want structure", issue.Category)
	}
	if r.Verdict != scoring.VerdictNotProductionReady {
		t.Errorf("Verdict = %q, want %q", r.Verdict, scoring.VerdictNotProductionReady)
	}
	if r.Metrics.TotalLines == 0 {
		t.Error("Metrics.TotalLines = 0, want line count even when degraded")
	}
}

func TestAnalyzeDeterministic(t *testing.T) {
	first := analyze(t, riskySrc, nil)
	second := analyze(t, riskySrc, nil)

	a, err := report.EncodeJSON(first)
	if err != nil {
		t.Fatal(err)
	}
	b, err := report.EncodeJSON(second)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("re-analysis of identical input produced a different report")
	}
}

func TestAnalyzeRulePanicIsolated(t *testing.T) {
	cat := rules.NewCatalog()
	mustRegister := func(r rules.Rule) {
		t.Helper()
		if err := cat.Register(r); err != nil {
			t.Fatal(err)
		}
	}
	mustRegister(rules.Rule{
		ID: "X-BOOM", Category: rules.CategoryStructure, Severity: rules.SeverityHigh,
		Check: func(*rules.Context) []rules.Match { panic("boom") },
	})
	mustRegister(rules.Rule{
		ID: "X-OK", Category: rules.CategoryBestPractices, Severity: rules.SeverityLow,
		Check: func(*rules.Context) []rules.Match { return []rules.Match{{Line: 1, Message: "hit"}} },
	})

	r, err := Analyze(source.NewUnit("t.py", "x = 1"), cat, &Options{Extractor: structure.NewHeuristicExtractor()})
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got := len(r.Issues); got != 2 {
		t.Fatalf("len(Issues) = %d, want 2 (panic issue + surviving rule)", got)
	}

	var panicIssue, okIssue *rules.Issue
	for i := range r.Issues {
		switch r.Issues[i].RuleID {
		case RuleIDRulePanic:
			panicIssue = &r.Issues[i]
		case "X-OK":
			okIssue = &r.Issues[i]
		}
	}
	if panicIssue == nil {
		t.Fatal("no panic issue emitted")
	}
	if panicIssue.Severity != rules.SeverityLow {
		t.Errorf("panic issue severity = %q, want low", panicIssue.Severity)
	}
	if okIssue == nil {
		t.Error("surviving rule did not run after another rule panicked")
	}
}

func TestAnalyzeDisabledRule(t *testing.T) {
	opts := &Options{Disabled: map[string]bool{"sec-hardcoded-secret": true}}
	r := analyze(t, riskySrc, opts)
	for _, issue := range r.Issues {
		if issue.RuleID == "SEC-HARDCODED-SECRET" {
			t.Fatal("disabled rule still produced an issue")
		}
	}
	if got := r.CriticalCount(); got != 0 {
		t.Errorf("CriticalCount() = %d, want 0 with the secret rule disabled", got)
	}
	if r.Verdict == scoring.VerdictNotProductionReady {
		t.Errorf("Verdict = %q, want a score-band verdict", r.Verdict)
	}
}

func TestAnalyzeSeverityOverride(t *testing.T) {
	opts := &Options{SeverityOverrides: map[string]rules.Severity{"eh-bare-except": rules.SeverityLow}}
	r := analyze(t, riskySrc, opts)
	for _, issue := range r.Issues {
		if issue.RuleID == "EH-BARE-EXCEPT" && issue.Severity != rules.SeverityLow {
			t.Errorf("overridden severity = %q, want low", issue.Severity)
		}
	}
	// The deduction follows the overridden severity.
	eh, _ := r.CategoryScore(rules.CategoryErrorHandling)
	if eh.Score != 9.7 {
		t.Errorf("error_handling score = %v, want 9.7", eh.Score)
	}
}

func TestAnalyzeRejectsUnknownRuleConfig(t *testing.T) {
	u := source.NewUnit("t.py", "x = 1")
	cat := rules.DefaultCatalog()

	_, err := Analyze(u, cat, &Options{Disabled: map[string]bool{"NO-SUCH-RULE": true}})
	if err == nil {
		t.Error("Analyze() error = nil for unknown disabled rule, want error")
	}

	_, err = Analyze(u, cat, &Options{SeverityOverrides: map[string]rules.Severity{"BP-PRINT-CALL": "giant"}})
	if err == nil {
		t.Error("Analyze() error = nil for unknown severity, want error")
	}
}

func TestAnalyzeRejectsInvalidPolicy(t *testing.T) {
	policy := scoring.DefaultPolicy()
	policy.Weights[rules.CategoryStructure] = 0.9

	_, err := Analyze(source.NewUnit("t.py", "x = 1"), rules.DefaultCatalog(), &Options{Policy: policy})
	if err == nil {
		t.Error("Analyze() error = nil for invalid policy, want error")
	}
}
