package report

import (
	"bytes"
	"testing"

	"cqa/internal/rules"
	"cqa/internal/scoring"
)

func TestSortIssues(t *testing.T) {
	positions := map[string]int{"A": 0, "B": 1, "C": 2}
	position := func(id string) int { return positions[id] }

	issues := []rules.Issue{
		{Severity: rules.SeverityLow, RuleID: "A", Line: 1},
		{Severity: rules.SeverityCritical, RuleID: "C", Line: 9},
		{Severity: rules.SeverityHigh, RuleID: "B", Line: 5},
		{Severity: rules.SeverityHigh, RuleID: "C", Line: 2},
		{Severity: rules.SeverityHigh, RuleID: "A", Line: 2},
	}
	SortIssues(issues, position)

	want := []struct {
		id   string
		line int
	}{
		{"C", 9}, // critical first regardless of line
		{"A", 2}, // high: line asc, then registration order
		{"C", 2},
		{"B", 5},
		{"A", 1}, // low last
	}
	for i, w := range want {
		if issues[i].RuleID != w.id || issues[i].Line != w.line {
			t.Errorf("issues[%d] = %s@%d, want %s@%d", i, issues[i].RuleID, issues[i].Line, w.id, w.line)
		}
	}
}

func TestRoundScore(t *testing.T) {
	cases := []struct{ in, want float64 }{
		{8.94, 8.9},
		{8.96, 9.0},
		{10.0, 10.0},
		{0.0, 0.0},
	}
	for _, tc := range cases {
		if got := RoundScore(tc.in); got != tc.want {
			t.Errorf("RoundScore(%v) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestFormatScore(t *testing.T) {
	if got := FormatScore(10); got != "10.0" {
		t.Errorf("FormatScore(10) = %q, want 10.0", got)
	}
	if got := FormatScore(8.91); got != "8.9" {
		t.Errorf("FormatScore(8.91) = %q, want 8.9", got)
	}
}

func TestFormatFloat(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.15, "0.15"},
		{3.0, "3"},
		{2.5, "2.5"},
		{1.0 / 3.0, "0.333333"},
	}
	for _, tc := range cases {
		if got := FormatFloat(tc.in); got != tc.want {
			t.Errorf("FormatFloat(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestIssueCounts(t *testing.T) {
	r := &QualityReport{
		Issues: []rules.Issue{
			{Severity: rules.SeverityCritical},
			{Severity: rules.SeverityCritical},
			{Severity: rules.SeverityLow},
		},
	}
	if got := r.CriticalCount(); got != 2 {
		t.Errorf("CriticalCount() = %d, want 2", got)
	}
	if got := r.IssueCount(rules.SeverityLow); got != 1 {
		t.Errorf("IssueCount(low) = %d, want 1", got)
	}
	if got := r.IssueCount(rules.SeverityHigh); got != 0 {
		t.Errorf("IssueCount(high) = %d, want 0", got)
	}
}

func TestGate(t *testing.T) {
	clean := &QualityReport{Overall: 8.0}
	if !clean.Gate(7.0) {
		t.Error("Gate(7.0) = false for clean 8.0 report, want true")
	}
	if clean.Gate(8.5) {
		t.Error("Gate(8.5) = true for 8.0 report, want false")
	}

	critical := &QualityReport{
		Overall: 9.5,
		Issues:  []rules.Issue{{Severity: rules.SeverityCritical}},
	}
	if critical.Gate(7.0) {
		t.Error("Gate() = true with a critical issue, want false")
	}
}

func TestEncodeJSONDeterministic(t *testing.T) {
	r := &QualityReport{
		Unit:    "a.py",
		Overall: 9.4,
		Verdict: scoring.VerdictExcellent,
		Issues: []rules.Issue{
			{Severity: rules.SeverityLow, Category: rules.CategoryBestPractices, RuleID: "BP-PRINT-CALL", Line: 3},
		},
	}
	first, err := EncodeJSON(r)
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	second, err := EncodeJSON(r)
	if err != nil {
		t.Fatalf("EncodeJSON() error = %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("EncodeJSON() output differs across calls for identical input")
	}
}
