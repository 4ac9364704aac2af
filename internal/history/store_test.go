package history

import (
	"path/filepath"
	"testing"

	"cqa/internal/report"
	"cqa/internal/rules"
	"cqa/internal/scoring"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleReport(unit string) *report.QualityReport {
	return &report.QualityReport{
		Unit:         unit,
		Extractor:    "heuristic",
		Overall:      8.9,
		Verdict:      scoring.VerdictNotProductionReady,
		VerdictLabel: scoring.VerdictNotProductionReady.Label(),
		Issues: []rules.Issue{
			{Severity: rules.SeverityCritical, Category: rules.CategorySecurity, RuleID: "SEC-HARDCODED-SECRET", Line: 2, Message: "Hardcoded password detected"},
			{Severity: rules.SeverityLow, Category: rules.CategoryBestPractices, RuleID: "BP-PRINT-CALL", Line: 7, Message: "print() call"},
		},
	}
}

func TestSaveAndGetReport(t *testing.T) {
	s := openTestStore(t)

	id, err := s.SaveReport(sampleReport("svc.py"))
	if err != nil {
		t.Fatalf("SaveReport() error = %v", err)
	}
	if id == "" {
		t.Fatal("SaveReport() returned empty id")
	}

	got, err := s.GetReport(id)
	if err != nil {
		t.Fatalf("GetReport() error = %v", err)
	}
	if got.Unit != "svc.py" {
		t.Errorf("Unit = %q, want svc.py", got.Unit)
	}
	if got.Overall != 8.9 {
		t.Errorf("Overall = %v, want 8.9", got.Overall)
	}
	if len(got.Issues) != 2 {
		t.Fatalf("len(Issues) = %d, want 2", len(got.Issues))
	}
	if got.Issues[0].RuleID != "SEC-HARDCODED-SECRET" {
		t.Errorf("Issues[0].RuleID = %q, want SEC-HARDCODED-SECRET", got.Issues[0].RuleID)
	}
}

func TestListRuns(t *testing.T) {
	s := openTestStore(t)

	for _, unit := range []string{"a.py", "b.py", "c.py"} {
		if _, err := s.SaveReport(sampleReport(unit)); err != nil {
			t.Fatalf("SaveReport(%s) error = %v", unit, err)
		}
	}

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("len(runs) = %d, want 3", len(runs))
	}
	for _, run := range runs {
		if run.CriticalCount != 1 {
			t.Errorf("run %s CriticalCount = %d, want 1", run.ID, run.CriticalCount)
		}
		if run.IssueCount != 2 {
			t.Errorf("run %s IssueCount = %d, want 2", run.ID, run.IssueCount)
		}
		if run.CreatedAt.IsZero() {
			t.Errorf("run %s CreatedAt is zero", run.ID)
		}
	}

	limited, err := s.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("len(runs) = %d, want 2 with limit", len(limited))
	}
}

func TestGetReportUnknownID(t *testing.T) {
	s := openTestStore(t)
	if _, err := s.GetReport("no-such-run"); err == nil {
		t.Error("GetReport() error = nil for unknown id, want error")
	}
}

func TestOpenCreatesParentDir(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "history.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()
	if _, err := s.SaveReport(sampleReport("x.py")); err != nil {
		t.Errorf("SaveReport() error = %v", err)
	}
}
