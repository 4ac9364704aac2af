// Package report defines the QualityReport produced for each source
// unit, including its deterministic ordering and encoding rules.
package report

import (
	"cqa/internal/rules"
	"cqa/internal/scoring"
	"cqa/internal/structure"
)

// QualityReport is the complete analysis output for one source unit.
// Reports contain no timestamps or run identifiers so re-analyzing
// identical input yields a byte-for-byte identical report; run metadata
// belongs to the history store, not the report.
type QualityReport struct {
	// Unit is the logical name of the analyzed source unit.
	Unit string `json:"unit"`

	// Extractor names the structural extraction technique used.
	Extractor string `json:"extractor"`

	// Overall is the weighted score in [0, 10].
	Overall float64 `json:"overall"`

	// Verdict is the deployment recommendation.
	Verdict scoring.Verdict `json:"verdict"`

	// VerdictLabel is the human-facing recommendation text.
	VerdictLabel string `json:"verdictLabel"`

	// Categories holds all six category scores in canonical order, even
	// for a perfect 10.0.
	Categories []scoring.CategoryScore `json:"categories"`

	// Issues is the ordered issue list: severity desc, line asc,
	// catalog registration order asc.
	Issues []rules.Issue `json:"issues"`

	// Metrics are the raw structural facts.
	Metrics structure.Metrics `json:"metrics"`

	// Degraded is set when structural extraction failed and the report
	// fell back to line-count-only metrics.
	Degraded bool `json:"degraded,omitempty"`
}

// IssueCount returns the number of issues at the given severity.
func (r *QualityReport) IssueCount(sev rules.Severity) int {
	n := 0
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			n++
		}
	}
	return n
}

// CriticalCount returns the number of critical issues.
func (r *QualityReport) CriticalCount() int {
	return r.IssueCount(rules.SeverityCritical)
}

// CategoryScore returns the score entry for a category.
func (r *QualityReport) CategoryScore(cat rules.Category) (scoring.CategoryScore, bool) {
	for _, cs := range r.Categories {
		if cs.Category == cat {
			return cs, true
		}
	}
	return scoring.CategoryScore{}, false
}

// Gate implements the CI gating contract: pass when the overall score
// meets the caller's minimum and no critical issues exist. The caller
// decides what to do with the boolean; the engine never exits.
func (r *QualityReport) Gate(minScore float64) bool {
	return r.Overall >= minScore && r.CriticalCount() == 0
}
