// Package engine runs the analysis pipeline: structural extraction,
// rule evaluation, category aggregation, overall scoring, and verdict
// classification. Analyze is pure per unit and keeps no shared state,
// so callers may analyze many units concurrently.
package engine

import (
	"fmt"
	"strings"

	"cqa/internal/report"
	"cqa/internal/rules"
	"cqa/internal/scoring"
	"cqa/internal/source"
	"cqa/internal/structure"
)

// Synthetic issue identifiers injected by the engine itself.
const (
	RuleIDUnparsable = "ENGINE-UNPARSABLE-SOURCE"
	RuleIDRulePanic  = "ENGINE-RULE-PANIC"
)

// Options configures one analysis run. The zero value means defaults.
type Options struct {
	// Policy supplies weights and deductions; nil means DefaultPolicy.
	Policy *scoring.Policy

	// Thresholds are the structural rule knobs; the zero value means
	// DefaultThresholds.
	Thresholds *rules.Thresholds

	// Disabled lists rule identifiers to skip, case-insensitively.
	Disabled map[string]bool

	// SeverityOverrides reassigns a rule's severity, case-insensitively
	// keyed by rule identifier.
	SeverityOverrides map[string]rules.Severity

	// Extractor overrides the structural extractor; nil means the build's
	// default (tree-sitter with CGO, indentation heuristic without).
	Extractor structure.Extractor
}

// Analyze runs the full pipeline over one unit. Configuration errors
// are returned before any analysis happens; input errors never surface
// as errors, they degrade into the report itself.
func Analyze(u *source.Unit, cat *rules.Catalog, opts *Options) (*report.QualityReport, error) {
	if opts == nil {
		opts = &Options{}
	}
	policy := opts.Policy
	if policy == nil {
		policy = scoring.DefaultPolicy()
	}
	if err := policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scoring policy: %w", err)
	}
	thresholds := rules.DefaultThresholds()
	if opts.Thresholds != nil {
		thresholds = *opts.Thresholds
	}
	if err := validateOverrides(cat, opts); err != nil {
		return nil, err
	}
	opts = normalizeOverrides(opts)
	ext := opts.Extractor
	if ext == nil {
		ext = structure.NewDefaultExtractor()
	}

	r := &report.QualityReport{
		Unit:      u.Name,
		Extractor: ext.Name(),
	}

	extraction, err := ext.Extract(u)
	var issues []rules.Issue
	if err != nil {
		// Failure policy: never raise past the engine boundary. The unit
		// still gets a report, with metrics degraded to line counts.
		r.Degraded = true
		extraction = &structure.Extraction{
			Metrics: structure.Metrics{TotalLines: u.LineCount()},
		}
		issues = append(issues, rules.Issue{
			Severity: rules.SeverityCritical,
			Category: rules.CategoryStructure,
			RuleID:   RuleIDUnparsable,
			Line:     0,
			Message:  "Unparsable source: structural extraction failed",
		})
	} else {
		issues = evaluate(u, cat, extraction, thresholds, opts)
	}

	report.SortIssues(issues, func(id string) int {
		if pos, ok := cat.Position(id); ok {
			return pos
		}
		return cat.Len() // synthetic engine issues sort after catalog rules
	})

	r.Metrics = extraction.Metrics
	r.Issues = issues
	r.Categories = scoring.Aggregate(issues, policy)
	for i := range r.Categories {
		r.Categories[i].Score = report.RoundScore(r.Categories[i].Score)
	}
	r.Overall = report.RoundScore(scoring.Overall(r.Categories))
	r.Verdict = scoring.Classify(r.Overall, r.CriticalCount())
	r.VerdictLabel = r.Verdict.Label()
	return r, nil
}

// evaluate runs every enabled rule. No rule short-circuits another, and
// a panicking rule is isolated to a single low-severity issue naming it.
func evaluate(u *source.Unit, cat *rules.Catalog, x *structure.Extraction, t rules.Thresholds, opts *Options) []rules.Issue {
	rc := &rules.Context{
		Unit:       u,
		Extraction: x,
		Thresholds: t,
	}

	var issues []rules.Issue
	for _, rule := range cat.List() {
		key := strings.ToUpper(rule.ID)
		if opts.Disabled[key] {
			continue
		}
		severity := rule.Severity
		if sev, ok := opts.SeverityOverrides[key]; ok {
			severity = sev
		}

		matches, panicked := runRule(rule, rc)
		if panicked != nil {
			issues = append(issues, rules.Issue{
				Severity: rules.SeverityLow,
				Category: rule.Category,
				RuleID:   RuleIDRulePanic,
				Line:     0,
				Message:  fmt.Sprintf("Rule %s failed internally and was skipped: %v", rule.ID, panicked),
			})
			continue
		}
		for _, m := range matches {
			issues = append(issues, rules.Issue{
				Severity:   severity,
				Category:   rule.Category,
				RuleID:     rule.ID,
				Line:       m.Line,
				Message:    m.Message,
				Evidence:   m.Evidence,
				Suggestion: m.Suggestion,
			})
		}
	}
	return issues
}

// runRule executes one rule predicate, converting a panic into a value
// so one broken rule cannot abort the run.
func runRule(rule rules.Rule, rc *rules.Context) (matches []rules.Match, panicked any) {
	defer func() {
		if rec := recover(); rec != nil {
			matches = nil
			panicked = rec
		}
	}()
	return rule.Check(rc), nil
}

// normalizeOverrides upper-cases override keys so lookups during
// evaluation are case-insensitive. The caller's Options are not mutated.
func normalizeOverrides(opts *Options) *Options {
	if len(opts.Disabled) == 0 && len(opts.SeverityOverrides) == 0 {
		return opts
	}
	norm := *opts
	if len(opts.Disabled) > 0 {
		norm.Disabled = make(map[string]bool, len(opts.Disabled))
		for id, v := range opts.Disabled {
			norm.Disabled[strings.ToUpper(strings.TrimSpace(id))] = v
		}
	}
	if len(opts.SeverityOverrides) > 0 {
		norm.SeverityOverrides = make(map[string]rules.Severity, len(opts.SeverityOverrides))
		for id, sev := range opts.SeverityOverrides {
			norm.SeverityOverrides[strings.ToUpper(strings.TrimSpace(id))] = sev
		}
	}
	return &norm
}

// validateOverrides rejects configuration that references unknown rule
// identifiers; silently ignoring them would make scores misleading.
func validateOverrides(cat *rules.Catalog, opts *Options) error {
	for id := range opts.Disabled {
		if _, ok := cat.Get(id); !ok {
			return fmt.Errorf("configuration disables unknown rule %q", id)
		}
	}
	for id, sev := range opts.SeverityOverrides {
		if _, ok := cat.Get(id); !ok {
			return fmt.Errorf("configuration overrides severity of unknown rule %q", id)
		}
		if !sev.Valid() {
			return fmt.Errorf("configuration sets unknown severity %q for rule %q", sev, id)
		}
	}
	return nil
}
