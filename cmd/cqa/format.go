package main

import (
	"fmt"
	"strings"

	"cqa/internal/report"
	"cqa/internal/rules"
	"cqa/internal/scoring"
)

// renderReports formats a batch of reports in the requested format.
func renderReports(reports []*report.QualityReport, format string) (string, error) {
	switch format {
	case "human":
		var b strings.Builder
		for i, r := range reports {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(renderHuman(r))
		}
		return b.String(), nil
	case "json":
		return renderJSON(reports)
	case "markdown":
		var b strings.Builder
		for _, r := range reports {
			b.WriteString(renderMarkdown(r))
		}
		return b.String(), nil
	case "sarif":
		return renderSARIF(reports)
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

func renderJSON(reports []*report.QualityReport) (string, error) {
	var b strings.Builder
	for _, r := range reports {
		data, err := report.EncodeJSON(r)
		if err != nil {
			return "", err
		}
		b.Write(data)
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

const reportRuler = "================================================================================"

// renderHuman produces the terminal summary.
func renderHuman(r *report.QualityReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", reportRuler)
	fmt.Fprintf(&b, "CODE QUALITY REPORT - %s\n", r.Unit)
	fmt.Fprintf(&b, "%s\n\n", reportRuler)

	fmt.Fprintf(&b, "Overall Quality Score: %s/10 %s\n\n", report.FormatScore(r.Overall), scoring.Stars(r.Overall))

	b.WriteString("Category Scores:\n")
	for _, cs := range r.Categories {
		fmt.Fprintf(&b, "  - %-16s %s/10\n", cs.Title+":", report.FormatScore(cs.Score))
	}

	b.WriteString("\nCode Metrics:\n")
	fmt.Fprintf(&b, "  - Lines of Code: %d\n", r.Metrics.TotalLines)
	fmt.Fprintf(&b, "  - Functions: %d\n", r.Metrics.FunctionCount)
	fmt.Fprintf(&b, "  - Classes: %d\n", r.Metrics.ClassCount)
	if r.Metrics.AvgFunctionLength > 0 {
		fmt.Fprintf(&b, "  - Avg Function Length: %s lines\n", report.FormatFloat(r.Metrics.AvgFunctionLength))
	}

	fmt.Fprintf(&b, "\nIssues Found: %d\n", len(r.Issues))
	for _, sev := range rules.Severities {
		issues := issuesAt(r, sev)
		if len(issues) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n  %s (%d):\n", strings.ToUpper(string(sev)), len(issues))
		shown := issues
		if len(shown) > 5 {
			shown = shown[:5]
		}
		for _, issue := range shown {
			if issue.Line > 0 {
				fmt.Fprintf(&b, "    - Line %d: %s\n", issue.Line, issue.Message)
			} else {
				fmt.Fprintf(&b, "    - %s\n", issue.Message)
			}
		}
		if rest := len(issues) - len(shown); rest > 0 {
			fmt.Fprintf(&b, "    ... and %d more\n", rest)
		}
	}

	fmt.Fprintf(&b, "\n%s\n", reportRuler)
	fmt.Fprintf(&b, "%s\n", r.VerdictLabel)
	fmt.Fprintf(&b, "%s\n", reportRuler)
	return b.String()
}

// renderMarkdown produces a Markdown document for one report.
func renderMarkdown(r *report.QualityReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Code Quality Report: %s\n\n", r.Unit)
	fmt.Fprintf(&b, "**Overall score:** %s/10 %s\n\n", report.FormatScore(r.Overall), scoring.Stars(r.Overall))
	fmt.Fprintf(&b, "**Verdict:** %s\n\n", r.VerdictLabel)

	b.WriteString("## Category Scores\n\n")
	b.WriteString("| Category | Weight | Score |\n|---|---|---|\n")
	for _, cs := range r.Categories {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", cs.Title, report.FormatFloat(cs.Weight), report.FormatScore(cs.Score))
	}

	fmt.Fprintf(&b, "\n## Issues (%d)\n\n", len(r.Issues))
	if len(r.Issues) == 0 {
		b.WriteString("No issues found.\n")
	} else {
		b.WriteString("| Severity | Rule | Line | Message |\n|---|---|---|---|\n")
		for _, issue := range r.Issues {
			line := "-"
			if issue.Line > 0 {
				line = fmt.Sprintf("%d", issue.Line)
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", issue.Severity, issue.RuleID, line, issue.Message)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func issuesAt(r *report.QualityReport, sev rules.Severity) []rules.Issue {
	var out []rules.Issue
	for _, issue := range r.Issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}
