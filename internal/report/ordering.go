package report

import (
	"sort"

	"cqa/internal/rules"
)

// SortIssues orders issues deterministically: severity desc
// (critical > high > medium > low), then ascending line number, then
// catalog registration order. Identical input and catalog always yield
// the same sequence, regardless of rule execution order.
func SortIssues(issues []rules.Issue, position func(ruleID string) int) {
	sort.SliceStable(issues, func(i, j int) bool {
		if wi, wj := issues[i].Severity.Weight(), issues[j].Severity.Weight(); wi != wj {
			return wi > wj
		}
		if issues[i].Line != issues[j].Line {
			return issues[i].Line < issues[j].Line
		}
		return position(issues[i].RuleID) < position(issues[j].RuleID)
	})
}
