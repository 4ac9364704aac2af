package rules

import (
	"fmt"
	"regexp"
	"strings"
)

func registerBestPracticeRules(c *Catalog) {
	c.mustRegister(Rule{
		ID:       "BP-PRINT-CALL",
		Category: CategoryBestPractices,
		Severity: SeverityLow,
		Summary:  "Console output where a logging facility is expected.",
		Check:    checkPrintCall,
	})
	c.mustRegister(Rule{
		ID:       "BP-LINE-LENGTH",
		Category: CategoryBestPractices,
		Severity: SeverityLow,
		Summary:  "Line exceeds the style-guide length limit.",
		Check:    checkLineLength,
	})
}

var printCallRe = regexp.MustCompile(`(?:^|[^\w.])print\s*\(`)

func checkPrintCall(rc *Context) []Match {
	var out []Match
	for i, raw := range rc.Unit.Lines() {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if printCallRe.MatchString(trimmed) {
			out = append(out, Match{
				Line:       i + 1,
				Message:    "print() call; use the logging module instead",
				Evidence:   trimmed,
				Suggestion: "Route output through logging so verbosity is controllable",
			})
		}
	}
	return out
}

func checkLineLength(rc *Context) []Match {
	var out []Match
	limit := rc.Thresholds.MaxLineLength
	for i, raw := range rc.Unit.Lines() {
		if n := len([]rune(raw)); n > limit {
			out = append(out, Match{
				Line:       i + 1,
				Message:    fmt.Sprintf("Line is %d characters (>%d)", n, limit),
				Suggestion: "Break the line across multiple statements or continuations",
			})
		}
	}
	return out
}
