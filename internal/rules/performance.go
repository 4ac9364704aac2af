package rules

import (
	"fmt"
	"strings"
)

func registerPerformanceRules(c *Catalog) {
	c.mustRegister(Rule{
		ID:       "PERF-LOOP-APPEND",
		Category: CategoryPerformance,
		Severity: SeverityLow,
		Summary:  "Accumulation loop mirrors a direct transformation.",
		Check:    checkLoopAppend,
	})
	c.mustRegister(Rule{
		ID:       "PERF-NESTED-LOOP",
		Category: CategoryPerformance,
		Severity: SeverityMedium,
		Summary:  "Nested loops over the same collection suggest quadratic work.",
		Check:    checkNestedLoop,
	})
}

// forLoop is one `for ... in ...:` statement located during a scan.
type forLoop struct {
	line     int // 1-indexed
	indent   int
	iterable string
}

// scanForLoops finds for statements and the iterable expression each
// loops over.
func scanForLoops(lines []string) []forLoop {
	var out []forLoop
	for i, raw := range lines {
		trimmed := strings.TrimSpace(raw)
		if !strings.HasPrefix(trimmed, "for ") && !strings.HasPrefix(trimmed, "async for ") {
			continue
		}
		inIdx := strings.Index(trimmed, " in ")
		colon := strings.LastIndex(trimmed, ":")
		if inIdx < 0 || colon < inIdx {
			continue
		}
		out = append(out, forLoop{
			line:     i + 1,
			indent:   lineIndent(raw),
			iterable: strings.TrimSpace(trimmed[inIdx+4 : colon]),
		})
	}
	return out
}

// bodyRange returns the 1-indexed line range of a loop body: every
// following line indented deeper than the for statement.
func bodyRange(lines []string, loop forLoop) (int, int) {
	start, end := loop.line+1, loop.line
	for n := loop.line + 1; n <= len(lines); n++ {
		raw := lines[n-1]
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if lineIndent(raw) <= loop.indent {
			break
		}
		end = n
	}
	return start, end
}

func checkLoopAppend(rc *Context) []Match {
	lines := rc.Unit.Lines()
	var out []Match
	for _, loop := range scanForLoops(lines) {
		start, end := bodyRange(lines, loop)
		for n := start; n <= end; n++ {
			if strings.Contains(lines[n-1], ".append(") {
				out = append(out, Match{
					Line:       loop.line,
					Message:    "Loop accumulates with .append(); a comprehension expresses this directly",
					Evidence:   strings.TrimSpace(lines[loop.line-1]),
					Suggestion: "Replace the loop with a list comprehension",
				})
				break
			}
		}
	}
	return out
}

func checkNestedLoop(rc *Context) []Match {
	lines := rc.Unit.Lines()
	loops := scanForLoops(lines)
	var out []Match
	for i, outer := range loops {
		if outer.iterable == "" {
			continue
		}
		_, end := bodyRange(lines, outer)
		for _, inner := range loops[i+1:] {
			if inner.line > end {
				break
			}
			if inner.iterable == outer.iterable {
				out = append(out, Match{
					Line:       inner.line,
					Message:    fmt.Sprintf("Nested loop over %q repeats the outer iteration (quadratic behavior)", outer.iterable),
					Evidence:   strings.TrimSpace(lines[inner.line-1]),
					Suggestion: "Restructure with a set, dict, or itertools to avoid the quadratic pass",
				})
			}
		}
	}
	return out
}
