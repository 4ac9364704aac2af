package rules

import (
	"fmt"
	"strings"
)

func registerStructureRules(c *Catalog) {
	c.mustRegister(Rule{
		ID:       "STRUCT-LONG-FUNCTION",
		Category: CategoryStructure,
		Severity: SeverityHigh,
		Summary:  "Function length exceeds the hard limit.",
		Check:    checkLongFunction,
	})
	c.mustRegister(Rule{
		ID:       "STRUCT-FUNCTION-LENGTH",
		Category: CategoryStructure,
		Severity: SeverityMedium,
		Summary:  "Function length exceeds the warning threshold.",
		Check:    checkFunctionLengthWarning,
	})
	c.mustRegister(Rule{
		ID:       "STRUCT-DEEP-NESTING",
		Category: CategoryStructure,
		Severity: SeverityMedium,
		Summary:  "Statement nesting is deeper than the configured limit.",
		Check:    checkDeepNesting,
	})
	c.mustRegister(Rule{
		ID:       "STRUCT-LARGE-CLASS",
		Category: CategoryStructure,
		Severity: SeverityMedium,
		Summary:  "Class method count suggests unrelated responsibilities.",
		Check:    checkLargeClass,
	})
	c.mustRegister(Rule{
		ID:       "STRUCT-DUPLICATE-LINES",
		Category: CategoryStructure,
		Severity: SeverityMedium,
		Summary:  "Identical non-trivial lines repeat across the unit.",
		Check:    checkDuplicateLines,
	})
}

func checkLongFunction(rc *Context) []Match {
	var out []Match
	for _, fn := range rc.Extraction.Functions() {
		if n := fn.Lines(); n > rc.Thresholds.MaxFunctionLines {
			out = append(out, Match{
				Line:       fn.StartLine,
				Message:    fmt.Sprintf("Function %q is %d lines (>%d)", fn.Name, n, rc.Thresholds.MaxFunctionLines),
				Evidence:   fn.Name,
				Suggestion: "Split the function into smaller, single-purpose helpers",
			})
		}
	}
	return out
}

func checkFunctionLengthWarning(rc *Context) []Match {
	var out []Match
	for _, fn := range rc.Extraction.Functions() {
		n := fn.Lines()
		if n > rc.Thresholds.WarnFunctionLines && n <= rc.Thresholds.MaxFunctionLines {
			out = append(out, Match{
				Line:       fn.StartLine,
				Message:    fmt.Sprintf("Function %q is %d lines (>%d)", fn.Name, n, rc.Thresholds.WarnFunctionLines),
				Evidence:   fn.Name,
				Suggestion: "Consider extracting helpers to shorten the function",
			})
		}
	}
	return out
}

// checkDeepNesting approximates statement nesting from indentation:
// each four columns past the function's own body indent is one level.
func checkDeepNesting(rc *Context) []Match {
	var out []Match
	for _, fn := range rc.Extraction.Functions() {
		defIndent := lineIndent(rc.Unit.Line(fn.StartLine))
		deepest, deepestLine := 0, 0
		for n := fn.StartLine + 1; n <= fn.EndLine; n++ {
			line := rc.Unit.Line(n)
			if strings.TrimSpace(line) == "" {
				continue
			}
			depth := (lineIndent(line) - defIndent) / 4
			if depth > deepest {
				deepest, deepestLine = depth, n
			}
		}
		// depth 1 is the function body itself
		if deepest-1 > rc.Thresholds.MaxNestingDepth {
			out = append(out, Match{
				Line:       deepestLine,
				Message:    fmt.Sprintf("Function %q nests %d levels deep (>%d)", fn.Name, deepest-1, rc.Thresholds.MaxNestingDepth),
				Evidence:   fn.Name,
				Suggestion: "Flatten control flow with early returns or extracted helpers",
			})
		}
	}
	return out
}

func checkLargeClass(rc *Context) []Match {
	var out []Match
	for _, cls := range rc.Extraction.Classes() {
		if n := rc.Extraction.MethodCount(cls); n > rc.Thresholds.MaxClassMethods {
			out = append(out, Match{
				Line:       cls.StartLine,
				Message:    fmt.Sprintf("Class %q has %d methods (>%d)", cls.Name, n, rc.Thresholds.MaxClassMethods),
				Evidence:   cls.Name,
				Suggestion: "Split the class along its distinct responsibilities",
			})
		}
	}
	return out
}

// checkDuplicateLines flags stripped lines longer than 20 characters
// that appear more than twice, one finding per distinct line.
func checkDuplicateLines(rc *Context) []Match {
	firstSeen := map[string]int{}
	count := map[string]int{}
	for i, raw := range rc.Unit.Lines() {
		stripped := strings.TrimSpace(raw)
		if len(stripped) <= 20 || strings.HasPrefix(stripped, "#") {
			continue
		}
		if _, ok := firstSeen[stripped]; !ok {
			firstSeen[stripped] = i + 1
		}
		count[stripped]++
	}

	var out []Match
	for _, raw := range rc.Unit.Lines() {
		stripped := strings.TrimSpace(raw)
		if count[stripped] > 2 && firstSeen[stripped] > 0 {
			out = append(out, Match{
				Line:       firstSeen[stripped],
				Message:    fmt.Sprintf("Line repeats %d times in this unit", count[stripped]),
				Evidence:   stripped,
				Suggestion: "Extract the repeated logic into a shared helper",
			})
			firstSeen[stripped] = 0 // report each distinct line once
		}
	}
	return out
}

func lineIndent(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 8 - w%8
		default:
			return w
		}
	}
	return w
}
