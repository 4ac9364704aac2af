package rules

import (
	"regexp"
	"strings"
)

func registerErrorHandlingRules(c *Catalog) {
	c.mustRegister(Rule{
		ID:       "EH-BARE-EXCEPT",
		Category: CategoryErrorHandling,
		Severity: SeverityHigh,
		Summary:  "Bare except catches everything, including system exits.",
		Check:    checkBareExcept,
	})
	c.mustRegister(Rule{
		ID:       "EH-NO-ERROR-HANDLING",
		Category: CategoryErrorHandling,
		Severity: SeverityMedium,
		Summary:  "I/O calls present but no error handling construct found.",
		Check:    checkNoErrorHandling,
	})
	c.mustRegister(Rule{
		ID:       "EH-MISSING-WITH",
		Category: CategoryErrorHandling,
		Severity: SeverityMedium,
		Summary:  "Resource acquired outside a context manager.",
		Check:    checkMissingWith,
	})
}

var bareExceptRe = regexp.MustCompile(`^except\s*:`)

func checkBareExcept(rc *Context) []Match {
	var out []Match
	for i, raw := range rc.Unit.Lines() {
		if bareExceptRe.MatchString(strings.TrimSpace(raw)) {
			out = append(out, Match{
				Line:       i + 1,
				Message:    "Bare except: catches all exceptions including SystemExit and KeyboardInterrupt",
				Evidence:   strings.TrimSpace(raw),
				Suggestion: "Catch the specific exception types you can handle",
			})
		}
	}
	return out
}

// ioCallRe matches calls that commonly raise on failure.
var ioCallRe = regexp.MustCompile(`\b(?:open|urlopen|connect)\s*\(|\brequests\.\w+\s*\(|\bsocket\.\w+\s*\(|\bsubprocess\.\w+\s*\(`)

func checkNoErrorHandling(rc *Context) []Match {
	if rc.Extraction.Metrics.FunctionCount == 0 {
		return nil
	}

	hasIO := false
	for _, raw := range rc.Unit.Lines() {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if strings.HasPrefix(trimmed, "try:") || strings.HasPrefix(trimmed, "try ") {
			return nil
		}
		if ioCallRe.MatchString(trimmed) {
			hasIO = true
		}
	}
	if !hasIO {
		return nil
	}
	return []Match{{
		Message:    "Unit performs I/O but contains no try/except blocks",
		Suggestion: "Wrap failing operations in try/except and handle or propagate errors",
	}}
}

var openAssignRe = regexp.MustCompile(`=\s*open\s*\(`)

func checkMissingWith(rc *Context) []Match {
	var out []Match
	for i, raw := range rc.Unit.Lines() {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "with ") {
			continue
		}
		if openAssignRe.MatchString(trimmed) {
			out = append(out, Match{
				Line:       i + 1,
				Message:    "File handle opened outside a with block may leak on error",
				Evidence:   trimmed,
				Suggestion: "Use `with open(...) as f:` so the handle is always closed",
			})
		}
	}
	return out
}
