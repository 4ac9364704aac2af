package rules

import (
	"fmt"
	"regexp"
	"strings"

	"cqa/internal/secrets"
)

func registerSecurityRules(c *Catalog) {
	c.mustRegister(Rule{
		ID:       "SEC-HARDCODED-SECRET",
		Category: CategorySecurity,
		Severity: SeverityCritical,
		Summary:  "Literal credential embedded in source.",
		Check:    checkHardcodedSecret,
	})
	c.mustRegister(Rule{
		ID:       "SEC-DYNAMIC-EXEC",
		Category: CategorySecurity,
		Severity: SeverityHigh,
		Summary:  "Dynamic code execution primitive in use.",
		Check:    checkDynamicExec,
	})
	c.mustRegister(Rule{
		ID:       "SEC-PATH-CONCAT",
		Category: CategorySecurity,
		Severity: SeverityMedium,
		Summary:  "Filesystem path built by string concatenation.",
		Check:    checkPathConcat,
	})
}

func checkHardcodedSecret(rc *Context) []Match {
	var out []Match
	for i, raw := range rc.Unit.Lines() {
		for _, m := range secrets.ScanLine(raw) {
			out = append(out, Match{
				Line:       i + 1,
				Message:    fmt.Sprintf("%s detected (%s)", m.Pattern.Description, m.Pattern.Name),
				Evidence:   m.Redacted,
				Suggestion: "Move the credential to an environment variable or secret store",
			})
		}
	}
	return out
}

var dynamicExecRe = regexp.MustCompile(`(?:^|[^\w.])(eval|exec)\s*\(`)

func checkDynamicExec(rc *Context) []Match {
	var out []Match
	for i, raw := range rc.Unit.Lines() {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if groups := dynamicExecRe.FindStringSubmatch(trimmed); groups != nil {
			out = append(out, Match{
				Line:       i + 1,
				Message:    fmt.Sprintf("Use of %s() executes arbitrary code", groups[1]),
				Evidence:   trimmed,
				Suggestion: "Replace dynamic execution with an explicit dispatch table or ast.literal_eval",
			})
		}
	}
	return out
}

// pathConcatRe matches filesystem calls whose argument is built with +.
var pathConcatRe = regexp.MustCompile(`\b(?:open|os\.remove|os\.rmdir|os\.makedirs|os\.listdir|shutil\.\w+)\s*\([^)]*['"][^)]*\+|\+\s*[^)]*['"][^'"]*/`)

func checkPathConcat(rc *Context) []Match {
	var out []Match
	for i, raw := range rc.Unit.Lines() {
		trimmed := strings.TrimSpace(raw)
		if strings.HasPrefix(trimmed, "#") {
			continue
		}
		if pathConcatRe.MatchString(trimmed) {
			out = append(out, Match{
				Line:       i + 1,
				Message:    "Path assembled by concatenation; traversal sequences are not sanitized",
				Evidence:   trimmed,
				Suggestion: "Build paths with os.path.join or pathlib and validate the result",
			})
		}
	}
	return out
}
