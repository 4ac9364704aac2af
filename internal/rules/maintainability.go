package rules

import (
	"fmt"
	"strings"

	"cqa/internal/structure"
)

func registerMaintainabilityRules(c *Catalog) {
	c.mustRegister(Rule{
		ID:       "MAINT-CLASS-DOCSTRING",
		Category: CategoryMaintainability,
		Severity: SeverityMedium,
		Summary:  "Public class without a docstring.",
		Check:    checkClassDocstring,
	})
	c.mustRegister(Rule{
		ID:       "MAINT-FUNC-DOCSTRING",
		Category: CategoryMaintainability,
		Severity: SeverityLow,
		Summary:  "Public function without a docstring.",
		Check:    checkFuncDocstring,
	})
	c.mustRegister(Rule{
		ID:       "MAINT-TYPE-HINTS",
		Category: CategoryMaintainability,
		Severity: SeverityLow,
		Summary:  "Public function without type annotations.",
		Check:    checkTypeHints,
	})
	c.mustRegister(Rule{
		ID:       "MAINT-NAMING",
		Category: CategoryMaintainability,
		Severity: SeverityLow,
		Summary:  "Identifier casing does not follow convention.",
		Check:    checkNaming,
	})
}

func checkClassDocstring(rc *Context) []Match {
	if !rc.Thresholds.RequireDocstrings {
		return nil
	}
	var out []Match
	for _, cls := range rc.Extraction.Classes() {
		if cls.IsPublic() && !cls.HasDocstring {
			out = append(out, Match{
				Line:       cls.StartLine,
				Message:    fmt.Sprintf("Public class %q has no docstring", cls.Name),
				Evidence:   cls.Name,
				Suggestion: "Document the class's responsibility in a docstring",
			})
		}
	}
	return out
}

func checkFuncDocstring(rc *Context) []Match {
	if !rc.Thresholds.RequireDocstrings {
		return nil
	}
	var out []Match
	for _, fn := range rc.Extraction.Functions() {
		if fn.IsPublic() && !fn.HasDocstring {
			out = append(out, Match{
				Line:       fn.StartLine,
				Message:    fmt.Sprintf("Public function %q has no docstring", fn.Name),
				Evidence:   fn.Name,
				Suggestion: "Describe the function's contract in a docstring",
			})
		}
	}
	return out
}

func checkTypeHints(rc *Context) []Match {
	if !rc.Thresholds.RequireTypeHints {
		return nil
	}
	var out []Match
	for _, fn := range rc.Extraction.Functions() {
		if fn.IsPublic() && !fn.HasAnnotations {
			out = append(out, Match{
				Line:       fn.StartLine,
				Message:    fmt.Sprintf("Public function %q has no type annotations", fn.Name),
				Evidence:   fn.Name,
				Suggestion: "Annotate parameters and the return type",
			})
		}
	}
	return out
}

func checkNaming(rc *Context) []Match {
	var out []Match
	for _, e := range rc.Extraction.Elements {
		switch e.Kind {
		case structure.KindFunction:
			if !snakeCase(e.Name) && !dunder(e.Name) {
				out = append(out, Match{
					Line:       e.StartLine,
					Message:    fmt.Sprintf("Function %q should use snake_case", e.Name),
					Evidence:   e.Name,
					Suggestion: "Rename to snake_case",
				})
			}
		case structure.KindClass:
			if !pascalCase(e.Name) {
				out = append(out, Match{
					Line:       e.StartLine,
					Message:    fmt.Sprintf("Class %q should use PascalCase", e.Name),
					Evidence:   e.Name,
					Suggestion: "Rename to PascalCase",
				})
			}
		}
	}
	return out
}

func snakeCase(name string) bool {
	return name == strings.ToLower(name)
}

func dunder(name string) bool {
	return strings.HasPrefix(name, "__") && strings.HasSuffix(name, "__")
}

func pascalCase(name string) bool {
	if name == "" {
		return true
	}
	if name[0] < 'A' || name[0] > 'Z' {
		return false
	}
	return !strings.Contains(name, "_")
}
