// Package rules defines the detection rule model and the builtin catalog.
//
// A rule is a tagged record: identifier, category, severity, and a pure
// predicate over the extracted facts. There is no rule hierarchy; the
// catalog is a flat registry and configuration overrides severity or
// enablement without subclassing.
package rules

import (
	"cqa/internal/source"
	"cqa/internal/structure"
)

// Category is one of the six fixed quality dimensions.
type Category string

const (
	CategoryStructure       Category = "structure"
	CategoryErrorHandling   Category = "error_handling"
	CategoryPerformance     Category = "performance"
	CategorySecurity        Category = "security"
	CategoryMaintainability Category = "maintainability"
	CategoryBestPractices   Category = "best_practices"
)

// Categories lists all categories in canonical report order.
var Categories = []Category{
	CategoryStructure,
	CategoryErrorHandling,
	CategoryPerformance,
	CategorySecurity,
	CategoryMaintainability,
	CategoryBestPractices,
}

// Title returns the human-readable category name.
func (c Category) Title() string {
	switch c {
	case CategoryStructure:
		return "Structure"
	case CategoryErrorHandling:
		return "Error Handling"
	case CategoryPerformance:
		return "Performance"
	case CategorySecurity:
		return "Security"
	case CategoryMaintainability:
		return "Maintainability"
	case CategoryBestPractices:
		return "Best Practices"
	default:
		return string(c)
	}
}

// Valid reports whether c is one of the six fixed categories.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Severity is the ordinal issue priority.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// Severities lists all severities from most to least severe.
var Severities = []Severity{SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow}

// Weight returns a numeric weight for sorting: critical > high > medium > low.
func (s Severity) Weight() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// Valid reports whether s is a known severity.
func (s Severity) Valid() bool {
	return s.Weight() > 0
}

// Thresholds are the tunable knobs the structural rules read. Defaults
// are a starting policy, not constants; configuration overrides them.
type Thresholds struct {
	// MaxFunctionLines flags a function outright when exceeded.
	MaxFunctionLines int `json:"maxFunctionLines" mapstructure:"maxFunctionLines"`

	// WarnFunctionLines is the warning-tier length threshold.
	WarnFunctionLines int `json:"warnFunctionLines" mapstructure:"warnFunctionLines"`

	// MaxNestingDepth is the deepest accepted statement nesting inside a function.
	MaxNestingDepth int `json:"maxNestingDepth" mapstructure:"maxNestingDepth"`

	// MaxClassMethods approximates a class doing unrelated work.
	MaxClassMethods int `json:"maxClassMethods" mapstructure:"maxClassMethods"`

	// MaxLineLength is the style-guide line length limit.
	MaxLineLength int `json:"maxLineLength" mapstructure:"maxLineLength"`

	// RequireDocstrings enables the docstring coverage rules.
	RequireDocstrings bool `json:"requireDocstrings" mapstructure:"requireDocstrings"`

	// RequireTypeHints enables the type annotation rule.
	RequireTypeHints bool `json:"requireTypeHints" mapstructure:"requireTypeHints"`
}

// DefaultThresholds returns the default structural thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxFunctionLines:  100,
		WarnFunctionLines: 50,
		MaxNestingDepth:   4,
		MaxClassMethods:   10,
		MaxLineLength:     120,
		RequireDocstrings: true,
		RequireTypeHints:  true,
	}
}

// Context is the read-only input every rule predicate sees.
type Context struct {
	Unit       *source.Unit
	Extraction *structure.Extraction
	Thresholds Thresholds
}

// Match is one site a rule fired at. Line 0 means the finding applies to
// the whole unit rather than a single line.
type Match struct {
	Line       int
	Message    string
	Evidence   string
	Suggestion string
}

// Rule is a named, versionless unit of detection. Predicates must be
// pure and side-effect-free: identical input always yields identical
// matches, so rules may run in any order.
type Rule struct {
	ID       string
	Category Category
	Severity Severity
	Summary  string
	Check    func(rc *Context) []Match
}

// Issue is one rule match, immutable once created.
type Issue struct {
	Severity   Severity `json:"severity"`
	Category   Category `json:"category"`
	RuleID     string   `json:"ruleId"`
	Line       int      `json:"line"`
	Message    string   `json:"message"`
	Evidence   string   `json:"evidence,omitempty"`
	Suggestion string   `json:"suggestion,omitempty"`
}
