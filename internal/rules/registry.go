package rules

import (
	"fmt"
	"strings"
)

// Catalog is an ordered registry of rules. Registration order is the
// tie-break key for issue ordering, so it is fixed per catalog and
// preserved by List.
type Catalog struct {
	rules []Rule
	index map[string]int // UPPER(ruleID) -> position
}

// NewCatalog creates an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// Register appends a rule. Duplicate identifiers, unknown categories,
// and unknown severities are registration errors: a malformed catalog
// must fail construction, not skew scores at analysis time.
func (c *Catalog) Register(r Rule) error {
	key := strings.ToUpper(strings.TrimSpace(r.ID))
	if key == "" {
		return fmt.Errorf("rule has empty identifier")
	}
	if _, dup := c.index[key]; dup {
		return fmt.Errorf("duplicate rule identifier %q", r.ID)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("rule %q: unknown category %q", r.ID, r.Category)
	}
	if !r.Severity.Valid() {
		return fmt.Errorf("rule %q: unknown severity %q", r.ID, r.Severity)
	}
	if r.Check == nil {
		return fmt.Errorf("rule %q: nil check", r.ID)
	}
	c.rules = append(c.rules, r)
	c.index[key] = len(c.rules) - 1
	return nil
}

// mustRegister panics on registration failure; used only for the builtin
// catalog, where a failure is a programming error.
func (c *Catalog) mustRegister(r Rule) {
	if err := c.Register(r); err != nil {
		panic(err)
	}
}

// List returns the rules in registration order. Callers must not modify
// the returned slice.
func (c *Catalog) List() []Rule {
	return c.rules
}

// Get returns a rule by identifier, case-insensitively.
func (c *Catalog) Get(id string) (Rule, bool) {
	idx, ok := c.index[strings.ToUpper(strings.TrimSpace(id))]
	if !ok {
		return Rule{}, false
	}
	return c.rules[idx], true
}

// Position returns the registration position of a rule identifier, used
// as the final issue ordering key.
func (c *Catalog) Position(id string) (int, bool) {
	idx, ok := c.index[strings.ToUpper(strings.TrimSpace(id))]
	return idx, ok
}

// Len returns the number of registered rules.
func (c *Catalog) Len() int {
	return len(c.rules)
}

// DefaultCatalog builds the builtin catalog. Family registration order
// is fixed so reports are reproducible across runs and builds.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	registerStructureRules(c)
	registerErrorHandlingRules(c)
	registerPerformanceRules(c)
	registerSecurityRules(c)
	registerMaintainabilityRules(c)
	registerBestPracticeRules(c)
	return c
}
