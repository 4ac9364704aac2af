// Package structure extracts structural facts (functions, classes, line
// metrics) from Python source without executing it.
//
// Two extractors exist: a tree-sitter based one (requires CGO) and a pure-Go
// indentation heuristic. The heuristic is a best-effort approximation of
// block boundaries, not a full parse; both satisfy the same output contract.
package structure

import "errors"

// ErrUnparsable is returned when the source cannot be structurally
// decomposed at all (invalid encoding, binary content). Callers degrade
// to a line-count-only report instead of failing the run.
var ErrUnparsable = errors.New("source is not structurally parsable")

// Kind distinguishes the element types we extract.
type Kind string

const (
	KindFunction Kind = "function"
	KindClass    Kind = "class"
)

// Element is one extracted function or class. Immutable after extraction.
type Element struct {
	// Name is the declared identifier.
	Name string `json:"name"`

	// Kind is function or class.
	Kind Kind `json:"kind"`

	// StartLine and EndLine are 1-indexed physical line bounds, EndLine >= StartLine.
	StartLine int `json:"startLine"`
	EndLine   int `json:"endLine"`

	// Depth is the nesting depth: 0 for top-level elements, 1 for a method
	// inside a top-level class, and so on.
	Depth int `json:"depth"`

	// Parent is the name of the enclosing element, "" at top level.
	Parent string `json:"parent,omitempty"`

	// HasDocstring reports whether the body opens with a string literal.
	HasDocstring bool `json:"hasDocstring"`

	// HasAnnotations reports whether the signature carries any parameter or
	// return type annotation. Always false for classes.
	HasAnnotations bool `json:"hasAnnotations"`
}

// Lines returns the physical length of the element.
func (e Element) Lines() int {
	return e.EndLine - e.StartLine + 1
}

// IsPublic reports whether the element is part of the public surface
// by Python convention (no leading underscore, dunders excluded).
func (e Element) IsPublic() bool {
	if e.Name == "" {
		return false
	}
	return e.Name[0] != '_'
}

// Metrics are the scalar facts extracted alongside the element list.
type Metrics struct {
	TotalLines        int     `json:"totalLines"`
	CodeLines         int     `json:"codeLines"`
	CommentLines      int     `json:"commentLines"`
	BlankLines        int     `json:"blankLines"`
	FunctionCount     int     `json:"functionCount"`
	ClassCount        int     `json:"classCount"`
	MaxFunctionLength int     `json:"maxFunctionLength"`
	AvgFunctionLength float64 `json:"avgFunctionLength"`
}

// Extraction is the full output of a structural pass over one unit.
type Extraction struct {
	Elements []Element `json:"elements"`
	Metrics  Metrics   `json:"metrics"`
}

// Functions returns only the function elements, in extraction order.
func (x *Extraction) Functions() []Element {
	var out []Element
	for _, e := range x.Elements {
		if e.Kind == KindFunction {
			out = append(out, e)
		}
	}
	return out
}

// Classes returns only the class elements, in extraction order.
func (x *Extraction) Classes() []Element {
	var out []Element
	for _, e := range x.Elements {
		if e.Kind == KindClass {
			out = append(out, e)
		}
	}
	return out
}

// MethodCount returns the number of functions nested directly under the
// given class element.
func (x *Extraction) MethodCount(class Element) int {
	n := 0
	for _, e := range x.Elements {
		if e.Kind == KindFunction && e.Parent == class.Name && e.Depth == class.Depth+1 &&
			e.StartLine > class.StartLine && e.EndLine <= class.EndLine {
			n++
		}
	}
	return n
}
