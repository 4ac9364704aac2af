//go:build !cgo

package structure

// NewDefaultExtractor returns the preferred extractor for this build.
// Without CGO the tree-sitter grammar is unavailable, so the indentation
// heuristic serves all extractions.
func NewDefaultExtractor() Extractor {
	return NewHeuristicExtractor()
}
