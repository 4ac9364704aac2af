package structure

import (
	"strings"

	"cqa/internal/source"
)

// Extractor turns a source unit into structural facts. Implementations
// must be stateless: the same unit always yields the same extraction,
// and one extractor may serve many units concurrently.
type Extractor interface {
	// Name identifies the extraction technique ("tree-sitter", "heuristic").
	Name() string

	// Extract returns the element list and metrics, or ErrUnparsable when
	// the text cannot be decomposed at all.
	Extract(u *source.Unit) (*Extraction, error)
}

// countLines fills the line-classification metrics shared by all extractors.
func countLines(u *source.Unit, m *Metrics) {
	m.TotalLines = u.LineCount()
	for _, raw := range u.Lines() {
		trimmed := strings.TrimSpace(raw)
		switch {
		case trimmed == "":
			m.BlankLines++
		case strings.HasPrefix(trimmed, "#"):
			m.CommentLines++
		default:
			m.CodeLines++
		}
	}
}
