package structure

import (
	"strings"

	"cqa/internal/source"
)

// HeuristicExtractor derives element boundaries from indentation. It is
// always available (no CGO) and serves as the fallback when the
// tree-sitter extractor is not compiled in. Block boundaries are a
// best-effort approximation of the grammar, which is the accepted
// trade-off for a dependency-free pass.
type HeuristicExtractor struct{}

// NewHeuristicExtractor creates an indentation-based extractor.
func NewHeuristicExtractor() *HeuristicExtractor {
	return &HeuristicExtractor{}
}

// Name identifies the extractor in reports and logs.
func (h *HeuristicExtractor) Name() string { return "heuristic" }

// openElement tracks an element whose block is still open during the scan.
type openElement struct {
	elem        Element
	indent      int
	lastCode    int  // last code line seen inside the block
	bodySeen    bool // first body line consumed (docstring check done)
	elementsIdx int  // position reserved in the output slice
}

// Extract scans the unit line by line and returns all functions and
// classes with their line ranges, plus the scalar metrics.
func (h *HeuristicExtractor) Extract(u *source.Unit) (*Extraction, error) {
	if !u.Readable() {
		return nil, ErrUnparsable
	}

	x := &Extraction{}
	x.Metrics.TotalLines = u.LineCount()

	var stack []*openElement
	inString := "" // active triple-quote delimiter, "" when outside

	closeTo := func(indent int) {
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if indent > top.indent {
				break
			}
			top.elem.EndLine = top.lastCode
			x.Elements[top.elementsIdx] = top.elem
			stack = stack[:len(stack)-1]
		}
	}

	lines := u.Lines()
	for i, raw := range lines {
		lineno := i + 1
		trimmed := strings.TrimSpace(raw)

		// Triple-quoted strings can contain things that look like
		// declarations; skip structure handling while inside one.
		if inString != "" {
			x.Metrics.CodeLines++
			if strings.Contains(trimmed, inString) {
				inString = ""
			}
			markCode(stack, lineno)
			continue
		}

		switch {
		case trimmed == "":
			x.Metrics.BlankLines++
			continue
		case strings.HasPrefix(trimmed, "#"):
			x.Metrics.CommentLines++
			continue
		}
		x.Metrics.CodeLines++

		indent := indentWidth(raw)
		closeTo(indent)

		if len(stack) > 0 {
			top := stack[len(stack)-1]
			if !top.bodySeen {
				top.bodySeen = true
				top.elem.HasDocstring = isDocstringStart(trimmed)
			}
		}
		markCode(stack, lineno)

		if delim, terminated := tripleQuoteOpen(trimmed); !terminated {
			inString = delim
		}

		name, kind, ok := declaration(trimmed)
		if !ok {
			continue
		}

		elem := Element{
			Name:      name,
			Kind:      kind,
			StartLine: lineno,
			EndLine:   lineno,
			Depth:     len(stack),
		}
		if len(stack) > 0 {
			elem.Parent = stack[len(stack)-1].elem.Name
		}
		if kind == KindFunction {
			elem.HasAnnotations = signatureAnnotated(lines, i)
		}

		x.Elements = append(x.Elements, elem)
		stack = append(stack, &openElement{
			elem:        elem,
			indent:      indent,
			lastCode:    lineno,
			elementsIdx: len(x.Elements) - 1,
		})
	}
	closeTo(-1)

	finishMetrics(x)
	return x, nil
}

// markCode records a code line on every open element so EndLine lands on
// the last real statement instead of trailing blanks.
func markCode(stack []*openElement, lineno int) {
	for _, oe := range stack {
		oe.lastCode = lineno
	}
}

func finishMetrics(x *Extraction) {
	total, max := 0, 0
	for _, e := range x.Elements {
		switch e.Kind {
		case KindFunction:
			x.Metrics.FunctionCount++
			n := e.Lines()
			total += n
			if n > max {
				max = n
			}
		case KindClass:
			x.Metrics.ClassCount++
		}
	}
	x.Metrics.MaxFunctionLength = max
	if x.Metrics.FunctionCount > 0 {
		x.Metrics.AvgFunctionLength = float64(total) / float64(x.Metrics.FunctionCount)
	}
}

// indentWidth measures leading whitespace with tabs expanded to 8 columns,
// Python's own tab semantics.
func indentWidth(line string) int {
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

// declaration recognizes `def`, `async def`, and `class` statements and
// returns the declared name.
func declaration(trimmed string) (string, Kind, bool) {
	rest := trimmed
	kind := Kind("")
	switch {
	case strings.HasPrefix(rest, "async def "):
		kind, rest = KindFunction, rest[len("async def "):]
	case strings.HasPrefix(rest, "def "):
		kind, rest = KindFunction, rest[len("def "):]
	case strings.HasPrefix(rest, "class "):
		kind, rest = KindClass, rest[len("class "):]
	default:
		return "", "", false
	}

	end := strings.IndexAny(rest, "(: \t")
	if end == 0 {
		return "", "", false
	}
	if end < 0 {
		end = len(rest)
	}
	name := rest[:end]
	if !identLike(name) {
		return "", "", false
	}
	return name, kind, true
}

func identLike(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// isDocstringStart reports whether a body line opens a string literal,
// ignoring raw/format prefixes.
func isDocstringStart(trimmed string) bool {
	s := strings.TrimLeft(trimmed, "rRbBuUfF")
	return strings.HasPrefix(s, `"`) || strings.HasPrefix(s, `'`)
}

// tripleQuoteOpen reports whether the line opens a triple-quoted string
// that does not terminate on the same line.
func tripleQuoteOpen(trimmed string) (delim string, terminated bool) {
	for _, d := range []string{`"""`, `'''`} {
		idx := strings.Index(trimmed, d)
		if idx < 0 {
			continue
		}
		rest := trimmed[idx+len(d):]
		if strings.Contains(rest, d) {
			return d, true
		}
		return d, false
	}
	return "", true
}

// signatureAnnotated inspects a def signature, following continuation
// lines until the closing colon, and reports whether any parameter or
// return annotation is present.
func signatureAnnotated(lines []string, defIdx int) bool {
	const maxSignatureLines = 20

	var sig strings.Builder
	depth := 0
	for i := defIdx; i < len(lines) && i < defIdx+maxSignatureLines; i++ {
		line := strings.TrimSpace(lines[i])
		sig.WriteString(line)
		depth += strings.Count(line, "(") - strings.Count(line, ")")
		if depth <= 0 && strings.HasSuffix(line, ":") && i > defIdx {
			break
		}
		if i == defIdx && depth <= 0 && strings.HasSuffix(line, ":") {
			break
		}
		sig.WriteString(" ")
	}

	s := sig.String()
	if strings.Contains(s, "->") {
		return true
	}
	open := strings.Index(s, "(")
	if open < 0 {
		return false
	}
	closeIdx := strings.LastIndex(s, ")")
	if closeIdx < open {
		closeIdx = len(s)
	}
	params := s[open+1 : closeIdx]
	// A colon inside the parameter list is an annotation; default values
	// and bare names are not.
	return strings.Contains(params, ":")
}
