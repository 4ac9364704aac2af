//go:build cgo

package structure

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"cqa/internal/source"
)

// TreeSitterExtractor uses the tree-sitter Python grammar for exact
// element boundaries. Preferred over the heuristic when CGO is available.
type TreeSitterExtractor struct{}

// NewTreeSitterExtractor creates a grammar-aware extractor.
func NewTreeSitterExtractor() *TreeSitterExtractor {
	return &TreeSitterExtractor{}
}

// Name identifies the extractor in reports and logs.
func (t *TreeSitterExtractor) Name() string { return "tree-sitter" }

// NewDefaultExtractor returns the preferred extractor for this build.
func NewDefaultExtractor() Extractor {
	return NewTreeSitterExtractor()
}

// Extract parses the unit and walks the syntax tree for function and
// class definitions.
func (t *TreeSitterExtractor) Extract(u *source.Unit) (*Extraction, error) {
	if !u.Readable() {
		return nil, ErrUnparsable
	}

	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())
	tree, err := parser.ParseCtx(context.Background(), nil, []byte(u.Text))
	if err != nil {
		return nil, ErrUnparsable
	}

	x := &Extraction{}
	countLines(u, &x.Metrics)

	collectElements(tree.RootNode(), []byte(u.Text), 0, "", x)

	finishMetrics(x)
	return x, nil
}

// collectElements walks the tree depth-first, appending elements in
// source order so extraction order matches the heuristic extractor.
func collectElements(node *sitter.Node, src []byte, depth int, parent string, x *Extraction) {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}

		var kind Kind
		switch child.Type() {
		case "function_definition":
			kind = KindFunction
		case "class_definition":
			kind = KindClass
		default:
			collectElements(child, src, depth, parent, x)
			continue
		}

		name := ""
		if n := child.ChildByFieldName("name"); n != nil {
			name = n.Content(src)
		}

		elem := Element{
			Name:      name,
			Kind:      kind,
			StartLine: int(child.StartPoint().Row) + 1,
			EndLine:   int(child.EndPoint().Row) + 1,
			Depth:     depth,
			Parent:    parent,
		}
		if body := child.ChildByFieldName("body"); body != nil {
			elem.HasDocstring = bodyStartsWithString(body)
		}
		if kind == KindFunction {
			elem.HasAnnotations = definitionAnnotated(child)
		}
		x.Elements = append(x.Elements, elem)

		collectElements(child, src, depth+1, name, x)
	}
}

// bodyStartsWithString reports whether a block's first statement is a
// bare string literal, Python's docstring convention.
func bodyStartsWithString(body *sitter.Node) bool {
	first := body.NamedChild(0)
	if first == nil || first.Type() != "expression_statement" {
		return false
	}
	expr := first.NamedChild(0)
	return expr != nil && strings.HasPrefix(expr.Type(), "string")
}

// definitionAnnotated reports whether a function definition carries a
// return type or any typed parameter.
func definitionAnnotated(fn *sitter.Node) bool {
	if fn.ChildByFieldName("return_type") != nil {
		return true
	}
	params := fn.ChildByFieldName("parameters")
	if params == nil {
		return false
	}
	for i := 0; i < int(params.NamedChildCount()); i++ {
		p := params.NamedChild(i)
		if p == nil {
			continue
		}
		switch p.Type() {
		case "typed_parameter", "typed_default_parameter":
			return true
		}
	}
	return false
}
