package symbols

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// extractFile parses content with the grammar registered for file's
// extension and returns every recognized Symbol, ordered by
// (start_line, start_col) as required by spec §4.2.
func extractFile(file string, content []byte) ([]core.Symbol, bool, error) {
	lang, ok := languageFor(strings.ToLower(filepath.Ext(file)))
	if !ok {
		return nil, false, nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang.grammar)
	tree, err := parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, true, core.WrapError(core.KindInternal, "parse "+file, err)
	}
	defer tree.Close()

	w := &walker{lang: lang, content: content, file: file}
	w.walk(tree.RootNode(), nil)

	// The walk visits nodes in source order, so a stable sort on start line
	// keeps symbols that share a line in start-column order.
	sort.SliceStable(w.out, func(i, j int) bool {
		return w.out[i].StartLine < w.out[j].StartLine
	})
	return w.out, true, nil
}

type walker struct {
	lang    *language
	content []byte
	file    string
	out     []core.Symbol
}

// walk descends the AST, tracking the chain of enclosing container names so
// nested symbols (methods inside a class/struct) get a dotted node_path.
func (w *walker) walk(n *sitter.Node, scope []string) {
	if n == nil {
		return
	}

	nodeType := n.Type()

	if symType, isFunc := w.lang.functionNodeTypes[nodeType]; isFunc {
		if sym, ok := w.buildSymbol(n, symType, scope); ok {
			w.out = append(w.out, sym)
		}
	}

	nextScope := scope
	if symType, isContainer := w.lang.containerNodeTypes[nodeType]; isContainer {
		if sym, ok := w.buildSymbol(n, symType, scope); ok {
			w.out = append(w.out, sym)
			nextScope = append(append([]string{}, scope...), sym.Name)
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		w.walk(n.Child(i), nextScope)
	}
}

func (w *walker) buildSymbol(n *sitter.Node, symType core.SymbolType, scope []string) (core.Symbol, bool) {
	nameNode := n.ChildByFieldName(w.lang.nameField)
	var name string
	if nameNode != nil {
		name = nameNode.Content(w.content)
	} else if nameNode = firstIdentifierChild(n); nameNode != nil {
		name = nameNode.Content(w.content)
	} else {
		return core.Symbol{}, false
	}

	nodePath := name
	if len(scope) > 0 {
		nodePath = strings.Join(scope, ".") + "." + name
	}

	return core.Symbol{
		Name:      name,
		NodePath:  nodePath,
		Type:      symType,
		File:      w.file,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Code:      n.Content(w.content),
	}, true
}

// firstIdentifierChild covers grammars (e.g. Go's type_spec) where the name
// isn't exposed under a "name" field but is simply the first identifier
// child.
func firstIdentifierChild(n *sitter.Node) *sitter.Node {
	for i := 0; i < int(n.ChildCount()); i++ {
		c := n.Child(i)
		if c.Type() == "identifier" || c.Type() == "type_identifier" {
			return c
		}
	}
	return nil
}
