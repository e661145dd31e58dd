// Package symbols implements SymbolIndex: on-demand, per-file extraction of
// named code entities and their spans, driven by tree-sitter grammars.
package symbols

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/java"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	tstypescript "github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// language binds a tree-sitter grammar to the file extensions it handles and
// the node-type → SymbolType table used to recognize definitions.
type language struct {
	name       string
	extensions []string
	grammar    *sitter.Language

	// functionNodeTypes maps a grammar node type (e.g. "function_declaration")
	// to the SymbolType it represents.
	functionNodeTypes map[string]core.SymbolType
	// containerNodeTypes maps node types that introduce a named scope whose
	// children's node_path is prefixed with the container's name (classes,
	// interfaces, structs via their type_spec wrapper for Go).
	containerNodeTypes map[string]core.SymbolType
	// nameField is the tree-sitter field name holding the identifier for
	// both function and container nodes in this grammar.
	nameField string
}

var registry = buildRegistry()

func buildRegistry() map[string]*language {
	langs := []*language{
		{
			name:       "go",
			extensions: []string{".go"},
			grammar:    golang.GetLanguage(),
			nameField:  "name",
			functionNodeTypes: map[string]core.SymbolType{
				"function_declaration": core.SymbolFunction,
				"method_declaration":   core.SymbolMethod,
			},
			containerNodeTypes: map[string]core.SymbolType{
				"type_spec": core.SymbolClass,
			},
		},
		{
			name:       "python",
			extensions: []string{".py"},
			grammar:    python.GetLanguage(),
			nameField:  "name",
			functionNodeTypes: map[string]core.SymbolType{
				"function_definition": core.SymbolFunction,
			},
			containerNodeTypes: map[string]core.SymbolType{
				"class_definition": core.SymbolClass,
			},
		},
		{
			name:       "javascript",
			extensions: []string{".js", ".jsx", ".mjs"},
			grammar:    javascript.GetLanguage(),
			nameField:  "name",
			functionNodeTypes: map[string]core.SymbolType{
				"function_declaration": core.SymbolFunction,
				"method_definition":    core.SymbolMethod,
			},
			containerNodeTypes: map[string]core.SymbolType{
				"class_declaration": core.SymbolClass,
			},
		},
		{
			name:       "typescript",
			extensions: []string{".ts", ".tsx"},
			grammar:    tstypescript.GetLanguage(),
			nameField:  "name",
			functionNodeTypes: map[string]core.SymbolType{
				"function_declaration": core.SymbolFunction,
				"method_definition":    core.SymbolMethod,
			},
			containerNodeTypes: map[string]core.SymbolType{
				"class_declaration":     core.SymbolClass,
				"interface_declaration": core.SymbolInterface,
			},
		},
		{
			name:       "rust",
			extensions: []string{".rs"},
			grammar:    rust.GetLanguage(),
			nameField:  "name",
			functionNodeTypes: map[string]core.SymbolType{
				"function_item": core.SymbolFunction,
			},
			containerNodeTypes: map[string]core.SymbolType{
				"struct_item": core.SymbolClass,
				"trait_item":  core.SymbolInterface,
				"impl_item":   core.SymbolClass,
			},
		},
		{
			name:       "java",
			extensions: []string{".java"},
			grammar:    java.GetLanguage(),
			nameField:  "name",
			functionNodeTypes: map[string]core.SymbolType{
				"method_declaration": core.SymbolMethod,
			},
			containerNodeTypes: map[string]core.SymbolType{
				"class_declaration":     core.SymbolClass,
				"interface_declaration": core.SymbolInterface,
			},
		},
	}

	reg := make(map[string]*language, 16)
	for _, l := range langs {
		for _, ext := range l.extensions {
			reg[ext] = l
		}
	}
	return reg
}

// SupportedExtensions returns every file extension with a registered
// grammar, in no particular order.
func SupportedExtensions() []string {
	exts := make([]string, 0, len(registry))
	for ext := range registry {
		exts = append(exts, ext)
	}
	return exts
}

func languageFor(ext string) (*language, bool) {
	l, ok := registry[ext]
	return l, ok
}
