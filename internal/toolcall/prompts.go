package toolcall

import (
	"context"
	"encoding/json"

	"github.com/sevigo/codewarden-kit/internal/core"
)

// Prompt is a canned multi-step invocation: a named sequence of catalog
// tool calls a client can run in order instead of discovering the sequence
// itself, restored from the original MCP server's list_prompts/get_prompt
// surface alongside list_tools/call_tool.
type Prompt struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

var prompts = []Prompt{
	{
		Name:        "onboarding_tour",
		Description: "Get oriented in a freshly opened repository: its file tree, then a summary of its entry point.",
		Steps:       []string{"open_repository", "get_file_tree", "get_code_summary"},
	},
	{
		Name:        "trace_symbol",
		Description: "Find a symbol's definition and every place it's used.",
		Steps:       []string{"extract_symbols", "find_symbol_usages"},
	},
	{
		Name:        "dependency_sweep",
		Description: "Map what a file imports before editing it.",
		Steps:       []string{"get_file_content", "analyze_dependencies"},
	},
}

func promptByName(name string) (Prompt, bool) {
	for _, p := range prompts {
		if p.Name == name {
			return p, true
		}
	}
	return Prompt{}, false
}

func (g *Gateway) listPrompts(_ context.Context, _ json.RawMessage) (Response, error) {
	encoded, _ := json.Marshal(prompts)
	return Response{Content: string(encoded)}, nil
}

func (g *Gateway) getPrompt(_ context.Context, params json.RawMessage) (Response, error) {
	type req struct {
		Name string `json:"name"`
	}
	p, err := decode[req](params)
	if err != nil {
		return Response{}, err
	}
	prompt, ok := promptByName(p.Name)
	if !ok {
		return Response{}, core.NewError(core.KindNotFound, "no such prompt: "+p.Name)
	}
	encoded, _ := json.Marshal(prompt)
	return Response{Content: string(encoded)}, nil
}
