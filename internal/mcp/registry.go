// ABOUTME: Registry of tools and prompts exposed over MCP.
// ABOUTME: Registration happens at startup; lookups are safe for concurrent use.

package mcp

import (
	"context"
	"encoding/json"
	"sync"
)

// ToolDefinition is the LLM-facing schema for one tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema json.RawMessage
}

// ToolHandler executes a tool call. The input is the raw JSON arguments
// object; the returned string is the tool output text relayed to the caller.
// Handlers must be safe for concurrent use and respect context cancellation.
type ToolHandler func(ctx context.Context, input json.RawMessage) (string, error)

// Tool pairs a definition with its handler.
type Tool struct {
	Definition ToolDefinition
	Handler    ToolHandler
}

// Prompt is a named, parameterless static text resource.
type Prompt struct {
	Name        string
	Description string
	Text        string
}

// Registry holds the tools and prompts the server exposes. Listing order
// matches registration order.
type Registry struct {
	mu          sync.RWMutex
	tools       map[string]Tool
	toolOrder   []string
	prompts     map[string]Prompt
	promptOrder []string
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		tools:   make(map[string]Tool),
		prompts: make(map[string]Prompt),
	}
}

// RegisterTool adds a tool. A tool registered under an existing name
// replaces the previous entry but keeps its listing position.
func (r *Registry) RegisterTool(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[tool.Definition.Name]; !exists {
		r.toolOrder = append(r.toolOrder, tool.Definition.Name)
	}
	r.tools[tool.Definition.Name] = tool
}

// RegisterPrompt adds a prompt, replacing any previous entry with the same name.
func (r *Registry) RegisterPrompt(prompt Prompt) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.prompts[prompt.Name]; !exists {
		r.promptOrder = append(r.promptOrder, prompt.Name)
	}
	r.prompts[prompt.Name] = prompt
}

// Tool returns the tool registered under name.
func (r *Registry) Tool(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// Tools returns all tools in registration order.
func (r *Registry) Tools() []Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Tool, len(r.toolOrder))
	for i, name := range r.toolOrder {
		out[i] = r.tools[name]
	}
	return out
}

// Prompt returns the prompt registered under name.
func (r *Registry) Prompt(name string) (Prompt, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	prompt, ok := r.prompts[name]
	return prompt, ok
}

// Prompts returns all prompts in registration order.
func (r *Registry) Prompts() []Prompt {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Prompt, len(r.promptOrder))
	for i, name := range r.promptOrder {
		out[i] = r.prompts[name]
	}
	return out
}
