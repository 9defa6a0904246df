// ABOUTME: Tests that all four guidance prompts register with non-empty text.

package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hearthlabs/hearth-gateway/internal/mcp"
)

func TestRegisterExposesAllPrompts(t *testing.T) {
	registry := mcp.NewRegistry()
	Register(registry)

	prompts := registry.Prompts()
	require.Len(t, prompts, 4)

	names := make([]string, len(prompts))
	for i, p := range prompts {
		names[i] = p.Name
		assert.NotEmpty(t, p.Description, "%s needs a description", p.Name)
		assert.NotEmpty(t, p.Text, "%s needs text", p.Name)
	}
	assert.Equal(t, []string{"persona", "task_policy", "intent_policy", "field_reference"}, names)
}

func TestFieldReferenceDocumentsDelayContract(t *testing.T) {
	registry := mcp.NewRegistry()
	Register(registry)

	prompt, ok := registry.Prompt("field_reference")
	require.True(t, ok)
	assert.Contains(t, prompt.Text, "delayEnabled")
	assert.Contains(t, prompt.Text, "delayUnit")
	assert.Contains(t, prompt.Text, "delayDuration")
}
