// ABOUTME: Smart-home tool registrations wiring the gateway facade into MCP.
// ABOUTME: Two tools: list all controllable entities and submit a control batch.

package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hearthlabs/hearth-gateway/internal/gateway"
	"github.com/hearthlabs/hearth-gateway/internal/mcp"
)

// sendControlSchema describes the send_control_commands input: one required
// "commands" array of control instructions. The instruction shapes themselves
// are validated by the gateway before submission.
const sendControlSchema = `{
  "type": "object",
  "properties": {
    "commands": {
      "type": "array",
      "description": "Ordered control instructions. Each targets exactly one of device_id, group_id, or scene_id. Device and group instructions require property and value; scene instructions carry neither. Every instruction requires ext_data (may be {}). Delayed execution goes in ext_data: {\"delayEnabled\": true, \"delayUnit\": \"h|m|s\", \"delayDuration\": <number>}.",
      "items": {"type": "object"}
    }
  },
  "required": ["commands"]
}`

// Register adds the gateway's tool surface to the registry.
func Register(registry *mcp.Registry, gw *gateway.Gateway) {
	registry.RegisterTool(mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "get_all_devices",
			Description: "Fetch every controllable device, group, and scene in the user's home, including current state and supported properties.",
			InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		},
		Handler: func(ctx context.Context, _ json.RawMessage) (string, error) {
			return gw.ListControllable(ctx)
		},
	})

	registry.RegisterTool(mcp.Tool{
		Definition: mcp.ToolDefinition{
			Name:        "send_control_commands",
			Description: "Submit a batch of device, group, or scene control instructions. The batch is validated and sent as-is; the backend reports per-instruction results.",
			InputSchema: json.RawMessage(sendControlSchema),
		},
		Handler: func(ctx context.Context, input json.RawMessage) (string, error) {
			var params struct {
				Commands json.RawMessage `json:"commands"`
			}
			if err := json.Unmarshal(input, &params); err != nil {
				return "", fmt.Errorf("invalid input: %w", err)
			}
			if len(params.Commands) == 0 {
				return "", fmt.Errorf("commands is required")
			}
			return gw.SubmitControl(ctx, params.Commands)
		},
	})
}
