// ABOUTME: MCP server for LLM clients speaking JSON-RPC over stdio.
// ABOUTME: Implements the stdio transport with newline-delimited messages.

package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Supported MCP protocol versions
var supportedProtocolVersions = map[string]bool{
	"2024-11-05": true,
	"2025-03-26": true,
}

// latestProtocolVersion is the version we advertise when the client requests
// one we do not know.
const latestProtocolVersion = "2025-03-26"

// MaxMessageSize is the maximum allowed size for a single inbound message (1MB).
const MaxMessageSize = 1 << 20

// JSON-RPC 2.0 types

// JSONRPCRequest represents a JSON-RPC 2.0 request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a JSON-RPC 2.0 response.
type JSONRPCResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *JSONRPCError   `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Standard JSON-RPC error codes
const (
	JSONRPCParseError     = -32700
	JSONRPCInvalidRequest = -32600
	JSONRPCMethodNotFound = -32601
	JSONRPCInvalidParams  = -32602
	JSONRPCInternalError  = -32603
)

// MCP-specific types

// MCPToolInfo represents an MCP tool definition.
type MCPToolInfo struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"inputSchema"`
}

// MCPListToolsResult is the result for tools/list.
type MCPListToolsResult struct {
	Tools []MCPToolInfo `json:"tools"`
}

// MCPCallToolParams are the params for tools/call.
type MCPCallToolParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
}

// MCPCallToolResult is the result for tools/call.
type MCPCallToolResult struct {
	Content []MCPContent `json:"content"`
	IsError bool         `json:"isError,omitempty"`
}

// MCPContent represents content in a tool or prompt result.
type MCPContent struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// MCPPromptInfo represents an MCP prompt definition.
type MCPPromptInfo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// MCPListPromptsResult is the result for prompts/list.
type MCPListPromptsResult struct {
	Prompts []MCPPromptInfo `json:"prompts"`
}

// MCPGetPromptParams are the params for prompts/get.
type MCPGetPromptParams struct {
	Name string `json:"name"`
}

// MCPPromptMessage is one message in a prompts/get result.
type MCPPromptMessage struct {
	Role    string     `json:"role"`
	Content MCPContent `json:"content"`
}

// MCPGetPromptResult is the result for prompts/get.
type MCPGetPromptResult struct {
	Description string             `json:"description,omitempty"`
	Messages    []MCPPromptMessage `json:"messages"`
}

// initializeParams are the params the client sends on initialize.
type initializeParams struct {
	ProtocolVersion string `json:"protocolVersion"`
}

// Config holds configuration for the MCP server.
type Config struct {
	Registry *Registry
	Logger   *slog.Logger
	Name     string // serverInfo.name advertised on initialize
	Version  string // serverInfo.version advertised on initialize
}

// Server serves MCP over the stdio transport: newline-delimited JSON-RPC 2.0
// messages read from one stream and written to another. Requests may be
// dispatched concurrently; responses are serialized onto the writer.
type Server struct {
	registry *Registry
	logger   *slog.Logger
	name     string
	version  string

	writeMu sync.Mutex
	out     io.Writer
}

// NewServer creates a new MCP server with the given configuration.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Registry == nil {
		return nil, errors.New("registry is required")
	}
	if cfg.Name == "" {
		return nil, errors.New("server name is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	return &Server{
		registry: cfg.Registry,
		logger:   logger,
		name:     cfg.Name,
		version:  version,
	}, nil
}

// Run reads messages from r until EOF or context cancellation, dispatching
// each request on its own goroutine. It returns once the input is exhausted
// and every in-flight request has completed.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = w

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), MaxMessageSize)

	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	var wg sync.WaitGroup
loop:
	for {
		select {
		case <-ctx.Done():
			break loop
		case line, ok := <-lines:
			if !ok {
				break loop
			}
			if len(strings.TrimSpace(string(line))) == 0 {
				continue
			}
			wg.Add(1)
			go func(msg []byte) {
				defer wg.Done()
				s.handleMessage(ctx, msg)
			}(line)
		}
	}
	wg.Wait()

	select {
	case err := <-scanErr:
		if errors.Is(err, bufio.ErrTooLong) {
			// Tell the client why the stream is closing; the framing
			// cannot be resynced after an oversized line.
			s.sendError(nil, JSONRPCInvalidRequest, "message too large", nil)
			return err
		}
		if err != nil {
			return err
		}
	default:
	}
	return ctx.Err()
}

// handleMessage parses and routes a single inbound JSON-RPC message.
func (s *Server) handleMessage(ctx context.Context, msg []byte) {
	var req JSONRPCRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		s.sendError(nil, JSONRPCParseError, "invalid JSON", nil)
		return
	}

	if req.JSONRPC != "2.0" {
		s.sendError(req.ID, JSONRPCInvalidRequest, "invalid JSON-RPC version", nil)
		return
	}

	isNotification := len(req.ID) == 0 || string(req.ID) == "null"

	s.logger.Debug("MCP request",
		"method", req.Method,
		"is_notification", isNotification,
	)

	// Notifications get no response
	if isNotification {
		if strings.HasPrefix(req.Method, "notifications/") {
			s.logger.Debug("accepted MCP notification", "method", req.Method)
		} else {
			s.logger.Warn("received notification for non-notification method", "method", req.Method)
		}
		return
	}

	switch req.Method {
	case "initialize":
		s.handleInitialize(req)
	case "ping":
		s.sendResult(req.ID, map[string]any{})
	case "tools/list":
		s.handleToolsList(req)
	case "tools/call":
		s.handleToolsCall(ctx, req)
	case "prompts/list":
		s.handlePromptsList(req)
	case "prompts/get":
		s.handlePromptsGet(req)
	default:
		s.sendError(req.ID, JSONRPCMethodNotFound, "method not found", nil)
	}
}

// handleInitialize answers the MCP initialize handshake.
func (s *Server) handleInitialize(req JSONRPCRequest) {
	var params initializeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}

	// Echo the client's version when we support it, otherwise offer ours.
	protocolVersion := latestProtocolVersion
	if supportedProtocolVersions[params.ProtocolVersion] {
		protocolVersion = params.ProtocolVersion
	}

	s.logger.Info("MCP client initialized",
		"protocol_version", protocolVersion,
	)

	result := map[string]any{
		"protocolVersion": protocolVersion,
		"capabilities": map[string]any{
			"tools":   map[string]any{},
			"prompts": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	}
	s.sendResult(req.ID, result)
}

// handleToolsList answers tools/list from the registry.
func (s *Server) handleToolsList(req JSONRPCRequest) {
	tools := s.registry.Tools()

	result := MCPListToolsResult{
		Tools: make([]MCPToolInfo, len(tools)),
	}
	for i, tool := range tools {
		result.Tools[i] = MCPToolInfo{
			Name:        tool.Definition.Name,
			Description: tool.Definition.Description,
			InputSchema: tool.Definition.InputSchema,
		}
	}

	s.logger.Debug("tools/list", "count", len(tools))
	s.sendResult(req.ID, result)
}

// handleToolsCall routes tools/call to the registered handler. Handler
// failures come back as isError tool results so the calling agent sees the
// error text; routing problems are JSON-RPC errors.
func (s *Server) handleToolsCall(ctx context.Context, req JSONRPCRequest) {
	var params MCPCallToolParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}

	if params.Name == "" {
		s.sendError(req.ID, JSONRPCInvalidParams, "tool name is required", nil)
		return
	}

	tool, ok := s.registry.Tool(params.Name)
	if !ok {
		s.sendError(req.ID, JSONRPCInvalidParams, "tool not found", nil)
		return
	}

	// Request ID for correlation in logs
	requestID := uuid.New().String()

	input := params.Arguments
	if len(input) == 0 || string(input) == "null" {
		input = json.RawMessage("{}")
	}

	s.logger.Debug("tools/call",
		"tool_name", params.Name,
		"request_id", requestID,
	)

	output, err := tool.Handler(ctx, input)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			s.sendError(req.ID, JSONRPCInternalError, "request cancelled", nil)
			return
		}

		s.logger.Warn("tool execution failed",
			"tool_name", params.Name,
			"request_id", requestID,
			"error", err,
		)
		s.sendResult(req.ID, MCPCallToolResult{
			Content: []MCPContent{{Type: "text", Text: err.Error()}},
			IsError: true,
		})
		return
	}

	s.logger.Debug("tools/call complete",
		"tool_name", params.Name,
		"request_id", requestID,
	)

	s.sendResult(req.ID, MCPCallToolResult{
		Content: []MCPContent{{Type: "text", Text: output}},
	})
}

// handlePromptsList answers prompts/list from the registry.
func (s *Server) handlePromptsList(req JSONRPCRequest) {
	prompts := s.registry.Prompts()

	result := MCPListPromptsResult{
		Prompts: make([]MCPPromptInfo, len(prompts)),
	}
	for i, p := range prompts {
		result.Prompts[i] = MCPPromptInfo{
			Name:        p.Name,
			Description: p.Description,
		}
	}

	s.sendResult(req.ID, result)
}

// handlePromptsGet returns a static prompt text as a single user message.
func (s *Server) handlePromptsGet(req JSONRPCRequest) {
	var params MCPGetPromptParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(req.ID, JSONRPCInvalidParams, "invalid params", nil)
			return
		}
	}

	prompt, ok := s.registry.Prompt(params.Name)
	if !ok {
		s.sendError(req.ID, JSONRPCInvalidParams, "prompt not found", nil)
		return
	}

	s.sendResult(req.ID, MCPGetPromptResult{
		Description: prompt.Description,
		Messages: []MCPPromptMessage{
			{
				Role:    "user",
				Content: MCPContent{Type: "text", Text: prompt.Text},
			},
		},
	})
}

// sendResult writes a successful JSON-RPC response as one line.
func (s *Server) sendResult(id json.RawMessage, result any) {
	s.write(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

// sendError writes a JSON-RPC error response as one line.
func (s *Server) sendError(id json.RawMessage, code int, message string, data any) {
	s.write(JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &JSONRPCError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}

// write serializes one message onto the output stream. Responses from
// concurrent handlers are serialized here so messages never interleave.
func (s *Server) write(resp JSONRPCResponse) {
	encoded, err := json.Marshal(resp)
	if err != nil {
		s.logger.Warn("failed to encode JSON-RPC response", "error", err)
		return
	}
	encoded = append(encoded, '\n')

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if _, err := s.out.Write(encoded); err != nil {
		s.logger.Warn("failed to write JSON-RPC response", "error", err)
	}
}
