// Package mcp implements the Model Context Protocol server for LLM clients.
//
// # Overview
//
// MCP (Model Context Protocol) is a standard for AI tool integration. This
// package serves MCP over the stdio transport: the host process (Claude
// Desktop or another MCP client) launches the gateway binary, writes JSON-RPC
// 2.0 requests to its stdin, and reads responses from its stdout. Each
// message is one line; diagnostics go to stderr so the protocol stream stays
// clean.
//
// # Methods
//
//   - initialize: handshake with protocol version negotiation
//   - tools/list, tools/call: tool discovery and execution
//   - prompts/list, prompts/get: static guidance text resources
//   - ping: liveness
//   - notifications/*: accepted without a response
//
// # Tool results
//
// Tool output is returned as a single text content block. A tool handler
// error becomes an isError result carrying the error text, so the calling
// agent can read and relay it; malformed requests and unknown tools are
// JSON-RPC errors instead.
//
// # Concurrency
//
// The host may pipeline requests, so each one is dispatched on its own
// goroutine. Writes to the output stream are serialized; handlers must be
// safe for concurrent use.
//
// # Usage
//
//	registry := mcp.NewRegistry()
//	registry.RegisterTool(mcp.Tool{...})
//
//	server, err := mcp.NewServer(mcp.Config{
//		Registry: registry,
//		Logger:   logger,
//		Name:     "hearth-gateway",
//		Version:  version,
//	})
//	if err != nil {
//		return err
//	}
//	return server.Run(ctx, os.Stdin, os.Stdout)
package mcp
