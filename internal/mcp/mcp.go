// Package mcp exposes the storefront's assistant tools over the Model
// Context Protocol, so external MCP clients can drive the same cart,
// wishlist, and navigation operations the voice agent uses.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"bookhaven/pkg/assistant"
)

// NewServer builds an MCP server with one tool per registry entry.
// Every tool shares the registry's action ledger, so calls made over
// MCP show up in the storefront's activity feed like any other.
func NewServer(registry *assistant.Registry) (*server.MCPServer, error) {
	s := server.NewMCPServer(
		"bookhaven",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithInstructions("BookHaven storefront assistant. Tools operate on a shared cart, wishlist, and browsing surface."),
		server.WithRecovery(),
	)

	for _, tool := range registry.Tools() {
		schema, err := json.Marshal(tool.Parameters)
		if err != nil {
			return nil, fmt.Errorf("marshal schema for %s: %w", tool.Name, err)
		}
		s.AddTool(
			mcp.NewToolWithRawSchema(tool.Name, tool.Description, schema),
			callHandler(registry, tool.Name),
		)
	}

	return s, nil
}

func callHandler(registry *assistant.Registry, name string) server.ToolHandlerFunc {
	return func(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := registry.Call(name, req.GetArguments())
		if err != nil {
			return toolError(err.Error()), nil
		}
		return toolText(result), nil
	}
}

func toolText(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

func toolError(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: msg},
		},
		IsError: true,
	}
}
