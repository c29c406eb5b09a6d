// Package service hosts the dicelang MCP server over stdio.
package service

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/louisbranch/dicelang/internal/services/mcp/domain"
	"github.com/louisbranch/dicelang/internal/services/roller"
)

const (
	// serverName identifies this MCP server to clients.
	serverName = "dicelang MCP"
	// serverVersion identifies the MCP server version.
	serverVersion = "0.1.0"
)

// New creates an MCP server exposing the roller service's tools.
func New(svc *roller.Service) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil)

	mcp.AddTool(server, domain.RollTool(), domain.RollHandler(svc))
	mcp.AddTool(server, domain.ExpandAliasTool(), domain.ExpandAliasHandler(svc))
	mcp.AddTool(server, domain.RollHistoryTool(), domain.RollHistoryHandler(svc))

	return server
}

// Run serves the MCP server over stdio until the context ends.
func Run(ctx context.Context, svc *roller.Service) error {
	return New(svc).Run(ctx, &mcp.StdioTransport{})
}
