package mcp

import (
	"github.com/mark3labs/mcp-go/server"
)

// NewInvoiceIRRMCPServer creates an MCP server with the invoiceirr tools and
// resources registered. Configuration is read from projectPath.
func NewInvoiceIRRMCPServer(projectPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"invoiceirr",
		"0.1.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	registerTools(s, projectPath)
	registerResources(s, projectPath)

	return s
}
