package cli

import (
	mcpadapter "github.com/invoiceirr/invoiceirr/internal/adapters/inbound/mcp"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
)

func newMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "MCP server commands",
		Long:  "Commands for running the invoiceirr MCP (Model Context Protocol) server.",
	}
	cmd.AddCommand(newMCPServeCmd())
	return cmd
}

func newMCPServeCmd() *cobra.Command {
	var projectPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start invoiceirr MCP server (stdio)",
		Long:  "Start the invoiceirr MCP server using stdio transport. This lets AI assistants compute invoice IRRs and evaluate cash flow schedules.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if projectPath == "" {
				projectPath = "."
			}
			s := mcpadapter.NewInvoiceIRRMCPServer(projectPath)
			return server.ServeStdio(s)
		},
	}

	cmd.Flags().StringVar(&projectPath, "path", "", "Directory holding .invoiceirr.yaml (defaults to current working directory)")

	return cmd
}
