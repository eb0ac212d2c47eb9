package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/invoiceirr/invoiceirr/internal/domain"
)

// registerResources registers all invoiceirr MCP resources on the given server.
func registerResources(s *server.MCPServer, projectPath string) {
	s.AddResource(
		mcplib.NewResource(
			"invoiceirr://config",
			"Effective Config",
			mcplib.WithResourceDescription("Solver settings and invoice defaults in effect for the project"),
			mcplib.WithMIMEType("application/json"),
		),
		handleConfigResource(projectPath),
	)
}

// effectiveConfig resolves every optional setting to the value that will be used.
type effectiveConfig struct {
	InitialGuess   float64               `json:"initial_guess"`
	MaxIterations  int                   `json:"max_iterations"`
	StepTolerance  float64               `json:"step_tolerance"`
	ValueTolerance float64               `json:"value_tolerance"`
	MaxRate        float64               `json:"max_rate"`
	Workers        int                   `json:"workers"`
	RoundPlaces    int32                 `json:"round_places"`
	Defaults       domain.InvoiceDefault `json:"defaults"`
}

func handleConfigResource(projectPath string) server.ResourceHandlerFunc {
	return func(_ context.Context, request mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		cfg, err := config.New().Load(projectPath)
		if err != nil {
			return nil, err
		}
		solver := cfg.SecantSolver()
		data, err := json.MarshalIndent(effectiveConfig{
			InitialGuess:   cfg.Guess(),
			MaxIterations:  solver.MaxIterations,
			StepTolerance:  solver.StepTolerance,
			ValueTolerance: solver.ValueTolerance,
			MaxRate:        solver.MaxRate,
			Workers:        cfg.WorkerCount(),
			RoundPlaces:    cfg.Places(),
			Defaults:       cfg.Defaults,
		}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling config: %w", err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      request.Params.URI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}
