package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/csvsource"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/gitinfo"
	"github.com/invoiceirr/invoiceirr/internal/application"
	"github.com/invoiceirr/invoiceirr/internal/domain"
)

// registerTools registers all invoiceirr MCP tools on the given server.
func registerTools(s *server.MCPServer, projectPath string) {
	s.AddTool(
		mcplib.NewTool("invoiceirr_compute",
			mcplib.WithDescription("Computes the risk-adjusted annualized IRR of one discounted invoice"),
			mcplib.WithNumber("amount",
				mcplib.Required(),
				mcplib.Description("Invoice face value"),
			),
			mcplib.WithNumber("discount_rate_percent",
				mcplib.Required(),
				mcplib.Description("Upfront discount in percent, e.g. 2 for 2%"),
			),
			mcplib.WithNumber("tenor_days",
				mcplib.Required(),
				mcplib.Description("Days until repayment"),
			),
			mcplib.WithNumber("default_probability_percent",
				mcplib.Description("Probability of default in percent (defaults to config)"),
			),
			mcplib.WithNumber("recovery_rate_percent",
				mcplib.Description("Fraction recovered on default in percent (defaults to config)"),
			),
			mcplib.WithNumber("guess",
				mcplib.Description("Initial rate guess as a fraction, e.g. 0.1"),
			),
		),
		handleCompute(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("invoiceirr_compute_batch",
			mcplib.WithDescription("Computes IRRs for a CSV batch of invoices and returns the report as JSON"),
			mcplib.WithString("csv",
				mcplib.Required(),
				mcplib.Description("CSV text with a header row (Invoice Amount, Discount Rate, Tenor, optional Default Probability and Recovery Rate)"),
			),
		),
		handleComputeBatch(projectPath),
	)

	s.AddTool(
		mcplib.NewTool("invoiceirr_xnpv",
			mcplib.WithDescription("Evaluates the dated net present value of a cash flow schedule, or solves for its IRR"),
			mcplib.WithString("cashflows",
				mcplib.Required(),
				mcplib.Description("Comma-separated amount@day entries, e.g. -98000@0,100000@60"),
			),
			mcplib.WithNumber("rate",
				mcplib.Description("Annual rate as a fraction; with solve it is the starting guess, otherwise required"),
			),
			mcplib.WithBoolean("solve",
				mcplib.Description("Solve for the rate where XNPV is zero instead of evaluating"),
			),
		),
		handleXNPV(projectPath),
	)
}

func newService() *application.ComputeService {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return application.NewComputeService(csvsource.New(), config.New(), gitinfo.New(), logger)
}

func handleCompute(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		svc := newService()
		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		rec, err := recordFromArgs(request, cfg.Defaults)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		if guess, ok := request.GetArguments()["guess"].(float64); ok {
			if guess <= -1 {
				return errorResult("guess must be greater than -1"), nil
			}
			cfg.Solver.InitialGuess = &guess
		}

		report, err := svc.ComputeRecords(ctx, []domain.InvoiceRecord{rec}, cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("compute failed: %v", err)), nil
		}
		return jsonResult(report.Results[0])
	}
}

func recordFromArgs(request mcplib.CallToolRequest, defaults domain.InvoiceDefault) (domain.InvoiceRecord, error) {
	amount, err := request.RequireFloat("amount")
	if err != nil {
		return domain.InvoiceRecord{}, err
	}
	discount, err := request.RequireFloat("discount_rate_percent")
	if err != nil {
		return domain.InvoiceRecord{}, err
	}
	tenor, err := request.RequireFloat("tenor_days")
	if err != nil {
		return domain.InvoiceRecord{}, err
	}
	if tenor != float64(int(tenor)) {
		return domain.InvoiceRecord{}, fmt.Errorf("tenor_days must be a whole number, got %g", tenor)
	}

	rec := domain.InvoiceRecord{
		Amount:                    amount,
		DiscountRatePercent:       discount,
		TenorDays:                 int(tenor),
		DefaultProbabilityPercent: defaults.DefaultProbabilityPercent,
		RecoveryRatePercent:       defaults.RecoveryRatePercent,
	}
	args := request.GetArguments()
	if v, ok := args["default_probability_percent"].(float64); ok {
		rec.DefaultProbabilityPercent = v
	}
	if v, ok := args["recovery_rate_percent"].(float64); ok {
		rec.RecoveryRatePercent = v
	}
	return rec, nil
}

func handleComputeBatch(projectPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := request.RequireString("csv")
		if err != nil {
			return errorResult(err.Error()), nil
		}

		svc := newService()
		cfg, err := svc.LoadConfig(projectPath)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		report, err := svc.ComputeReader(ctx, strings.NewReader(text), cfg)
		if err != nil {
			return errorResult(fmt.Sprintf("compute failed: %v", err)), nil
		}
		report.Source = "mcp"
		return jsonResult(report)
	}
}

func handleXNPV(projectPath string) server.ToolHandlerFunc {
	return func(_ context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		raw, err := request.RequireString("cashflows")
		if err != nil {
			return errorResult(err.Error()), nil
		}
		sched, err := domain.ParseSchedule(raw)
		if err != nil {
			return errorResult(err.Error()), nil
		}

		args := request.GetArguments()
		if solve, _ := args["solve"].(bool); solve {
			cfg, err := config.New().Load(projectPath)
			if err != nil {
				return errorResult(err.Error()), nil
			}
			guess := cfg.Guess()
			if r, ok := args["rate"].(float64); ok {
				guess = r
			}
			rate, err := cfg.SecantSolver().Solve(domain.XNPV, sched, guess)
			if err != nil {
				return errorResult(fmt.Sprintf("%s: %v", domain.KindOf(err), err)), nil
			}
			return jsonResult(map[string]float64{"rate": rate, "irr_percent": rate * 100})
		}

		rate, ok := args["rate"].(float64)
		if !ok {
			return errorResult("rate is required unless solve is true"), nil
		}
		v, err := domain.XNPV(rate, sched)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(map[string]float64{"rate": rate, "xnpv": v})
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v interface{}) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return textResult(string(data)), nil
}

// textResult returns a plain text content result.
func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
