package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/csvexport"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/csvsource"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/gitinfo"
	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/tui"
	"github.com/invoiceirr/invoiceirr/internal/application"
	"github.com/invoiceirr/invoiceirr/internal/domain"
	"github.com/spf13/cobra"
)

type computeOptions struct {
	configPath string
	format     string
	export     bool
	out        string
	guess      float64
	workers    int
	places     int
	strict     bool

	rows     int
	amount   float64
	discount float64
	tenor    int
	pd       float64
	recovery float64
}

func newComputeCmd(root *rootOptions) *cobra.Command {
	opts := &computeOptions{}

	cmd := &cobra.Command{
		Use:   "compute [file.csv | -]",
		Short: "Compute risk-adjusted IRRs for a batch of invoices",
		Long: "Read invoices from a CSV file (or stdin with \"-\") and compute each one's annualized IRR.\n" +
			"Without an input file, --rows builds a batch of identical invoices from the flags.\n" +
			"Invoices that cannot be solved show \"Error\" and do not affect the rest of the batch.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			svc := application.NewComputeService(csvsource.New(), config.New(), gitinfo.New(), logger)

			cfg, err := svc.LoadConfig(opts.configPath)
			if err != nil {
				return err
			}
			if err := opts.applyOverrides(cmd, &cfg); err != nil {
				return err
			}

			report, err := opts.run(cmd.Context(), cmd, svc, cfg, args)
			if err != nil {
				return err
			}

			if err := writeReport(cmd.OutOrStdout(), report, opts.format, cfg.Places()); err != nil {
				return err
			}

			if opts.export || opts.out != "" {
				path := opts.out
				if path == "" {
					path = csvexport.DefaultFileName
				}
				if err := exportFile(path, report, cfg.Places()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d results to %s\n", len(report.Results), path)
			}

			if opts.strict && report.Failed() > 0 {
				return fmt.Errorf("%d of %d invoices could not be solved", report.Failed(), len(report.Results))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", ".", "Config file or directory holding "+config.FileName)
	f.StringVarP(&opts.format, "format", "f", "table", "Output format (table, csv, json)")
	f.BoolVar(&opts.export, "export", false, "Also write results to "+csvexport.DefaultFileName)
	f.StringVarP(&opts.out, "out", "o", "", "Write results CSV to this path (implies --export)")
	f.Float64Var(&opts.guess, "guess", domain.DefaultInitialGuess, "Initial rate guess as a fraction")
	f.IntVar(&opts.workers, "workers", 0, "Concurrent solver workers (0 = one per CPU)")
	f.IntVar(&opts.places, "places", domain.DefaultRoundPlaces, "Decimals for the IRR percentage")
	f.BoolVar(&opts.strict, "strict", false, "Exit non-zero when any invoice fails to solve")

	f.IntVar(&opts.rows, "rows", 0, "Number of manual invoices to compute when no file is given")
	f.Float64Var(&opts.amount, "amount", domain.DefaultInvoiceAmount, "Invoice amount for manual rows")
	f.Float64Var(&opts.discount, "discount", domain.DefaultDiscountRatePercent, "Discount rate (%) for manual rows")
	f.IntVar(&opts.tenor, "tenor", domain.DefaultTenorDays, "Tenor (days) for manual rows")
	f.Float64Var(&opts.pd, "default-prob", 0, "Default probability (%) for manual rows")
	f.Float64Var(&opts.recovery, "recovery", 0, "Recovery rate (%) for manual rows")

	return cmd
}

// applyOverrides lays explicitly set flags over the loaded config.
func (o *computeOptions) applyOverrides(cmd *cobra.Command, cfg *domain.ProjectConfig) error {
	switch o.format {
	case "table", "csv", "json":
	default:
		return fmt.Errorf("unknown format %q (valid: table, csv, json)", o.format)
	}

	f := cmd.Flags()
	if f.Changed("guess") {
		g := o.guess
		cfg.Solver.InitialGuess = &g
	}
	if f.Changed("workers") {
		w := o.workers
		cfg.Workers = &w
	}
	if f.Changed("places") {
		p := o.places
		cfg.RoundPlaces = &p
	}
	if f.Changed("default-prob") {
		cfg.Defaults.DefaultProbabilityPercent = o.pd
	}
	if f.Changed("recovery") {
		cfg.Defaults.RecoveryRatePercent = o.recovery
	}
	return cfg.Validate()
}

func (o *computeOptions) run(ctx context.Context, cmd *cobra.Command, svc *application.ComputeService, cfg domain.ProjectConfig, args []string) (*domain.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch {
	case len(args) == 1 && args[0] == "-":
		report, err := svc.ComputeReader(ctx, cmd.InOrStdin(), cfg)
		if err != nil {
			return nil, err
		}
		report.Source = "stdin"
		return report, nil
	case len(args) == 1:
		return svc.ComputeFile(ctx, args[0], cfg)
	case o.rows > 0:
		return svc.ComputeRecords(ctx, o.manualRecords(cfg.Defaults), cfg)
	default:
		return nil, fmt.Errorf("provide an input CSV, \"-\" for stdin, or --rows N")
	}
}

func (o *computeOptions) manualRecords(defaults domain.InvoiceDefault) []domain.InvoiceRecord {
	records := domain.DefaultInvoices(o.rows)
	for i := range records {
		records[i].Amount = o.amount
		records[i].DiscountRatePercent = o.discount
		records[i].TenorDays = o.tenor
		records[i].DefaultProbabilityPercent = defaults.DefaultProbabilityPercent
		records[i].RecoveryRatePercent = defaults.RecoveryRatePercent
	}
	return records
}

// exporter writes the results CSV for both --format csv and --export.
var exporter domain.ResultExporter = csvexport.New()

func writeReport(w io.Writer, report *domain.Report, format string, places int32) error {
	switch format {
	case "json":
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case "csv":
		return exporter.Export(w, report.Results, places)
	default:
		_, err := fmt.Fprint(w, tui.RenderReport(report, places))
		return err
	}
}

func exportFile(path string, report *domain.Report, places int32) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export: %w", err)
	}
	if err := exporter.Export(f, report.Results, places); err != nil {
		f.Close()
		return fmt.Errorf("exporting results: %w", err)
	}
	return f.Close()
}
