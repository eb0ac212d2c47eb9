package cli

import (
	"fmt"
	"strings"

	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/invoiceirr/invoiceirr/internal/domain"
	"github.com/spf13/cobra"
)

func newXNPVCmd(root *rootOptions) *cobra.Command {
	var (
		flows      []string
		rate       float64
		solve      bool
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "xnpv --flow amount@day [--flow amount@day ...]",
		Short: "Evaluate or solve the XNPV of a cash flow schedule",
		Long: "Evaluate the dated net present value of an explicit schedule at --rate, or with --solve\n" +
			"find the rate where it is zero. The first flow must fall on day 0.",
		Example: "  invoiceirr xnpv --flow=-98000@0 --flow=100000@60 --rate 0.1\n" +
			"  invoiceirr xnpv --flow=-98000@0,100000@60 --solve",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := root.logger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			sched, err := domain.ParseSchedule(strings.Join(flows, ","))
			if err != nil {
				return err
			}
			if len(sched) == 0 {
				return fmt.Errorf("at least one --flow is required")
			}

			out := cmd.OutOrStdout()
			if !solve {
				if !cmd.Flags().Changed("rate") {
					return fmt.Errorf("--rate is required unless --solve is set")
				}
				v, err := domain.XNPV(rate, sched)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "XNPV at %s%%: %s\n", domain.RoundFixed(rate*100, 4), domain.RoundFixed(v, 2))
				return nil
			}

			cfg, err := config.New().Load(configPath)
			if err != nil {
				return err
			}
			guess := cfg.Guess()
			if cmd.Flags().Changed("rate") {
				guess = rate
			}
			r, err := cfg.SecantSolver().Solve(domain.XNPV, sched, guess)
			irr := domain.Solved(r)
			if err != nil {
				irr = domain.Failed(err)
				logger.Debug("irr solve failed", "kind", string(irr.Kind()), "error", err)
			}
			fmt.Fprintf(out, "IRR (%%): %s\n", irr.FormatPercent(cfg.Places()))
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&flows, "flow", nil, "Cash flow as amount@day; repeat or comma-separate")
	cmd.Flags().Float64Var(&rate, "rate", 0, "Annual rate as a fraction (starting guess with --solve)")
	cmd.Flags().BoolVar(&solve, "solve", false, "Solve for the IRR instead of evaluating")
	cmd.Flags().StringVar(&configPath, "config", ".", "Config file or directory holding "+config.FileName)

	return cmd
}
