package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// rootOptions carries persistent flags shared by every subcommand.
type rootOptions struct {
	verbose   bool
	logFormat string
}

// logger builds the diagnostic logger. Output always goes to stderr so that
// csv and json results on stdout stay machine readable.
func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	switch o.logFormat {
	case "", "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("unknown log format %q (valid: text, json)", o.logFormat)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "invoiceirr",
		Short: "Risk-adjusted IRR for discounted invoices",
		Long: "invoiceirr computes the annualized internal rate of return of invoice-discounting deals,\n" +
			"adjusting the expected payback for default probability and recovery.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log solver diagnostics to stderr")
	cmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "text", "Log format (text, json)")

	cmd.AddCommand(newVersionCmd())
	cmd.AddCommand(newComputeCmd(opts))
	cmd.AddCommand(newXNPVCmd(opts))
	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newMCPCmd())
	return cmd
}

// NewRootCmdForTest returns the root command for testing.
func NewRootCmdForTest() *cobra.Command {
	return newRootCmd()
}

func Execute() error {
	err := newRootCmd().Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	return err
}
