package cli

import (
	"fmt"
	"path/filepath"

	"github.com/invoiceirr/invoiceirr/internal/adapters/outbound/config"
	"github.com/spf13/cobra"
)

func newInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Generate a .invoiceirr.yaml configuration file",
		Long:  "Create a .invoiceirr.yaml with the default solver settings and invoice defaults.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "."
			if len(args) > 0 {
				path = args[0]
			}

			absPath, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			if _, err := config.WriteDefault(absPath, force); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", config.FileName)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing .invoiceirr.yaml")

	return cmd
}
