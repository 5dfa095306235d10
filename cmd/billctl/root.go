package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"purchase-sale-backend/internal/billing"
	"purchase-sale-backend/internal/logger"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "billctl",
	Short: "Check purchase/sale bills from the command line",
	Long: `billctl runs bill files through the same form logic the entry
screen uses: row amounts and GST, sundry adjustments, totals and
validation.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the billctl version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "billctl %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newCheckCmd())
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	log := logger.WithComponent("billctl")

	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, billing.ErrValidationFailed) {
			return 1
		}
		log.Error().Err(err).Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
