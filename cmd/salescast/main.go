package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/petal-labs/salescast/cli"
)

// Set via ldflags at build time.
var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "salescast",
	Short: "Sales forecasting tool server and workflow CLI",
	Long:  "Salescast serves year-scoped forecasting operations over JSON-RPC and REST, and runs multi-specialist forecast workflows against remote peers.",
	// SilenceUsage prevents printing usage on every error
	SilenceUsage:     true,
	PersistentPreRun: configureLogging,
}

func configureLogging(cmd *cobra.Command, _ []string) {
	level := slog.LevelInfo
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = slog.LevelDebug
	}
	if quiet, _ := cmd.Flags().GetBool("quiet"); quiet {
		level = slog.LevelError
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().BoolP("quiet", "", false, "Suppress all output except errors")

	cli.Version = version
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(fmt.Sprintf("salescast version %s\n", version))

	rootCmd.AddCommand(cli.NewServeCmd())
	rootCmd.AddCommand(cli.NewForecastCmd())
	rootCmd.AddCommand(cli.NewCompareCmd())
	rootCmd.AddCommand(cli.NewToolsCmd())
}
