package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/petal-labs/salescast/agent"
	"github.com/petal-labs/salescast/mcp"
	"github.com/petal-labs/salescast/orchestrator"
)

// NewForecastCmd creates the "forecast" subcommand.
func NewForecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast <year>",
		Short: "Run the single-year forecast workflow",
		Args:  cobra.ExactArgs(1),
		RunE:  runForecast,
	}
	addWorkflowFlags(cmd)
	cmd.Flags().String("every", "", "UTC cron expression to re-run the forecast on a schedule")
	return cmd
}

func runForecast(cmd *cobra.Command, args []string) error {
	year := args[0]
	orch, err := buildOrchestrator(cmd)
	if err != nil {
		return err
	}

	run := func() {
		report := orch.Forecast(cmd.Context(), year)
		fmt.Fprintln(cmd.OutOrStdout(), report.Text)
	}

	every, _ := cmd.Flags().GetString("every")
	if every == "" {
		run()
		return nil
	}

	schedule, err := parseCronExpressionUTC(every)
	if err != nil {
		return exitError(exitUsage, "%v", err)
	}
	return runOnSchedule(cmd, schedule, run)
}

// NewCompareCmd creates the "compare" subcommand.
func NewCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <year1> <year2>",
		Short: "Run the comparative workflow for two years",
		Args:  cobra.ExactArgs(2),
		RunE:  runCompare,
	}
	addWorkflowFlags(cmd)
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	orch, err := buildOrchestrator(cmd)
	if err != nil {
		return err
	}
	report := orch.Compare(cmd.Context(), args[0], args[1])
	fmt.Fprintln(cmd.OutOrStdout(), report.Text)
	return nil
}

func addWorkflowFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to salescast.yaml")
	cmd.Flags().String("political-url", "", "Political peer JSON-RPC URL (overrides config)")
	cmd.Flags().String("gdp-url", "", "GDP peer JSON-RPC URL (overrides config)")
	cmd.Flags().Duration("timeout", 0, "Per-call timeout (overrides config)")
}

// buildOrchestrator wires the two specialist callers from config and flags.
func buildOrchestrator(cmd *cobra.Command) (*orchestrator.Orchestrator, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	if url, _ := cmd.Flags().GetString("political-url"); url != "" {
		cfg.Peers.PoliticalURL = url
	}
	if url, _ := cmd.Flags().GetString("gdp-url"); url != "" {
		cfg.Peers.GDPURL = url
	}
	if d, _ := cmd.Flags().GetDuration("timeout"); d > 0 {
		cfg.CallTimeout = d
	}

	logger := slog.Default()
	political := agent.NewPoliticalAnalyst(agent.PoliticalAnalystConfig{
		Caller: agent.NewCaller(agent.CallerConfig{
			Name:     "political_analyst",
			Client:   mcp.NewClient(cfg.Peers.PoliticalURL, mcp.ClientOptions{Timeout: cfg.CallTimeout}),
			Fallback: agent.PoliticalFallback(cfg.Fallback.Political),
			Timeout:  cfg.CallTimeout,
			Logger:   logger,
		}),
		Weights: &cfg.Weights,
	})
	gdp := agent.NewGDPAnalyst(agent.GDPAnalystConfig{
		Caller: agent.NewCaller(agent.CallerConfig{
			Name:     "gdp_analyst",
			Client:   mcp.NewClient(cfg.Peers.GDPURL, mcp.ClientOptions{Timeout: cfg.CallTimeout}),
			Fallback: agent.GDPFallback(cfg.Fallback.GDP),
			Timeout:  cfg.CallTimeout,
			Logger:   logger,
		}),
		Thresholds: &cfg.Economic,
	})

	return orchestrator.New(orchestrator.Config{
		Specialists: []orchestrator.Specialist{political, gdp},
		Logger:      logger,
	})
}
