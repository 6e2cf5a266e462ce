package forecast

import (
	"context"

	"github.com/petal-labs/salescast/tool"
)

// Operation names exposed by the forecasting service.
const (
	OpPoliticalEvents = "get_political_events"
	OpGDPData         = "get_gdp_data"
	OpForecastFactors = "analyze_forecast_factors"
)

// Register adds the three forecasting operations to a registry.
func Register(registry *tool.Registry, svc *Service) error {
	if err := registry.Register(tool.Descriptor{
		Name:        OpPoliticalEvents,
		Description: "Retrieve political events for a specific year that may impact sales forecasting",
		Params: []tool.ParamSpec{
			{Name: "year", Type: tool.TypeString, Required: true,
				Description: "The year to query (e.g., '2024', '2025', '2026')"},
			{Name: "impact_level", Type: tool.TypeString, Default: "all",
				Description: "Filter by impact level - 'high', 'medium', 'low', or 'all'"},
		},
	}, func(ctx context.Context, args tool.Args) (any, error) {
		return svc.PoliticalEvents(args.String("year"), args.String("impact_level")), nil
	}); err != nil {
		return err
	}

	if err := registry.Register(tool.Descriptor{
		Name:        OpGDPData,
		Description: "Retrieve GDP growth data for economic analysis in sales forecasting",
		Params: []tool.ParamSpec{
			{Name: "year", Type: tool.TypeString, Required: true,
				Description: "The year to query (e.g., '2023', '2024', '2025', '2026')"},
			{Name: "quarter", Type: tool.TypeString, Default: "all",
				Description: "Specific quarter ('q1', 'q2', 'q3', 'q4') or 'all'"},
		},
	}, func(ctx context.Context, args tool.Args) (any, error) {
		return svc.GDPData(args.String("year"), args.String("quarter")), nil
	}); err != nil {
		return err
	}

	return registry.Register(tool.Descriptor{
		Name:        OpForecastFactors,
		Description: "Comprehensive analysis combining political events and GDP data for forecasting",
		Params: []tool.ParamSpec{
			{Name: "year", Type: tool.TypeString, Required: true,
				Description: "The year to analyze (e.g., '2024', '2025', '2026')"},
		},
	}, func(ctx context.Context, args tool.Args) (any, error) {
		return svc.ForecastFactors(args.String("year")), nil
	})
}
