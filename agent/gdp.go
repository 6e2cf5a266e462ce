package agent

import (
	"context"
	"time"

	"github.com/petal-labs/salescast/forecast"
)

// EconomicThresholds are the GDP outlook cutoffs used by the GDP analyst.
type EconomicThresholds struct {
	StrongGDP   float64 `yaml:"strong_gdp"`
	ModerateGDP float64 `yaml:"moderate_gdp"`
}

// DefaultEconomicThresholds returns the observed cutoffs.
func DefaultEconomicThresholds() EconomicThresholds {
	return EconomicThresholds{StrongGDP: 3.0, ModerateGDP: 2.0}
}

// GDPAnalyst fronts the GDP data operation set.
type GDPAnalyst struct {
	caller     *Caller
	thresholds EconomicThresholds
	now        func() time.Time
}

// GDPAnalystConfig configures a GDPAnalyst.
type GDPAnalystConfig struct {
	Caller     *Caller
	Thresholds *EconomicThresholds
	Now        func() time.Time
}

// NewGDPAnalyst constructs the economic specialist.
func NewGDPAnalyst(cfg GDPAnalystConfig) *GDPAnalyst {
	thresholds := DefaultEconomicThresholds()
	if cfg.Thresholds != nil {
		thresholds = *cfg.Thresholds
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &GDPAnalyst{caller: cfg.Caller, thresholds: thresholds, now: now}
}

// Name identifies the specialist in reports.
func (a *GDPAnalyst) Name() string { return "gdp_analyst" }

// Gather fetches GDP data for a year and analyzes the economic trend.
func (a *GDPAnalyst) Gather(ctx context.Context, year string) Finding {
	result := a.caller.Call(ctx, forecast.OpGDPData, map[string]any{
		"year":    year,
		"quarter": "all",
	})

	finding := Finding{Specialist: a.Name(), Year: year, Result: result}
	if result.Source != SourceNone {
		finding.Analysis = a.analyzeTrends(year, result.Payload)
	}
	return finding
}

// analyzeTrends derives outlook, quarterly trend, and recommendations from
// a GDP payload.
func (a *GDPAnalyst) analyzeTrends(year string, payload map[string]any) map[string]any {
	view := gdpFrom(payload)

	valid := make([]float64, 0, 4)
	for _, q := range view.quarters {
		if q != nil {
			valid = append(valid, *q)
		}
	}
	trend := "stable"
	if len(valid) >= 2 {
		if valid[len(valid)-1] > valid[0] {
			trend = "improving"
		} else {
			trend = "declining"
		}
	}

	outlook, stance := "uncertain", "data_incomplete"
	if view.annual != nil {
		switch {
		case *view.annual >= a.thresholds.StrongGDP:
			outlook, stance = "strong", "bullish"
		case *view.annual >= a.thresholds.ModerateGDP:
			outlook, stance = "moderate", "neutral"
		default:
			outlook, stance = "weak", "cautious"
		}
	}

	return map[string]any{
		"year":              year,
		"economic_outlook":  outlook,
		"gdp_annual_growth": view.annual,
		"quarterly_trend":   trend,
		"quarterly_data": map[string]any{
			"q1": view.quarters[0],
			"q2": view.quarters[1],
			"q3": view.quarters[2],
			"q4": view.quarters[3],
		},
		"sales_forecast_stance":     stance,
		"consumer_spending_outlook": a.consumerOutlook(view.annual),
		"recommendations":           a.recommendations(outlook, trend),
		"analyzed_at":               a.now().Format(time.RFC3339),
	}
}

func (a *GDPAnalyst) consumerOutlook(annual *float64) map[string]any {
	switch {
	case annual != nil && *annual >= a.thresholds.StrongGDP:
		return map[string]any{
			"level":      "strong",
			"confidence": "Consumer confidence likely high, discretionary spending up",
		}
	case annual != nil && *annual >= a.thresholds.ModerateGDP:
		return map[string]any{
			"level":      "moderate",
			"confidence": "Consumer spending stable, some caution on big-ticket items",
		}
	default:
		return map[string]any{
			"level":      "cautious",
			"confidence": "Consumers may prioritize essentials over discretionary purchases",
		}
	}
}

func (a *GDPAnalyst) recommendations(outlook, trend string) []string {
	var recs []string
	switch outlook {
	case "strong":
		recs = append(recs,
			"Expand product lines and marketing spend",
			"Consider aggressive growth targets")
	case "moderate":
		recs = append(recs,
			"Maintain current strategies with flexibility",
			"Focus on customer retention")
	default:
		recs = append(recs,
			"Optimize costs and focus on core products",
			"Build cash reserves for opportunities")
	}

	switch trend {
	case "improving":
		recs = append(recs, "Prepare for increased demand in coming quarters")
	case "declining":
		recs = append(recs, "Implement hedging strategies against economic softening")
	}
	return recs
}

type gdpView struct {
	quarters [4]*float64
	annual   *float64
}

// gdpFrom reads GDP figures out of either a live payload (nested "data"
// object of generic JSON values) or a fallback payload (typed GDPYear).
func gdpFrom(payload map[string]any) gdpView {
	switch data := payload["data"].(type) {
	case forecast.GDPYear:
		return gdpView{
			quarters: [4]*float64{data.Q1, data.Q2, data.Q3, data.Q4},
			annual:   data.Annual,
		}
	case map[string]any:
		return gdpView{
			quarters: [4]*float64{
				floatPtr(data["q1"]),
				floatPtr(data["q2"]),
				floatPtr(data["q3"]),
				floatPtr(data["q4"]),
			},
			annual: floatPtr(data["annual"]),
		}
	default:
		// Single-quarter or no-data payloads carry figures at the top level.
		return gdpView{annual: floatPtr(payload["annual"])}
	}
}

func floatPtr(v any) *float64 {
	switch n := v.(type) {
	case float64:
		return &n
	case *float64:
		return n
	case int:
		f := float64(n)
		return &f
	default:
		return nil
	}
}
