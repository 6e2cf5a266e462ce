package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/petal-labs/salescast/forecast"
)

// Finding is one specialist's contribution to a forecast: the raw remote
// (or fallback) result plus the specialist's local analysis of it.
type Finding struct {
	Specialist string         `json:"specialist"`
	Year       string         `json:"year"`
	Result     Result         `json:"result"`
	Analysis   map[string]any `json:"analysis"`
}

// ImpactWeights are the political risk scoring constants. Carried verbatim
// from the observed rules; configurable, not hardcoded.
type ImpactWeights struct {
	High         int `yaml:"high"`
	Medium       int `yaml:"medium"`
	RiskCap      int `yaml:"risk_cap"`
	HighRisk     int `yaml:"high_risk"`
	ElevatedRisk int `yaml:"elevated_risk"`
}

// DefaultImpactWeights returns the observed caller-side weights.
func DefaultImpactWeights() ImpactWeights {
	return ImpactWeights{High: 25, Medium: 10, RiskCap: 100, HighRisk: 70, ElevatedRisk: 40}
}

// PoliticalAnalyst fronts the political events operation set.
type PoliticalAnalyst struct {
	caller  *Caller
	weights ImpactWeights
	now     func() time.Time
}

// PoliticalAnalystConfig configures a PoliticalAnalyst.
type PoliticalAnalystConfig struct {
	Caller  *Caller
	Weights *ImpactWeights
	Now     func() time.Time
}

// NewPoliticalAnalyst constructs the political specialist.
func NewPoliticalAnalyst(cfg PoliticalAnalystConfig) *PoliticalAnalyst {
	weights := DefaultImpactWeights()
	if cfg.Weights != nil {
		weights = *cfg.Weights
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &PoliticalAnalyst{caller: cfg.Caller, weights: weights, now: now}
}

// Name identifies the specialist in reports.
func (a *PoliticalAnalyst) Name() string { return "political_analyst" }

// Gather fetches political events for a year and analyzes their sales
// impact. It never fails; degraded transport shows up as result provenance.
func (a *PoliticalAnalyst) Gather(ctx context.Context, year string) Finding {
	result := a.caller.Call(ctx, forecast.OpPoliticalEvents, map[string]any{
		"year":         year,
		"impact_level": "all",
	})

	finding := Finding{Specialist: a.Name(), Year: year, Result: result}
	if result.Source != SourceNone {
		finding.Analysis = a.analyzeImpact(year, result.Payload)
	}
	return finding
}

// analyzeImpact scores the political risk of the gathered events.
func (a *PoliticalAnalyst) analyzeImpact(year string, payload map[string]any) map[string]any {
	var high, medium int
	var keyEvents []string
	for _, e := range eventsFrom(payload) {
		switch e.impact {
		case "high":
			high++
			keyEvents = append(keyEvents, e.name)
		case "medium":
			medium++
		}
	}

	risk := high*a.weights.High + medium*a.weights.Medium
	if risk > a.weights.RiskCap {
		risk = a.weights.RiskCap
	}

	return map[string]any{
		"year":                  year,
		"political_risk_score":  risk,
		"high_impact_events":    high,
		"medium_impact_events":  medium,
		"key_events":            keyEvents,
		"analysis_summary":      a.summary(high, risk),
		"sales_impact_forecast": a.salesImpact(risk),
		"analyzed_at":           a.now().Format(time.RFC3339),
	}
}

func (a *PoliticalAnalyst) summary(highCount, risk int) string {
	switch {
	case risk >= a.weights.HighRisk:
		return fmt.Sprintf("HIGH POLITICAL RISK: %d major events may significantly impact market conditions", highCount)
	case risk >= a.weights.ElevatedRisk:
		return fmt.Sprintf("MODERATE POLITICAL RISK: %d notable events require monitoring", highCount)
	default:
		return "LOW POLITICAL RISK: Political environment appears stable for sales operations"
	}
}

func (a *PoliticalAnalyst) salesImpact(risk int) map[string]any {
	switch {
	case risk >= a.weights.HighRisk:
		return map[string]any{
			"impact_level":        "significant",
			"recommendation":      "Prepare contingency plans and diversify strategies",
			"expected_volatility": "high",
		}
	case risk >= a.weights.ElevatedRisk:
		return map[string]any{
			"impact_level":        "moderate",
			"recommendation":      "Monitor developments and maintain flexibility",
			"expected_volatility": "medium",
		}
	default:
		return map[string]any{
			"impact_level":        "minimal",
			"recommendation":      "Proceed with standard sales strategies",
			"expected_volatility": "low",
		}
	}
}

type eventView struct {
	name   string
	impact string
}

// eventsFrom reads the events list out of either a live payload (generic
// JSON maps) or a fallback payload (typed events).
func eventsFrom(payload map[string]any) []eventView {
	switch events := payload["events"].(type) {
	case []forecast.Event:
		out := make([]eventView, 0, len(events))
		for _, e := range events {
			out = append(out, eventView{name: e.Event, impact: e.Impact})
		}
		return out
	case []any:
		out := make([]eventView, 0, len(events))
		for _, raw := range events {
			m, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			name, _ := m["event"].(string)
			impact, _ := m["impact"].(string)
			out = append(out, eventView{name: name, impact: impact})
		}
		return out
	default:
		return nil
	}
}
