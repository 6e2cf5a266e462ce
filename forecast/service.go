package forecast

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Thresholds are the scoring constants used by ForecastFactors. The values
// are business constants carried over verbatim; they have no documented
// rationale beyond the literal comparisons.
type Thresholds struct {
	// StrongGDP is the annual growth at or above which the outlook is
	// "strong".
	StrongGDP float64 `yaml:"strong_gdp"`
	// ModerateGDP is the annual growth at or above which the outlook is
	// "moderate".
	ModerateGDP float64 `yaml:"moderate_gdp"`
	// HighImpactWeight is the risk contribution of one high-impact event.
	HighImpactWeight int `yaml:"high_impact_weight"`
	// RiskCap bounds the political risk score.
	RiskCap int `yaml:"risk_cap"`
	// ElevatedRisk is the score at or above which recommendations shift to
	// the cautious branch.
	ElevatedRisk int `yaml:"elevated_risk"`
}

// DefaultThresholds returns the observed scoring constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		StrongGDP:        3.0,
		ModerateGDP:      2.0,
		HighImpactWeight: 20,
		RiskCap:          100,
		ElevatedRisk:     40,
	}
}

// Service evaluates the forecasting operations against immutable data
// tables. All methods are pure given the injected clock.
type Service struct {
	events     EventTable
	gdp        GDPTable
	thresholds Thresholds
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithEvents replaces the political event table.
func WithEvents(events EventTable) Option {
	return func(s *Service) { s.events = events }
}

// WithGDP replaces the GDP table.
func WithGDP(gdp GDPTable) Option {
	return func(s *Service) { s.gdp = gdp }
}

// WithThresholds replaces the scoring thresholds.
func WithThresholds(t Thresholds) Option {
	return func(s *Service) { s.thresholds = t }
}

// WithNow injects the clock used for retrieved_at/analyzed_at stamps.
func WithNow(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService builds a Service with the default tables and thresholds.
func NewService(opts ...Option) *Service {
	s := &Service{
		events:     DefaultEvents(),
		gdp:        DefaultGDP(),
		thresholds: DefaultThresholds(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().Format(time.RFC3339)
}

// PoliticalEvents returns events for a year, optionally filtered by impact
// level. The filter is case-insensitive; "all" disables it. Unknown years
// yield an empty list, not an error.
func (s *Service) PoliticalEvents(year, impactLevel string) map[string]any {
	filter := strings.ToLower(strings.TrimSpace(impactLevel))
	if filter == "" {
		filter = "all"
	}

	events := s.events[year]
	if filter != "all" {
		filtered := make([]Event, 0, len(events))
		for _, e := range events {
			if strings.EqualFold(e.Impact, filter) {
				filtered = append(filtered, e)
			}
		}
		events = filtered
	}
	if events == nil {
		events = []Event{}
	}

	return map[string]any{
		"year":          year,
		"impact_filter": filter,
		"event_count":   len(events),
		"events":        events,
		"retrieved_at":  s.timestamp(),
	}
}

// GDPData returns GDP growth for a year, either all quarters or one. An
// unknown year yields an explicit no-data payload listing available years.
func (s *Service) GDPData(year, quarter string) map[string]any {
	info, ok := s.gdp[year]
	if !ok {
		years := make([]string, 0, len(s.gdp))
		for y := range s.gdp {
			years = append(years, y)
		}
		sort.Strings(years)
		return map[string]any{
			"year":            year,
			"error":           fmt.Sprintf("No GDP data available for year %s", year),
			"available_years": years,
			"retrieved_at":    s.timestamp(),
		}
	}

	result := map[string]any{
		"year":         year,
		"retrieved_at": s.timestamp(),
	}

	q := strings.ToLower(strings.TrimSpace(quarter))
	if q == "" || q == "all" {
		result["data"] = info
		result["note"] = "Values represent percentage GDP growth rates"
		return result
	}

	rate, known := info.quarterRate(q)
	if !known {
		result["error"] = fmt.Sprintf("Quarter %s not found for year %s", quarter, year)
		return result
	}
	result["quarter"] = q
	result["growth_rate"] = rate
	result["note"] = fmt.Sprintf("GDP growth rate for %s %s (percentage)", strings.ToUpper(q), year)
	return result
}

func (y GDPYear) quarterRate(q string) (*float64, bool) {
	switch q {
	case "q1":
		return y.Q1, true
	case "q2":
		return y.Q2, true
	case "q3":
		return y.Q3, true
	case "q4":
		return y.Q4, true
	case "annual":
		return y.Annual, true
	default:
		return nil, false
	}
}

// ForecastFactors combines political and economic data for one year into a
// scored assessment.
func (s *Service) ForecastFactors(year string) map[string]any {
	events := s.events[year]
	info, hasGDP := s.gdp[year]

	highImpact := make([]string, 0, len(events))
	for _, e := range events {
		if strings.EqualFold(e.Impact, "high") {
			highImpact = append(highImpact, e.Event)
		}
	}
	riskScore := len(highImpact) * s.thresholds.HighImpactWeight
	if riskScore > s.thresholds.RiskCap {
		riskScore = s.thresholds.RiskCap
	}

	outlook, confidence := "uncertain", "low"
	var annual *float64
	if hasGDP && info.Annual != nil {
		annual = info.Annual
		switch {
		case *annual >= s.thresholds.StrongGDP:
			outlook, confidence = "strong", "high"
		case *annual >= s.thresholds.ModerateGDP:
			outlook, confidence = "moderate", "medium"
		default:
			outlook, confidence = "weak", "medium"
		}
	}

	notes := "No notes available"
	if hasGDP && info.Notes != "" {
		notes = info.Notes
	}

	return map[string]any{
		"year": year,
		"political_analysis": map[string]any{
			"risk_score":         riskScore,
			"total_events":       len(events),
			"high_impact_events": len(highImpact),
			"key_events":         highImpact,
		},
		"economic_analysis": map[string]any{
			"outlook":    outlook,
			"gdp_growth": annual,
			"confidence": confidence,
			"notes":      notes,
		},
		"combined_assessment": map[string]any{
			"sales_outlook":  fmt.Sprintf("%s_with_%d%%_political_risk", outlook, riskScore),
			"recommendation": s.recommendation(outlook, riskScore),
		},
		"analyzed_at": s.timestamp(),
	}
}

func (s *Service) recommendation(outlook string, riskScore int) string {
	elevated := riskScore >= s.thresholds.ElevatedRisk
	switch {
	case outlook == "strong" && !elevated:
		return "Favorable conditions for aggressive sales targets"
	case outlook == "strong" && elevated:
		return "Good growth potential but monitor political developments"
	case outlook == "moderate" && !elevated:
		return "Steady growth expected, maintain current strategies"
	case outlook == "moderate" && elevated:
		return "Cautious optimism, prepare contingency plans"
	default:
		return "Conservative approach recommended, focus on risk mitigation"
	}
}
