package agent

import (
	"strings"

	"github.com/petal-labs/salescast/forecast"
)

// FallbackEvents is the political specialist's canned dataset: year to
// events. Immutable after construction.
type FallbackEvents map[string][]forecast.Event

// FallbackGDP is the GDP specialist's canned dataset: year to figures.
// Immutable after construction.
type FallbackGDP map[string]forecast.GDPYear

// DefaultFallbackEvents returns the built-in political fallback table, a
// reduced snapshot of the live dataset.
func DefaultFallbackEvents() FallbackEvents {
	return FallbackEvents{
		"2024": {
			{Date: "2024-11-05", Event: "US Presidential Election", Impact: "high"},
			{Date: "2024-03-20", Event: "Federal Reserve Policy Meeting", Impact: "high"},
		},
		"2025": {
			{Date: "2025-01-20", Event: "Presidential Inauguration", Impact: "high"},
			{Date: "2025-04-15", Event: "Tax Policy Changes", Impact: "medium"},
		},
		"2026": {
			{Date: "2026-11-03", Event: "Midterm Elections", Impact: "high"},
			{Date: "2026-06-20", Event: "Trade Agreement Negotiations", Impact: "high"},
		},
	}
}

// DefaultFallbackGDP returns the built-in GDP fallback table.
func DefaultFallbackGDP() FallbackGDP {
	n := func(v float64) *float64 { return &v }
	return FallbackGDP{
		"2024": {Q1: n(3.4), Q2: n(2.8), Q3: n(2.9), Q4: n(3.1), Annual: n(3.1)},
		"2025": {Q1: n(2.9), Q2: n(2.7), Q3: n(3.2), Q4: n(2.8), Annual: n(2.9)},
		"2026": {Q1: n(2.5), Q2: n(2.8), Q3: nil, Q4: nil, Annual: nil},
	}
}

// PoliticalFallback builds a FallbackFunc over an event table. The returned
// payload mirrors the live get_political_events shape, including the
// impact filter.
func PoliticalFallback(table FallbackEvents) FallbackFunc {
	return func(operation string, args map[string]any) (map[string]any, bool) {
		if operation != forecast.OpPoliticalEvents {
			return nil, false
		}
		year, _ := args["year"].(string)
		events, ok := table[year]
		if !ok {
			return nil, false
		}

		filter, _ := args["impact_level"].(string)
		filter = strings.ToLower(strings.TrimSpace(filter))
		if filter == "" {
			filter = "all"
		}
		if filter != "all" {
			filtered := make([]forecast.Event, 0, len(events))
			for _, e := range events {
				if strings.EqualFold(e.Impact, filter) {
					filtered = append(filtered, e)
				}
			}
			events = filtered
		}

		return map[string]any{
			"year":          year,
			"impact_filter": filter,
			"event_count":   len(events),
			"events":        events,
		}, true
	}
}

// GDPFallback builds a FallbackFunc over a GDP table. The returned payload
// mirrors the live get_gdp_data shape.
func GDPFallback(table FallbackGDP) FallbackFunc {
	return func(operation string, args map[string]any) (map[string]any, bool) {
		if operation != forecast.OpGDPData {
			return nil, false
		}
		year, _ := args["year"].(string)
		info, ok := table[year]
		if !ok {
			return nil, false
		}

		payload := map[string]any{"year": year}
		quarter, _ := args["quarter"].(string)
		q := strings.ToLower(strings.TrimSpace(quarter))
		if q == "" || q == "all" {
			payload["data"] = info
			return payload, true
		}
		rate, known := quarterRate(info, q)
		if !known {
			return nil, false
		}
		payload["quarter"] = q
		payload["growth_rate"] = rate
		return payload, true
	}
}

func quarterRate(y forecast.GDPYear, q string) (*float64, bool) {
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
