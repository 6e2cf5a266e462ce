package forecast

import (
	"encoding/json"
	"reflect"
	"testing"
	"time"
)

func fixedClock() func() time.Time {
	at := time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestPoliticalEventsAllImpactLevels(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.PoliticalEvents("2024", "all")

	if payload["year"] != "2024" {
		t.Fatalf("year = %v, want 2024", payload["year"])
	}
	if payload["event_count"] != 3 {
		t.Fatalf("event_count = %v, want 3", payload["event_count"])
	}
	events, ok := payload["events"].([]Event)
	if !ok {
		t.Fatalf("events type = %T", payload["events"])
	}
	if events[0].Event != "US Presidential Election" {
		t.Fatalf("first event = %q", events[0].Event)
	}
}

func TestPoliticalEventsFilterIsCaseInsensitive(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.PoliticalEvents("2024", "HIGH")

	if payload["impact_filter"] != "high" {
		t.Fatalf("impact_filter = %v, want high", payload["impact_filter"])
	}
	if payload["event_count"] != 2 {
		t.Fatalf("event_count = %v, want 2", payload["event_count"])
	}
	for _, e := range payload["events"].([]Event) {
		if e.Impact != "high" {
			t.Fatalf("event %q impact = %q, want high", e.Event, e.Impact)
		}
	}
}

func TestPoliticalEventsUnknownYearYieldsEmptyList(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.PoliticalEvents("2099", "all")

	if payload["event_count"] != 0 {
		t.Fatalf("event_count = %v, want 0", payload["event_count"])
	}
	events, ok := payload["events"].([]Event)
	if !ok || events == nil {
		t.Fatalf("events = %v (%T), want empty non-nil slice", payload["events"], payload["events"])
	}
}

func TestPoliticalEventsEmptyFilterMeansAll(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.PoliticalEvents("2024", "")
	if payload["impact_filter"] != "all" {
		t.Fatalf("impact_filter = %v, want all", payload["impact_filter"])
	}
	if payload["event_count"] != 3 {
		t.Fatalf("event_count = %v, want 3", payload["event_count"])
	}
}

func TestGDPDataAllQuarters(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.GDPData("2024", "all")

	data, ok := payload["data"].(GDPYear)
	if !ok {
		t.Fatalf("data type = %T", payload["data"])
	}
	check := func(name string, got *float64, want float64) {
		if got == nil || *got != want {
			t.Fatalf("%s = %v, want %v", name, got, want)
		}
	}
	check("q1", data.Q1, 3.4)
	check("q2", data.Q2, 2.8)
	check("q3", data.Q3, 2.9)
	check("q4", data.Q4, 3.1)
	check("annual", data.Annual, 3.1)
}

func TestGDPDataSingleQuarter(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.GDPData("2024", "Q2")

	if payload["quarter"] != "q2" {
		t.Fatalf("quarter = %v, want q2", payload["quarter"])
	}
	rate, ok := payload["growth_rate"].(*float64)
	if !ok || rate == nil || *rate != 2.8 {
		t.Fatalf("growth_rate = %v, want 2.8", payload["growth_rate"])
	}
}

func TestGDPDataNilQuarterForProjectedYear(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.GDPData("2026", "q3")

	rate, ok := payload["growth_rate"].(*float64)
	if !ok {
		t.Fatalf("growth_rate type = %T", payload["growth_rate"])
	}
	if rate != nil {
		t.Fatalf("growth_rate = %v, want nil for an unpublished quarter", *rate)
	}
}

func TestGDPDataUnknownYearListsAvailableYears(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.GDPData("2099", "all")

	if _, present := payload["data"]; present {
		t.Fatal("no-data payload carries a data key")
	}
	if payload["error"] == "" {
		t.Fatal("no-data payload has no error message")
	}
	years, ok := payload["available_years"].([]string)
	if !ok {
		t.Fatalf("available_years type = %T", payload["available_years"])
	}
	want := []string{"2023", "2024", "2025", "2026"}
	if !reflect.DeepEqual(years, want) {
		t.Fatalf("available_years = %v, want %v", years, want)
	}
}

func TestGDPDataUnknownQuarter(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.GDPData("2024", "q5")
	if payload["error"] == nil {
		t.Fatal("unknown quarter did not produce an error entry")
	}
}

func TestForecastFactors2024(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.ForecastFactors("2024")

	political, ok := payload["political_analysis"].(map[string]any)
	if !ok {
		t.Fatalf("political_analysis type = %T", payload["political_analysis"])
	}
	// Two high-impact events at 20 points each.
	if political["risk_score"] != 40 {
		t.Fatalf("risk_score = %v, want 40", political["risk_score"])
	}
	if political["high_impact_events"] != 2 {
		t.Fatalf("high_impact_events = %v, want 2", political["high_impact_events"])
	}

	economic, ok := payload["economic_analysis"].(map[string]any)
	if !ok {
		t.Fatalf("economic_analysis type = %T", payload["economic_analysis"])
	}
	if economic["outlook"] != "strong" {
		t.Fatalf("outlook = %v, want strong", economic["outlook"])
	}
	if economic["confidence"] != "high" {
		t.Fatalf("confidence = %v, want high", economic["confidence"])
	}

	combined, ok := payload["combined_assessment"].(map[string]any)
	if !ok {
		t.Fatalf("combined_assessment type = %T", payload["combined_assessment"])
	}
	if combined["sales_outlook"] != "strong_with_40%_political_risk" {
		t.Fatalf("sales_outlook = %v", combined["sales_outlook"])
	}
	// Risk 40 hits the elevated cutoff, so the strong outlook takes the
	// cautious branch.
	if combined["recommendation"] != "Good growth potential but monitor political developments" {
		t.Fatalf("recommendation = %v", combined["recommendation"])
	}
}

func TestForecastFactorsUnknownYear(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))
	payload := svc.ForecastFactors("2099")

	economic := payload["economic_analysis"].(map[string]any)
	if economic["outlook"] != "uncertain" {
		t.Fatalf("outlook = %v, want uncertain", economic["outlook"])
	}
	if economic["confidence"] != "low" {
		t.Fatalf("confidence = %v, want low", economic["confidence"])
	}
	if economic["notes"] != "No notes available" {
		t.Fatalf("notes = %v", economic["notes"])
	}
	political := payload["political_analysis"].(map[string]any)
	if political["risk_score"] != 0 {
		t.Fatalf("risk_score = %v, want 0", political["risk_score"])
	}
}

func TestOperationsAreIdempotentUnderFixedClock(t *testing.T) {
	svc := NewService(WithNow(fixedClock()))

	first, err := json.Marshal(svc.ForecastFactors("2025"))
	if err != nil {
		t.Fatalf("marshal first: %v", err)
	}
	second, err := json.Marshal(svc.ForecastFactors("2025"))
	if err != nil {
		t.Fatalf("marshal second: %v", err)
	}
	if string(first) != string(second) {
		t.Fatalf("repeated call produced different bytes:\n%s\n%s", first, second)
	}
}

func TestCustomThresholdsChangeScoring(t *testing.T) {
	svc := NewService(
		WithNow(fixedClock()),
		WithThresholds(Thresholds{
			StrongGDP:        5.0,
			ModerateGDP:      2.0,
			HighImpactWeight: 10,
			RiskCap:          100,
			ElevatedRisk:     40,
		}),
	)
	payload := svc.ForecastFactors("2024")

	political := payload["political_analysis"].(map[string]any)
	if political["risk_score"] != 20 {
		t.Fatalf("risk_score = %v, want 20", political["risk_score"])
	}
	economic := payload["economic_analysis"].(map[string]any)
	if economic["outlook"] != "moderate" {
		t.Fatalf("outlook = %v, want moderate", economic["outlook"])
	}
}

func TestRiskScoreIsCapped(t *testing.T) {
	events := EventTable{"2030": {
		{Event: "a", Impact: "high"},
		{Event: "b", Impact: "high"},
		{Event: "c", Impact: "high"},
		{Event: "d", Impact: "high"},
		{Event: "e", Impact: "high"},
		{Event: "f", Impact: "high"},
	}}
	svc := NewService(WithNow(fixedClock()), WithEvents(events))
	payload := svc.ForecastFactors("2030")

	political := payload["political_analysis"].(map[string]any)
	if political["risk_score"] != 100 {
		t.Fatalf("risk_score = %v, want the 100 cap", political["risk_score"])
	}
}
