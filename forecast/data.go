// Package forecast holds the sales-forecasting domain operations exposed by
// the salescast server: political event lookups, GDP growth data, and the
// combined forecast-factor analysis.
package forecast

// Event is one political event entry.
type Event struct {
	Date        string `json:"date"`
	Event       string `json:"event"`
	Impact      string `json:"impact"`
	Description string `json:"description,omitempty"`
}

// GDPYear carries quarterly and annual growth rates for one year. Nil values
// mean the figure is not yet available.
type GDPYear struct {
	Q1     *float64 `json:"q1"`
	Q2     *float64 `json:"q2"`
	Q3     *float64 `json:"q3"`
	Q4     *float64 `json:"q4"`
	Annual *float64 `json:"annual"`
	Notes  string   `json:"notes"`
}

// EventTable maps year to political events. Built once at startup and
// read-only afterwards.
type EventTable map[string][]Event

// GDPTable maps year to GDP figures. Built once at startup and read-only
// afterwards.
type GDPTable map[string]GDPYear

func f(v float64) *float64 { return &v }

// DefaultEvents returns the built-in political event table.
func DefaultEvents() EventTable {
	return EventTable{
		"2024": {
			{Date: "2024-11-05", Event: "US Presidential Election", Impact: "high",
				Description: "Major election cycle affecting market sentiment and policy direction"},
			{Date: "2024-06-15", Event: "G7 Summit", Impact: "medium",
				Description: "International economic policy coordination meeting"},
			{Date: "2024-03-20", Event: "Federal Reserve Policy Meeting", Impact: "high",
				Description: "Interest rate decisions affecting consumer spending"},
		},
		"2025": {
			{Date: "2025-01-20", Event: "Presidential Inauguration", Impact: "high",
				Description: "New administration begins, policy changes expected"},
			{Date: "2025-04-15", Event: "Tax Policy Changes", Impact: "medium",
				Description: "Corporate and individual tax adjustments take effect"},
			{Date: "2025-09-10", Event: "Climate Summit", Impact: "medium",
				Description: "Green economy policies affecting multiple sectors"},
		},
		"2026": {
			{Date: "2026-01-15", Event: "Federal Budget Announcement", Impact: "high",
				Description: "Government spending priorities revealed"},
			{Date: "2026-06-20", Event: "Trade Agreement Negotiations", Impact: "high",
				Description: "International trade deals affecting import/export sectors"},
			{Date: "2026-11-03", Event: "Midterm Elections", Impact: "high",
				Description: "Congressional elections affecting legislative agenda"},
		},
	}
}

// DefaultGDP returns the built-in GDP growth table.
func DefaultGDP() GDPTable {
	return GDPTable{
		"2023": {Q1: f(2.6), Q2: f(2.1), Q3: f(4.9), Q4: f(3.4), Annual: f(3.2),
			Notes: "Strong recovery year with robust consumer spending"},
		"2024": {Q1: f(3.4), Q2: f(2.8), Q3: f(2.9), Q4: f(3.1), Annual: f(3.1),
			Notes: "Stable growth maintained despite global uncertainties"},
		"2025": {Q1: f(2.9), Q2: f(2.7), Q3: f(3.2), Q4: f(2.8), Annual: f(2.9),
			Notes: "Moderate growth expected with policy transitions"},
		"2026": {Q1: f(2.5), Q2: f(2.8), Q3: nil, Q4: nil, Annual: nil,
			Notes: "Projected growth with uncertainty in later quarters"},
	}
}
