package orchestrator

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/petal-labs/salescast/agent"
)

const reportRule = "────────────────────────────────────────────────────────────────────────"

// TextSynthesizer renders plain-text reports from collected findings.
type TextSynthesizer struct{}

// NewTextSynthesizer returns the default report writer.
func NewTextSynthesizer() *TextSynthesizer {
	return &TextSynthesizer{}
}

// Forecast renders the single-year report. Every specialist gets a section;
// a specialist that returned no data is surfaced as an explicit gap.
func (s *TextSynthesizer) Forecast(year string, findings []agent.Finding, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "SALES FORECAST REPORT - %s\n", year)
	fmt.Fprintf(&b, "Generated: %s\n\n", at.Format("2006-01-02 15:04:05"))

	b.WriteString(reportRule + "\n")
	b.WriteString("EXECUTIVE SUMMARY\n")
	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "This report synthesizes %d specialist analyses to provide actionable\nsales forecasting insights for %s.\n\n", len(findings), year)

	for _, finding := range findings {
		writeSection(&b, finding)
	}

	b.WriteString(reportRule + "\n")
	b.WriteString("STRATEGIC RECOMMENDATIONS\n")
	b.WriteString(reportRule + "\n")
	b.WriteString(`Based on the combined analysis:

1. MARKET MONITORING
   Track key political events that may cause market volatility.

2. SALES TARGET ADJUSTMENTS
   Align targets with GDP growth projections and quarterly patterns.

3. RISK MITIGATION
   Prepare contingency plans for high-impact political events.

4. RESOURCE ALLOCATION
   Align inventory and marketing spend with the economic outlook.
`)
	return b.String()
}

// Compare renders the comparative report for two independently gathered
// result sets.
func (s *TextSynthesizer) Compare(year1, year2 string, first, second []agent.Finding, at time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "COMPARATIVE ANALYSIS: %s vs %s\n", year1, year2)
	fmt.Fprintf(&b, "Generated: %s\n\n", at.Format("2006-01-02 15:04:05"))

	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "%s ANALYSIS\n", year1)
	b.WriteString(reportRule + "\n")
	for _, finding := range first {
		writeSection(&b, finding)
	}

	b.WriteString(reportRule + "\n")
	fmt.Fprintf(&b, "%s ANALYSIS\n", year2)
	b.WriteString(reportRule + "\n")
	for _, finding := range second {
		writeSection(&b, finding)
	}

	b.WriteString(reportRule + "\n")
	b.WriteString("KEY DIFFERENCES & STRATEGIC IMPLICATIONS\n")
	b.WriteString(reportRule + "\n")
	b.WriteString(`Review the analyses above and consider:
- How do political risk profiles differ between years?
- Which year shows stronger economic fundamentals?
- What adjustments are needed for year-over-year sales strategies?
`)
	return b.String()
}

func writeSection(b *strings.Builder, finding agent.Finding) {
	title := strings.ToUpper(strings.ReplaceAll(finding.Specialist, "_", " "))
	fmt.Fprintf(b, "%s (%s)\n", title, finding.Year)

	switch finding.Result.Source {
	case agent.SourceNone:
		b.WriteString("  No data available: the specialist's service was unreachable and no\n")
		b.WriteString("  fallback dataset covers this year. Treat this section as a gap.\n\n")
		return
	case agent.SourceFallback:
		b.WriteString("  [data source: local fallback dataset, service was unreachable]\n")
	default:
		b.WriteString("  [data source: live]\n")
	}

	if len(finding.Analysis) > 0 {
		b.WriteString(indentJSON(finding.Analysis))
	}
	b.WriteString("\n")
}

func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "  ", "  ")
	if err != nil {
		return fmt.Sprintf("  (unrenderable analysis: %v)\n", err)
	}
	return "  " + string(data) + "\n"
}
