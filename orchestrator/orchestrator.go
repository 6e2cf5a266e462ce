// Package orchestrator sequences multiple specialist callers and feeds
// their collected findings into a synthesis step. Each request is
// independent; the orchestrator holds no state across invocations.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/petal-labs/salescast/agent"
)

// Specialist is one remote analyst the orchestrator consults. Gather never
// fails; transport degradation is visible only as finding provenance.
type Specialist interface {
	Name() string
	Gather(ctx context.Context, year string) agent.Finding
}

// Report is the synthesized output of one workflow run.
type Report struct {
	RunID       string          `json:"run_id"`
	Years       []string        `json:"years"`
	Findings    []agent.Finding `json:"findings"`
	Text        string          `json:"text"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// Synthesizer combines collected findings into a consumer-facing report.
type Synthesizer interface {
	Forecast(year string, findings []agent.Finding, at time.Time) string
	Compare(year1, year2 string, first, second []agent.Finding, at time.Time) string
}

// Config configures an Orchestrator.
type Config struct {
	Specialists []Specialist
	Synthesizer Synthesizer
	Logger      *slog.Logger
	Now         func() time.Time
}

// Orchestrator runs the two forecasting workflows over a fixed set of
// specialists.
type Orchestrator struct {
	specialists []Specialist
	synthesizer Synthesizer
	logger      *slog.Logger
	now         func() time.Time
}

// New constructs an Orchestrator. At least one specialist is required.
func New(cfg Config) (*Orchestrator, error) {
	if len(cfg.Specialists) == 0 {
		return nil, errors.New("orchestrator: at least one specialist is required")
	}
	synthesizer := cfg.Synthesizer
	if synthesizer == nil {
		synthesizer = NewTextSynthesizer()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Orchestrator{
		specialists: cfg.Specialists,
		synthesizer: synthesizer,
		logger:      logger,
		now:         now,
	}, nil
}

// Forecast runs the single-year workflow: gather every configured
// specialist, then synthesize. Synthesis never starts before all findings
// are in, and a specialist that returned no data still gets its section.
func (o *Orchestrator) Forecast(ctx context.Context, year string) Report {
	runID := uuid.New().String()
	o.logger.Info("forecast run started", "run_id", runID, "year", year)

	findings := o.gather(ctx, year)
	at := o.now()
	return Report{
		RunID:       runID,
		Years:       []string{year},
		Findings:    findings,
		Text:        o.synthesizer.Forecast(year, findings, at),
		GeneratedAt: at,
	}
}

// Compare runs the comparative workflow: two fully independent gathers,
// then a single synthesis of both result sets.
func (o *Orchestrator) Compare(ctx context.Context, year1, year2 string) Report {
	runID := uuid.New().String()
	o.logger.Info("compare run started", "run_id", runID, "year1", year1, "year2", year2)

	first := o.gather(ctx, year1)
	second := o.gather(ctx, year2)
	at := o.now()

	findings := make([]agent.Finding, 0, len(first)+len(second))
	findings = append(findings, first...)
	findings = append(findings, second...)
	return Report{
		RunID:       runID,
		Years:       []string{year1, year2},
		Findings:    findings,
		Text:        o.synthesizer.Compare(year1, year2, first, second, at),
		GeneratedAt: at,
	}
}

// gather collects one finding per specialist. Calls run concurrently; the
// join below guarantees every specialist reported before synthesis. A
// caller timeout cancels only its own exchange, never a sibling's.
func (o *Orchestrator) gather(ctx context.Context, year string) []agent.Finding {
	findings := make([]agent.Finding, len(o.specialists))
	var wg sync.WaitGroup
	for i, specialist := range o.specialists {
		wg.Add(1)
		go func() {
			defer wg.Done()
			findings[i] = specialist.Gather(ctx, year)
		}()
	}
	wg.Wait()

	for _, finding := range findings {
		o.logger.Debug("specialist reported",
			"specialist", finding.Specialist,
			"year", year,
			"source", finding.Result.Source,
		)
	}
	return findings
}
