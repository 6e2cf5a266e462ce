package cli

import (
	"testing"
	"time"
)

func TestParseCronExpressionUTC(t *testing.T) {
	schedule, err := parseCronExpressionUTC("0 6 * * 1")
	if err != nil {
		t.Fatalf("parseCronExpressionUTC() error = %v", err)
	}
	// Monday 2026-08-24 is before 06:00 UTC, so the next run is that morning.
	now := time.Date(2026, 8, 24, 4, 0, 0, 0, time.UTC)
	next := schedule.Next(now)
	want := time.Date(2026, 8, 24, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Fatalf("Next() = %v, want %v", next, want)
	}
}

func TestParseCronExpressionRejectsEmpty(t *testing.T) {
	if _, err := parseCronExpressionUTC("   "); err == nil {
		t.Fatal("error = nil, want required error")
	}
}

func TestParseCronExpressionRejectsTimezonePrefix(t *testing.T) {
	for _, expr := range []string{
		"CRON_TZ=America/New_York 0 6 * * *",
		"TZ=UTC 0 6 * * *",
	} {
		if _, err := parseCronExpressionUTC(expr); err == nil {
			t.Fatalf("parseCronExpressionUTC(%q) error = nil, want timezone rejection", expr)
		}
	}
}

func TestParseCronExpressionRejectsMalformed(t *testing.T) {
	if _, err := parseCronExpressionUTC("not a cron line"); err == nil {
		t.Fatal("error = nil, want parse error")
	}
}

func TestExitErrorCarriesCode(t *testing.T) {
	err := exitError(exitConfig, "config %q unreadable", "salescast.yaml")
	if err.Code != exitConfig {
		t.Fatalf("code = %d, want %d", err.Code, exitConfig)
	}
	if err.Error() != `config "salescast.yaml" unreadable` {
		t.Fatalf("message = %q", err.Error())
	}
}
