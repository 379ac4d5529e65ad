package status

import (
	"testing"
	"time"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := testNow.AddDate(0, 0, -n)
	return &t
}

func TestCompleteOverridesEverything(t *testing.T) {
	cfg := DefaultThresholds()
	got := ClassifyRisk(100, 9, daysAgo(30), testNow, cfg)
	if got != models.StateComplete {
		t.Fatalf("completion must override risk signals, got %q", got)
	}
}

func TestEscalatedAfterGracePeriod(t *testing.T) {
	// 3 follow-ups, last one 3 days ago, 2-day grace: escalated, countdown 0.
	cfg := DefaultThresholds()
	got := ClassifyRisk(40, 3, daysAgo(3), testNow, cfg)
	if got != models.StateEscalated {
		t.Fatalf("expected escalated, got %q", got)
	}
	d := DaysUntilEscalation(3, daysAgo(3), testNow, cfg)
	if d == nil || *d != 0 {
		t.Fatalf("expected countdown 0, got %v", d)
	}
}

func TestAtRiskInsideGracePeriod(t *testing.T) {
	cfg := DefaultThresholds()
	got := ClassifyRisk(40, 3, daysAgo(1), testNow, cfg)
	if got != models.StateAtRisk {
		t.Fatalf("expected at_risk inside grace period, got %q", got)
	}
	d := DaysUntilEscalation(3, daysAgo(1), testNow, cfg)
	if d == nil || *d != 1 {
		t.Fatalf("expected countdown 1, got %v", d)
	}
}

func TestAtRiskOneBelowThreshold(t *testing.T) {
	// 2 follow-ups against a threshold of 3: one away, so at_risk already,
	// but no countdown yet.
	cfg := DefaultThresholds()
	got := ClassifyRisk(40, 2, daysAgo(1), testNow, cfg)
	if got != models.StateAtRisk {
		t.Fatalf("expected at_risk one below threshold, got %q", got)
	}
	if d := DaysUntilEscalation(2, daysAgo(1), testNow, cfg); d != nil {
		t.Fatalf("countdown should be nil below threshold, got %d", *d)
	}
}

func TestIncompleteWellBelowThreshold(t *testing.T) {
	cfg := DefaultThresholds()
	if got := ClassifyRisk(0, 0, nil, testNow, cfg); got != models.StateIncomplete {
		t.Fatalf("expected incomplete, got %q", got)
	}
	if got := ClassifyRisk(80, 1, daysAgo(2), testNow, cfg); got != models.StateIncomplete {
		t.Fatalf("expected incomplete with 1 follow-up, got %q", got)
	}
}

func TestMissingLastDateAtThreshold(t *testing.T) {
	// An eligible client with no recorded last-follow-up date is anomalous:
	// never escalated outright, but countdown hits 0 immediately.
	cfg := DefaultThresholds()
	got := ClassifyRisk(40, 3, nil, testNow, cfg)
	if got != models.StateAtRisk {
		t.Fatalf("expected at_risk with missing date, got %q", got)
	}
	d := DaysUntilEscalation(3, nil, testNow, cfg)
	if d == nil || *d != 0 {
		t.Fatalf("expected countdown 0 with missing date, got %v", d)
	}
}

func TestClassificationIsPure(t *testing.T) {
	cfg := Thresholds{EscalationThreshold: 5, EscalationDays: 4, FollowupWindow: 10}
	last := daysAgo(2)
	first := ClassifyRisk(30, 5, last, testNow, cfg)
	firstDays := DaysUntilEscalation(5, last, testNow, cfg)
	for i := 0; i < 5; i++ {
		if got := ClassifyRisk(30, 5, last, testNow, cfg); got != first {
			t.Fatalf("state changed between identical calls: %q then %q", first, got)
		}
		d := DaysUntilEscalation(5, last, testNow, cfg)
		if (d == nil) != (firstDays == nil) || (d != nil && *d != *firstDays) {
			t.Fatalf("countdown changed between identical calls")
		}
	}
}

func TestCustomThresholds(t *testing.T) {
	cfg := Thresholds{EscalationThreshold: 5, EscalationDays: 7, FollowupWindow: 10}
	if got := ClassifyRisk(40, 3, daysAgo(10), testNow, cfg); got != models.StateIncomplete {
		t.Fatalf("3 follow-ups under threshold 5 should be incomplete, got %q", got)
	}
	if got := ClassifyRisk(40, 4, daysAgo(10), testNow, cfg); got != models.StateAtRisk {
		t.Fatalf("4 follow-ups is one below threshold 5, expected at_risk, got %q", got)
	}
	if got := ClassifyRisk(40, 5, daysAgo(10), testNow, cfg); got != models.StateEscalated {
		t.Fatalf("past grace at threshold should escalate, got %q", got)
	}
}
