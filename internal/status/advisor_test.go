package status

import (
	"testing"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

func TestNextActionComplete(t *testing.T) {
	got := NextAction(models.StateComplete, 4, "2026-04-01T00:00:00Z")
	if got != "No action needed - all documents received" {
		t.Fatalf("unexpected action: %q", got)
	}
}

func TestNextActionEscalated(t *testing.T) {
	got := NextAction(models.StateEscalated, 3, "")
	if got != "Requires accountant intervention - call client directly" {
		t.Fatalf("unexpected action: %q", got)
	}
}

func TestNextActionAtRiskWithDate(t *testing.T) {
	got := NextAction(models.StateAtRisk, 2, "2026-04-01T09:00:00Z")
	if got != "Send reminder #3 on 2026-04-01" {
		t.Fatalf("unexpected action: %q", got)
	}
}

func TestNextActionAtRiskWithoutDate(t *testing.T) {
	got := NextAction(models.StateAtRisk, 2, "")
	if got != "Send reminder #3 immediately" {
		t.Fatalf("unexpected action: %q", got)
	}
}

func TestNextActionNeverContacted(t *testing.T) {
	// An incomplete client with zero follow-ups and nothing scheduled gets
	// the initial request, not a numbered reminder.
	got := NextAction(models.StateIncomplete, 0, "")
	if got != "Send initial document request" {
		t.Fatalf("unexpected action: %q", got)
	}
}

func TestNextActionIncompleteMidCycle(t *testing.T) {
	got := NextAction(models.StateIncomplete, 1, "2026-03-20T00:00:00Z")
	if got != "Send reminder #2 on 2026-03-20" {
		t.Fatalf("unexpected action: %q", got)
	}
}
