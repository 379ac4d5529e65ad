package status

import (
	"testing"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

func req(docType string, required, received bool) models.Requirement {
	return models.Requirement{DocumentType: docType, Required: required, Received: received}
}

func TestCompletionHalfReceived(t *testing.T) {
	c := MatchCompletion([]models.Requirement{
		req("W-2", true, true),
		req("1099-INT", true, false),
	})
	if c.Percentage != 50 {
		t.Fatalf("expected 50%%, got %d", c.Percentage)
	}
	if c.TotalRequired != 2 || c.TotalReceived != 1 {
		t.Fatalf("expected 2 required / 1 received, got %d/%d", c.TotalRequired, c.TotalReceived)
	}
	if len(c.MissingDocuments) != 1 || c.MissingDocuments[0] != "1099-INT" {
		t.Fatalf("expected missing [1099-INT], got %v", c.MissingDocuments)
	}
}

func TestCompletionZeroRequiredIsComplete(t *testing.T) {
	c := MatchCompletion(nil)
	if c.Percentage != 100 {
		t.Fatalf("zero required documents should be 100%%, got %d", c.Percentage)
	}
	if len(c.MissingDocuments) != 0 {
		t.Fatalf("expected no missing documents, got %v", c.MissingDocuments)
	}
}

func TestCompletionOptionalReceivedDoesNotCount(t *testing.T) {
	c := MatchCompletion([]models.Requirement{
		req("W-2", true, false),
		req("1099-DIV", false, true), // nice to have, not must have
	})
	if c.Percentage != 0 {
		t.Fatalf("optional received row must not move the percentage, got %d", c.Percentage)
	}
	if c.TotalRequired != 1 || c.TotalReceived != 0 {
		t.Fatalf("expected 1/0, got %d/%d", c.TotalRequired, c.TotalReceived)
	}
}

func TestCompletionHundredOnlyWhenAllRequiredReceived(t *testing.T) {
	all := []models.Requirement{
		req("W-2", true, true),
		req("Prior Year Tax Return", true, true),
		req("1099-INT", false, false),
	}
	if c := MatchCompletion(all); c.Percentage != 100 {
		t.Fatalf("all required received should be 100%%, got %d", c.Percentage)
	}
	all[0].Received = false
	if c := MatchCompletion(all); c.Percentage == 100 {
		t.Fatalf("one required missing must not be 100%%")
	}
}

func TestCompletionRounding(t *testing.T) {
	c := MatchCompletion([]models.Requirement{
		req("A", true, true),
		req("B", true, true),
		req("C", true, false),
	})
	if c.Percentage != 67 {
		t.Fatalf("expected 2/3 to round to 67, got %d", c.Percentage)
	}
}

func TestCompletionPercentageBounds(t *testing.T) {
	sets := [][]models.Requirement{
		nil,
		{req("A", true, false)},
		{req("A", true, true)},
		{req("A", false, true), req("B", true, true)},
	}
	for _, set := range sets {
		c := MatchCompletion(set)
		if c.Percentage < 0 || c.Percentage > 100 {
			t.Fatalf("percentage out of bounds: %d for %v", c.Percentage, set)
		}
	}
}

func TestCompletionMissingOrderFollowsInput(t *testing.T) {
	c := MatchCompletion([]models.Requirement{
		req("Prior Year Tax Return", true, false),
		req("W-2", true, false),
		req("1099-NEC", true, false),
	})
	want := []string{"Prior Year Tax Return", "W-2", "1099-NEC"}
	for i, doc := range want {
		if c.MissingDocuments[i] != doc {
			t.Fatalf("missing order not preserved: got %v", c.MissingDocuments)
		}
	}
}
