package status

import (
	"testing"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

func TestSummarizeNoEvents(t *testing.T) {
	s := SummarizeFollowups(nil)
	if s.Count != 0 || s.LastNumber != 0 || s.LastDate != "" || s.NextDate != "" || s.LastSent != nil {
		t.Fatalf("expected zero summary, got %+v", s)
	}
}

func TestSummarizeUsesNewestEvent(t *testing.T) {
	events := []models.FollowupEvent{
		{
			FollowupNumber:   3,
			SentDate:         "2026-03-10T09:00:00Z",
			NextFollowupDate: "2026-03-17T09:00:00Z",
			ResponseReceived: true,
		},
		{FollowupNumber: 2, SentDate: "2026-03-03T09:00:00Z"},
		{FollowupNumber: 1, SentDate: "2026-02-24T09:00:00Z"},
	}
	s := SummarizeFollowups(events)
	if s.Count != 3 {
		t.Fatalf("expected count 3, got %d", s.Count)
	}
	if s.LastNumber != 3 || s.LastDate != "2026-03-10T09:00:00Z" {
		t.Fatalf("expected newest event fields, got %+v", s)
	}
	if s.NextDate != "2026-03-17T09:00:00Z" || !s.ResponseReceived {
		t.Fatalf("expected next date and response flag from newest event, got %+v", s)
	}
	if s.LastSent == nil || s.LastSent.Day() != 10 {
		t.Fatalf("expected parsed last-sent time, got %v", s.LastSent)
	}
}

func TestSummarizeMalformedDate(t *testing.T) {
	s := SummarizeFollowups([]models.FollowupEvent{
		{FollowupNumber: 3, SentDate: "not-a-date"},
	})
	if s.LastSent != nil {
		t.Fatalf("malformed date must parse to nil, got %v", s.LastSent)
	}
	if s.LastDate != "not-a-date" {
		t.Fatalf("raw stored value should still be surfaced, got %q", s.LastDate)
	}
}

func TestSummarizeZonelessDate(t *testing.T) {
	s := SummarizeFollowups([]models.FollowupEvent{
		{FollowupNumber: 1, SentDate: "2026-03-10T09:00:00"},
	})
	if s.LastSent == nil {
		t.Fatalf("zoneless ISO timestamp should parse as UTC")
	}
}
