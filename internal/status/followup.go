package status

import (
	"time"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

// FollowupSummary condenses a client's most recent reminder events.
//
// Count is the number of events inside the read window, not a stored total;
// with the default window of ten it under-reports long histories. That is
// acceptable because escalation thresholds are small integers and events
// beyond the window have no classification effect.
type FollowupSummary struct {
	Count            int    `json:"followup_count"`
	LastNumber       int    `json:"last_followup,omitempty"`
	LastDate         string `json:"last_followup_date,omitempty"`
	NextDate         string `json:"next_followup_date,omitempty"`
	ResponseReceived bool   `json:"response_received"`

	// LastSent is LastDate parsed at the storage boundary; nil when there
	// are no events or the stored date is malformed.
	LastSent *time.Time `json:"-"`
}

// SummarizeFollowups reads a newest-first window of follow-up events. With
// zero events every field is its zero value.
func SummarizeFollowups(events []models.FollowupEvent) FollowupSummary {
	if len(events) == 0 {
		return FollowupSummary{}
	}
	latest := events[0]
	s := FollowupSummary{
		Count:            len(events),
		LastNumber:       latest.FollowupNumber,
		LastDate:         latest.SentDate,
		NextDate:         latest.NextFollowupDate,
		ResponseReceived: latest.ResponseReceived,
	}
	if t, ok := latest.SentTime(); ok {
		s.LastSent = &t
	}
	return s
}
