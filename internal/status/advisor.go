package status

import (
	"fmt"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

// NextAction maps a classified state to the operator-facing recommendation.
// nextDate is the stored next-follow-up date of the most recent event, empty
// when there is none; only its date part is shown.
func NextAction(state models.RiskState, followupCount int, nextDate string) string {
	switch state {
	case models.StateComplete:
		return "No action needed - all documents received"
	case models.StateEscalated:
		return "Requires accountant intervention - call client directly"
	case models.StateAtRisk:
		if nextDate != "" {
			return fmt.Sprintf("Send reminder #%d on %s", followupCount+1, datePart(nextDate))
		}
		return fmt.Sprintf("Send reminder #%d immediately", followupCount+1)
	}
	if nextDate != "" {
		return fmt.Sprintf("Send reminder #%d on %s", followupCount+1, datePart(nextDate))
	}
	// An incomplete client with no scheduled reminder has never been
	// contacted at all.
	return "Send initial document request"
}

func datePart(iso string) string {
	if len(iso) > 10 {
		return iso[:10]
	}
	return iso
}
