package status

import (
	"time"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

// Thresholds are the accountant-configurable knobs of the risk classifier.
type Thresholds struct {
	// EscalationThreshold is the number of follow-ups after which a
	// non-responding client becomes eligible for escalation.
	EscalationThreshold int
	// EscalationDays is the grace period after the last follow-up before
	// escalation actually fires.
	EscalationDays int
	// FollowupWindow caps how many recent follow-up events are read when
	// summarizing history.
	FollowupWindow int
}

// DefaultThresholds returns the documented defaults: threshold 3, grace
// period 2 days, history window 10.
func DefaultThresholds() Thresholds {
	return Thresholds{EscalationThreshold: 3, EscalationDays: 2, FollowupWindow: 10}
}

// ClassifyRisk derives a client's lifecycle state. It is a pure projection
// of its inputs, recomputed fresh on every query; there is no stored state
// machine to drift from the raw signals.
//
// A fully-submitted client is never at risk, no matter how long its
// reminder history is. One reminder short of the threshold already counts
// as at_risk so an accountant can intervene before the hard boundary.
func ClassifyRisk(completionPct, followupCount int, lastFollowup *time.Time, now time.Time, cfg Thresholds) models.RiskState {
	if completionPct == 100 {
		return models.StateComplete
	}
	if followupCount >= cfg.EscalationThreshold {
		if lastFollowup != nil && daysBetween(*lastFollowup, now) >= cfg.EscalationDays {
			return models.StateEscalated
		}
		return models.StateAtRisk
	}
	if followupCount >= cfg.EscalationThreshold-1 {
		return models.StateAtRisk
	}
	return models.StateIncomplete
}

// DaysUntilEscalation counts down to the next escalation opportunity.
// Nil below the threshold. A missing last-follow-up date on an eligible
// client is anomalous and yields 0: bias toward caution.
func DaysUntilEscalation(followupCount int, lastFollowup *time.Time, now time.Time, cfg Thresholds) *int {
	if followupCount < cfg.EscalationThreshold {
		return nil
	}
	days := 0
	if lastFollowup != nil {
		days = cfg.EscalationDays - daysBetween(*lastFollowup, now)
		if days < 0 {
			days = 0
		}
	}
	return &days
}

// daysBetween is whole elapsed days, truncated.
func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
