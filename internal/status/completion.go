package status

import (
	"math"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

// Completion summarizes how far along a client is on required documents.
type Completion struct {
	TotalRequired    int      `json:"total_required"`
	TotalReceived    int      `json:"total_received"`
	Percentage       int      `json:"completion_percentage"`
	MissingDocuments []string `json:"missing_documents"`
}

// MatchCompletion computes completion over a client's requirement rows.
// Only required rows count: a received-but-optional document never moves the
// percentage. With nothing required the client is complete by definition.
// The missing list preserves the input row order.
func MatchCompletion(reqs []models.Requirement) Completion {
	c := Completion{MissingDocuments: []string{}}
	for _, r := range reqs {
		if !r.Required {
			continue
		}
		c.TotalRequired++
		if r.Received {
			c.TotalReceived++
		} else {
			c.MissingDocuments = append(c.MissingDocuments, r.DocumentType)
		}
	}
	if c.TotalRequired == 0 {
		c.Percentage = 100
		return c
	}
	pct := int(math.Round(float64(c.TotalReceived) / float64(c.TotalRequired) * 100))
	if pct > 100 {
		pct = 100
	}
	c.Percentage = pct
	return c
}
