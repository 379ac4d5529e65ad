// Package requirements holds the standard document-type catalog and the
// preset requirement bundles applied when a client is onboarded.
package requirements

import (
	"github.com/kylejryan/tax-document-portal/internal/models"
)

// StandardDocumentTypes is the catalog of well-known tax document labels.
var StandardDocumentTypes = []string{
	"W-2", "1099-INT", "1099-DIV", "1099-MISC", "1099-NEC", "1099-B", "1099-R",
	"1099-G", "1099-K", "Schedule K-1", "Mortgage Interest Statement (1098)",
	"Student Loan Interest (1098-E)", "Tuition Statement (1098-T)",
	"Health Insurance Form (1095-A/B/C)", "Charitable Donation Receipts",
	"Medical Expense Receipts", "Business Expense Receipts", "Property Tax Statement",
	"Prior Year Tax Return", "Estimated Tax Payment Records",
}

var standardSet = func() map[string]struct{} {
	m := make(map[string]struct{}, len(StandardDocumentTypes))
	for _, t := range StandardDocumentTypes {
		m[t] = struct{}{}
	}
	return m
}()

// ValidDocumentType accepts catalog members, or custom labels of at most
// 100 characters drawn from letters, digits, spaces, hyphens and parens.
func ValidDocumentType(documentType string) bool {
	if _, ok := standardSet[documentType]; ok {
		return true
	}
	if documentType == "" || len(documentType) > 100 {
		return false
	}
	for _, c := range documentType {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == ' ', c == '-', c == '(', c == ')':
		default:
			return false
		}
	}
	return true
}

// Preset is one entry of a standard requirement bundle.
type Preset struct {
	DocumentType string
	Source       string
	Required     bool
}

var presets = map[models.ClientType][]Preset{
	models.TypeIndividual: {
		{"W-2", "All Employers", true},
		{"1099-INT", "All Banks", false},
		{"1099-DIV", "All Investment Accounts", false},
		{"Prior Year Tax Return", "IRS", true},
	},
	models.TypeSelfEmployed: {
		{"1099-NEC", "All Clients", true},
		{"1099-MISC", "All Sources", false},
		{"Business Expense Receipts", "Various", true},
		{"Prior Year Tax Return", "IRS", true},
	},
	models.TypeBusiness: {
		{"1099-NEC", "All Contractors", true},
		{"Business Expense Receipts", "Various", true},
		{"Prior Year Tax Return", "IRS", true},
	},
}

// StandardBundle returns the preset requirements for a client category.
// Unknown categories fall back to the individual bundle.
func StandardBundle(clientType models.ClientType) []Preset {
	if b, ok := presets[clientType]; ok {
		return b
	}
	return presets[models.TypeIndividual]
}

// BuildRows expands a preset bundle into requirement rows for one client
// and tax year.
func BuildRows(clientID string, taxYear int, clientType models.ClientType) []models.Requirement {
	bundle := StandardBundle(clientType)
	rows := make([]models.Requirement, 0, len(bundle))
	for _, p := range bundle {
		rows = append(rows, models.Requirement{
			ClientID:     clientID,
			DocumentType: p.DocumentType,
			TaxYear:      taxYear,
			Source:       p.Source,
			Required:     p.Required,
		})
	}
	return rows
}
