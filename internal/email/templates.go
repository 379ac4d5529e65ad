// Package email builds and sends the follow-up emails requesting missing
// documents.
package email

import (
	"fmt"
	"strings"
)

// Template is a follow-up email before personalization.
type Template struct {
	Subject string
	Body    string
}

// Escalating templates keyed by follow-up number. Numbers past the third
// reuse the first template; by then the client is escalated and contacted
// by phone anyway.
var templates = map[int]Template{
	1: {
		Subject: "Documents needed for your {tax_year} tax return",
		Body: `Dear {client_name},

I hope this email finds you well. I'm reaching out regarding your {tax_year} tax return.

To complete your return, I still need the following documents:

{missing_documents_list}

Please upload these documents to your secure client portal at your earliest convenience.

Thank you for your prompt attention to this matter.

Best regards,
{accountant_name}
{accountant_firm}`,
	},
	2: {
		Subject: "Reminder: Documents still needed for your {tax_year} tax return",
		Body: `Dear {client_name},

This is a friendly reminder that I'm still waiting for the following documents:

{missing_documents_list}

The tax filing deadline is approaching. Please upload these documents as soon as possible.

Best regards,
{accountant_name}
{accountant_firm}`,
	},
	3: {
		Subject: "URGENT: Documents needed to avoid tax filing delays",
		Body: `Dear {client_name},

This is my third request for the following documents:

{missing_documents_list}

Without these documents, I cannot file your return on time, which may result in penalties.

Please call me directly at {accountant_phone}.

Sincerely,
{accountant_name}
{accountant_firm}`,
	},
}

// DefaultTemplate returns the template for a follow-up number.
func DefaultTemplate(followupNumber int) Template {
	if t, ok := templates[followupNumber]; ok {
		return t
	}
	return templates[1]
}

// FormatMissingDocuments renders the numbered missing-document list.
func FormatMissingDocuments(missing []string) string {
	if len(missing) == 0 {
		return "None - all documents received!"
	}
	lines := make([]string, len(missing))
	for i, doc := range missing {
		lines[i] = fmt.Sprintf("%d. %s", i+1, doc)
	}
	return strings.Join(lines, "\n")
}

// PersonalizeInput carries the placeholder values for one client.
type PersonalizeInput struct {
	ClientName      string
	TaxYear         int
	Missing         []string
	AccountantName  string
	AccountantFirm  string
	AccountantPhone string
}

// Personalize fills a template's placeholders. Empty client and accountant
// names fall back to neutral salutations.
func Personalize(t Template, in PersonalizeInput) Template {
	if in.ClientName == "" {
		in.ClientName = "Valued Client"
	}
	if in.AccountantName == "" {
		in.AccountantName = "Your Accountant"
	}
	replacer := strings.NewReplacer(
		"{client_name}", in.ClientName,
		"{tax_year}", fmt.Sprintf("%d", in.TaxYear),
		"{missing_documents_list}", FormatMissingDocuments(in.Missing),
		"{accountant_name}", in.AccountantName,
		"{accountant_firm}", in.AccountantFirm,
		"{accountant_phone}", in.AccountantPhone,
	)
	return Template{
		Subject: replacer.Replace(t.Subject),
		Body:    replacer.Replace(t.Body),
	}
}
