package requirements

import (
	"strings"
	"testing"

	"github.com/kylejryan/tax-document-portal/internal/models"
)

func TestValidDocumentType(t *testing.T) {
	for _, dt := range []string{"W-2", "Schedule K-1", "Health Insurance Form (1095-A/B/C)"} {
		if !ValidDocumentType(dt) {
			t.Fatalf("catalog type %q should be valid", dt)
		}
	}
	if !ValidDocumentType("Rental Income Ledger (2025)") {
		t.Fatalf("well-formed custom type should be valid")
	}
	invalid := []string{
		"",
		strings.Repeat("x", 101),
		"docs; DROP TABLE",
		"receipt\n",
	}
	for _, dt := range invalid {
		if ValidDocumentType(dt) {
			t.Fatalf("expected %q to be invalid", dt)
		}
	}
}

func TestStandardBundles(t *testing.T) {
	ind := StandardBundle(models.TypeIndividual)
	if len(ind) != 4 || ind[0].DocumentType != "W-2" || !ind[0].Required {
		t.Fatalf("unexpected individual bundle: %+v", ind)
	}
	se := StandardBundle(models.TypeSelfEmployed)
	if se[0].DocumentType != "1099-NEC" {
		t.Fatalf("self-employed bundle should lead with 1099-NEC: %+v", se)
	}
	// Unknown categories fall back to individual.
	if got := StandardBundle(models.ClientType("trust")); got[0].DocumentType != "W-2" {
		t.Fatalf("unknown category should use individual bundle: %+v", got)
	}
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows("client-1", 2025, models.TypeBusiness)
	if len(rows) != 3 {
		t.Fatalf("expected 3 business rows, got %d", len(rows))
	}
	for _, r := range rows {
		if r.ClientID != "client-1" || r.TaxYear != 2025 {
			t.Fatalf("row missing identity fields: %+v", r)
		}
		if r.Received {
			t.Fatalf("fresh requirement must not be received: %+v", r)
		}
		if !ValidDocumentType(r.DocumentType) {
			t.Fatalf("preset produced invalid type %q", r.DocumentType)
		}
	}
}
