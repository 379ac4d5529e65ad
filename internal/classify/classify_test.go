package classify

import "testing"

func TestMetadataOverridesFilename(t *testing.T) {
	got := Document("w2_2024.pdf", map[string]string{"document-type": "1099-B"})
	if got != "1099-B" {
		t.Fatalf("expected metadata to win, got %q", got)
	}
}

func TestFilenameKeywordMatching(t *testing.T) {
	cases := []struct {
		filename string
		want     string
	}{
		{"W2_AcmeCorp_2024.pdf", "W-2"},
		{"wage-statement.pdf", "W-2"},
		{"Tax Statement 2024.pdf", "W-2"},
		{"1099-int-chase.pdf", "1099-INT"},
		{"1099INT.pdf", "1099-INT"},
		{"interest income summary.pdf", "1099-INT"},
		{"dividends_1099div.pdf", "1099-DIV"},
		{"broker-statement-1099b.pdf", "1099-B"},
		{"retirement_1099r.pdf", "1099-R"},
		{"non-employee comp.pdf", "1099-NEC"},
		{"vacation-photos.zip", "Unknown"},
		{"", "Unknown"},
	}
	for _, tc := range cases {
		got := Document(tc.filename, nil)
		if got != tc.want {
			t.Fatalf("Document(%q) = %q, want %q", tc.filename, got, tc.want)
		}
	}
}

func TestFirstMatchWins(t *testing.T) {
	// "w2" appears before any 1099 rule, so a filename matching both
	// always classifies as W-2.
	got := Document("w2_and_1099-int_bundle.pdf", nil)
	if got != "W-2" {
		t.Fatalf("expected first rule to win, got %q", got)
	}
}

func TestClassificationIsDeterministic(t *testing.T) {
	meta := map[string]string{"other": "x"}
	first := Document("Wage_Statement.PDF", meta)
	for i := 0; i < 5; i++ {
		if got := Document("Wage_Statement.PDF", meta); got != first {
			t.Fatalf("classification changed between calls: %q then %q", first, got)
		}
	}
	if first != "W-2" {
		t.Fatalf("expected W-2 for mixed-case wage statement, got %q", first)
	}
}

func TestEmptyMetadataValueIgnored(t *testing.T) {
	got := Document("broker.pdf", map[string]string{"document-type": ""})
	if got != "1099-B" {
		t.Fatalf("empty metadata value should fall through to filename, got %q", got)
	}
}
