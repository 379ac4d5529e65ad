package s3io

import "testing"

func TestBuildAndParseKey(t *testing.T) {
	key := BuildKey("client-42", 2025, "w2_acme.pdf")
	if key != "client-42/2025/w2_acme.pdf" {
		t.Fatalf("unexpected key: %q", key)
	}
	clientID, year, filename, ok := ParseKey(key)
	if !ok {
		t.Fatalf("expected key to parse")
	}
	if clientID != "client-42" || year != 2025 || filename != "w2_acme.pdf" {
		t.Fatalf("round trip mismatch: %s %d %s", clientID, year, filename)
	}
}

func TestParseKeyNestedFilename(t *testing.T) {
	_, _, filename, ok := ParseKey("client-1/2025/scans/w2.pdf")
	if !ok || filename != "scans/w2.pdf" {
		t.Fatalf("nested paths belong to the filename part, got %q ok=%v", filename, ok)
	}
}

func TestParseKeyRejectsBadShapes(t *testing.T) {
	bad := []string{
		"",
		"client-1",
		"client-1/2025",
		"client-1/2025/",
		"client-1/notayear/w2.pdf",
	}
	for _, key := range bad {
		if _, _, _, ok := ParseKey(key); ok {
			t.Fatalf("expected %q to be rejected", key)
		}
	}
}

func TestUploadHeaders(t *testing.T) {
	h := UploadHeaders("client-1", "W-2", "application/pdf", 2025)
	if h["x-amz-server-side-encryption"] != "aws:kms" {
		t.Fatalf("uploads must require KMS encryption: %v", h)
	}
	if h["x-amz-meta-document-type"] != "W-2" || h["x-amz-meta-tax_year"] != "2025" {
		t.Fatalf("metadata headers wrong: %v", h)
	}
	noType := UploadHeaders("client-1", "", "application/pdf", 2025)
	if _, ok := noType["x-amz-meta-document-type"]; ok {
		t.Fatalf("empty document type must not emit a metadata header")
	}
}
