package s3io

import (
	"fmt"
	"strconv"
	"strings"
)

// BuildKey constructs the S3 key for a client upload:
// <clientID>/<taxYear>/<filename>.
func BuildKey(clientID string, taxYear int, filename string) string {
	return fmt.Sprintf("%s/%d/%s", clientID, taxYear, filename)
}

// Prefix is the folder holding all of a client's documents for one tax year.
func Prefix(clientID string, taxYear int) string {
	return fmt.Sprintf("%s/%d/", clientID, taxYear)
}

// ParseKey extracts the client ID, tax year and filename from an upload key.
func ParseKey(key string) (clientID string, taxYear int, filename string, ok bool) {
	parts := strings.SplitN(key, "/", 3)
	if len(parts) != 3 || parts[2] == "" || strings.HasSuffix(parts[2], "/") {
		return "", 0, "", false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, "", false
	}
	return parts[0], year, parts[2], true
}

// UploadHeaders builds the headers the client portal must send on PUT so
// the object lands encrypted and carries the metadata the scanner reads.
func UploadHeaders(clientID, documentType, contentType string, taxYear int) map[string]string {
	h := map[string]string{
		"Content-Type":                 contentType,
		"x-amz-server-side-encryption": "aws:kms",
		"x-amz-meta-client_id":         clientID,
		"x-amz-meta-tax_year":          strconv.Itoa(taxYear),
	}
	if documentType != "" {
		h["x-amz-meta-document-type"] = documentType
	}
	return h
}
