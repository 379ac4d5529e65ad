package main

import (
	"context"
	"time"

	"github.com/kylejryan/tax-document-portal/internal/classify"
	"github.com/kylejryan/tax-document-portal/internal/s3io"
)

// scanFolder lists the client's tax-year folder and classifies each upload.
func scanFolder(ctx context.Context, c s3io.Lister, bucket, clientID string, taxYear int) ([]receivedDocument, error) {
	objects, err := s3io.ScanClientFolder(ctx, c, bucket, clientID, taxYear)
	if err != nil {
		return nil, err
	}
	docs := make([]receivedDocument, 0, len(objects))
	for _, obj := range objects {
		docs = append(docs, receivedDocument{
			Filename:     obj.Filename,
			DocumentType: classify.Document(obj.Filename, obj.Metadata),
			UploadDate:   obj.UploadedAt.UTC().Format(time.RFC3339),
			SizeBytes:    obj.SizeBytes,
			S3Key:        obj.Key,
		})
	}
	return docs, nil
}
