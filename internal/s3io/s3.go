// Package s3io provides utilities for working with the client document
// bucket: folder scanning, key schemes and presigned upload URLs.
package s3io

import (
	"context"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Presigner defines the interface for presigning S3 requests.
type Presigner interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// PresignPut generates a presigned URL for uploading a document to the
// client bucket with the given metadata.
func PresignPut(ctx context.Context, p Presigner, bucket, key, contentType string, meta map[string]string, ttl time.Duration) (string, time.Duration, error) {
	input := &s3.PutObjectInput{
		Bucket:               aws.String(bucket),
		Key:                  aws.String(key),
		ContentType:          aws.String(contentType),
		Metadata:             meta,
		ServerSideEncryption: types.ServerSideEncryptionAwsKms,
	}
	req, err := p.PresignPutObject(ctx, input, func(o *s3.PresignOptions) { o.Expires = ttl })
	if err != nil {
		return "", 0, err
	}
	return req.URL, ttl, nil
}

// Object is one stored file with its user metadata, as consumed by the
// document classifier.
type Object struct {
	Filename   string
	Key        string
	SizeBytes  int64
	UploadedAt time.Time
	Metadata   map[string]string // lowercased user metadata keys
}

// Lister is the subset of the S3 API the folder scanner needs.
type Lister interface {
	ListObjectsV2(ctx context.Context, params *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
}

// ScanClientFolder lists every object under a client's tax-year prefix and
// fetches its user metadata. Folder markers are skipped. Head failures on
// individual objects degrade to empty metadata rather than failing the
// scan.
func ScanClientFolder(ctx context.Context, c Lister, bucket, clientID string, taxYear int) ([]Object, error) {
	prefix := Prefix(clientID, taxYear)
	var objects []Object
	var token *string
	for {
		out, err := c.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
			Bucket:            aws.String(bucket),
			Prefix:            aws.String(prefix),
			ContinuationToken: token,
		})
		if err != nil {
			return nil, err
		}
		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			o := Object{
				Key:      key,
				Filename: key[strings.LastIndex(key, "/")+1:],
				Metadata: map[string]string{},
			}
			if obj.Size != nil {
				o.SizeBytes = *obj.Size
			}
			if obj.LastModified != nil {
				o.UploadedAt = *obj.LastModified
			}
			ho, err := c.HeadObject(ctx, &s3.HeadObjectInput{
				Bucket: aws.String(bucket),
				Key:    aws.String(key),
			})
			if err == nil {
				for k, v := range ho.Metadata {
					o.Metadata[strings.ToLower(k)] = v
				}
			}
			objects = append(objects, o)
		}
		if out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}
	return objects, nil
}
