package aws

import (
	"context"
	"fmt"
	"time"

	sdkaws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Presigner produces presigned PUT URLs for direct browser uploads.
type Presigner interface {
	PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
}

// S3Presigner presigns uploads into a single bucket.
type S3Presigner struct {
	bucket    string
	presigner *s3.PresignClient
}

func NewS3Presigner(cfg sdkaws.Config, bucket string) *S3Presigner {
	return &S3Presigner{
		bucket:    bucket,
		presigner: s3.NewPresignClient(s3.NewFromConfig(cfg)),
	}
}

// PresignPut generates a presigned PUT URL for key. The content type is part
// of the signature, so the browser must send the same Content-Type header.
func (p *S3Presigner) PresignPut(ctx context.Context, key, contentType string, expires time.Duration) (string, error) {
	input := &s3.PutObjectInput{
		Bucket:      sdkaws.String(p.bucket),
		Key:         sdkaws.String(key),
		ContentType: sdkaws.String(contentType),
	}

	presigned, err := p.presigner.PresignPutObject(ctx, input, func(o *s3.PresignOptions) {
		o.Expires = expires
	})
	if err != nil {
		return "", fmt.Errorf("failed to presign put object: %w", err)
	}
	return presigned.URL, nil
}
