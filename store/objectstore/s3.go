// Package objectstore reaches S3-compatible object storage (AWS S3, Cloudflare R2).
package objectstore

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/section3-pro/compliance-backend/config"
)

// HeadBucketAPI is the part of *s3.Client the bucket check calls.
type HeadBucketAPI interface {
	HeadBucket(ctx context.Context, params *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// NewS3Client builds a client from static keys when they are configured and
// from the default AWS credential chain otherwise. A custom endpoint (R2,
// MinIO) switches to path-style addressing.
func NewS3Client(ctx context.Context, cfg config.StorageConfig) (*s3.Client, error) {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts := s3.Options{
			Region:      cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		}
		if cfg.Endpoint != "" {
			opts.BaseEndpoint = aws.String(cfg.Endpoint)
			opts.UsePathStyle = true
		}
		return s3.New(opts), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Bucket checks that one bucket exists and is accessible.
type Bucket struct {
	api  HeadBucketAPI
	name string
}

func NewBucket(api HeadBucketAPI, name string) *Bucket {
	return &Bucket{api: api, name: name}
}

func (b *Bucket) CheckBucket(ctx context.Context) error {
	_, err := b.api.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(b.name)})
	if err != nil {
		return fmt.Errorf("s3 head bucket %s failed: %w", b.name, err)
	}
	return nil
}
