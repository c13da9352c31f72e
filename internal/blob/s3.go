package blob

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/nuhm/bitnap/backend/config"
)

// S3API is the part of the S3 client the store needs.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads objects to an AWS S3 bucket.
type S3Store struct {
	client S3API
	bucket string
	region string
}

func NewS3Store(client S3API, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

// NewS3StoreFromConfig wires the store to the shared S3 configuration.
func NewS3StoreFromConfig(s3cfg *config.S3Config) *S3Store {
	return NewS3Store(s3cfg.Client, s3cfg.BucketName, s3cfg.Region)
}

func (s *S3Store) Put(ctx context.Context, key, contentType string, body io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to S3: %w", key, err)
	}
	return s.URL(key), nil
}

// URL is the public address of key.
func (s *S3Store) URL(key string) string {
	if s.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}
