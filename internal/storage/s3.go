package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Config holds configuration for S3 storage
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string // Optional: for MinIO or other S3-compatible services
	CDNBaseURL      string // Optional: for URL rewriting
	UsePathStyle    bool   // Use path-style addressing (for MinIO)
}

// S3Interface defines the operations for S3 storage
type S3Interface interface {
	// Put uploads an object to S3 and returns its URL
	Put(ctx context.Context, key string, body []byte, contentType string) (string, error)

	// Get retrieves an object from S3
	Get(ctx context.Context, key string) ([]byte, error)

	// Delete removes an object from S3
	Delete(ctx context.Context, key string) error

	// GetURL returns the URL for an object
	GetURL(key string) string
}

// S3Client implements S3Interface using AWS SDK
type S3Client struct {
	client     *s3.Client
	bucket     string
	region     string
	cdnBaseURL string
}

// NewS3Client creates a new S3 client
func NewS3Client(ctx context.Context, cfg S3Config) (*S3Client, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
		config.WithDefaultsMode(aws.DefaultsModeStandard),
	}

	// Use custom endpoint if provided (for MinIO, etc.)
	if cfg.Endpoint != "" {
		customResolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL:               cfg.Endpoint,
				HostnameImmutable: true,
				SigningRegion:     cfg.Region,
			}, nil
		})
		opts = append(opts, config.WithEndpointResolverWithOptions(customResolver))
	}

	// Use static credentials if provided, otherwise fall back to the default chain
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
	})

	return &S3Client{
		client:     s3Client,
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		cdnBaseURL: cfg.CDNBaseURL,
	}, nil
}

// Put uploads an object to S3 and returns its URL
func (s *S3Client) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object to S3: %w", err)
	}

	return s.GetURL(key), nil
}

// Get retrieves an object from S3
func (s *S3Client) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer result.Body.Close()

	return io.ReadAll(result.Body)
}

// Delete removes an object from S3
func (s *S3Client) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}

	return nil
}

// GetURL returns the URL for an object
func (s *S3Client) GetURL(key string) string {
	return objectURL(s.cdnBaseURL, s.bucket, s.region, key)
}

// GenerateSnapshotKey returns the object key for a plan collection snapshot
// taken at the given time. Keys sort chronologically within a day.
func GenerateSnapshotKey(at time.Time, id uuid.UUID) string {
	at = at.UTC()
	return fmt.Sprintf("snapshots/%s/%s-%s.json", at.Format("2006/01/02"), at.Format("150405"), id.String())
}

func objectURL(cdnBaseURL, bucket, region, key string) string {
	// If CDN base URL is provided, use it
	if cdnBaseURL != "" {
		return fmt.Sprintf("%s/%s", strings.TrimRight(cdnBaseURL, "/"), key)
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
