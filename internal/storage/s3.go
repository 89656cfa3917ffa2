package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// s3API is the subset of the S3 client used by the store.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// s3Store implements Store on an AWS S3 bucket.
type s3Store struct {
	client  s3API
	bucket  string
	prefix  string
	baseURL string
	logger  zerolog.Logger
}

// NewS3Store creates an S3-backed store. Keys are stored under prefix.
// Public URLs use publicBaseURL, or the bucket's virtual-hosted URL when empty.
func NewS3Store(ctx context.Context, bucket, region, prefix, publicBaseURL string, logger zerolog.Logger) (Store, error) {
	logger = logger.With().Str("component", "s3-store").Logger()

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	if publicBaseURL == "" {
		publicBaseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", bucket, region)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 store initialised")

	return newS3Store(s3.NewFromConfig(cfg), bucket, prefix, publicBaseURL, logger), nil
}

func newS3Store(client s3API, bucket, prefix, baseURL string, logger zerolog.Logger) *s3Store {
	return &s3Store{
		client:  client,
		bucket:  bucket,
		prefix:  prefix,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Put uploads the object and returns its public URL.
func (s *s3Store) Put(ctx context.Context, key string, body io.Reader, contentType string) (string, error) {
	fullKey := s.prefix + key

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(fullKey),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", fullKey).
			Msg("failed to put object to S3")
		return "", fmt.Errorf("failed to put object to S3 (bucket=%s, key=%s): %w", s.bucket, fullKey, err)
	}

	s.logger.Info().
		Str("bucket", s.bucket).
		Str("key", fullKey).
		Msg("object stored in S3")

	return joinURL(s.baseURL, fullKey), nil
}

// Get opens the object body.
func (s *s3Store) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	fullKey := s.prefix + key

	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(fullKey),
	})
	if err != nil {
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &noSuchKey) {
			return nil, fmt.Errorf("S3 object %s: %w", fullKey, ErrNotFound)
		}
		s.logger.Error().
			Err(err).
			Str("bucket", s.bucket).
			Str("key", fullKey).
			Msg("failed to get object from S3")
		return nil, fmt.Errorf("failed to get object from S3 (bucket=%s, key=%s): %w", s.bucket, fullKey, err)
	}

	return result.Body, nil
}

func joinURL(base, key string) string {
	if base == "" {
		return key
	}
	return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(key, "/")
}
