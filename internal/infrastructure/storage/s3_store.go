package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"github.com/avenford/workflow-backend/internal/application/port"
)

// S3API is the subset of the S3 client the store uses
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store implements port.ObjectStore on an S3 bucket
type S3Store struct {
	client  S3API
	bucket  string
	baseURL string
	logger  *zap.Logger
}

// NewS3Store creates a new S3Store using the ambient AWS configuration
func NewS3Store(ctx context.Context, bucket, baseURL string, logger *zap.Logger) (*S3Store, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Store{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
		logger:  logger,
	}, nil
}

// NewS3StoreWithClient creates an S3Store with an explicit client
func NewS3StoreWithClient(client S3API, bucket, baseURL string, logger *zap.Logger) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		logger:  logger,
	}
}

// Save writes content under the given key
func (s *S3Store) Save(ctx context.Context, key string, content []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		s.logger.Error("Failed to put object",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to put object: %w", err)
	}
	return nil
}

// Exists reports whether an object is present under the key
func (s *S3Store) Exists(ctx context.Context, key string) bool {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err == nil
}

// Remove deletes the object under the key
func (s *S3Store) Remove(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Error("Failed to delete object",
			zap.String("bucket", s.bucket),
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to delete object: %w", err)
	}

	s.logger.Debug("Object deleted",
		zap.String("bucket", s.bucket),
		zap.String("key", key))
	return nil
}

// KeyFromURL derives the storage key referenced by a public file URL
func (s *S3Store) KeyFromURL(fileURL string) (string, error) {
	return keyFromURL(s.baseURL, fileURL)
}

// Verify interface compliance
var _ port.ObjectStore = (*S3Store)(nil)
