// Package blob implements container-scoped object storage for digest
// artifacts on S3. Failures are logged and collapse to empty/absent results
// rather than surfacing as distinct error kinds.
package blob

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"go.uber.org/zap"
)

// Store implements ports.BlobStore. Container names map to S3 buckets,
// created idempotently on first use.
type Store struct {
	client *s3.Client
	region string
	logger *zap.Logger

	mu      sync.Mutex
	ensured map[string]bool
}

// NewStore creates a blob store bound to one region.
func NewStore(client *s3.Client, region string, logger *zap.Logger) *Store {
	return &Store{
		client:  client,
		region:  region,
		logger:  logger,
		ensured: map[string]bool{},
	}
}

// ensureContainer creates the bucket if it does not exist. Owning the bucket
// already is not an error.
func (s *Store) ensureContainer(ctx context.Context, container string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ensured[container] {
		return nil
	}

	input := &s3.CreateBucketInput{Bucket: aws.String(container)}
	if s.region != "us-east-1" {
		input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
			LocationConstraint: types.BucketLocationConstraint(s.region),
		}
	}
	if _, err := s.client.CreateBucket(ctx, input); err != nil {
		var owned *types.BucketAlreadyOwnedByYou
		var exists *types.BucketAlreadyExists
		if !errors.As(err, &owned) && !errors.As(err, &exists) {
			return fmt.Errorf("create bucket %s: %w", container, err)
		}
	}
	s.ensured[container] = true
	return nil
}

// SaveJSON serializes v and uploads it, deleting any existing blob of the
// same name first. Returns the blob URL, or an empty string on failure.
func (s *Store) SaveJSON(ctx context.Context, container, name string, v any) string {
	if err := s.ensureContainer(ctx, container); err != nil {
		s.logger.Error("blob container unavailable", zap.String("container", container), zap.Error(err))
		return ""
	}

	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("failed to marshal blob payload",
			zap.String("container", container), zap.String("name", name), zap.Error(err))
		return ""
	}

	// Delete-then-upload mirrors the snapshot overwrite contract: the old
	// digest is gone before the new one lands.
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	}); err != nil {
		s.logger.Warn("failed to delete existing blob",
			zap.String("container", container), zap.String("name", name), zap.Error(err))
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(container),
		Key:         aws.String(name),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	}); err != nil {
		s.logger.Error("failed to upload blob",
			zap.String("container", container), zap.String("name", name), zap.Error(err))
		return ""
	}
	return s.blobURL(container, name)
}

// SaveText uploads text content, overwriting in place.
func (s *Store) SaveText(ctx context.Context, container, name, text string) string {
	if err := s.ensureContainer(ctx, container); err != nil {
		s.logger.Error("blob container unavailable", zap.String("container", container), zap.Error(err))
		return ""
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(container),
		Key:         aws.String(name),
		Body:        strings.NewReader(text),
		ContentType: aws.String("text/markdown"),
	}); err != nil {
		s.logger.Error("failed to upload blob",
			zap.String("container", container), zap.String("name", name), zap.Error(err))
		return ""
	}
	return s.blobURL(container, name)
}

// LoadJSON reads a blob into out. Returns false when the blob does not exist,
// and also on any other failure, which is logged and swallowed.
func (s *Store) LoadJSON(ctx context.Context, container, name string, out any) bool {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(container),
		Key:    aws.String(name),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		var noBucket *types.NoSuchBucket
		if !errors.As(err, &noKey) && !errors.As(err, &noBucket) {
			s.logger.Error("failed to load blob",
				zap.String("container", container), zap.String("name", name), zap.Error(err))
		}
		return false
	}
	defer obj.Body.Close()

	data, err := io.ReadAll(obj.Body)
	if err != nil {
		s.logger.Error("failed to read blob body",
			zap.String("container", container), zap.String("name", name), zap.Error(err))
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		s.logger.Error("failed to decode blob",
			zap.String("container", container), zap.String("name", name), zap.Error(err))
		return false
	}
	return true
}

func (s *Store) blobURL(container, name string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", container, s.region, name)
}
