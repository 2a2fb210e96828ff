// Package s3 implements the blob.Store contract on Amazon S3.
package s3

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/harborlane/storefront/blob"
)

// compile-time interface check
var _ blob.Store = (*Store)(nil)

// Store uploads product images to a single S3 bucket.
type Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
}

// New creates a Store for the given bucket using an explicitly
// constructed S3 client (built from aws config at wiring time).
func New(client *s3.Client, bucket string) *Store {
	return &Store{
		client:   client,
		uploader: manager.NewUploader(client),
		bucket:   bucket,
	}
}

// Upload streams body into the bucket under key and returns the stored
// object's public location.
func (s *Store) Upload(ctx context.Context, key, contentType string, body io.Reader) (*blob.Object, error) {
	out, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3: upload %q: %w", key, err)
	}

	return &blob.Object{Key: key, URL: out.Location}, nil
}

// Delete removes the object under key. Deleting a missing key is not an
// error, matching S3 semantics.
func (s *Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3: delete %q: %w", key, err)
	}
	return nil
}
