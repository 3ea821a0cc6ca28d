package media

import (
	"context"
	"fmt"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore writes objects to a Google Cloud Storage bucket
type GCSStore struct {
	client *storage.Client
	bucket string
}

// NewGCSStore opens a storage client. Empty credentialsFile means application default credentials.
func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("gcs bucket is not configured")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs client: %w", err)
	}
	return &GCSStore{client: client, bucket: bucket}, nil
}

func (s *GCSStore) Name() string { return BackendGCS }

// Upload writes the object and returns its public URL
func (s *GCSStore) Upload(ctx context.Context, obj Object) (string, error) {
	w := s.client.Bucket(s.bucket).Object(obj.Key).NewWriter(ctx)
	w.ContentType = obj.ContentType

	if _, err := w.Write(obj.Data); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs write: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs close: %w", err)
	}
	return publicGCSURL(s.bucket, obj.Key), nil
}

// Close releases the storage client
func (s *GCSStore) Close() error {
	return s.client.Close()
}

func publicGCSURL(bucket, key string) string {
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + key}
	return u.String()
}
