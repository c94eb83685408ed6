package persist

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"device-locator/core/storage"

	"github.com/minio/minio-go/v7"
)

// objectStore keeps each entry as an object in a bucket.
type objectStore struct {
	client storage.Client
	bucket string
}

// NewObjectStore creates an object-storage-backed Store. The bucket is
// created if it does not exist yet.
func NewObjectStore(ctx context.Context, client storage.Client, bucket string) (Store, error) {
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check snapshot bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create snapshot bucket: %w", err)
		}
	}
	return &objectStore{client: client, bucket: bucket}, nil
}

func (s *objectStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.objectName(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %s: %w", key, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		// Minio opens objects lazily, so a missing key surfaces here.
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read entry %s: %w", key, err)
	}
	return data, nil
}

func (s *objectStore) Put(ctx context.Context, key string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.objectName(key), bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to put entry %s: %w", key, err)
	}
	return nil
}

func (s *objectStore) objectName(key string) string {
	return "snapshots/" + key + ".json"
}
