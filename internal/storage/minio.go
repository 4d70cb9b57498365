package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/bloodsync/bloodsync/internal/document"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	snapshotPrefix = "snapshots/"
	latestKey      = snapshotPrefix + "latest.json"
)

// MinIOStorage uploads data document snapshots to a bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIOStorage creates a new MinIO storage client and ensures the bucket exists.
func NewMinIOStorage(cfg *MinIOConfig) (*MinIOStorage, error) {
	if cfg == nil || cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio config missing")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	s := &MinIOStorage{client: mc, bucket: cfg.Bucket}
	// ensure bucket exists (idempotent)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := mc.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exist, xerr := mc.BucketExists(ctx, s.bucket)
		if xerr != nil || !exist {
			return nil, fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return s, nil
}

// SnapshotKey names the timestamped object for a snapshot taken at t.
func SnapshotKey(t time.Time) string {
	return snapshotPrefix + "bloodsync-" + t.UTC().Format("20060102T150405.000Z") + ".json"
}

// BackupDocument uploads the snapshot under a key stamped with savedAt and
// refreshes snapshots/latest.json. Callers upload in save order.
func (s *MinIOStorage) BackupDocument(ctx context.Context, d *document.Document, savedAt time.Time) error {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.upload(ctx, SnapshotKey(savedAt), b); err != nil {
		return err
	}
	return s.upload(ctx, latestKey, b)
}

func (s *MinIOStorage) upload(ctx context.Context, key string, b []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(b), int64(len(b)), minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// LatestDocument downloads and decodes snapshots/latest.json.
func (s *MinIOStorage) LatestDocument(ctx context.Context) (*document.Document, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, latestKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var d document.Document
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	d.Normalize()
	return &d, nil
}
