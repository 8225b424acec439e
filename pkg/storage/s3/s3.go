package s3

import (
	"context"
	"io"
	"net/url"
	"time"

	"github.com/litigio/tramita/pkg/domain/interfaces"
	"github.com/m-mizutani/goerr/v2"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Storage serves objects from any S3-compatible store via minio
type Storage struct {
	client *minio.Client
	bucket string
}

var _ interfaces.ObjectStorage = &Storage{}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

func New(cfg Config) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create S3 client", goerr.V("endpoint", cfg.Endpoint))
	}

	return &Storage{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

func (s *Storage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return goerr.Wrap(err, "failed to put object", goerr.V("key", key))
	}
	return nil
}

func (s *Storage) List(ctx context.Context, prefix string) ([]interfaces.ObjectInfo, error) {
	infos := make([]interfaces.ObjectInfo, 0)

	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, goerr.Wrap(obj.Err, "failed to list objects", goerr.V("prefix", prefix))
		}
		infos = append(infos, interfaces.ObjectInfo{
			Key:         obj.Key,
			Size:        obj.Size,
			ContentType: obj.ContentType,
			UpdatedAt:   obj.LastModified,
		})
	}

	return infos, nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return goerr.Wrap(err, "failed to delete object", goerr.V("key", key))
	}
	return nil
}

func (s *Storage) SignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", goerr.Wrap(err, "failed to presign object", goerr.V("key", key))
	}
	return u.String(), nil
}

func (s *Storage) Close() error {
	return nil
}
