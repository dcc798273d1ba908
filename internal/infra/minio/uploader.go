// Package minio uploads segment files to S3-compatible object storage, for
// deployments that archive in-house instead of OneDrive.
package minio

import (
	"context"
	"fmt"
	"path/filepath"

	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type UploaderConfig struct {
	Endpoint    string
	AccessKey   string
	SecretKey   string
	UseSSL      bool
	Bucket      string
	Prefix      string // object key prefix, e.g. camera identifier
	ContentType string
}

type Uploader struct {
	client *miniogo.Client
	cfg    UploaderConfig
	logger *zap.Logger
}

func NewUploader(cfg UploaderConfig, logger *zap.Logger) (*Uploader, error) {
	client, err := miniogo.New(cfg.Endpoint, &miniogo.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &Uploader{client: client, cfg: cfg, logger: logger}, nil
}

// EnsureBucket creates the archive bucket when absent.
func (u *Uploader) EnsureBucket(ctx context.Context) error {
	exists, err := u.client.BucketExists(ctx, u.cfg.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", u.cfg.Bucket, err)
	}
	if !exists {
		if err := u.client.MakeBucket(ctx, u.cfg.Bucket, miniogo.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", u.cfg.Bucket, err)
		}
	}
	return nil
}

func (u *Uploader) Upload(ctx context.Context, path string) (int64, error) {
	objectKey := filepath.Base(path)
	if u.cfg.Prefix != "" {
		objectKey = u.cfg.Prefix + "/" + objectKey
	}

	info, err := u.client.FPutObject(ctx, u.cfg.Bucket, objectKey, path, miniogo.PutObjectOptions{
		ContentType: u.cfg.ContentType,
	})
	if err != nil {
		return 0, fmt.Errorf("upload %s: %w", objectKey, err)
	}

	u.logger.Info("uploaded to object storage",
		zap.String("bucket", u.cfg.Bucket),
		zap.String("key", objectKey),
		zap.Int64("bytes", info.Size),
	)

	return info.Size, nil
}
