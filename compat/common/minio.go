package common

import (
	"context"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.scnd.dev/open/crank"
	"go.uber.org/zap"
)

type Upload struct {
	Path string
	Key  string
}

func Minio(config *crank.PublishConfig) (*minio.Client, error) {
	// * initialize minio client
	parsed, err := url.Parse(*config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse minio endpoint: %w", err)
	}

	minioClient, err := minio.New(parsed.Host, &minio.Options{
		Creds:  credentials.NewStaticV4(*config.AccessKey, *config.SecretKey, ""),
		Secure: parsed.Scheme == "https",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio: %w", err)
	}

	return minioClient, nil
}

// Uploads lists every file under dir with its object key below prefix.
func Uploads(dir string, prefix string) ([]*Upload, error) {
	uploads := make([]*Upload, 0)
	err := filepath.WalkDir(dir, func(file string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		relative, err := filepath.Rel(dir, file)
		if err != nil {
			return err
		}
		uploads = append(uploads, &Upload{
			Path: file,
			Key:  path.Join(prefix, filepath.ToSlash(relative)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return uploads, nil
}

// Publish uploads files to bucket. Content types follow the file extensions.
func Publish(ctx context.Context, client *minio.Client, bucket string, uploads []*Upload, logger *zap.Logger) error {
	// * check bucket
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("unable to reach bucket %s: %w", bucket, err)
	}
	if !exists {
		return fmt.Errorf("bucket %s does not exist", bucket)
	}

	// * upload objects
	for _, upload := range uploads {
		info, err := client.FPutObject(ctx, bucket, upload.Key, upload.Path, minio.PutObjectOptions{})
		if err != nil {
			return fmt.Errorf("unable to upload %s: %w", upload.Key, err)
		}
		logger.Debug("uploaded object", zap.String("key", upload.Key), zap.Int64("size", info.Size))
	}

	return nil
}
