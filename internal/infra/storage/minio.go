package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/MaisonSlimani/maison-slimani-app-sub002/internal/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewMinioStore(ctx context.Context, cfg config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("storage: connect minio: %w", err)
	}

	//バケットがなければ作る
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("storage: bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("storage: make bucket: %w", err)
		}
	}

	public := cfg.MinioPublicURL
	if public == "" {
		scheme := "http"
		if cfg.MinioUseSSL {
			scheme = "https"
		}
		public = fmt.Sprintf("%s://%s/%s", scheme, cfg.MinioEndpoint, cfg.MinioBucket)
	}

	return &MinioStore{client: client, bucket: cfg.MinioBucket, publicURL: strings.TrimRight(public, "/")}, nil
}

// 元のファイル名は使わず、日付 + UUID でキーを作る（衝突・パス混入を避ける）
func ObjectKey(filename string, now time.Time) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("produits/%s/%s%s", now.Format("2006/01"), uuid.NewString(), ext)
}

func (s *MinioStore) Put(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(filename, time.Now())
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("storage: put %s: %w", filename, err)
	}
	return s.publicURL + "/" + key, nil
}
