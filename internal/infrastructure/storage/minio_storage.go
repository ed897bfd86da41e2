// Package storage guarda los archivos adjuntos de las licencias (MinIO/S3 o memoria).
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jhoicas/HSE-api/internal/application/license"
	"github.com/jhoicas/HSE-api/internal/domain"
	"github.com/jhoicas/HSE-api/pkg/config"
)

// Ensure MinioStorage implements license.AttachmentStorage.
var _ license.AttachmentStorage = (*MinioStorage)(nil)

// MinioStorage almacena cada adjunto como un objeto del bucket configurado.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinioStorage conecta con el endpoint y crea el bucket si no existe.
func NewMinioStorage(ctx context.Context, cfg config.MinIOConfig) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket exists: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinioStorage{client: client, bucket: cfg.Bucket}, nil
}

// Put sube el objeto; size -1 si se desconoce (subida multiparte).
func (s *MinioStorage) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put %s: %w", key, err)
	}
	return nil
}

// Get abre el objeto para lectura. domain.ErrNotFound si la clave no existe.
func (s *MinioStorage) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, translateError(key, err)
	}
	// GetObject es perezoso: Stat fuerza la petición y expone un NoSuchKey.
	if _, err := obj.Stat(); err != nil {
		_ = obj.Close()
		return nil, translateError(key, err)
	}
	return obj, nil
}

// Delete elimina el objeto; borrar una clave inexistente no es error.
func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("minio delete %s: %w", key, err)
	}
	return nil
}

func translateError(key string, err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return fmt.Errorf("adjunto %s: %w", key, domain.ErrNotFound)
	}
	return fmt.Errorf("minio get %s: %w", key, err)
}
