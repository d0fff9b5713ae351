// Package storage предоставляет функции работы с объектным хранилищем MinIO.
package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"time"

	"enoch-go/internal/config"
	"enoch-go/pkg/log"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioClient — глобальный экземпляр клиента MinIO.
var MinioClient *minio.Client

// ErrObjectNotFound возвращается, когда объект отсутствует в хранилище.
var ErrObjectNotFound = errors.New("object not found")

// InitMinIO инициализирует клиент MinIO и гарантирует существование бакета.
func InitMinIO(cfg config.MinIOConfig) {
	var err error

	// 1. Инициализация клиента
	MinioClient, err = minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		log.Fatal("не удалось инициализировать клиент MinIO", err)
	}

	log.Info("клиент MinIO инициализирован")

	// 2. Проверяем бакет и создаём при отсутствии
	ctx := context.Background()
	bucketName := cfg.BucketName
	exists, err := MinioClient.BucketExists(ctx, bucketName)
	if err != nil {
		log.Fatal("не удалось проверить бакет MinIO", err)
	}

	if !exists {
		log.Infof("бакет '%s' отсутствует, создаём...", bucketName)
		err = MinioClient.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
		if err != nil {
			log.Fatal("не удалось создать бакет MinIO", err)
		}
		log.Infof("бакет '%s' создан", bucketName)
	} else {
		log.Infof("бакет '%s' уже существует", bucketName)
	}
}

// AudioStore определяет хранилище сгенерированного аудио по ключу.
type AudioStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
}

// minioAudioStore — реализация AudioStore поверх бакета MinIO.
type minioAudioStore struct {
	client *minio.Client
	bucket string
}

// NewAudioStore создаёт хранилище аудио в указанном бакете.
func NewAudioStore(client *minio.Client, bucket string) AudioStore {
	return &minioAudioStore{client: client, bucket: bucket}
}

// Get читает объект целиком; отсутствие объекта — ErrObjectNotFound.
func (s *minioAudioStore) Get(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" {
			return nil, ErrObjectNotFound
		}
		return nil, err
	}
	return data, nil
}

// Put записывает объект с указанным типом содержимого.
func (s *minioAudioStore) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	return err
}

// GetPresignedURL формирует временную ссылку на объект.
func GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	presignedURL, err := MinioClient.PresignedGetObject(context.Background(), bucketName, objectName, expiry, nil)
	if err != nil {
		log.Errorf("не удалось сформировать presigned URL: %s", err)
		return "", err
	}
	return presignedURL.String(), nil
}
