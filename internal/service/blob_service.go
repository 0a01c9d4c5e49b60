package service

import (
	"context"
	"fmt"
	"io"
	"log"

	"file-sharing-server/config"
	"file-sharing-server/internal/util"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// BlobService : блоб-хранилище поверх S3. Содержимое лежит под ключом
// blobs/<blob_id>, сам blob id генерирует вызывающий сервис.
type BlobService struct {
	client *s3.Client
	bucket string
}

func NewBlobService(ctx context.Context, cfg *config.S3Config) (*BlobService, error) {
	var client *s3.Client

	if cfg.Local {
		client = s3.New(s3.Options{
			Region: cfg.Region,
			Credentials: credentials.NewStaticCredentialsProvider(
				"minioadmin",
				"minioadmin",
				"",
			),
			BaseEndpoint: aws.String(cfg.Endpoint),
			UsePathStyle: true,
		})

		if err := createBucketIfNotExists(ctx, client, cfg.Bucket); err != nil {
			return nil, util.LogError("[BlobService] ошибка создания бакета", err)
		}
	} else {
		awsCfg, err := awsConfig.LoadDefaultConfig(ctx, awsConfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, util.LogError("[BlobService] ошибка загрузки AWS config", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}

	return &BlobService{
		client: client,
		bucket: cfg.Bucket,
	}, nil
}

// createBucketIfNotExists создает бакет если он не существует
func createBucketIfNotExists(ctx context.Context, client *s3.Client, bucket string) error {
	_, err := client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(bucket),
	})

	if err == nil {
		return nil // Бакет уже существует
	}

	_, err = client.CreateBucket(ctx, &s3.CreateBucketInput{
		Bucket: aws.String(bucket),
	})

	if err != nil {
		return util.LogError("[BlobService] ошибка создания бакета", err)
	}

	log.Printf("[BlobService] бакет %s успешно создан", bucket)
	return nil
}

// Put : потоковая запись содержимого под blob id
func (s *BlobService) Put(ctx context.Context, blobID string, body io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(s.key(blobID)),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return util.LogError("[BlobService] не удалось записать блоб", err)
	}
	return nil
}

// Get : поток содержимого по blob id, закрывает вызывающий
func (s *BlobService) Get(ctx context.Context, blobID string) (io.ReadCloser, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(blobID)),
	})
	if err != nil {
		return nil, util.LogError("[BlobService] не удалось прочитать блоб", err)
	}
	return out.Body, nil
}

// Delete : удаление блоба
func (s *BlobService) Delete(ctx context.Context, blobID string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(blobID)),
	})
	if err != nil {
		return util.LogError("[BlobService] не удалось удалить блоб", err)
	}
	return nil
}

func (s *BlobService) key(blobID string) string {
	return fmt.Sprintf("blobs/%s", blobID)
}
