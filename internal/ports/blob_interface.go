package ports

import (
	"context"
	"io"
)

// BlobStorage : непрозрачное хранилище содержимого по сгенерированному blob id
type BlobStorage interface {
	Put(ctx context.Context, blobID string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, blobID string) (io.ReadCloser, error)
	Delete(ctx context.Context, blobID string) error
}
