package ports

import (
	"context"
	"io"

	"file-sharing-server/internal/model"
)

// DownloadResult : метаданные объекта и поток его содержимого.
// Body обязан закрыть вызывающий.
type DownloadResult struct {
	Object *model.Object
	Body   io.ReadCloser
}

// LinkAccessInfo : сведения о share-ссылке для страницы предпросмотра
type LinkAccessInfo struct {
	Link   *model.ShareLink
	Object *model.Object
	Owner  *model.User
}

// AccessService : центральная точка решений о доступе и жизненном цикле
// объектов. Все мутирующие и читающие операции транспортного слоя идут
// через него.
type AccessService interface {
	Upload(ctx context.Context, ownerUUID, name, contentType string, body io.Reader, size int64) (*model.Object, error)
	ListAccessible(ctx context.Context, userUUID string) (*model.AccessibleObjects, error)
	ListShares(ctx context.Context, userUUID, objectUUID string) (*model.ObjectShares, error)
	Download(ctx context.Context, userUUID, objectUUID string) (*DownloadResult, error)
	CreateShareLink(ctx context.Context, userUUID, objectUUID string, ttlSeconds int64) (*model.ShareLink, error)
	AccessViaLink(ctx context.Context, userUUID, token string) (*DownloadResult, error)
	LinkInfo(ctx context.Context, userUUID, token string) (*LinkAccessInfo, error)
	GrantToUsers(ctx context.Context, ownerUUID, objectUUID string, granteeUUIDs []string, ttlSeconds int64) ([]model.Grant, error)
	RevokeUserAccess(ctx context.Context, ownerUUID, objectUUID, granteeUUID string) error
	RevokeLink(ctx context.Context, ownerUUID, token string) error
	DeleteObject(ctx context.Context, userUUID, objectUUID string) error
}
