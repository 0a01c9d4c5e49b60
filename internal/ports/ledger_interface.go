package ports

import (
	"context"
	"time"

	"file-sharing-server/internal/model"
)

// GrantLedger : реестр grant и share-ссылок.
// Все методы чтения фильтруют истёкшие записи по expires_at на момент
// запроса: строка с истёкшим сроком семантически отсутствует, даже если ещё
// не удалена физически. Фоновая чистка (PurgeExpired) — только гигиена
// хранилища, на корректность авторизации она не влияет.
type GrantLedger interface {
	// UpsertGrant заменяет существующий grant пары (объект, получатель)
	UpsertGrant(ctx context.Context, objectUUID, granteeUUID, ownerUUID string, expiresAt *time.Time) (*model.Grant, error)
	// FindGrant возвращает (nil, nil), если активного grant нет
	FindGrant(ctx context.Context, objectUUID, granteeUUID string) (*model.Grant, error)
	ListGrantsForObject(ctx context.Context, objectUUID string) ([]model.Grant, error)
	ListGrantsForGrantee(ctx context.Context, granteeUUID string) ([]model.Grant, error)
	// RevokeGrant идемпотентен
	RevokeGrant(ctx context.Context, objectUUID, granteeUUID string) error

	CreateLink(ctx context.Context, objectUUID, ownerUUID string, expiresAt *time.Time) (*model.ShareLink, error)
	// FindLink возвращает (nil, nil), если ссылки нет или она истекла
	FindLink(ctx context.Context, token string) (*model.ShareLink, error)
	ListLinksForObject(ctx context.Context, objectUUID string) ([]model.ShareLink, error)
	// RevokeLink идемпотентен
	RevokeLink(ctx context.Context, token string) error
	IncrementLinkAccess(ctx context.Context, token string) error

	// DeleteAllForObject вычищает все grant и ссылки объекта, используется
	// только при каскадном удалении объекта
	DeleteAllForObject(ctx context.Context, objectUUID string) error
	// PurgeExpired физически удаляет истёкшие строки, возвращает их число
	PurgeExpired(ctx context.Context) (int64, error)
}
