package ports

import (
	"context"

	"file-sharing-server/internal/model"
)

// ObjectCache : Redis-слой. Кэшируются только метаданные объектов;
// grant и ссылки не кэшируются никогда — проверка expires_at обязана
// выполняться против реестра при каждом обращении.
type ObjectCache interface {
	SetObject(ctx context.Context, object *model.Object) error
	GetObject(ctx context.Context, uuid string) (*model.Object, error)
	DeleteObject(ctx context.Context, uuid string) error
}
