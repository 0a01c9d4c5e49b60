package ports

import (
	"context"

	"file-sharing-server/internal/model"
)

// ObjectCatalog : SQL-слой метаданных объектов.
// Каталог не трогает блоб-хранилище и реестр grant — оркестрация в сервисе.
type ObjectCatalog interface {
	Create(ctx context.Context, object *model.Object) error
	// GetByUUID возвращает (nil, nil), если записи нет
	GetByUUID(ctx context.Context, objectUUID string) (*model.Object, error)
	ListByOwner(ctx context.Context, ownerUUID string) ([]model.Object, error)
	// Delete идемпотентен: отсутствие записи не считается ошибкой
	Delete(ctx context.Context, objectUUID string) error
}
