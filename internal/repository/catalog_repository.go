package repository

import (
	"context"
	"database/sql"
	"errors"

	"file-sharing-server/config"
	"file-sharing-server/internal/model"
	"file-sharing-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// CatalogRepository : каталог метаданных объектов поверх Postgres.
// Только своя таблица: блоб-хранилище и реестр grant каталог не трогает.
type CatalogRepository struct {
	*config.Database
}

func NewCatalogRepository(database *config.Database) *CatalogRepository {
	return &CatalogRepository{database}
}

// Create : сохраняет новый объект
func (r *CatalogRepository) Create(ctx context.Context, object *model.Object) error {
	query := `
		INSERT INTO objects (uuid, owner_uuid, name, content_type, size_bytes, blob_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	err := r.DB.QueryRowxContext(
		ctx,
		query,
		object.UUID,
		object.OwnerUUID,
		object.Name,
		object.ContentType,
		object.SizeBytes,
		object.BlobID,
	).Scan(&object.CreatedAt)

	if err != nil {
		return util.LogError("[CatalogRepo] не удалось сохранить объект", err)
	}

	return nil
}

// GetByUUID : возвращает объект, (nil, nil) если записи нет
func (r *CatalogRepository) GetByUUID(ctx context.Context, objectUUID string) (*model.Object, error) {
	query := `
		SELECT uuid, owner_uuid, name, content_type, size_bytes, blob_id, created_at
		FROM objects
		WHERE uuid = $1
	`

	var object model.Object
	err := sqlx.GetContext(ctx, r.DB, &object, query, objectUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[CatalogRepo] не удалось получить объект", err)
	}

	return &object, nil
}

// ListByOwner : все объекты владельца
func (r *CatalogRepository) ListByOwner(ctx context.Context, ownerUUID string) ([]model.Object, error) {
	query := `
		SELECT uuid, owner_uuid, name, content_type, size_bytes, blob_id, created_at
		FROM objects
		WHERE owner_uuid = $1
		ORDER BY created_at DESC
	`

	objects := []model.Object{}
	if err := sqlx.SelectContext(ctx, r.DB, &objects, query, ownerUUID); err != nil {
		return nil, util.LogError("[CatalogRepo] не удалось получить список объектов", err)
	}

	return objects, nil
}

// Delete : физически удаляет запись каталога. Отсутствие строки — не ошибка,
// решение об ошибке принимает вызывающий слой.
func (r *CatalogRepository) Delete(ctx context.Context, objectUUID string) error {
	query := `DELETE FROM objects WHERE uuid = $1`

	if _, err := r.DB.ExecContext(ctx, query, objectUUID); err != nil {
		return util.LogError("[CatalogRepo] не удалось удалить объект", err)
	}

	return nil
}
