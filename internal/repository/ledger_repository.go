package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"file-sharing-server/config"
	"file-sharing-server/internal/model"
	"file-sharing-server/internal/util"

	"github.com/jmoiron/sqlx"
)

// LedgerRepository : реестр grant и share-ссылок.
// Все выборки фильтруют истёкшие строки по expires_at на момент чтения —
// это и есть гарантия корректности. Физическую чистку делает PurgeExpired,
// но авторизация от неё не зависит.
type LedgerRepository struct {
	*config.Database
}

func NewLedgerRepository(database *config.Database) *LedgerRepository {
	return &LedgerRepository{database}
}

// activeFilter : истёкшая строка семантически отсутствует
const activeFilter = `(expires_at IS NULL OR expires_at > NOW())`

// UpsertGrant : заменяет grant пары (объект, получатель).
// Явный delete+insert в одной транзакции: инвариант "не больше одного
// активного grant на пару" обеспечивает сам реестр, а не upsert-механика
// движка БД. При гонке повторных выдач побеждает последняя запись.
func (r *LedgerRepository) UpsertGrant(ctx context.Context, objectUUID, granteeUUID, ownerUUID string, expiresAt *time.Time) (*model.Grant, error) {
	tx, err := r.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось начать транзакцию", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM object_grants
		WHERE object_uuid = $1 AND grantee_uuid = $2
	`, objectUUID, granteeUUID)
	if err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось заменить grant", err)
	}

	grant := &model.Grant{
		ObjectUUID:  objectUUID,
		GranteeUUID: granteeUUID,
		OwnerUUID:   ownerUUID,
		ExpiresAt:   expiresAt,
	}
	err = tx.QueryRowxContext(ctx, `
		INSERT INTO object_grants (object_uuid, grantee_uuid, owner_uuid, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, objectUUID, granteeUUID, ownerUUID, expiresAt).Scan(&grant.CreatedAt)
	if err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось сохранить grant", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, util.LogError("[LedgerRepo] ошибка коммита транзакции", err)
	}

	return grant, nil
}

// FindGrant : активный grant пары (объект, получатель), (nil, nil) если нет
func (r *LedgerRepository) FindGrant(ctx context.Context, objectUUID, granteeUUID string) (*model.Grant, error) {
	query := `
		SELECT object_uuid, grantee_uuid, owner_uuid, created_at, expires_at
		FROM object_grants
		WHERE object_uuid = $1 AND grantee_uuid = $2 AND ` + activeFilter

	var grant model.Grant
	err := sqlx.GetContext(ctx, r.DB, &grant, query, objectUUID, granteeUUID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[LedgerRepo] ошибка поиска grant", err)
	}

	return &grant, nil
}

// ListGrantsForObject : активные grant объекта
func (r *LedgerRepository) ListGrantsForObject(ctx context.Context, objectUUID string) ([]model.Grant, error) {
	query := `
		SELECT object_uuid, grantee_uuid, owner_uuid, created_at, expires_at
		FROM object_grants
		WHERE object_uuid = $1 AND ` + activeFilter + `
		ORDER BY created_at
	`

	grants := []model.Grant{}
	if err := sqlx.SelectContext(ctx, r.DB, &grants, query, objectUUID); err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось получить список grant", err)
	}

	return grants, nil
}

// ListGrantsForGrantee : активные grant, выданные пользователю
func (r *LedgerRepository) ListGrantsForGrantee(ctx context.Context, granteeUUID string) ([]model.Grant, error) {
	query := `
		SELECT object_uuid, grantee_uuid, owner_uuid, created_at, expires_at
		FROM object_grants
		WHERE grantee_uuid = $1 AND ` + activeFilter + `
		ORDER BY created_at
	`

	grants := []model.Grant{}
	if err := sqlx.SelectContext(ctx, r.DB, &grants, query, granteeUUID); err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось получить grant пользователя", err)
	}

	return grants, nil
}

// RevokeGrant : идемпотентный отзыв
func (r *LedgerRepository) RevokeGrant(ctx context.Context, objectUUID, granteeUUID string) error {
	_, err := r.DB.ExecContext(ctx, `
		DELETE FROM object_grants
		WHERE object_uuid = $1 AND grantee_uuid = $2
	`, objectUUID, granteeUUID)
	if err != nil {
		return util.LogError("[LedgerRepo] не удалось отозвать grant", err)
	}
	return nil
}

// CreateLink : создаёт share-ссылку со свежим токеном
func (r *LedgerRepository) CreateLink(ctx context.Context, objectUUID, ownerUUID string, expiresAt *time.Time) (*model.ShareLink, error) {
	token, err := util.GenerateShareToken()
	if err != nil {
		return nil, err
	}

	link := &model.ShareLink{
		Token:      token,
		ObjectUUID: objectUUID,
		OwnerUUID:  ownerUUID,
		ExpiresAt:  expiresAt,
	}
	err = r.DB.QueryRowxContext(ctx, `
		INSERT INTO share_links (token, object_uuid, owner_uuid, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, token, objectUUID, ownerUUID, expiresAt).Scan(&link.CreatedAt)
	if err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось сохранить share-ссылку", err)
	}

	return link, nil
}

// FindLink : активная ссылка по токену, (nil, nil) если нет или истекла
func (r *LedgerRepository) FindLink(ctx context.Context, token string) (*model.ShareLink, error) {
	query := `
		SELECT token, object_uuid, owner_uuid, access_count, created_at, expires_at
		FROM share_links
		WHERE token = $1 AND ` + activeFilter

	var link model.ShareLink
	err := sqlx.GetContext(ctx, r.DB, &link, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[LedgerRepo] ошибка поиска share-ссылки", err)
	}

	return &link, nil
}

// ListLinksForObject : активные ссылки объекта
func (r *LedgerRepository) ListLinksForObject(ctx context.Context, objectUUID string) ([]model.ShareLink, error) {
	query := `
		SELECT token, object_uuid, owner_uuid, access_count, created_at, expires_at
		FROM share_links
		WHERE object_uuid = $1 AND ` + activeFilter + `
		ORDER BY created_at
	`

	links := []model.ShareLink{}
	if err := sqlx.SelectContext(ctx, r.DB, &links, query, objectUUID); err != nil {
		return nil, util.LogError("[LedgerRepo] не удалось получить список ссылок", err)
	}

	return links, nil
}

// RevokeLink : идемпотентный отзыв ссылки
func (r *LedgerRepository) RevokeLink(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM share_links WHERE token = $1`, token)
	if err != nil {
		return util.LogError("[LedgerRepo] не удалось отозвать share-ссылку", err)
	}
	return nil
}

// IncrementLinkAccess : best-effort счётчик скачиваний по ссылке
func (r *LedgerRepository) IncrementLinkAccess(ctx context.Context, token string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE share_links SET access_count = access_count + 1 WHERE token = $1
	`, token)
	if err != nil {
		return util.LogError("[LedgerRepo] не удалось увеличить счётчик ссылки", err)
	}
	return nil
}

// DeleteAllForObject : каскадная чистка grant и ссылок при удалении объекта
func (r *LedgerRepository) DeleteAllForObject(ctx context.Context, objectUUID string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM object_grants WHERE object_uuid = $1`, objectUUID); err != nil {
		return util.LogError("[LedgerRepo] не удалось удалить grant объекта", err)
	}

	if _, err := r.DB.ExecContext(ctx, `DELETE FROM share_links WHERE object_uuid = $1`, objectUUID); err != nil {
		return util.LogError("[LedgerRepo] не удалось удалить ссылки объекта", err)
	}

	return nil
}

// PurgeExpired : физически удаляет истёкшие строки. Только гигиена
// хранилища — выборки и так их не видят.
func (r *LedgerRepository) PurgeExpired(ctx context.Context) (int64, error) {
	var purged int64

	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM object_grants WHERE expires_at IS NOT NULL AND expires_at <= NOW()
	`)
	if err != nil {
		return 0, util.LogError("[LedgerRepo] не удалось вычистить истёкшие grant", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		purged += n
	}

	res, err = r.DB.ExecContext(ctx, `
		DELETE FROM share_links WHERE expires_at IS NOT NULL AND expires_at <= NOW()
	`)
	if err != nil {
		return purged, util.LogError("[LedgerRepo] не удалось вычистить истёкшие ссылки", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		purged += n
	}

	return purged, nil
}
