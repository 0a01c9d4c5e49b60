package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"file-sharing-server/internal/model"
	"file-sharing-server/internal/ports"
	"file-sharing-server/internal/util"

	"github.com/google/uuid"
)

// AccessService : центральная точка решений о доступе и жизненном цикле
// объектов. Правило авторизации: владелец или активный grant. Доступ по
// share-ссылке — отдельный путь (AccessViaLink), он не сворачивается в
// CanAccess: владение токеном даёт право чтения независимо от grant, но
// по-прежнему требует аутентифицированного пользователя.
type AccessService struct {
	catalog       ports.ObjectCatalog
	ledger        ports.GrantLedger
	blobStorage   ports.BlobStorage
	userDirectory ports.UserDirectory
	cache         ports.ObjectCache
}

func NewAccessService(
	catalog ports.ObjectCatalog,
	ledger ports.GrantLedger,
	blobStorage ports.BlobStorage,
	userDirectory ports.UserDirectory,
	cache ports.ObjectCache,
) *AccessService {
	return &AccessService{
		catalog:       catalog,
		ledger:        ledger,
		blobStorage:   blobStorage,
		userDirectory: userDirectory,
		cache:         cache,
	}
}

// getObject : объект из кэша или каталога, (nil, nil) если отсутствует
func (s *AccessService) getObject(ctx context.Context, objectUUID string) (*model.Object, error) {
	object, err := s.cache.GetObject(ctx, objectUUID)
	if err != nil {
		util.LogWarn("[AccessService] ошибка чтения кэша", err)
	}
	if object != nil {
		return object, nil
	}

	object, err = s.catalog.GetByUUID(ctx, objectUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if object == nil {
		return nil, nil
	}

	if err := s.cache.SetObject(ctx, object); err != nil {
		util.LogWarn("[AccessService] ошибка кэширования объекта", err)
	}

	return object, nil
}

// CanAccess : true, если пользователь владелец объекта или имеет активный
// grant. Доступ по ссылке здесь не учитывается.
func (s *AccessService) CanAccess(ctx context.Context, userUUID string, object *model.Object) (bool, error) {
	if object.OwnerUUID == userUUID {
		return true, nil
	}

	grant, err := s.ledger.FindGrant(ctx, object.UUID, userUUID)
	if err != nil {
		return false, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	return grant != nil, nil
}

// Upload : сначала пишем блоб, потом запись каталога. Если каталог упал
// после успешной записи блоба — best-effort чистим осиротевший блоб и
// возвращаем StorageFailure: осиротевший блоб лучше, чем запись каталога,
// указывающая в пустоту.
func (s *AccessService) Upload(ctx context.Context, ownerUUID, name, contentType string, body io.Reader, size int64) (*model.Object, error) {
	if name == "" || size < 0 {
		return nil, fmt.Errorf("%w: [AccessService] некорректные параметры загрузки", model.ErrInvalidInput)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	blobID := uuid.New().String()
	if err := s.blobStorage.Put(ctx, blobID, body, size, contentType); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, util.LogError("[AccessService] не удалось записать блоб", err))
	}

	object := &model.Object{
		UUID:        uuid.New().String(),
		OwnerUUID:   ownerUUID,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   size,
		BlobID:      blobID,
	}

	if err := s.catalog.Create(ctx, object); err != nil {
		if cleanupErr := s.blobStorage.Delete(ctx, blobID); cleanupErr != nil {
			util.LogWarn(fmt.Sprintf("[AccessService] не удалось вычистить осиротевший блоб %s", blobID), cleanupErr)
		}
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, util.LogError("[AccessService] не удалось сохранить метаданные объекта", err))
	}

	log.Printf("[AccessService] объект %s успешно загружен", object.Name)

	return object, nil
}

// ListAccessible : свои объекты плюс выданные по активным grant.
// Grant на уже удалённый объект молча пропускается.
func (s *AccessService) ListAccessible(ctx context.Context, userUUID string) (*model.AccessibleObjects, error) {
	owned, err := s.catalog.ListByOwner(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	grants, err := s.ledger.ListGrantsForGrantee(ctx, userUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	shared := []model.Object{}
	for _, grant := range grants {
		object, err := s.getObject(ctx, grant.ObjectUUID)
		if err != nil {
			return nil, err
		}
		if object == nil {
			continue // устаревший grant на удалённый объект
		}
		shared = append(shared, *object)
	}

	return &model.AccessibleObjects{Owned: owned, Shared: shared}, nil
}

// ListShares : активные grant и ссылки объекта, только для владельца
func (s *AccessService) ListShares(ctx context.Context, userUUID, objectUUID string) (*model.ObjectShares, error) {
	object, err := s.getObject(ctx, objectUUID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("%w: [AccessService] объект не найден", model.ErrNotFound)
	}
	if object.OwnerUUID != userUUID {
		return nil, fmt.Errorf("%w: [AccessService] только владелец видит список доступов", model.ErrForbidden)
	}

	grants, err := s.ledger.ListGrantsForObject(ctx, objectUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	links, err := s.ledger.ListLinksForObject(ctx, objectUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	return &model.ObjectShares{Users: grants, Links: links}, nil
}

// Download : отдаёт поток содержимого объекта.
// Объекта нет — NotFound; объект есть, но доступа нет — Forbidden.
// Поток читается без удержания блокировок на каталоге и реестре.
func (s *AccessService) Download(ctx context.Context, userUUID, objectUUID string) (*ports.DownloadResult, error) {
	object, err := s.getObject(ctx, objectUUID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("%w: [AccessService] объект не найден", model.ErrNotFound)
	}

	allowed, err := s.CanAccess(ctx, userUUID, object)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, fmt.Errorf("%w: [AccessService] нет доступа к объекту", model.ErrForbidden)
	}

	body, err := s.blobStorage.Get(ctx, object.BlobID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, util.LogError("[AccessService] не удалось прочитать блоб", err))
	}

	return &ports.DownloadResult{Object: object, Body: body}, nil
}

// CreateShareLink : только владелец. ttlSeconds > 0 задаёт срок действия,
// иначе ссылка бессрочная.
func (s *AccessService) CreateShareLink(ctx context.Context, userUUID, objectUUID string, ttlSeconds int64) (*model.ShareLink, error) {
	object, err := s.getObject(ctx, objectUUID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("%w: [AccessService] объект не найден", model.ErrNotFound)
	}
	if object.OwnerUUID != userUUID {
		return nil, fmt.Errorf("%w: [AccessService] только владелец создаёт share-ссылки", model.ErrForbidden)
	}

	link, err := s.ledger.CreateLink(ctx, objectUUID, userUUID, expiryFromTTL(ttlSeconds))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	return link, nil
}

// AccessViaLink : чтение по токену. Токен не найден или истёк — NotFound,
// объект уже удалён — тоже NotFound. Пользователь обязан быть
// аутентифицирован (анонимный доступ по ссылке не поддерживается).
// Счётчик обращений best-effort и считает только успешные открытия потока:
// его ошибка не срывает скачивание.
func (s *AccessService) AccessViaLink(ctx context.Context, userUUID, token string) (*ports.DownloadResult, error) {
	if userUUID == "" {
		return nil, fmt.Errorf("%w: [AccessService] доступ по ссылке требует входа", model.ErrForbidden)
	}

	link, err := s.ledger.FindLink(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if link == nil {
		return nil, fmt.Errorf("%w: [AccessService] ссылка не найдена или истекла", model.ErrNotFound)
	}

	object, err := s.getObject(ctx, link.ObjectUUID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("%w: [AccessService] объект ссылки не найден", model.ErrNotFound)
	}

	body, err := s.blobStorage.Get(ctx, object.BlobID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, util.LogError("[AccessService] не удалось прочитать блоб", err))
	}

	// счётчик только после успешного открытия потока
	if err := s.ledger.IncrementLinkAccess(ctx, token); err != nil {
		util.LogWarn("[AccessService] не удалось увеличить счётчик ссылки", err)
	}

	return &ports.DownloadResult{Object: object, Body: body}, nil
}

// LinkInfo : сведения о ссылке без скачивания содержимого
func (s *AccessService) LinkInfo(ctx context.Context, userUUID, token string) (*ports.LinkAccessInfo, error) {
	if userUUID == "" {
		return nil, fmt.Errorf("%w: [AccessService] доступ по ссылке требует входа", model.ErrForbidden)
	}

	link, err := s.ledger.FindLink(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if link == nil {
		return nil, fmt.Errorf("%w: [AccessService] ссылка не найдена или истекла", model.ErrNotFound)
	}

	object, err := s.getObject(ctx, link.ObjectUUID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("%w: [AccessService] объект ссылки не найден", model.ErrNotFound)
	}

	owner, err := s.userDirectory.FindByUUID(ctx, object.OwnerUUID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	return &ports.LinkAccessInfo{Link: link, Object: object, Owner: owner}, nil
}

// GrantToUsers : выдаёт grant списку пользователей, только владелец.
// Пустой список — InvalidInput. Неизвестный получатель молча пропускается,
// частичный успех допустим: возвращаются только реально выданные grant.
// Повторная выдача той же паре заменяет прежний grant (побеждает последний
// срок действия).
func (s *AccessService) GrantToUsers(ctx context.Context, ownerUUID, objectUUID string, granteeUUIDs []string, ttlSeconds int64) ([]model.Grant, error) {
	if len(granteeUUIDs) == 0 {
		return nil, fmt.Errorf("%w: [AccessService] список получателей пуст", model.ErrInvalidInput)
	}

	object, err := s.getObject(ctx, objectUUID)
	if err != nil {
		return nil, err
	}
	if object == nil {
		return nil, fmt.Errorf("%w: [AccessService] объект не найден", model.ErrNotFound)
	}
	if object.OwnerUUID != ownerUUID {
		return nil, fmt.Errorf("%w: [AccessService] только владелец раздаёт доступ", model.ErrForbidden)
	}

	expiresAt := expiryFromTTL(ttlSeconds)
	created := []model.Grant{}
	for _, granteeUUID := range granteeUUIDs {
		exists, err := s.userDirectory.Exists(ctx, granteeUUID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
		}
		if !exists {
			continue
		}

		grant, err := s.ledger.UpsertGrant(ctx, objectUUID, granteeUUID, ownerUUID, expiresAt)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
		}
		created = append(created, *grant)
	}

	return created, nil
}

// RevokeUserAccess : отзыв grant, только владелец, идемпотентен
func (s *AccessService) RevokeUserAccess(ctx context.Context, ownerUUID, objectUUID, granteeUUID string) error {
	object, err := s.getObject(ctx, objectUUID)
	if err != nil {
		return err
	}
	if object == nil {
		return fmt.Errorf("%w: [AccessService] объект не найден", model.ErrNotFound)
	}
	if object.OwnerUUID != ownerUUID {
		return fmt.Errorf("%w: [AccessService] только владелец отзывает доступ", model.ErrForbidden)
	}

	if err := s.ledger.RevokeGrant(ctx, objectUUID, granteeUUID); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	return nil
}

// RevokeLink : отзыв share-ссылки её владельцем
func (s *AccessService) RevokeLink(ctx context.Context, ownerUUID, token string) error {
	link, err := s.ledger.FindLink(ctx, token)
	if err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}
	if link == nil {
		return fmt.Errorf("%w: [AccessService] ссылка не найдена", model.ErrNotFound)
	}
	if link.OwnerUUID != ownerUUID {
		return fmt.Errorf("%w: [AccessService] только владелец отзывает ссылку", model.ErrForbidden)
	}

	if err := s.ledger.RevokeLink(ctx, token); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	return nil
}

// DeleteObject : каскадное удаление, только владелец.
// Порядок: блоб → реестр → каталог. Ошибка удаления блоба логируется и не
// прерывает операцию: висящий блоб безопаснее записи каталога на удалённый
// блоб. Запись каталога удаляется последней, чтобы никогда не осталось
// записи, указывающей на стёртый блоб.
func (s *AccessService) DeleteObject(ctx context.Context, userUUID, objectUUID string) error {
	object, err := s.getObject(ctx, objectUUID)
	if err != nil {
		return err
	}
	if object == nil {
		return fmt.Errorf("%w: [AccessService] объект не найден", model.ErrNotFound)
	}
	if object.OwnerUUID != userUUID {
		return fmt.Errorf("%w: [AccessService] только владелец удаляет объект", model.ErrForbidden)
	}

	if err := s.blobStorage.Delete(ctx, object.BlobID); err != nil {
		util.LogWarn(fmt.Sprintf("[AccessService] не удалось удалить блоб %s, продолжаем удаление метаданных", object.BlobID), err)
	}

	if err := s.ledger.DeleteAllForObject(ctx, objectUUID); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	if err := s.catalog.Delete(ctx, objectUUID); err != nil {
		return fmt.Errorf("%w: %v", model.ErrStorageFailure, err)
	}

	if err := s.cache.DeleteObject(ctx, objectUUID); err != nil {
		util.LogWarn("[AccessService] ошибка удаления объекта из кэша", err)
	}

	log.Printf("[AccessService] объект %s успешно удалён", object.Name)

	return nil
}

// expiryFromTTL : ttl в секундах → срок действия, неположительный ttl
// означает бессрочно
func expiryFromTTL(ttlSeconds int64) *time.Time {
	if ttlSeconds <= 0 {
		return nil
	}
	expiresAt := time.Now().Add(time.Duration(ttlSeconds) * time.Second)
	return &expiresAt
}
