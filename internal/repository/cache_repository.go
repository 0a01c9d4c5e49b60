package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"file-sharing-server/config"
	"file-sharing-server/internal/model"
	"file-sharing-server/internal/util"

	"github.com/redis/go-redis/v9"
)

// CacheRepository : Redis-кэш метаданных объектов.
// Кэшируются только записи каталога; grant и ссылки сюда не попадают,
// их срок действия проверяется против реестра при каждом запросе.
type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

func (r *CacheRepository) SetObject(ctx context.Context, object *model.Object) error {
	data, err := json.Marshal(object)
	if err != nil {
		return util.LogError("ошибка сериализации объекта", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(object.UUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}

	return nil
}

func (r *CacheRepository) GetObject(ctx context.Context, uuid string) (*model.Object, error) {
	val, err := r.client.Client.Get(ctx, r.key(uuid)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения объекта из Redis", err)
	}

	var object model.Object
	if err := json.Unmarshal([]byte(val), &object); err != nil {
		return nil, util.LogError("ошибка десериализации объекта из кэша", err)
	}
	return &object, nil
}

func (r *CacheRepository) DeleteObject(ctx context.Context, uuid string) error {
	if err := r.client.Client.Del(ctx, r.key(uuid)).Err(); err != nil {
		return util.LogError("ошибка удаления объекта из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(uuid string) string {
	return fmt.Sprintf("object:%s", uuid)
}
