package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"law-pilot-server/config"
	"law-pilot-server/internal/model"
	"law-pilot-server/internal/util"
	"time"

	"github.com/redis/go-redis/v9"
)

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

// SetCases : кэширует список дел клиента для дашборда
func (r *CacheRepository) SetCases(ctx context.Context, clientUUID string, cases []model.Case) error {
	data, err := json.Marshal(cases)
	if err != nil {
		return util.LogError("ошибка сериализации списка дел", err)
	}

	cmd := r.client.Client.Set(ctx, r.key(clientUUID), data, r.ttl)
	if err = cmd.Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}
	if cmd.Val() != "OK" {
		return fmt.Errorf("неожиданный ответ Redis: %s", cmd.Val())
	}

	return nil
}

func (r *CacheRepository) GetCases(ctx context.Context, clientUUID string) ([]model.Case, error) {
	val, err := r.client.Client.Get(ctx, r.key(clientUUID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения списка дел из Redis", err)
	}

	var cases []model.Case
	if err := json.Unmarshal([]byte(val), &cases); err != nil {
		return nil, util.LogError("ошибка десериализации списка дел из кэша", err)
	}
	return cases, nil
}

// DeleteCases : инвалидация после создания дела ассоциацией или finalize
func (r *CacheRepository) DeleteCases(ctx context.Context, clientUUID string) error {
	if err := r.client.Client.Del(ctx, r.key(clientUUID)).Err(); err != nil {
		return util.LogError("ошибка удаления списка дел из Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(clientUUID string) string {
	return fmt.Sprintf("cases:%s", clientUUID)
}
