package util

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"brocante/admin-service/internal/app/admin/entity"
	"brocante/pkg/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	serviceName = "admin"

	categoriesCacheKey    = "categories:all"
	subcategoriesCacheKey = "subcategories:all"
)

type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(addr, password string, db int) (*RedisClient, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisClient{client: client}, nil
}

// NewRedisClientFromExisting оборачивает готовый клиент (для тестов с miniredis)
func NewRedisClientFromExisting(client *redis.Client) *RedisClient {
	return &RedisClient{client: client}
}

func (r *RedisClient) SetCategories(ctx context.Context, categories []entity.Category, ttl time.Duration) error {
	return r.setList(ctx, categoriesCacheKey, categories, ttl)
}

func (r *RedisClient) GetCategories(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	if err := r.getList(ctx, categoriesCacheKey, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *RedisClient) DeleteCategories(ctx context.Context) error {
	return r.deleteList(ctx, categoriesCacheKey)
}

func (r *RedisClient) SetSubcategories(ctx context.Context, subcategories []entity.Subcategory, ttl time.Duration) error {
	return r.setList(ctx, subcategoriesCacheKey, subcategories, ttl)
}

func (r *RedisClient) GetSubcategories(ctx context.Context) ([]entity.Subcategory, error) {
	var subcategories []entity.Subcategory
	if err := r.getList(ctx, subcategoriesCacheKey, &subcategories); err != nil {
		return nil, err
	}
	return subcategories, nil
}

func (r *RedisClient) DeleteSubcategories(ctx context.Context) error {
	return r.deleteList(ctx, subcategoriesCacheKey)
}

func (r *RedisClient) setList(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	if err := r.client.Set(ctx, key, data, ttl).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "set")
		return fmt.Errorf("failed to set %s in cache: %w", key, err)
	}

	return nil
}

// getList декодирует кешированный список в dest.
// Отсутствие ключа не ошибка: dest остается пустым (cache miss).
func (r *RedisClient) getList(ctx context.Context, key string, dest interface{}) error {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			metrics.RecordCacheMiss(serviceName, key)
			return nil
		}
		metrics.RecordRedisError(serviceName, "get")
		return fmt.Errorf("failed to get %s from cache: %w", key, err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}

	metrics.RecordCacheHit(serviceName, key)
	return nil
}

func (r *RedisClient) deleteList(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		metrics.RecordRedisError(serviceName, "del")
		return fmt.Errorf("failed to delete %s from cache: %w", key, err)
	}
	return nil
}

func (r *RedisClient) Close() error {
	return r.client.Close()
}
