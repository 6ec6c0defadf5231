package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"introspect/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// GenerateKey builds an "entity:key:value" cache key.
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// RecordsKey is the cache key of a caller's published introspection records.
func RecordsKey(caller models.Pubkey) string {
	return GenerateKey("introspection", "caller", caller)
}

// Introspection record caching
func (s *CacheService) CacheRecords(ctx context.Context, records *models.Records) error {
	if records == nil {
		return errors.New("cannot cache nil records")
	}
	return s.Set(ctx, RecordsKey(records.Summary.Caller), records)
}

func (s *CacheService) GetRecords(ctx context.Context, caller models.Pubkey) (*models.Records, error) {
	var records models.Records
	found, err := s.Get(ctx, RecordsKey(caller), &records)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrCacheMiss
	}
	return &records, nil
}

func (s *CacheService) InvalidateRecords(ctx context.Context, caller models.Pubkey) error {
	return s.Delete(ctx, RecordsKey(caller))
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
