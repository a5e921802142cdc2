package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/akozadaev/go_crime_analytical_system/internal/metrics"
	"github.com/redis/go-redis/v9"
)

// Cache хранит обогащенные наборы по отпечатку содержимого источника.
type Cache interface {
	Get(ctx context.Context, fingerprint string) (*Dataset, bool, error)
	Set(ctx context.Context, fingerprint string, ds *Dataset) error
}

// MemoryCache кэш в памяти процесса. Для каждого источника хранится только
// набор с последним отпечатком.
type MemoryCache struct {
	mu       sync.RWMutex
	entries  map[string]*Dataset
	bySource map[string]string
}

// NewMemoryCache создает пустой кэш.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries:  map[string]*Dataset{},
		bySource: map[string]string{},
	}
}

func (c *MemoryCache) Get(_ context.Context, fingerprint string) (*Dataset, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ds, ok := c.entries[fingerprint]
	metrics.CacheLookups.WithLabelValues("memory", hitLabel(ok)).Inc()
	return ds, ok, nil
}

func (c *MemoryCache) Set(_ context.Context, fingerprint string, ds *Dataset) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.bySource[ds.Stats.Source]; ok && prev != fingerprint {
		delete(c.entries, prev)
	}
	c.entries[fingerprint] = ds
	c.bySource[ds.Stats.Source] = fingerprint
	return nil
}

// Len количество наборов в кэше.
func (c *MemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// RedisCache общий для нескольких экземпляров сервера кэш в Redis.
// Записи не имеют TTL: новый отпечаток дает новый ключ.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache подключается к Redis по URL вида redis://host:6379/0.
func NewRedisCache(url, prefix string) (*RedisCache, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	return NewRedisCacheWithClient(redis.NewClient(opt), prefix), nil
}

// NewRedisCacheWithClient использует готовый клиент.
func NewRedisCacheWithClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = "incidents:dataset:"
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Ping проверяет доступность Redis.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close закрывает подключение.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

func (c *RedisCache) Get(ctx context.Context, fingerprint string) (*Dataset, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+fingerprint).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.CacheLookups.WithLabelValues("redis", "miss").Inc()
		return nil, false, nil
	}
	if err != nil {
		metrics.CacheLookups.WithLabelValues("redis", "error").Inc()
		return nil, false, fmt.Errorf("failed to get dataset from redis: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		metrics.CacheLookups.WithLabelValues("redis", "error").Inc()
		return nil, false, fmt.Errorf("failed to decode cached dataset: %w", err)
	}
	metrics.CacheLookups.WithLabelValues("redis", "hit").Inc()
	return &ds, true, nil
}

func (c *RedisCache) Set(ctx context.Context, fingerprint string, ds *Dataset) error {
	data, err := json.Marshal(ds)
	if err != nil {
		return fmt.Errorf("failed to encode dataset: %w", err)
	}
	if err := c.client.Set(ctx, c.prefix+fingerprint, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store dataset in redis: %w", err)
	}
	return nil
}

// Chain многоуровневый кэш: чтение по порядку с заполнением верхних уровней,
// запись во все уровни.
type Chain []Cache

func (c Chain) Get(ctx context.Context, fingerprint string) (*Dataset, bool, error) {
	var errs []error
	for i, tier := range c {
		ds, ok, err := tier.Get(ctx, fingerprint)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			for _, upper := range c[:i] {
				if err := upper.Set(ctx, fingerprint, ds); err != nil {
					errs = append(errs, err)
				}
			}
			return ds, true, errors.Join(errs...)
		}
	}
	return nil, false, errors.Join(errs...)
}

func (c Chain) Set(ctx context.Context, fingerprint string, ds *Dataset) error {
	var errs []error
	for _, tier := range c {
		if err := tier.Set(ctx, fingerprint, ds); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func hitLabel(ok bool) string {
	if ok {
		return "hit"
	}
	return "miss"
}
