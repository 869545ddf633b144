package cache

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)

	config := &CacheConfig{
		Addr:         mr.Addr(),
		Password:     "",
		DB:           0,
		PoolSize:     10,
		MinIdleConns: 5,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	cache := NewRedisCache(config)
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestDefaultCacheConfig(t *testing.T) {
	config := DefaultCacheConfig()

	if config.Addr != "localhost:6379" {
		t.Errorf("Expected Addr to be localhost:6379, got %s", config.Addr)
	}

	if config.PoolSize != 10 {
		t.Errorf("Expected PoolSize to be 10, got %d", config.PoolSize)
	}

	if config.DialTimeout != 5*time.Second {
		t.Errorf("Expected DialTimeout to be 5s, got %v", config.DialTimeout)
	}
}

func TestNewRedisCache_WithNilConfig(t *testing.T) {
	cache := NewRedisCache(nil)

	if cache == nil {
		t.Fatal("Expected cache to be created with default config")
	}

	if cache.client == nil {
		t.Error("Expected Redis client to be initialized")
	}
}

func TestRedisCache_SetAndGet(t *testing.T) {
	cache := setupTestRedis(t)

	type payload struct {
		Name  string `json:"name"`
		Count int    `json:"count"`
	}

	err := cache.Set("test:key", payload{Name: "tasks", Count: 3}, time.Minute)
	if err != nil {
		t.Fatalf("Failed to set value: %v", err)
	}

	var got payload
	if err := cache.Get("test:key", &got); err != nil {
		t.Fatalf("Failed to get value: %v", err)
	}

	if got.Name != "tasks" || got.Count != 3 {
		t.Errorf("Unexpected cached value: %+v", got)
	}
}

func TestRedisCache_GetMiss(t *testing.T) {
	cache := setupTestRedis(t)

	var dest string
	err := cache.Get("missing:key", &dest)
	if err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss, got %v", err)
	}
}

func TestRedisCache_Delete(t *testing.T) {
	cache := setupTestRedis(t)

	if err := cache.Set("delete:me", "value", time.Minute); err != nil {
		t.Fatalf("Failed to set value: %v", err)
	}

	if err := cache.Delete("delete:me"); err != nil {
		t.Fatalf("Failed to delete value: %v", err)
	}

	var dest string
	if err := cache.Get("delete:me", &dest); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss after delete, got %v", err)
	}
}

func TestRedisCache_DeletePattern(t *testing.T) {
	cache := setupTestRedis(t)

	cache.Set("user_tasks:u1:a", "one", time.Minute)
	cache.Set("user_tasks:u1:b", "two", time.Minute)
	cache.Set("user_tasks:u2:a", "three", time.Minute)

	if err := cache.DeletePattern("user_tasks:u1:*"); err != nil {
		t.Fatalf("Failed to delete pattern: %v", err)
	}

	var dest string
	if err := cache.Get("user_tasks:u1:a", &dest); err != ErrCacheMiss {
		t.Errorf("Expected ErrCacheMiss for u1 key, got %v", err)
	}
	if err := cache.Get("user_tasks:u2:a", &dest); err != nil {
		t.Errorf("Expected u2 key to survive, got %v", err)
	}
}

func TestRedisCache_Health(t *testing.T) {
	cache := setupTestRedis(t)

	if err := cache.Health(); err != nil {
		t.Errorf("Expected healthy cache, got %v", err)
	}
}
