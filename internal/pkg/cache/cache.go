package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ansokolov/CourseFox/internal/pkg/env"
)

// ErrUnavailable is returned when no cache server could be reached at startup.
// Callers fall back to the database in that case.
var ErrUnavailable = errors.New("cache unavailable")

var (
	client *redis.Client
	ctx    = context.Background()
	ready  bool
)

// SetupCache initializes the connection to the Redis cache server
func SetupCache() {
	host := env.GetEnv("CACHE_HOST", "localhost")
	port := env.GetEnv("CACHE_PORT", "6379")
	db, _ := strconv.Atoi(env.GetEnv("CACHE_DB", "0"))

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: env.GetEnv("CACHE_PASSWORD", ""),
		DB:       db,
	})

	pong, err := client.Ping(ctx).Result()
	if err != nil {
		log.Printf("Warning: Could not connect to cache: %v", err)
		return
	}

	ready = true
	log.Printf("Successfully connected to cache: %s", pong)
}

// Set stores a value in the cache with the given key and expiration time
func Set(key string, value interface{}, expiration time.Duration) error {
	if client == nil || !ready {
		return ErrUnavailable
	}
	return client.Set(ctx, key, value, expiration).Err()
}

// Get retrieves a value from the cache by key
func Get(key string) (string, error) {
	if client == nil || !ready {
		return "", ErrUnavailable
	}
	return client.Get(ctx, key).Result()
}

// Delete removes a value from the cache by key
func Delete(key string) error {
	if client == nil || !ready {
		return ErrUnavailable
	}
	return client.Del(ctx, key).Err()
}
