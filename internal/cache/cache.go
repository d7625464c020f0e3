package cache

import (
    "context"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"
)

// Cache is a small TTL key-value store. The webhook handler uses it to mark
// orders that already got a shipping tag.
type Cache interface {
    Set(ctx context.Context, key, value string, ttl time.Duration) error
    Get(ctx context.Context, key string) (string, error)
    Key(operation, id string) string
}

type redisCache struct {
    client    *redis.Client
    namespace string
}

func NewRedis(addr, namespace string) Cache {
    return &redisCache{
        client:    redis.NewClient(&redis.Options{Addr: addr}),
        namespace: namespace,
    }
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
    return r.client.Set(ctx, key, value, ttl).Err()
}

// Get returns an empty string on a miss.
func (r *redisCache) Get(ctx context.Context, key string) (string, error) {
    v, err := r.client.Get(ctx, key).Result()
    if err == redis.Nil {
        return "", nil
    }
    if err != nil {
        return "", err
    }
    return v, nil
}

func (r *redisCache) Key(operation, id string) string {
    return fmt.Sprintf("%s:%s:%s", r.namespace, operation, id)
}
