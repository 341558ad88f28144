package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/controle-validade/internal/application/query"
)

var _ query.Store = (*RedisStore)(nil)

// RedisStore Store sobre Redis. Cada sesión usa su propio prefijo para que las
// lecturas sigan siendo efímeras por usuario; retention limita cuánto sobreviven
// entradas que ya nadie lee.
type RedisStore struct {
	client    *redis.Client
	prefix    string
	retention time.Duration
}

// NewRedisStore construye el store. prefix debería identificar la sesión (ej. "cv:<user>:").
func NewRedisStore(client *redis.Client, prefix string, retention time.Duration) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, retention: retention}
}

func (s *RedisStore) Get(ctx context.Context, key string) (query.Entry, bool, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return query.Entry{}, false, nil
		}
		return query.Entry{}, false, fmt.Errorf("redis get: %w", err)
	}
	var e query.Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return query.Entry{}, false, fmt.Errorf("redis unmarshal: %w", err)
	}
	return e, true, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, e query.Entry) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("redis marshal: %w", err)
	}
	if err := s.client.Set(ctx, s.prefix+key, data, s.retention).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// DeletePrefix elimina las claves del prefijo recorriendo con SCAN.
func (s *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := s.prefix + prefix + "*"
	var cursor uint64
	for {
		keys, next, err := s.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := s.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis del: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}
