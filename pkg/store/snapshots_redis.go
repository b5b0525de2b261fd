package store

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshots keeps store snapshots in Redis without expiry.
type RedisSnapshots struct {
	client *redis.Client
}

// NewRedisSnapshots builds a Redis-backed snapshot store.
func NewRedisSnapshots(addr, password string) *RedisSnapshots {
	return &RedisSnapshots{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

// Save writes the full snapshot under name.
func (s *RedisSnapshots) Save(name string, data []byte) error {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return s.client.Set(ctx, name, data, 0).Err()
}

// Load reads the snapshot for name.
func (s *RedisSnapshots) Load(name string) ([]byte, bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	data, err := s.client.Get(ctx, name).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}
