package repo

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisSlot stores the slot under tasklist:<key>.
type RedisSlot struct {
	client *redis.Client
	key    string
}

func NewRedisSlot(ctx context.Context, url, key string) (*RedisSlot, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return &RedisSlot{client: client, key: "tasklist:" + key}, nil
}

func (s *RedisSlot) Load(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrorNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Save stores without expiry.
func (s *RedisSlot) Save(ctx context.Context, data []byte) error {
	return s.client.Set(ctx, s.key, data, 0).Err()
}

func (s *RedisSlot) Close() error {
	return s.client.Close()
}
