package cart

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// RedisStorage persists the cart blob as a plain string value under its key.
type RedisStorage struct {
	client *redis.Client
	key    string
}

func NewRedisStorage(client *redis.Client, key string) *RedisStorage {
	return &RedisStorage{client: client, key: key}
}

func (s *RedisStorage) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStorage) Load(ctx context.Context) ([]Line, error) {
	raw, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeBlob(raw), nil
}

func (s *RedisStorage) Save(ctx context.Context, lines []Line) error {
	return s.client.Set(ctx, s.key, encodeBlob(lines), 0).Err()
}
