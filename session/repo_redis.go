package session

import (
	"context"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

var _ Repo = (*RedisRepo)(nil)

// RedisRepo persists the session slot under a single Redis key, for clients
// that share one session across processes. As with the browser's shared
// storage, concurrent writers race and the last write wins.
type RedisRepo struct {
	client *redis.Client
	key    string
}

// NewRedisRepo creates a RedisRepo storing the slot under key. The client
// connection is verified with a ping.
func NewRedisRepo(ctx context.Context, client *redis.Client, key string) (*RedisRepo, error) {
	if client == nil {
		return nil, errors.New("[NewRedisRepo] client is required")
	}
	if key == "" {
		return nil, errors.New("[NewRedisRepo] key is required")
	}
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "[NewRedisRepo] ping")
	}
	return &RedisRepo{client: client, key: key}, nil
}

func (r *RedisRepo) Get(ctx context.Context) (string, error) {
	value, err := r.client.Get(ctx, r.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", NoSessionErr
		}
		return "", errors.Wrap(err, "[RedisRepo.Get] get")
	}
	return value, nil
}

func (r *RedisRepo) Put(ctx context.Context, value string) error {
	if err := r.client.Set(ctx, r.key, value, 0).Err(); err != nil {
		return errors.Wrap(err, "[RedisRepo.Put] set")
	}
	return nil
}

func (r *RedisRepo) Delete(ctx context.Context) error {
	count, err := r.client.Del(ctx, r.key).Result()
	if err != nil {
		return errors.Wrap(err, "[RedisRepo.Delete] del")
	}
	if count == 0 {
		return NoSessionErr
	}
	return nil
}
