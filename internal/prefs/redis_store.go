package prefs

import (
	"betcodes/internal/providers"
	"betcodes/internal/structures"
	"context"
	"errors"
	"github.com/redis/go-redis/v9"
	"time"
)

// RedisStore keeps preferences in a single hash so a device profile can be
// shared by several daemon instances.
type RedisStore struct {
	rdb     *redis.Client
	hashKey string
	timeout time.Duration
	logger  providers.Logger
}

func NewRedisStore(conf structures.RedisConfig, logger providers.Logger) *RedisStore {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 500 * time.Millisecond
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:         conf.Addr,
		Password:     conf.Password,
		DB:           conf.DB,
		DialTimeout:  timeout,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
		MaxRetries:   1,
	})
	return &RedisStore{
		rdb:     rdb,
		hashKey: conf.KeyPrefix + ":prefs",
		timeout: timeout,
		logger:  logger,
	}
}

func (r *RedisStore) GetInt64(key Key) (int64, bool) {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	v, err := r.rdb.HGet(ctx, r.hashKey, key.String()).Int64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warnf(providers.TypeApp, "Reading %s from redis failed: %s", key, err)
		}
		return 0, false
	}
	return v, true
}

func (r *RedisStore) SetInt64(key Key, value int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.rdb.HSet(ctx, r.hashKey, key.String(), value).Err()
}

func (r *RedisStore) Remove(keys ...Key) error {
	if len(keys) == 0 {
		return nil
	}
	fields := make([]string, 0, len(keys))
	for _, k := range keys {
		fields = append(fields, k.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.rdb.HDel(ctx, r.hashKey, fields...).Err()
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}

func (r *RedisStore) Close() error {
	return r.rdb.Close()
}
