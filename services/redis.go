package services

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/pkg/errors"
)

const redisPrefix = "dashhome:"

type RedisStore struct {
	client  *redis.Client
	timeout time.Duration
}

func NewRedisStore(address string, db int) (*RedisStore, error) {
	ret := NewRedisStoreClient(redis.NewClient(&redis.Options{
		Addr: address,
		DB:   db,
	}))
	// test the connection
	if err := ret.Ping(); err != nil {
		ret.Close()
		return nil, errors.Wrapf(err, "connecting to redis %s", address)
	}
	return ret, nil
}

func NewRedisStoreClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, timeout: 5 * time.Second}
}

func (self *RedisStore) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), self.timeout)
}

func (self *RedisStore) Ping() error {
	ctx, cancel := self.ctx()
	defer cancel()
	return self.client.Ping(ctx).Err()
}

func (self *RedisStore) Get(key string) (string, error) {
	ctx, cancel := self.ctx()
	defer cancel()
	value, err := self.client.Get(ctx, redisPrefix+key).Result()
	if err == redis.Nil {
		return "", missing(key)
	}
	if err != nil {
		return "", errors.Wrapf(err, "redis get %s", key)
	}
	return value, nil
}

func (self *RedisStore) Set(key string, value string) error {
	ctx, cancel := self.ctx()
	defer cancel()
	if err := self.client.Set(ctx, redisPrefix+key, value, 0).Err(); err != nil {
		return errors.Wrapf(err, "redis set %s", key)
	}
	return nil
}

func (self *RedisStore) Exists(key string) (bool, error) {
	ctx, cancel := self.ctx()
	defer cancel()
	n, err := self.client.Exists(ctx, redisPrefix+key).Result()
	if err != nil {
		return false, errors.Wrapf(err, "redis exists %s", key)
	}
	return n > 0, nil
}

func (self *RedisStore) Close() error {
	return self.client.Close()
}
