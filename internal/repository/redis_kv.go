package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/nikolayk812/storefront/internal/port"
	"github.com/redis/go-redis/v9"
)

const DefaultKeyPrefix = "storefront"

// RedisKV stores documents under "<prefix>:<key>" and publishes changed keys
// on the "<prefix>:changes" channel.
type RedisKV struct {
	client *redis.Client
	prefix string
}

var (
	_ port.KVStore = (*RedisKV)(nil)
	_ port.Watcher = (*RedisKV)(nil)
)

func NewRedisKV(client *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}

	return &RedisKV{
		client: client,
		prefix: prefix,
	}
}

func (s *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, port.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	return value, nil
}

func (s *RedisKV) Set(ctx context.Context, key string, value []byte) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(key), value, 0)
		pipe.Publish(ctx, s.channel(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("client.TxPipelined set: %w", err)
	}

	return nil
}

func (s *RedisKV) Delete(ctx context.Context, key string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key(key))
		pipe.Publish(ctx, s.channel(), key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("client.TxPipelined delete: %w", err)
	}

	return nil
}

func (s *RedisKV) Watch(ctx context.Context, fn func(key string)) error {
	sub := s.client.Subscribe(ctx, s.channel())
	defer sub.Close()

	// wait for the subscription to be confirmed so no change is missed after Watch starts
	if _, err := sub.Receive(ctx); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("sub.Receive: %w", err)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			fn(msg.Payload)
		}
	}
}

func (s *RedisKV) key(key string) string {
	return s.prefix + ":" + key
}

func (s *RedisKV) channel() string {
	return s.prefix + ":changes"
}
