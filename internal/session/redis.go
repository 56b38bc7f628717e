package session

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "lupa:session:"

// RedisStore keeps each session as five string keys sharing one hash tag, so
// MULTI/EXEC covers them on a cluster too.
type RedisStore struct {
	rdb redis.UniversalClient
	ttl time.Duration
}

func NewRedisStore(rdb redis.UniversalClient, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func redisKey(scope, key string) string {
	return fmt.Sprintf("%s{%s}:%s", keyPrefix, scope, key)
}

func redisKeys(scope string) []string {
	out := make([]string, len(Keys))
	for i, k := range Keys {
		out[i] = redisKey(scope, k)
	}
	return out
}

func (s *RedisStore) Create(ctx context.Context, scope string, sess *Session) error {
	values, err := encode(sess)
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, k := range Keys {
			pipe.Set(ctx, redisKey(scope, k), values[k], s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, scope string) (*Session, error) {
	raw, err := s.rdb.MGet(ctx, redisKeys(scope)...).Result()
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	values := make(map[string]string, len(Keys))
	for i, k := range Keys {
		str, ok := raw[i].(string)
		if !ok {
			return nil, ErrNoSession
		}
		values[k] = str
	}
	return decode(values)
}

func (s *RedisStore) UpdateAnswers(ctx context.Context, scope string, answers map[string]string) error {
	raw, err := encodeAnswers(answers)
	if err != nil {
		return err
	}
	return s.setExisting(ctx, scope, KeyAnswers, raw)
}

func (s *RedisStore) UpdateCurrentStep(ctx context.Context, scope string, step int) error {
	return s.setExisting(ctx, scope, KeyCurrentStep, strconv.Itoa(step))
}

func (s *RedisStore) Clear(ctx context.Context, scope string) error {
	if err := s.rdb.Del(ctx, redisKeys(scope)...).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// setExisting overwrites key only if it is still present, keeping its TTL.
func (s *RedisStore) setExisting(ctx context.Context, scope, key, value string) error {
	ok, err := s.rdb.SetXX(ctx, redisKey(scope, key), value, redis.KeepTTL).Result()
	if err != nil {
		return fmt.Errorf("update session %s: %w", key, err)
	}
	if !ok {
		return ErrNoSession
	}
	return nil
}
