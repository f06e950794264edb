package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redis "github.com/redis/go-redis/v9"

	"hotelledger/backend/internal/domain"
)

// payloadVersion changes whenever the PLReport shape changes, so entries
// written by an older build read as misses.
const payloadVersion = 2

const keyPrefix = "hotelledger:"

type redisEnvelope struct {
	Version int              `json:"v"`
	Report  *domain.PLReport `json:"report"`
}

type RedisReportCache struct {
	client *redis.Client
}

func NewRedisReportCache(addr string, password string, db int) *RedisReportCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisReportCache{client: client}
}

func (c *RedisReportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisReportCache) Close() error {
	return c.client.Close()
}

// Get treats undecodable or stale-version entries as misses and drops them.
func (c *RedisReportCache) Get(ctx context.Context, key string) (*domain.PLReport, bool, error) {
	val, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	report, ok := decodeEnvelope(val)
	if !ok {
		_ = c.client.Del(ctx, keyPrefix+key).Err()
		return nil, false, nil
	}
	return report, true, nil
}

func (c *RedisReportCache) Set(ctx context.Context, key string, value *domain.PLReport, ttl time.Duration) error {
	if value == nil || ttl <= 0 {
		return nil
	}
	payload, err := encodeEnvelope(value)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, keyPrefix+key, payload, ttl).Err()
}

func encodeEnvelope(report *domain.PLReport) ([]byte, error) {
	return json.Marshal(redisEnvelope{Version: payloadVersion, Report: report})
}

func decodeEnvelope(raw []byte) (*domain.PLReport, bool) {
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, false
	}
	if env.Version != payloadVersion || env.Report == nil {
		return nil, false
	}
	return env.Report, true
}
