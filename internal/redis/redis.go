package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var Rdb *redis.Client

func InitRedis(redisAddress string, redisUsername string, redisPassword string) {
	Rdb = redis.NewClient(&redis.Options{
		Addr:     redisAddress,
		Username: redisUsername,
		Password: redisPassword,
		DB:       0,
	})
}

func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) {
	if err := Rdb.Set(ctx, key, value, expiration).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to set redis key")
	}
}

// Get returns the value and whether the key existed.
func Get(ctx context.Context, key string) (string, bool) {
	val, err := Rdb.Get(ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func Del(ctx context.Context, key string) {
	if err := Rdb.Del(ctx, key).Err(); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("failed to delete redis key")
	}
}
