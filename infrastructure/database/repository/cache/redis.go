package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	redisClient "biointake.io/infrastructure/database/connection/cache"
	"biointake.io/infrastructure/logger"
)

var Cache = &RedisRepository{}

type RedisRepository struct {
	Client *redis.Client
}

func (redisRepo *RedisRepository) preRequest() bool {
	if redisRepo.Client == nil {
		client, err := redisClient.GetInstance()
		if err != nil || client == nil {
			return false
		}
		redisRepo.Client = client.Client
		logger.Info("redis repository initialisation complete")
	}
	return true
}

func (redisRepo *RedisRepository) CreateEntry(ctx context.Context, key string, payload interface{}, ttl time.Duration) bool {
	if !redisRepo.preRequest() {
		return false
	}
	_, err := redisRepo.Client.Set(ctx, key, payload, ttl).Result()
	if err != nil {
		logger.Error("redis error occured while running CreateEntry", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}
	return true
}

func (redisRepo *RedisRepository) FindOneByteArray(ctx context.Context, key string) *[]byte {
	if !redisRepo.preRequest() {
		return nil
	}
	result, err := redisRepo.Client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		logger.Error("redis error occured while running FindOneByteArray", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return nil
	}
	return &result
}

func (redisRepo *RedisRepository) DeleteOne(ctx context.Context, key string) bool {
	if !redisRepo.preRequest() {
		return false
	}
	result, err := redisRepo.Client.Del(ctx, key).Result()
	if err != nil {
		logger.Error("redis error occured while running DeleteOne", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "key",
			Data: key,
		})
		return false
	}
	return result == 1
}
