package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"biointake.io/infrastructure/env"
	"biointake.io/infrastructure/logger"
	"github.com/redis/go-redis/v9"
)

type RedisClient struct {
	Client *redis.Client
}

var (
	redisOnce   sync.Once
	redisClient *RedisClient
	redisErr    error
)

// GetInstance returns the shared redis client, dialling it on first use.
func GetInstance() (*RedisClient, error) {
	redisOnce.Do(func() {
		cfg := env.Get()
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
			PoolSize: 10,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warning("could not reach redis", logger.LoggerOptions{Key: "error", Data: err})
			redisErr = err
		}
		redisClient = &RedisClient{Client: client}
	})
	if redisClient == nil {
		return nil, errors.New("redis client unavailable")
	}
	return redisClient, redisErr
}

func ConnectToCache() {
	if _, err := GetInstance(); err != nil {
		return
	}
	logger.Info("connected to redis successfully")
}

func CleanUp() {
	if redisClient == nil {
		return
	}
	if err := redisClient.Client.Close(); err != nil {
		logger.Warning("error closing redis client", logger.LoggerOptions{Key: "error", Data: err})
	}
}
