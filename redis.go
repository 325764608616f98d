package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// initRedis initializes the Redis connection
func initRedis() error {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		redisURL = "redis:6379"
	}

	opt, err := redis.ParseURL(fmt.Sprintf("redis://%s", redisURL))
	if err != nil {
		// Fallback to simple connection
		opt = &redis.Options{
			Addr: redisURL,
		}
	}

	redisClient = redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}

	return nil
}

// Cached reads are scoped per user, so invalidation is too.
func transactionsCacheKey(userID string) string {
	return "transactions:" + userID
}

func analyticsCacheKey(userID string) string {
	return "analytics:" + userID
}

// invalidateUserCache drops the user's cached reads after any write,
// including the bulk sync endpoints.
func invalidateUserCache(ctx context.Context, userID string) {
	if redisClient == nil {
		return
	}
	redisClient.Del(ctx, transactionsCacheKey(userID), analyticsCacheKey(userID))
}
