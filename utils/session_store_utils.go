package utils

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisSessionStore maps opaque session tokens handed out by the identity
// provider to user ids. The core never authenticates anyone; it only
// resolves an already-issued token to a viewer identity, so a plain
// key-value lookup is all that is needed here.
type RedisSessionStore struct {
	inner *redis.Client
}

const sessionKeyPrefix = "session__"

var ctx = context.Background()

func GetRedisSessionStore() (*RedisSessionStore, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")),
		Password: os.Getenv("REDIS_PASSWD"),
		DB:       0, // use default DB
	})
	_, err := redisClient.Ping(ctx).Result()
	if err != nil {
		return nil, err
	}
	return &RedisSessionStore{inner: redisClient}, nil
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}

// ResolveToken returns the user id a session token belongs to, or empty
// string when the token is unknown or expired.
func (r *RedisSessionStore) ResolveToken(token string) (string, error) {
	res, err := r.inner.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return res, nil
}

// StoreToken records a token for a user with the given time-to-live.
func (r *RedisSessionStore) StoreToken(token string, userId string, ttl time.Duration) error {
	return r.inner.Set(ctx, sessionKey(token), userId, ttl).Err()
}

// DropToken invalidates a token, e.g. on logout.
func (r *RedisSessionStore) DropToken(token string) error {
	return r.inner.Del(ctx, sessionKey(token)).Err()
}
