package redis

import (
	"coinlings/internal/repository"
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

const refreshPrefix = "refresh:"

// Storage keeps refresh tokens. The key is the token and the value is the user id.
type Storage struct {
	db         *redis.Client
	refreshTTL time.Duration
}

func InitRedis(addr, password string, dbNumber int, refreshTTL time.Duration) (*Storage, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     addr,
		Username: "",
		Password: password,
		DB:       dbNumber,
	})
	return NewWithClient(redisClient, refreshTTL), nil
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, refreshTTL time.Duration) *Storage {
	return &Storage{db: client, refreshTTL: refreshTTL}
}

func (s *Storage) Ping(ctx context.Context) error {
	return s.db.Ping(ctx).Err()
}

func (s *Storage) StoreRefreshToken(ctx context.Context, userID, refreshToken string) error {
	const op = "storage.Redis.StoreRefreshToken"

	if err := s.db.Set(ctx, refreshPrefix+refreshToken, userID, s.refreshTTL).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// TakeRefreshToken returns the user id stored for the token and deletes it in one
// GETDEL, so a token can be redeemed only once.
func (s *Storage) TakeRefreshToken(ctx context.Context, refreshToken string) (string, error) {
	const op = "storage.Redis.TakeRefreshToken"

	userID, err := s.db.GetDel(ctx, refreshPrefix+refreshToken).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", fmt.Errorf("%s: %w", op, repository.ErrTokenNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	return userID, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}
