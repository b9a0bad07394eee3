package repositories

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/termwise/glossary-saas/internal/core/ports"
)

// TokenRedisRepository stores refresh tokens in Redis keyed by token hash,
// with the TTL matching the token's expiry.
type TokenRedisRepository struct {
	r      redis.Cmdable
	logger *logrus.Logger
}

func NewTokenRedisRepository(r redis.Cmdable, logger *logrus.Logger) ports.TokenRepository {
	return &TokenRedisRepository{r: r, logger: logger}
}

func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("refresh:%x", sum)
}

func (repo *TokenRedisRepository) StoreRefreshToken(ctx context.Context, userID uuid.UUID, token string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return fmt.Errorf("refresh token already expired")
	}
	if err := repo.r.Set(ctx, tokenKey(token), userID.String(), ttl).Err(); err != nil {
		if repo.logger != nil {
			repo.logger.WithFields(logrus.Fields{"user_id": userID}).WithError(err).Error("redis: failed to store refresh token")
		}
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

func (repo *TokenRedisRepository) GetRefreshTokenUser(ctx context.Context, token string) (uuid.UUID, error) {
	val, err := repo.r.Get(ctx, tokenKey(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, fmt.Errorf("refresh token not found")
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid refresh token record: %w", err)
	}
	return id, nil
}

func (repo *TokenRedisRepository) DeleteRefreshToken(ctx context.Context, token string) error {
	return repo.r.Del(ctx, tokenKey(token)).Err()
}
