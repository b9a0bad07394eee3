package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/termwise/glossary-saas/internal/core/ports"
)

// AnonymousQuotaRedisRepository implements daily view counters for
// unauthenticated clients with Redis. INCR and EXPIRE run in one
// transactional pipeline, so concurrent requests never lose increments.
type AnonymousQuotaRedisRepository struct {
	r redis.Cmdable
}

func NewAnonymousQuotaRedisRepository(r redis.Cmdable) ports.AnonymousQuotaRepository {
	return &AnonymousQuotaRedisRepository{r: r}
}

// IncrementDay bumps the per-client counter for the given UTC day.
// The day is part of the key, so rollover needs no reset logic.
func (repo *AnonymousQuotaRedisRepository) IncrementDay(ctx context.Context, clientKey string, day time.Time, ttl time.Duration) (int, error) {
	key := fmt.Sprintf("%s:%s", clientKey, day.UTC().Format("2006-01-02"))
	pipe := repo.r.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, err
	}
	return int(incr.Val()), nil
}
