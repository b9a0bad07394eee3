package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/termwise/glossary-saas/internal/core/domain/term"
	"github.com/termwise/glossary-saas/internal/core/ports"
)

var sf singleflight.Group

func cacheSetSilently(c ports.Cache, ctx context.Context, key string, v any, ttl time.Duration) {
	if c == nil {
		return
	}
	b, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = c.Set(ctx, key, b, ttl)
}

func cacheGet[T any](c ports.Cache, ctx context.Context, key string) (*T, bool) {
	if c == nil {
		return nil, false
	}
	b, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// CachingTermRepository decorates a TermRepository with cache-aside reads.
// Term detail is the hot path (every gated content view hits it), so lookups
// are coalesced with singleflight.
type CachingTermRepository struct {
	inner ports.TermRepository
	cache ports.Cache
	ttl   time.Duration
}

func NewCachingTermRepository(inner ports.TermRepository, cache ports.Cache, ttl time.Duration) ports.TermRepository {
	return &CachingTermRepository{inner: inner, cache: cache, ttl: ttl}
}

func (r *CachingTermRepository) GetBySlug(ctx context.Context, slug string) (*term.Term, error) {
	key := "term:slug:" + slug
	if v, ok := cacheGet[term.Term](r.cache, ctx, key); ok {
		return v, nil
	}

	res, err, _ := sf.Do(key, func() (any, error) {
		if v, ok := cacheGet[term.Term](r.cache, ctx, key); ok {
			return v, nil
		}
		t, err := r.inner.GetBySlug(ctx, slug)
		if err != nil {
			return nil, err
		}
		cacheSetSilently(r.cache, ctx, key, t, r.ttl)
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	t, ok := res.(*term.Term)
	if !ok {
		return nil, fmt.Errorf("unexpected type from singleflight result")
	}
	return t, nil
}

// List and Count pass through: listings are paginated and filtered, so the
// cache hit rate would not justify the invalidation complexity.
func (r *CachingTermRepository) List(ctx context.Context, filter *term.ListFilter) ([]*term.Term, error) {
	return r.inner.List(ctx, filter)
}

func (r *CachingTermRepository) Count(ctx context.Context, filter *term.ListFilter) (int, error) {
	return r.inner.Count(ctx, filter)
}
