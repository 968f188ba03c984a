package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"quiz-gen/internal/cache"
	"quiz-gen/internal/domain"
	"quiz-gen/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const DefaultExtractTTL = 24 * time.Hour

// CachedExtractor memoizes extracted text per URL. Cache failures degrade to a
// plain extraction; extraction errors are never stored.
type CachedExtractor struct {
	next    domain.ContentExtractor
	cache   domain.Cache
	ttl     time.Duration
	sfGroup singleflight.Group
}

// NewCachedExtractor returns next unchanged when cache is nil.
func NewCachedExtractor(next domain.ContentExtractor, c domain.Cache, ttl time.Duration) domain.ContentExtractor {
	if c == nil {
		logger.Get().Warn("CachedExtractor initialized with nil cache, extraction will not be cached")
		return next
	}
	if ttl <= 0 {
		ttl = DefaultExtractTTL
	}
	return &CachedExtractor{next: next, cache: c, ttl: ttl}
}

func hashString(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// ExtractCacheKey is the cache key holding the extracted text of url.
func ExtractCacheKey(url string) string {
	return cache.GenerateCacheKey("extract", "text", hashString(url))
}

func (c *CachedExtractor) Extract(ctx context.Context, url string) (string, error) {
	key := ExtractCacheKey(url)

	cached, err := c.cache.Get(ctx, key)
	switch {
	case err == nil:
		logger.Get().Debug("Extraction cache hit", zap.String("key", key))
		return cached, nil
	case errors.Is(err, domain.ErrCacheMiss):
		logger.Get().Debug("Extraction cache miss", zap.String("key", key))
	default:
		logger.Get().Warn("Extraction cache read failed", zap.String("key", key), zap.Error(err))
	}

	// The shared call outlives any single caller, so it must not inherit the
	// first caller's cancellation.
	sharedCtx := context.WithoutCancel(ctx)
	res, err, shared := c.sfGroup.Do(key, func() (interface{}, error) {
		text, fetchErr := c.next.Extract(sharedCtx, url)
		if fetchErr != nil {
			return nil, fetchErr
		}
		if setErr := c.cache.Set(sharedCtx, key, text, c.ttl); setErr != nil {
			logger.Get().Warn("Failed to cache extracted text", zap.String("key", key), zap.Error(setErr))
		}
		return text, nil
	})
	if err != nil {
		return "", err
	}
	if shared {
		logger.Get().Debug("Extraction shared with concurrent request", zap.String("key", key))
	}

	if text, ok := res.(string); ok {
		return text, nil
	}
	return "", domain.NewInternalError(fmt.Sprintf("unexpected type from singleflight.Do for extraction: %T", res), nil)
}

var _ domain.ContentExtractor = (*CachedExtractor)(nil)
