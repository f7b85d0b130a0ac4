package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"wikiquiz/internal/cache"
	"wikiquiz/internal/domain"
	"wikiquiz/internal/logger"
)

// DefaultArticleCacheExpiration applies when the configured TTL is zero.
const DefaultArticleCacheExpiration = 24 * time.Hour

// ArticleCacheService defines the interface for article caching operations.
// Callers treat every failure as a miss, so generation degrades to
// fetching from Wikipedia instead of erroring out when Redis is down.
type ArticleCacheService interface {
	GetArticle(ctx context.Context, url string) (*domain.Article, error)
	PutArticle(ctx context.Context, article *domain.Article) error
}

// articleCacheServiceImpl implements ArticleCacheService
type articleCacheServiceImpl struct {
	cache      domain.Cache
	expiration time.Duration
}

// NewArticleCacheService creates a new instance of articleCacheServiceImpl.
func NewArticleCacheService(cacheClient domain.Cache, expiration time.Duration) ArticleCacheService {
	if expiration <= 0 {
		expiration = DefaultArticleCacheExpiration
	}
	return &articleCacheServiceImpl{
		cache:      cacheClient,
		expiration: expiration,
	}
}

// GetArticle retrieves a previously extracted article. A plain miss and a
// corrupt entry both return (nil, nil); only backend failures surface as
// errors, and callers are expected to continue without the cache.
func (s *articleCacheServiceImpl) GetArticle(ctx context.Context, url string) (*domain.Article, error) {
	if s.cache == nil {
		return nil, nil
	}

	cacheKey := articleCacheKey(url)
	cached, err := s.cache.Get(ctx, cacheKey)
	if err != nil {
		if err == domain.ErrCacheMiss {
			logger.Get().Debug("ArticleCacheService: Cache miss", zap.String("key", cacheKey), zap.String("url", url))
			return nil, nil
		}
		logger.Get().Error("ArticleCacheService: Cache Get failed",
			zap.Error(err),
			zap.String("key", cacheKey),
			zap.String("url", url))
		return nil, err
	}

	var article domain.Article
	if errUnmarshal := json.Unmarshal([]byte(cached), &article); errUnmarshal != nil {
		logger.Get().Warn("ArticleCacheService: Failed to unmarshal cached article, treating as miss",
			zap.Error(errUnmarshal),
			zap.String("key", cacheKey),
			zap.String("url", url))
		return nil, nil
	}

	logger.Get().Debug("ArticleCacheService: Cache hit", zap.String("key", cacheKey), zap.String("url", url))
	return &article, nil
}

// PutArticle stores an extracted article for reuse.
func (s *articleCacheServiceImpl) PutArticle(ctx context.Context, article *domain.Article) error {
	if s.cache == nil || article == nil {
		return nil
	}

	cacheKey := articleCacheKey(article.URL)
	data, err := json.Marshal(article)
	if err != nil {
		logger.Get().Error("ArticleCacheService: Failed to marshal article for caching",
			zap.Error(err),
			zap.String("url", article.URL))
		return err
	}

	if err := s.cache.Set(ctx, cacheKey, string(data), s.expiration); err != nil {
		logger.Get().Error("ArticleCacheService: Failed to cache article",
			zap.Error(err),
			zap.String("key", cacheKey),
			zap.String("url", article.URL))
		return err
	}

	logger.Get().Debug("ArticleCacheService: Article cached",
		zap.String("key", cacheKey),
		zap.String("url", article.URL),
		zap.Duration("ttl", s.expiration))
	return nil
}

// articleCacheKey derives the cache key for one canonical article URL.
// Hashing keeps keys short and free of characters Redis tooling trips on.
func articleCacheKey(url string) string {
	return cache.GenerateCacheKey("article", "content", hashString(url))
}

func hashString(s string) string {
	hash := sha256.Sum256([]byte(s))
	return hex.EncodeToString(hash[:])
}
