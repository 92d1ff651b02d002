package cache

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"stock-ai-analyst/resolver"
)

// AnswerCache caches successful resolution results keyed by question text,
// so repeated questions skip the pipeline entirely. Nil-safe: with no Redis
// connection every lookup misses and every store is an error the caller may
// ignore.
type AnswerCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewAnswerCache creates a new answer cache instance
func NewAnswerCache(redis *RedisClient, ttl time.Duration) *AnswerCache {
	return &AnswerCache{
		redis: redis,
		ttl:   ttl,
	}
}

// Get retrieves a cached result for a question.
// Returns the cached result and true if found, nil and false otherwise.
func (c *AnswerCache) Get(ctx context.Context, question string) (*resolver.Result, bool) {
	if c.redis == nil {
		return nil, false
	}

	var result resolver.Result
	if err := c.redis.Get(ctx, answerKey(question), &result); err != nil {
		return nil, false
	}

	return &result, true
}

// Set caches a resolution result for a question.
func (c *AnswerCache) Set(ctx context.Context, question string, result *resolver.Result) error {
	if c.redis == nil {
		return fmt.Errorf("redis client not available")
	}

	return c.redis.Set(ctx, answerKey(question), result, c.ttl)
}

// answerKey hashes the normalized question text into a cache key.
func answerKey(question string) string {
	normalized := strings.ToLower(strings.TrimSpace(question))
	hash := md5.Sum([]byte(normalized))
	return fmt.Sprintf("query:answer:%x", hash[:8])
}
