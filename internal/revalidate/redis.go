package revalidate

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const (
	// pageKeyPrefix is where the rendering layer caches generated pages.
	pageKeyPrefix = "page:"
	// revalidateChannel carries invalidated paths to subscribed renderers.
	revalidateChannel = "revalidate"
)

// RedisInvalidator drops the cached page and announces the path on the
// revalidation channel in one pipeline.
type RedisInvalidator struct {
	client *redis.Client
}

func NewRedisInvalidator(client *redis.Client) *RedisInvalidator {
	return &RedisInvalidator{client: client}
}

func (r *RedisInvalidator) Invalidate(ctx context.Context, path string) error {
	pipe := r.client.Pipeline()
	pipe.Del(ctx, pageKeyPrefix+path)
	pipe.Publish(ctx, revalidateChannel, path)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("invalidate %s: %w", path, err)
	}
	return nil
}

// NoopInvalidator is used when no cache backend is configured; pages are
// regenerated on every request anyway.
type NoopInvalidator struct{}

func (NoopInvalidator) Invalidate(context.Context, string) error { return nil }
