package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bsm/redislock"
	redis "github.com/redis/go-redis/v9"
)

// Redis holds keys across every instance sharing the same redis.
type Redis struct {
	client  *redislock.Client
	prefix  string
	ttl     time.Duration
	wait    time.Duration
	backoff time.Duration
}

func NewRedis(client *redis.Client, prefix string) *Redis {
	if prefix == "" {
		prefix = "dukkan:lock:"
	}
	return &Redis{
		client:  redislock.New(client),
		prefix:  prefix,
		ttl:     30 * time.Second,
		wait:    5 * time.Second,
		backoff: 50 * time.Millisecond,
	}
}

func (r *Redis) Acquire(ctx context.Context, keys ...string) (func(), error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.wait)
		defer cancel()
	}

	held := make([]*redislock.Lock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// the request context may already be cancelled
			if err := held[i].Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				slog.Warn("release collection lock", "key", held[i].Key(), "error", err)
			}
		}
	}

	for _, key := range sortedUnique(keys) {
		l, err := r.client.Obtain(ctx, r.prefix+key, r.ttl, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(r.backoff),
		})
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrBusy, key)
			}
			return nil, err
		}
		held = append(held, l)
	}
	return onceFunc(release), nil
}
