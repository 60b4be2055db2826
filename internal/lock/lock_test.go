package lock

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestLocalSerializesSameKey(t *testing.T) {
	l := NewLocal()
	ctx := context.Background()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Acquire(ctx, "products", "carts")
			if err != nil {
				t.Errorf("acquire: %v", err)
				return
			}
			defer release()
			current := counter
			time.Sleep(time.Microsecond)
			counter = current + 1
		}()
	}
	wg.Wait()

	require.Equal(t, 50, counter)
}

func TestLocalAcquireHonoursContext(t *testing.T) {
	l := NewLocal()
	release, err := l.Acquire(context.Background(), "products")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(ctx, "carts", "products")
	require.ErrorIs(t, err, context.DeadlineExceeded)

	// carts was taken before products blocked and must have been given back
	releaseCarts, err := l.Acquire(context.Background(), "carts")
	require.NoError(t, err)
	releaseCarts()
}

func TestLocalReleaseIsIdempotent(t *testing.T) {
	l := NewLocal()
	release, err := l.Acquire(context.Background(), "debts", "debts")
	require.NoError(t, err)
	release()
	release()

	again, err := l.Acquire(context.Background(), "debts")
	require.NoError(t, err)
	again()
}

func TestRedisLockExcludesSecondHolder(t *testing.T) {
	addr := os.Getenv("DUKKAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set DUKKAN_TEST_REDIS_ADDR to run redis lock test")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	locker := NewRedis(client, "dukkan:test:lock:")
	release, err := locker.Acquire(context.Background(), "products")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err = locker.Acquire(ctx, "products")
	require.ErrorIs(t, err, ErrBusy)

	release()
	releaseAgain, err := locker.Acquire(context.Background(), "products")
	require.NoError(t, err)
	releaseAgain()
}
