package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"dukkan/backend/internal/domain"
)

func TestRedisReportCacheInvalidateBumpsGeneration(t *testing.T) {
	addr := os.Getenv("DUKKAN_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set DUKKAN_TEST_REDIS_ADDR to run redis cache test")
	}
	c := NewRedisReportCache(NewRedisClient(addr, "", 0))
	t.Cleanup(func() { _ = c.Close() })
	ctx := context.Background()

	if err := c.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
	before, err := c.Generation(ctx)
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	if err := c.Invalidate(ctx); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	after, err := c.Generation(ctx)
	if err != nil {
		t.Fatalf("generation: %v", err)
	}
	if after != before+1 {
		t.Fatalf("expected generation %d, got %d", before+1, after)
	}

	report := &domain.Report{TotalCarts: 42}
	if err := c.Set(ctx, "dukkan:test:report", report, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, ok, err := c.Get(ctx, "dukkan:test:report")
	if err != nil || !ok {
		t.Fatalf("expected cached report, ok=%v err=%v", ok, err)
	}
	if got.TotalCarts != 42 {
		t.Fatalf("expected totalCarts 42, got %v", got.TotalCarts)
	}
}
