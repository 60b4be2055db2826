package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"dukkan/backend/internal/cache"
	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/store"
)

type Engine struct {
	store    store.Store
	cache    cache.ReportCache
	cacheTTL time.Duration
}

func NewEngine(s store.Store, cacheStore cache.ReportCache, cacheTTL time.Duration) *Engine {
	if cacheStore == nil {
		cacheStore = cache.NoopReportCache{}
	}
	if cacheTTL <= 0 {
		cacheTTL = 30 * time.Second
	}

	return &Engine{
		store:    s,
		cache:    cacheStore,
		cacheTTL: cacheTTL,
	}
}

// Daily loads carts, expenses and debts and aggregates them for date. It
// never writes to the store.
func (e *Engine) Daily(ctx context.Context, date domain.CalendarDate) (domain.Report, error) {
	cacheKey := ""
	if gen, err := e.cache.Generation(ctx); err == nil {
		cacheKey = buildCacheKey(gen, date)
		if cached, ok, err := e.cache.Get(ctx, cacheKey); err == nil && ok {
			return *cached, nil
		}
	} else {
		slog.Debug("report cache unavailable", "error", err)
	}

	var (
		carts    []domain.Cart
		expenses []domain.Expense
		debts    []domain.Debt
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		carts, err = store.Load[domain.Cart](gctx, e.store, store.Carts)
		return err
	})
	g.Go(func() (err error) {
		expenses, err = store.Load[domain.Expense](gctx, e.store, store.Expenses)
		return err
	})
	g.Go(func() (err error) {
		debts, err = store.Load[domain.Debt](gctx, e.store, store.Debts)
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Report{}, err
	}

	report := Aggregate(date, carts, expenses, debts)

	if cacheKey != "" {
		if err := e.cache.Set(ctx, cacheKey, &report, e.cacheTTL); err != nil {
			slog.Debug("report cache set failed", "key", cacheKey, "error", err)
		}
	}
	return report, nil
}

// Invalidate drops every cached report. Callers run it after any write.
func (e *Engine) Invalidate(ctx context.Context) {
	if err := e.cache.Invalidate(ctx); err != nil {
		slog.Warn("report cache invalidation failed", "error", err)
	}
}

func buildCacheKey(generation int64, date domain.CalendarDate) string {
	return fmt.Sprintf("dukkan:report:%d:%04d-%02d-%02d", generation, date.Year, int(date.Month), date.Day)
}
