package service

import (
	"context"
	"fmt"
	"time"

	"dukkan/backend/internal/domain"
	"dukkan/backend/internal/lock"
	"dukkan/backend/internal/metrics"
	"dukkan/backend/internal/report"
	"dukkan/backend/internal/store"
	"dukkan/backend/internal/xid"
)

// Pricing carries the externally configured exchange rate and multipliers
// consumed by the price-list batch jobs.
type Pricing struct {
	USDLBP float64
	Margin float64
	Profit float64
}

type Options struct {
	Location *time.Location
	Pricing  Pricing
	Locker   lock.Locker
	Metrics  *metrics.Metrics
	// Now overrides the wall clock, mostly for tests.
	Now func() time.Time
}

type Service struct {
	store   store.Store
	reports *report.Engine
	locker  lock.Locker
	metrics *metrics.Metrics
	pricing Pricing
	loc     *time.Location
	now     func() time.Time
	ids     xid.Sequence
}

func New(s store.Store, reports *report.Engine, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Locker == nil {
		opts.Locker = lock.NewLocal()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if reports == nil {
		reports = report.NewEngine(s, nil, 0)
	}

	return &Service{
		store:   s,
		reports: reports,
		locker:  opts.Locker,
		metrics: opts.Metrics,
		pricing: opts.Pricing,
		loc:     opts.Location,
		now:     opts.Now,
	}
}

// clock returns the current instant in the configured shop timezone.
func (s *Service) clock() time.Time {
	return s.now().In(s.loc)
}

func (s *Service) today() domain.CalendarDate {
	return domain.DateOf(s.clock())
}

// mutate runs fn while holding the write locks of every named collection and
// then drops cached reports. Reports are dropped even when fn fails, since a
// store may have written part of its documents before failing.
func (s *Service) mutate(ctx context.Context, fn func() error, names ...store.Collection) error {
	keys := make([]string, len(names))
	for i, name := range names {
		keys[i] = string(name)
	}
	release, err := s.locker.Acquire(ctx, keys...)
	if err != nil {
		return fmt.Errorf("lock %v: %w", keys, err)
	}
	defer release()

	err = fn()
	s.reports.Invalidate(context.WithoutCancel(ctx))
	return err
}

// nextID draws numeric ids until one is free in the loaded collection. Other
// instances keep their own sequences, so the check runs under the write lock.
func (s *Service) nextID(taken func(id int64) bool) int64 {
	id := s.ids.Next(s.now())
	for taken(id) {
		id = s.ids.Next(s.now())
	}
	return id
}

// uniqueStamp returns the timestamp id for now, suffixed when another record
// created within the same second already holds it.
func uniqueStamp(now time.Time, taken func(id domain.FlexString) bool) domain.FlexString {
	base := xid.Stamp(now)
	id := domain.FlexString(base)
	for n := 2; taken(id); n++ {
		id = domain.FlexString(fmt.Sprintf("%s-%d", base, n))
	}
	return id
}
