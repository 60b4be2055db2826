// Package scheduler runs the price-list batch jobs on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// JobRunner runs one named pricing job.
type JobRunner interface {
	RunPriceJob(ctx context.Context, job string) error
}

type Scheduler struct {
	cron    *cron.Cron
	runner  JobRunner
	jobs    []string
	timeout time.Duration
}

// New builds a scheduler that runs jobs in order on every tick. A tick is
// skipped while the previous one is still running.
func New(runner JobRunner, loc *time.Location, jobs ...string) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	logger := slogLogger{}
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithParser(cronParser),
			cron.WithLogger(logger),
			cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
		),
		runner:  runner,
		jobs:    jobs,
		timeout: time.Minute,
	}
}

func (s *Scheduler) Schedule(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	slog.Info("price jobs scheduled", "spec", spec, "jobs", s.jobs)
	return nil
}

// RunOnce runs every job once, stopping at the first failure.
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	for _, job := range s.jobs {
		if err := s.runner.RunPriceJob(ctx, job); err != nil {
			slog.Error("scheduled price job failed", "job", job, "error", err)
			return
		}
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for a running tick, or until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
